// Package peephole implements the three index-local optimization
// passes that run after lowering: load pipelining, NOP trickling, and
// NOP dropping (spec §4.3–§4.5). LoadPipeline checks earlier steps for
// a read of the MEMS index being loaded; TrickleDown repeats reverse
// sweeps until one makes no swap; DropNops makes a single high-to-low
// scan. Every pass is deterministic and single-threaded — no goroutines
// or channels appear here.
package peephole

import (
	"github.com/oisee/aicadsp/internal/program"
	"github.com/oisee/aicadsp/internal/step"
)

// LoadPipeline hoists each memory read's setup fields backward onto an
// earlier step, and the corresponding writeback two steps later,
// shortening the live range of the three-cycle read latency (§4.3).
func LoadPipeline(p *program.CompiledProgram) {
	for i := 3; i < p.Len(); i++ {
		if !step.MRD.IsSet(p.Steps[i]) || step.IWT.IsSet(p.Steps[i]) {
			continue
		}
		writeIdx := i + 2
		if writeIdx >= p.Len() || !step.IWT.IsSet(p.Steps[writeIdx]) {
			continue
		}
		k := step.IWA.Get(p.Steps[writeIdx])

		candidate := i
		for c := i - 1; c >= 2; c-- {
			if step.IWT.IsSet(p.Steps[c]) {
				break
			}
			reads := step.ADRL.IsSet(p.Steps[c]) || step.YRL.IsSet(p.Steps[c]) || step.XSEL.IsSet(p.Steps[c])
			if reads && step.IRA.Get(p.Steps[c]) == k {
				break
			}
			candidate = c
		}

		c := candidate | 1
		for c < p.Len() && step.MWT.IsSet(p.Steps[c]) {
			c += 2
		}
		if c >= i || c+2 >= p.Len() {
			continue
		}

		p.Steps[i], p.Steps[c] = step.MoveReadSetup(p.Steps[i], p.Steps[c])
		p.Steps[writeIdx], p.Steps[c+2] = step.MoveWriteback(p.Steps[writeIdx], p.Steps[c+2])
	}
}
