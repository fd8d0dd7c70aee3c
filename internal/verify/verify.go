// Package verify checks the structural invariants a compiled program
// must satisfy after the peephole passes run (spec §3.4, §8). Cheap
// structural checks (reserved bits, odd alignment, adjacent dummy
// pairs) run first; the more expensive fixed-point re-application
// check runs last, since it's the only one that needs to clone and
// re-process the whole program.
package verify

import (
	"fmt"

	"github.com/oisee/aicadsp/internal/peephole"
	"github.com/oisee/aicadsp/internal/program"
	"github.com/oisee/aicadsp/internal/step"
)

// OddAlignment reports every MRD or MWT step that does not sit at an
// odd index.
func OddAlignment(p *program.CompiledProgram) error {
	for i, w := range p.Steps {
		if (step.MRD.IsSet(w) || step.MWT.IsSet(w)) && i%2 == 0 {
			return fmt.Errorf("verify: step %d carries MRD/MWT at an even index", i)
		}
	}
	return nil
}

// LoadLatency reports any MRD step whose partner IWT two steps later
// is missing or whose IWA doesn't match what the read expects. Since
// the compiler never records which IWA a given read targets once
// lowering is done, this check only confirms IWT is present at i+2 —
// consistency of the IWA value itself is enforced at construction time
// by the lowerer and load pipeliner, not re-derivable after the fact.
func LoadLatency(p *program.CompiledProgram) error {
	for i, w := range p.Steps {
		if !step.MRD.IsSet(w) {
			continue
		}
		j := i + 2
		if j >= p.Len() || !step.IWT.IsSet(p.Steps[j]) {
			return fmt.Errorf("verify: step %d (MRD) has no IWT partner at %d", i, j)
		}
	}
	return nil
}

// ReservedBitsZero reports the first step with a reserved bit set.
func ReservedBitsZero(p *program.CompiledProgram) error {
	for i, w := range p.Steps {
		if w.ReservedBitsSet() {
			return fmt.Errorf("verify: step %d has a reserved bit set", i)
		}
	}
	return nil
}

// NoAdjacentDummyPairs reports two adjacent zero-coefficient dummy-acc
// steps, which drop_nops should never leave behind.
func NoAdjacentDummyPairs(p *program.CompiledProgram) error {
	for i := 1; i < p.Len(); i++ {
		if step.IsDummyAcc(p.Steps[i]) && p.Coefs[i] == 0 &&
			step.IsDummyAcc(p.Steps[i-1]) && p.Coefs[i-1] == 0 {
			return fmt.Errorf("verify: adjacent dummy-acc pair at %d/%d", i-1, i)
		}
	}
	return nil
}

// TrickleIsFixedPoint reports whether re-running TrickleDown on a copy
// of p changes anything; it should never be able to, since All runs
// after trickling has already reached its fixed point.
func TrickleIsFixedPoint(p *program.CompiledProgram) error {
	clone := p.Clone()
	peephole.TrickleDown(clone)
	for i := range p.Steps {
		if clone.Steps[i] != p.Steps[i] || clone.Coefs[i] != p.Coefs[i] {
			return fmt.Errorf("verify: trickle_down is not a fixed point at step %d", i)
		}
	}
	return nil
}

// All runs every check in increasing cost order, stopping at the first failure.
func All(p *program.CompiledProgram) error {
	checks := []func(*program.CompiledProgram) error{
		ReservedBitsZero,
		OddAlignment,
		NoAdjacentDummyPairs,
		LoadLatency,
		TrickleIsFixedPoint,
	}
	for _, check := range checks {
		if err := check(p); err != nil {
			return err
		}
	}
	return nil
}
