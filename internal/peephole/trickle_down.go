package peephole

import (
	"github.com/oisee/aicadsp/internal/program"
	"github.com/oisee/aicadsp/internal/step"
)

// TrickleDown repeatedly sweeps high-to-low, swapping any movable step
// with an immediately preceding zero-coefficient dummy-acc, until a
// full sweep makes no change (§4.4). The reverse-sweep order is load
// bearing: it bounds how far a useful step can migrate in one pass.
func TrickleDown(p *program.CompiledProgram) {
	for {
		changed := false
		for i := p.Len() - 1; i >= 1; i-- {
			if !movable(p.Steps[i]) {
				continue
			}
			if step.IsDummyAcc(p.Steps[i-1]) && p.Coefs[i-1] == 0 {
				p.Steps[i], p.Steps[i-1] = p.Steps[i-1], p.Steps[i]
				p.Coefs[i], p.Coefs[i-1] = p.Coefs[i-1], p.Coefs[i]
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func movable(w step.Word) bool {
	if step.IsDummyAcc(w) {
		return false
	}
	return !step.MWT.IsSet(w) && !step.MRD.IsSet(w) && !step.IWT.IsSet(w)
}
