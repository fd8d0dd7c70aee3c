package peephole

import (
	"github.com/oisee/aicadsp/internal/program"
	"github.com/oisee/aicadsp/internal/step"
)

// DropNops scans high to low and splices out any pair of adjacent
// zero-coefficient dummy-acc steps (§4.5). Deletions always come in
// pairs, so odd alignment of memory-access steps is preserved.
func DropNops(p *program.CompiledProgram) {
	i := p.Len() - 1
	for i >= 1 {
		if isZeroDummy(p, i) && isZeroDummy(p, i-1) {
			p.Steps = append(p.Steps[:i-1], p.Steps[i+1:]...)
			p.Coefs = append(p.Coefs[:i-1], p.Coefs[i+1:]...)
			i -= 2
			continue
		}
		i--
	}
}

func isZeroDummy(p *program.CompiledProgram, i int) bool {
	return step.IsDummyAcc(p.Steps[i]) && p.Coefs[i] == 0
}
