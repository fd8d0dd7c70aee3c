// Package emit writes a compiled program as the downstream assembler's
// flat text format (spec §4.6, §6): it walks step.EmitOrder and builds
// one MPRO line per step from whichever fields are actually set.
package emit

import (
	"fmt"
	"io"

	"github.com/oisee/aicadsp/internal/program"
	"github.com/oisee/aicadsp/internal/step"
)

// Emit writes p's MADRS lines verbatim, then for each step index an
// optional COEF line followed by its MPRO field list, in that order.
func Emit(w io.Writer, p *program.CompiledProgram) error {
	for _, line := range p.MadrsLines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for i, s := range p.Steps {
		if p.Coefs[i] != 0 {
			if _, err := fmt.Fprintf(w, "COEF[%d] = %d\n", i, p.Coefs[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "MPRO[%d] =%s\n", i, fieldList(s)); err != nil {
			return err
		}
	}
	return nil
}

// fieldList renders every non-zero field of w, canonical order, as a
// space-prefixed " NAME" (single-bit fields) or " NAME:<value>".
func fieldList(w step.Word) string {
	var sb []byte
	for _, f := range step.EmitOrder {
		v := f.Get(w)
		if v == 0 {
			continue
		}
		sb = append(sb, ' ')
		sb = append(sb, f.Name...)
		if f.Bits != 1 {
			sb = append(sb, ':')
			sb = append(sb, []byte(fmt.Sprintf("%d", v))...)
		}
	}
	return string(sb)
}
