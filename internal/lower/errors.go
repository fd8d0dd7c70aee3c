package lower

import "fmt"

// SyntaxError reports a line matching no statement rule (§7.1). The
// CLI driver logs it and moves on to the next line — no output is
// produced for the offending line, but compilation otherwise continues.
type SyntaxError struct {
	Line string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Unhandled instruction: %s", e.Line)
}

// SemanticError reports a field value out of range, a malformed
// address, or a MAC with conflicting temp indices (§7.2). It is fatal
// to the whole compilation.
type SemanticError struct {
	Matched string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("Invalid instruction: %s", e.Matched)
}
