package lower

import (
	"regexp"
	"strconv"
	"strings"
)

// memAddr is a parsed ST/LD memory address operand (§6 addr grammar).
type memAddr struct {
	n         int
	bracketed bool // true => sample-relative (TABLE cleared)
	adreb     bool // "/s" suffix: add ADRS to offset
	nxadr     bool // "+" suffix: post-increment offset
}

// addrInnerRe matches the unbracketed body of an address: "madrs:N",
// optionally followed by "+" (post-increment) and/or "/s" (ADRS-relative).
//
// The original source's ST and LD regexes disagreed on whether
// whitespace before "+" was optional or mandatory (spec §9 open
// question); this implementation shares one regex between ST[F] and
// LD[F] and always treats the whitespace as optional.
var addrInnerRe = regexp.MustCompile(`(?i)^madrs\s*:\s*(\d+)\s*(\+)?\s*(/s)?$`)

// parseMemAddr parses the address operand of an ST[F]/LD[F] statement.
// fullStmt is the original statement text, used verbatim in any
// SemanticError so the caller doesn't need to reconstruct it.
func parseMemAddr(raw, fullStmt string) (memAddr, error) {
	s := strings.TrimSpace(raw)
	openBracket := strings.HasPrefix(s, "[")
	closeBracket := strings.HasSuffix(s, "]")
	if openBracket != closeBracket {
		return memAddr{}, &SemanticError{Matched: fullStmt}
	}
	if openBracket {
		s = strings.TrimPrefix(s, "[")
		s = strings.TrimSuffix(s, "]")
	}
	s = strings.TrimSpace(s)

	m := addrInnerRe.FindStringSubmatch(s)
	if m == nil {
		return memAddr{}, &SemanticError{Matched: fullStmt}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n >= 64 {
		return memAddr{}, &SemanticError{Matched: fullStmt}
	}
	return memAddr{
		n:         n,
		bracketed: openBracket,
		nxadr:     m[2] != "",
		adreb:     m[3] != "",
	}, nil
}

// parseImmediate parses a signed decimal or 0x-prefixed hex literal,
// as used by MAC's "#<imm>" operand (§4.2, §6).
func parseImmediate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}
	var v int64
	var err error
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		v, err = strconv.ParseInt(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}
