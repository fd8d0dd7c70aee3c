// Package lower implements the high-level-to-microcode lowerer
// (spec §4.2, the original's create_steps): it turns one source
// statement at a time into zero or more 64-bit step words, threading
// the two latched modes (current input selector, current shift mode)
// explicitly through a Lowerer value rather than ambient state.
//
// Every statement's own step is built from a zero word with its
// fields OR-ed in explicitly, except the memory steps of ST[F] and
// LD[F], which are built on "dummy_acc" (YSEL=1, BSEL=1). dummy_acc is
// otherwise the base only for no-op filler steps: the odd-alignment pad
// ahead of ST[F]/LD[F], LD[F]'s middle pipeline slot, and the extra
// fractional-latch step MAC's shifted:{lo,hi} operand inserts (FRCL,
// plus SHIFT=3 for lo, on top of dummy_acc) — the concrete worked
// examples of spec §8 show every other statement's step with YSEL/BSEL
// absent from its field list, so those two bits are never implicitly
// inherited.
package lower

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/oisee/aicadsp/internal/program"
	"github.com/oisee/aicadsp/internal/step"
)

// Lowerer holds the state latched across statements (§3.2) plus the
// program being built. A zero Lowerer starts with imode=0, smode=0
// (sat), matching the spec's initial conditions.
type Lowerer struct {
	imode uint8
	smode uint8

	Program *program.CompiledProgram
}

// New creates a Lowerer that appends to p.
func New(p *program.CompiledProgram) *Lowerer {
	return &Lowerer{Program: p}
}

var (
	inputRe    = regexp.MustCompile(`(?i)^INPUT\s+(mems|mixer|cdda)\s*:\s*(\d+)$`)
	outYregRe  = regexp.MustCompile(`(?i)^OUTPUT\s+yreg$`)
	outAdrsSRe = regexp.MustCompile(`(?i)^OUTPUT\s+adrs\s*/\s*s$`)
	outAdrsRe  = regexp.MustCompile(`(?i)^OUTPUT\s+adrs$`)
	outMixerRe = regexp.MustCompile(`(?i)^OUTPUT\s+mixer\s*:\s*(\d+)$`)
	smodeRe    = regexp.MustCompile(`(?i)^SMODE\s+(sat2|sat|trim2|trim)$`)
	sttempRe   = regexp.MustCompile(`(?i)^ST\s*\[\s*temp\s*:\s*(\d+)\s*\]$`)
	stmemRe    = regexp.MustCompile(`(?i)^(ST|STF)\s+(\S.*)$`)
	ldmemRe    = regexp.MustCompile(`(?i)^(LD|LDF)\s+(.+?)\s*,\s*mems\s*:\s*(\d+)\s*$`)
	macRe      = regexp.MustCompile(`(?i)^MAC\s+(.+)$`)
)

// Process lowers one statement, appending steps (and coefficients) to
// l.Program. It returns *SyntaxError if the line matches no rule, or
// *SemanticError if it matches but violates a field-range or
// consistency constraint.
func (l *Lowerer) Process(stmt string) error {
	switch {
	case inputRe.MatchString(stmt):
		return l.lowerInput(inputRe.FindStringSubmatch(stmt))
	case outYregRe.MatchString(stmt):
		return l.lowerOutputYreg()
	case outAdrsSRe.MatchString(stmt):
		return l.lowerOutputAdrsS()
	case outAdrsRe.MatchString(stmt):
		return l.lowerOutputAdrs()
	case outMixerRe.MatchString(stmt):
		return l.lowerOutputMixer(outMixerRe.FindStringSubmatch(stmt), stmt)
	case smodeRe.MatchString(stmt):
		return l.lowerSmode(smodeRe.FindStringSubmatch(stmt))
	case sttempRe.MatchString(stmt):
		return l.lowerStTemp(sttempRe.FindStringSubmatch(stmt), stmt)
	case ldmemRe.MatchString(stmt):
		return l.lowerLoad(ldmemRe.FindStringSubmatch(stmt), stmt)
	case stmemRe.MatchString(stmt):
		return l.lowerStore(stmemRe.FindStringSubmatch(stmt), stmt)
	case macRe.MatchString(stmt):
		return l.lowerMac(macRe.FindStringSubmatch(stmt), stmt)
	default:
		return &SyntaxError{Line: stmt}
	}
}

// alignOdd appends a dummy-acc step if the program currently has an
// even number of steps, so the next appended step lands at an odd
// index (§4.2's memory-statement alignment rule, §3.4's invariant).
func (l *Lowerer) alignOdd() {
	if l.Program.Len()%2 == 0 {
		l.Program.AppendStep(step.DummyAcc, 0)
	}
}

func (l *Lowerer) lowerInput(m []string) error {
	src := strings.ToLower(m[1])
	idx, _ := strconv.Atoi(m[2])

	var off, limit int
	switch src {
	case "mems":
		off, limit = 0, 32
	case "mixer":
		off, limit = 32, 16
	case "cdda":
		off, limit = 48, 2
	}
	if idx >= limit {
		return &SemanticError{Matched: m[0]}
	}
	l.imode = uint8(idx + off)
	return nil
}

func (l *Lowerer) lowerOutputYreg() error {
	w := step.IRA.Set(0, uint64(l.imode))
	w = step.YRL.Bit(w)
	l.Program.AppendStep(w, 0)
	return nil
}

func (l *Lowerer) lowerOutputAdrs() error {
	if l.smode == 3 {
		first := step.SHIFT.Set(0, uint64(l.smode))
		first = step.ADRL.Bit(first)
		l.Program.AppendStep(first, 0)

		second := step.IRA.Set(0, uint64(l.imode))
		second = step.ADRL.Bit(second)
		l.Program.AppendStep(second, 0)
		return nil
	}
	w := step.IRA.Set(0, uint64(l.imode))
	w = step.SHIFT.Set(w, uint64(l.smode))
	w = step.ADRL.Bit(w)
	l.Program.AppendStep(w, 0)
	return nil
}

func (l *Lowerer) lowerOutputAdrsS() error {
	w := step.IRA.Set(0, uint64(l.imode))
	w = step.ADRL.Bit(w)
	w = step.SHIFT.Set(w, 3)
	l.Program.AppendStep(w, 0)
	return nil
}

func (l *Lowerer) lowerOutputMixer(m []string, stmt string) error {
	n, _ := strconv.Atoi(m[1])
	if n >= 16 {
		return &SemanticError{Matched: stmt}
	}
	w := step.EWT.Bit(0)
	w = step.EWA.Set(w, uint64(n))
	w = step.SHIFT.Set(w, uint64(l.smode))
	l.Program.AppendStep(w, 0)
	return nil
}

func (l *Lowerer) lowerSmode(m []string) error {
	switch strings.ToLower(m[1]) {
	case "sat":
		l.smode = 0
	case "sat2":
		l.smode = 1
	case "trim2":
		l.smode = 2
	case "trim":
		l.smode = 3
	}
	return nil
}

func (l *Lowerer) lowerStTemp(m []string, stmt string) error {
	n, _ := strconv.Atoi(m[1])
	if n >= 128 {
		return &SemanticError{Matched: stmt}
	}
	w := step.SHIFT.Set(0, uint64(l.smode))
	w = step.TWT.Bit(w)
	w = step.TWA.Set(w, uint64(n))
	l.Program.AppendStep(w, 0)
	return nil
}

func (l *Lowerer) lowerStore(m []string, stmt string) error {
	isFloat := strings.EqualFold(m[1], "STF")
	addr, err := parseMemAddr(m[2], stmt)
	if err != nil {
		return err
	}

	l.alignOdd()

	w := step.SHIFT.Set(step.DummyAcc, uint64(l.smode))
	w = step.MWT.Bit(w)
	if !addr.bracketed {
		w = step.TABLE.Bit(w)
	}
	if addr.adreb {
		w = step.ADREB.Bit(w)
	}
	if addr.nxadr {
		w = step.NXADR.Bit(w)
	}
	if !isFloat {
		w = step.NOFL.Bit(w)
	}
	w = step.MASA.Set(w, uint64(addr.n))
	l.Program.AppendStep(w, 0)
	return nil
}

func (l *Lowerer) lowerLoad(m []string, stmt string) error {
	isFloat := strings.EqualFold(m[1], "LDF")
	addr, err := parseMemAddr(m[2], stmt)
	if err != nil {
		return err
	}
	k, err := strconv.Atoi(m[3])
	if err != nil || k >= 32 {
		return &SemanticError{Matched: stmt}
	}

	l.alignOdd()

	// Both memory steps below are built on dummy_acc rather than zero:
	// once the load pipeliner hoists MRD/TABLE/.../MASA off the read
	// and IWT/IWA off the writeback, what's left behind must still read
	// back as a genuine no-op for trickle_down/drop_nops to recognize.
	read := step.MRD.Bit(step.DummyAcc)
	if !addr.bracketed {
		read = step.TABLE.Bit(read)
	}
	if addr.adreb {
		read = step.ADREB.Bit(read)
	}
	if addr.nxadr {
		read = step.NXADR.Bit(read)
	}
	if !isFloat {
		read = step.NOFL.Bit(read)
	}
	read = step.MASA.Set(read, uint64(addr.n))
	l.Program.AppendStep(read, 0)

	l.Program.AppendStep(step.DummyAcc, 0)

	writeback := step.IWT.Bit(step.DummyAcc)
	writeback = step.IWA.Set(writeback, uint64(k))
	l.Program.AppendStep(writeback, 0)
	return nil
}

var (
	xTempRe  = regexp.MustCompile(`(?i)^\[\s*temp\s*:\s*(\d+)\s*\]$`)
	yShiftRe = regexp.MustCompile(`(?i)^shifted\s*:\s*(lo|hi)$`)
	yYregRe  = regexp.MustCompile(`(?i)^yreg\s*:\s*(lo|hi)$`)
	yImmRe   = regexp.MustCompile(`(?i)^#(.+)$`)
	bAccRe   = regexp.MustCompile(`(?i)^(-)?\s*acc$`)
	bTempRe  = regexp.MustCompile(`(?i)^(-)?\s*\[\s*temp\s*:\s*(\d+)\s*\]$`)
)

// macOperands is the decoded, not-yet-emitted state of one MAC
// statement's X/Y/B operands.
type macOperands struct {
	xsel  bool
	xTemp bool
	xTRA  uint64
	ysel  uint64
	// extraOp is the fractional-latch pre-step shifted:{lo,hi} inserts.
	extraOp  *step.Word
	coef     int16
	bZero    bool
	bNeg     bool
	bSel     bool
	bTRA     uint64
	bHasTemp bool
}

func (l *Lowerer) lowerMac(m []string, stmt string) error {
	parts := splitTopLevel(m[1])
	if len(parts) < 2 || len(parts) > 3 {
		return &SemanticError{Matched: stmt}
	}

	ops := macOperands{bZero: true}

	xRaw := strings.TrimSpace(parts[0])
	switch {
	case strings.EqualFold(xRaw, "input"):
		ops.xsel = true
	case xTempRe.MatchString(xRaw):
		n, _ := strconv.Atoi(xTempRe.FindStringSubmatch(xRaw)[1])
		if n >= 128 {
			return &SemanticError{Matched: stmt}
		}
		ops.xTemp = true
		ops.xTRA = uint64(n)
	default:
		return &SemanticError{Matched: stmt}
	}

	yRaw := strings.TrimSpace(parts[1])
	switch {
	case yYregRe.MatchString(yRaw):
		half := strings.ToLower(yYregRe.FindStringSubmatch(yRaw)[1])
		if half == "hi" {
			ops.ysel = 2
		} else {
			ops.ysel = 3
		}
	case yShiftRe.MatchString(yRaw):
		half := strings.ToLower(yShiftRe.FindStringSubmatch(yRaw)[1])
		extra := step.FRCL.Bit(step.DummyAcc)
		if half == "lo" {
			extra = step.SHIFT.Set(extra, 3)
		}
		ops.extraOp = &extra
		ops.ysel = 0
	case yImmRe.MatchString(yRaw):
		litRaw := yImmRe.FindStringSubmatch(yRaw)[1]
		v, err := parseImmediate(litRaw)
		if err != nil {
			return &SemanticError{Matched: stmt}
		}
		ops.ysel = 1
		ops.coef = int16(v << 3)
	default:
		return &SemanticError{Matched: stmt}
	}

	if len(parts) == 3 {
		bRaw := strings.TrimSpace(parts[2])
		ops.bZero = false
		switch {
		case bAccRe.MatchString(bRaw):
			g := bAccRe.FindStringSubmatch(bRaw)
			ops.bNeg = g[1] == "-"
			ops.bSel = true
		case bTempRe.MatchString(bRaw):
			g := bTempRe.FindStringSubmatch(bRaw)
			ops.bNeg = g[1] == "-"
			n, _ := strconv.Atoi(g[2])
			if n >= 128 {
				return &SemanticError{Matched: stmt}
			}
			ops.bHasTemp = true
			ops.bTRA = uint64(n)
		default:
			return &SemanticError{Matched: stmt}
		}
	}

	if ops.xTemp && ops.bHasTemp && ops.xTRA != ops.bTRA {
		return &SemanticError{Matched: stmt}
	}

	if ops.extraOp != nil {
		l.Program.AppendStep(*ops.extraOp, 0)
	}

	w := step.Word(0)
	if ops.xsel {
		w = step.XSEL.Bit(w)
		w = step.IRA.Set(w, uint64(l.imode))
	}
	if ops.xTemp {
		w = step.TRA.Set(w, ops.xTRA)
	}
	w = step.YSEL.Set(w, ops.ysel)
	if ops.bZero {
		w = step.ZERO.Bit(w)
	} else {
		if ops.bNeg {
			w = step.NEGB.Bit(w)
		}
		if ops.bSel {
			w = step.BSEL.Bit(w)
		}
		if ops.bHasTemp {
			w = step.TRA.Set(w, ops.bTRA)
		}
	}

	l.Program.AppendStep(w, ops.coef)
	return nil
}

// splitTopLevel splits a MAC operand list on commas. The grammar never
// nests commas inside brackets, so a plain split is sufficient.
func splitTopLevel(s string) []string {
	raw := strings.Split(s, ",")
	out := make([]string, len(raw))
	for i, p := range raw {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
