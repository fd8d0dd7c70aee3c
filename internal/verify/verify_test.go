package verify

import (
	"testing"

	"github.com/oisee/aicadsp/internal/program"
	"github.com/oisee/aicadsp/internal/step"
)

func mkProgram(steps []step.Word, coefs []int16) *program.CompiledProgram {
	p := program.New()
	for i, s := range steps {
		var c int16
		if coefs != nil {
			c = coefs[i]
		}
		p.AppendStep(s, c)
	}
	return p
}

func TestOddAlignmentRejectsEvenMRD(t *testing.T) {
	p := mkProgram([]step.Word{step.MRD.Bit(0)}, nil)
	if err := OddAlignment(p); err == nil {
		t.Error("expected error for MRD at index 0")
	}
}

func TestOddAlignmentAcceptsOddMRD(t *testing.T) {
	p := mkProgram([]step.Word{step.DummyAcc, step.MRD.Bit(0)}, nil)
	if err := OddAlignment(p); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadLatencyRequiresPartner(t *testing.T) {
	p := mkProgram([]step.Word{step.DummyAcc, step.MRD.Bit(0), step.DummyAcc}, nil)
	if err := LoadLatency(p); err == nil {
		t.Error("expected error for missing IWT partner")
	}
}

func TestLoadLatencyAcceptsPresentPartner(t *testing.T) {
	p := mkProgram([]step.Word{
		step.DummyAcc,
		step.MRD.Bit(0),
		step.DummyAcc,
		step.IWT.Bit(0),
	}, nil)
	if err := LoadLatency(p); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReservedBitsZeroRejectsReservedBit(t *testing.T) {
	p := mkProgram([]step.Word{step.Word(uint64(1) << 48)}, nil)
	if err := ReservedBitsZero(p); err == nil {
		t.Error("expected error for reserved bit 48")
	}
}

func TestReservedBitsZeroAcceptsCleanWord(t *testing.T) {
	p := mkProgram([]step.Word{step.YRL.Bit(0)}, nil)
	if err := ReservedBitsZero(p); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNoAdjacentDummyPairsRejectsPair(t *testing.T) {
	p := mkProgram([]step.Word{step.DummyAcc, step.DummyAcc}, nil)
	if err := NoAdjacentDummyPairs(p); err == nil {
		t.Error("expected error for adjacent zero-coef dummy-acc pair")
	}
}

func TestNoAdjacentDummyPairsAllowsNonzeroCoef(t *testing.T) {
	p := mkProgram([]step.Word{step.DummyAcc, step.DummyAcc}, []int16{0, 5})
	if err := NoAdjacentDummyPairs(p); err != nil {
		t.Errorf("a dummy-acc carrying a coefficient is not a true no-op: %v", err)
	}
}

func TestTrickleIsFixedPointRejectsUnsettledProgram(t *testing.T) {
	p := mkProgram([]step.Word{step.DummyAcc, step.YRL.Bit(0)}, nil)
	if err := TrickleIsFixedPoint(p); err == nil {
		t.Error("expected error: a movable step still sits after a dummy-acc")
	}
}

func TestTrickleIsFixedPointAcceptsSettledProgram(t *testing.T) {
	p := mkProgram([]step.Word{step.YRL.Bit(0), step.DummyAcc}, nil)
	if err := TrickleIsFixedPoint(p); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAllStopsAtFirstFailure(t *testing.T) {
	// A reserved bit plus MRD at an even index with no IWT partner fails
	// ReservedBitsZero, OddAlignment and LoadLatency; All must report the
	// reserved-bit check, which runs first.
	p := mkProgram([]step.Word{step.MRD.Bit(step.Word(uint64(1) << 48))}, nil)
	err := All(p)
	if err == nil {
		t.Fatal("expected All to fail on the reserved-bit check")
	}
	if err.Error() != "verify: step 0 has a reserved bit set" {
		t.Errorf("All reported %q, want the reserved-bit failure", err)
	}
}

func TestAllAcceptsCleanProgram(t *testing.T) {
	p := mkProgram([]step.Word{step.YRL.Bit(0), step.DummyAcc}, nil)
	if err := All(p); err != nil {
		t.Errorf("unexpected error on a clean program: %v", err)
	}
}
