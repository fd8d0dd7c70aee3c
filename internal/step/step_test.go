package step

import "testing"

func TestFieldSetGet(t *testing.T) {
	tests := []struct {
		name string
		f    Field
		v    uint64
	}{
		{"IRA", IRA, 5},
		{"MASA", MASA, 63},
		{"TRA", TRA, 127},
		{"YSEL", YSEL, 2},
	}
	for _, tc := range tests {
		w := tc.f.Set(0, tc.v)
		if got := tc.f.Get(w); got != tc.v {
			t.Errorf("%s: Set(%d) then Get = %d, want %d", tc.name, tc.v, got, tc.v)
		}
	}
}

func TestFieldSetDoesNotClobberOthers(t *testing.T) {
	w := IRA.Set(0, 5)
	w = YRL.Bit(w)
	if IRA.Get(w) != 5 {
		t.Errorf("YRL.Bit clobbered IRA: got %d, want 5", IRA.Get(w))
	}
	if !YRL.IsSet(w) {
		t.Error("YRL not set")
	}
}

func TestBitOnlySetsOneBit(t *testing.T) {
	w := YRL.Bit(0)
	if uint64(w) != uint64(1)<<19 {
		t.Errorf("YRL.Bit(0) = %#x, want %#x", uint64(w), uint64(1)<<19)
	}
}

func TestReservedBitsSet(t *testing.T) {
	if Word(0).ReservedBitsSet() {
		t.Error("zero word should have no reserved bits set")
	}
	if !Word(uint64(1) << 48).ReservedBitsSet() {
		t.Error("bit 48 should be reserved")
	}
	if !Word(uint64(1) << 32).ReservedBitsSet() {
		t.Error("bit 32 should be reserved")
	}
	if !Word(0x7F).ReservedBitsSet() {
		t.Error("bits 6-0 should be reserved")
	}
	if Word(uint64(1) << 7).ReservedBitsSet() {
		t.Error("bit 7 (NXADR) is not reserved")
	}
}

func TestDummyAcc(t *testing.T) {
	if !IsDummyAcc(DummyAcc) {
		t.Error("DummyAcc must report as dummy-acc")
	}
	if YSEL.Get(DummyAcc) != 1 {
		t.Errorf("DummyAcc YSEL = %d, want 1", YSEL.Get(DummyAcc))
	}
	if !BSEL.IsSet(DummyAcc) {
		t.Error("DummyAcc must have BSEL set")
	}
	other := IRA.Set(DummyAcc, 1)
	if IsDummyAcc(other) {
		t.Error("a word with an extra field set must not read as dummy-acc")
	}
}

func TestMoveReadSetup(t *testing.T) {
	src := MRD.Bit(0)
	src = MASA.Set(src, 7)
	src = TABLE.Bit(src)

	dst := Word(0)
	newSrc, newDst := MoveReadSetup(src, dst)

	if MRD.IsSet(newSrc) || MASA.Get(newSrc) != 0 || TABLE.IsSet(newSrc) {
		t.Errorf("read-setup fields not cleared from src: %#x", uint64(newSrc))
	}
	if !MRD.IsSet(newDst) || MASA.Get(newDst) != 7 || !TABLE.IsSet(newDst) {
		t.Errorf("read-setup fields not present on dst: %#x", uint64(newDst))
	}
}

func TestMoveReadSetupPreservesExistingDstBits(t *testing.T) {
	src := MRD.Bit(0)
	dst := YRL.Bit(0)
	_, newDst := MoveReadSetup(src, dst)
	if !YRL.IsSet(newDst) {
		t.Error("MoveReadSetup must not clobber unrelated existing dst fields")
	}
	if !MRD.IsSet(newDst) {
		t.Error("MoveReadSetup must OR in MRD")
	}
}

func TestMoveWriteback(t *testing.T) {
	src := IWT.Bit(0)
	src = IWA.Set(src, 9)
	dst := Word(0)

	newSrc, newDst := MoveWriteback(src, dst)
	if IWT.IsSet(newSrc) || IWA.Get(newSrc) != 0 {
		t.Errorf("writeback fields not cleared from src: %#x", uint64(newSrc))
	}
	if !IWT.IsSet(newDst) || IWA.Get(newDst) != 9 {
		t.Errorf("writeback fields not present on dst: %#x", uint64(newDst))
	}
}

func TestMoveWritebackNoopWhenIWTUnset(t *testing.T) {
	src := Word(0)
	dst := YRL.Bit(0)
	newSrc, newDst := MoveWriteback(src, dst)
	if newSrc != src || newDst != dst {
		t.Error("MoveWriteback must be a no-op when IWT is not set on src")
	}
}
