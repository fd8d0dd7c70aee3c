// Package step defines the 64-bit AICA DSP microcode step word: its
// bit-field layout, the canonical dummy-acc no-op, and the field order
// the emitter walks when printing a non-zero field list.
package step

// Word is one 64-bit microcode step.
type Word uint64

// Field is a typed bit-field accessor: a name, shift and width baked
// in at construction time, standing in for the GENMASK/BIT/FIELD_PREP
// helpers the field layout of §3.1 is built from.
type Field struct {
	Name  string
	Shift uint
	Bits  uint
}

func (f Field) mask() uint64 {
	return (uint64(1)<<f.Bits - 1) << f.Shift
}

// Get extracts the field's value from w.
func (f Field) Get(w Word) uint64 {
	return (uint64(w) & f.mask()) >> f.Shift
}

// Set returns w with the field overwritten to v.
func (f Field) Set(w Word, v uint64) Word {
	return Word((uint64(w) &^ f.mask()) | ((v << f.Shift) & f.mask()))
}

// Bit sets a single-bit field to 1. Only meaningful for Bits == 1 fields.
func (f Field) Bit(w Word) Word {
	return f.Set(w, 1)
}

// IsSet reports whether a single-bit field is set in w.
func (f Field) IsSet(w Word) bool {
	return f.Get(w) != 0
}

// Field definitions, bit ranges per spec §3.1 (MSB 63 .. LSB 0).
var (
	TRA   = Field{"TRA", 57, 7}
	TWT   = Field{"TWT", 56, 1}
	TWA   = Field{"TWA", 49, 7}
	XSEL  = Field{"XSEL", 47, 1}
	YSEL  = Field{"YSEL", 45, 2}
	IRA   = Field{"IRA", 39, 6}
	IWT   = Field{"IWT", 38, 1}
	IWA   = Field{"IWA", 33, 5}
	TABLE = Field{"TABLE", 31, 1}
	MWT   = Field{"MWT", 30, 1}
	MRD   = Field{"MRD", 29, 1}
	EWT   = Field{"EWT", 28, 1}
	EWA   = Field{"EWA", 24, 4}
	ADRL  = Field{"ADRL", 23, 1}
	FRCL  = Field{"FRCL", 22, 1}
	SHIFT = Field{"SHIFT", 20, 2}
	YRL   = Field{"YRL", 19, 1}
	NEGB  = Field{"NEGB", 18, 1}
	ZERO  = Field{"ZERO", 17, 1}
	BSEL  = Field{"BSEL", 16, 1}
	NOFL  = Field{"NOFL", 15, 1}
	MASA  = Field{"MASA", 9, 6}
	ADREB = Field{"ADREB", 8, 1}
	NXADR = Field{"NXADR", 7, 1}
)

// EmitOrder is the canonical field order the emitter walks (§4.6).
var EmitOrder = []Field{
	TRA, TWT, TWA, XSEL, YSEL, IRA, IWT, IWA, TABLE, MWT, MRD, EWT, EWA,
	ADRL, FRCL, SHIFT, YRL, NEGB, ZERO, BSEL, NOFL, MASA, ADREB, NXADR,
}

// reservedMask covers bit 48, bit 32 and bits 6-0, which must always be zero.
const reservedMask = uint64(1)<<48 | uint64(1)<<32 | 0x7F

// ReservedBitsSet reports whether any reserved bit of w is set.
func (w Word) ReservedBitsSet() bool {
	return uint64(w)&reservedMask != 0
}

// DummyAcc is the canonical no-op step: acc = x*0 + acc (YSEL=1, BSEL=1).
var DummyAcc = BSEL.Bit(YSEL.Set(0, 1))

// IsDummyAcc reports whether w is exactly the dummy-acc pattern.
func IsDummyAcc(w Word) bool {
	return w == DummyAcc
}

// ReadSetupFields are the fields a LD[F]'s read setup step carries;
// the load pipeliner moves these as a group (§4.3).
var ReadSetupFields = []Field{MRD, TABLE, ADREB, NXADR, MASA, NOFL}

// MoveReadSetup copies the read-setup fields from src into dst's
// corresponding bits and clears them from src, returning both.
func MoveReadSetup(src, dst Word) (newSrc, newDst Word) {
	newSrc, newDst = src, dst
	for _, f := range ReadSetupFields {
		v := f.Get(newSrc)
		if v != 0 {
			newDst = f.Set(newDst, v)
			newSrc = f.Set(newSrc, 0)
		}
	}
	return
}

// MoveWriteback copies IWT/IWA from src into dst and clears them from src.
func MoveWriteback(src, dst Word) (newSrc, newDst Word) {
	newSrc, newDst = src, dst
	if IWT.IsSet(newSrc) {
		newDst = IWT.Bit(newDst)
		newDst = IWA.Set(newDst, IWA.Get(newSrc))
		newSrc = IWT.Set(newSrc, 0)
		newSrc = IWA.Set(newSrc, 0)
	}
	return
}
