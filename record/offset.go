package record

import (
	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/record/internal/abi"
)

// Layouter is anything with a compiled layout: *Layout, *Record, *Instance.
type Layouter interface {
	Layout() *Layout
}

// Offsetof returns the bit offset of the field name from the record start.
//
// Pointer fields are found by their external name as well as their slot
// name. The offset is recomputed by walking the flattened fields, so it
// agrees with the compiled layout by construction rather than by lookup.
// A miss is a programming error and yields a field_not_found error.
func Offsetof(v Layouter, name string) (uint64, error) {
	if v == nil {
		return 0, errors.NilPointer(errors.PhaseQuery, []string{name}, "layout")
	}
	l := v.Layout()
	if l == nil {
		return 0, errors.NilPointer(errors.PhaseQuery, []string{name}, "layout")
	}

	bits := uint64(0)
	prevBitfield := false
	for _, f := range l.fields {
		if abi.StartsRun(f.IsBitfield(), prevBitfield) {
			bits = abi.AlignTo(bits, abi.BitAlign(f.Type.Align()))
		}
		if f.Name == name || normalize(f.Name) == name {
			return bits, nil
		}
		bits += f.Bits()
		prevBitfield = f.IsBitfield()
	}
	return 0, errors.FieldNotFound(errors.PhaseQuery, l.name, name)
}

// OffsetofBytes returns the byte offset of a field that starts on a byte
// boundary.
func OffsetofBytes(v Layouter, name string) (uint32, error) {
	bits, err := Offsetof(v, name)
	if err != nil {
		return 0, err
	}
	if bits%abi.BitsPerByte != 0 {
		return 0, errors.New(errors.PhaseQuery, errors.KindInvalidData).
			Path(name).
			Detail("bitfield starts at bit %d, not on a byte boundary", bits).
			Build()
	}
	return uint32(bits / abi.BitsPerByte), nil
}
