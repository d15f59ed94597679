package layout

import (
	"math"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/record/internal/abi"
)

// Spec is one field as seen by the compiler.
type Spec struct {
	Name  string
	Size  uint32 // bytes
	Align uint32 // bytes
	Width uint32 // bits, 0 for a full-width field
}

// Bits returns the number of bits the field occupies.
func (s Spec) Bits() uint64 {
	if s.Width > 0 {
		return uint64(s.Width)
	}
	return uint64(s.Size) * abi.BitsPerByte
}

// Info is a compiled layout. Offsets[i] is the bit offset of spec i.
type Info struct {
	Offsets []uint64
	Size    uint32
	Align   uint32
}

// Compute lays out specs in order.
func Compute(specs []Spec) (Info, error) {
	if len(specs) == 0 {
		return Info{Size: 0, Align: 1}, nil
	}

	offsets := make([]uint64, len(specs))
	maxAlign := uint32(1)
	bits := uint64(0)
	prevBitfield := false

	for i, s := range specs {
		bitfield := s.Width > 0
		if abi.StartsRun(bitfield, prevBitfield) {
			bits = abi.AlignTo(bits, abi.BitAlign(s.Align))
		}
		offsets[i] = bits

		next, ok := abi.SafeAdd(bits, s.Bits())
		if !ok {
			return Info{}, errors.Overflow(errors.PhaseCompile, []string{s.Name}, bits, "bit offset")
		}
		bits = next

		if s.Align > maxAlign {
			maxAlign = s.Align
		}
		prevBitfield = bitfield
	}

	size := abi.AlignTo(abi.BytesFor(bits), uint64(maxAlign))
	if size > math.MaxUint32 {
		return Info{}, errors.Overflow(errors.PhaseCompile, nil, size, "record size")
	}

	return Info{
		Offsets: offsets,
		Size:    uint32(size),
		Align:   maxAlign,
	}, nil
}
