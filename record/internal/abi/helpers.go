package abi

import "math"

// BitsPerByte is the width of one addressable unit.
const BitsPerByte = 8

func SafeAdd(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

func SafeMul(a, b uint64) (uint64, bool) {
	if b != 0 && a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// AlignTo rounds offset up to a multiple of align. Zero and one leave the
// offset unchanged. align need not be a power of two.
func AlignTo(offset, align uint64) uint64 {
	if align <= 1 {
		return offset
	}
	r := offset % align
	if r == 0 {
		return offset
	}
	return offset + (align - r)
}

// BitAlign converts a byte alignment to bits.
func BitAlign(align uint32) uint64 {
	if align == 0 {
		return BitsPerByte
	}
	return uint64(align) * BitsPerByte
}

// BytesFor returns the number of whole bytes needed to hold bits.
func BytesFor(bits uint64) uint64 {
	return AlignTo(bits, BitsPerByte) / BitsPerByte
}

// IsPowerOfTwo reports whether v is a non-zero power of two.
func IsPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

// StartsRun reports whether a field begins at an aligned boundary: every
// full-width field does, and so does the first bitfield after a full-width
// field or at the record start.
func StartsRun(bitfield, prevBitfield bool) bool {
	return !bitfield || !prevBitfield
}
