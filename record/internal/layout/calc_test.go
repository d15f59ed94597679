package layout

import (
	"errors"
	"math"
	"testing"

	structerrors "github.com/wippyai/structlayout/errors"
)

func u8(name string) Spec  { return Spec{Name: name, Size: 1, Align: 1} }
func u16(name string) Spec { return Spec{Name: name, Size: 2, Align: 2} }
func u32(name string) Spec { return Spec{Name: name, Size: 4, Align: 4} }
func u64(name string) Spec { return Spec{Name: name, Size: 8, Align: 8} }

func bits(s Spec, w uint32) Spec {
	s.Width = w
	return s
}

func TestComputeEmpty(t *testing.T) {
	info, err := Compute(nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if info.Size != 0 || info.Align != 1 {
		t.Errorf("got size=%d align=%d, want 0/1", info.Size, info.Align)
	}
}

func TestComputeFullWidth(t *testing.T) {
	tests := []struct {
		name    string
		specs   []Spec
		offsets []uint64
		size    uint32
		align   uint32
	}{
		{
			name:    "single_u32",
			specs:   []Spec{u32("x")},
			offsets: []uint64{0},
			size:    4,
			align:   4,
		},
		{
			name:    "mixed_alignment",
			specs:   []Spec{u8("a"), u32("b"), u8("c")},
			offsets: []uint64{0, 32, 64},
			size:    12,
			align:   4,
		},
		{
			name:    "u8_then_u64",
			specs:   []Spec{u8("a"), u64("b")},
			offsets: []uint64{0, 64},
			size:    16,
			align:   8,
		},
		{
			name:    "packed_no_padding",
			specs:   []Spec{u8("magic"), u16("a"), u16("b"), u16("c")},
			offsets: []uint64{0, 16, 32, 48},
			size:    8,
			align:   2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info, err := Compute(tc.specs)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			for i, want := range tc.offsets {
				if info.Offsets[i] != want {
					t.Errorf("field %s offset: got %d, want %d", tc.specs[i].Name, info.Offsets[i], want)
				}
				if info.Offsets[i]%(uint64(tc.specs[i].Align)*8) != 0 {
					t.Errorf("field %s offset %d not aligned", tc.specs[i].Name, info.Offsets[i])
				}
			}
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}
		})
	}
}

func TestComputeBitfields(t *testing.T) {
	t.Run("contiguous_run", func(t *testing.T) {
		info, err := Compute([]Spec{bits(u16("packed"), 1), bits(u16("ctor"), 1), bits(u16("ops"), 1)})
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		for i, want := range []uint64{0, 1, 2} {
			if info.Offsets[i] != want {
				t.Errorf("offset %d: got %d, want %d", i, info.Offsets[i], want)
			}
		}
		if info.Size != 2 || info.Align != 2 {
			t.Errorf("got size=%d align=%d, want 2/2", info.Size, info.Align)
		}
	})

	t.Run("run_start_aligns_after_full_field", func(t *testing.T) {
		info, err := Compute([]Spec{u8("tag"), bits(u32("a"), 3), bits(u32("b"), 5)})
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if info.Offsets[1] != 32 {
			t.Errorf("first bitfield: got %d, want 32", info.Offsets[1])
		}
		if info.Offsets[2] != 35 {
			t.Errorf("second bitfield: got %d, want 35", info.Offsets[2])
		}
		if info.Size != 8 {
			t.Errorf("size: got %d, want 8", info.Size)
		}
	})

	t.Run("no_realign_inside_run", func(t *testing.T) {
		info, err := Compute([]Spec{bits(u8("a"), 7), bits(u32("b"), 2)})
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if info.Offsets[1] != 7 {
			t.Errorf("offset: got %d, want 7", info.Offsets[1])
		}
		if info.Size != 4 || info.Align != 4 {
			t.Errorf("got size=%d align=%d, want 4/4", info.Size, info.Align)
		}
	})

	t.Run("full_field_after_run", func(t *testing.T) {
		info, err := Compute([]Spec{bits(u8("a"), 3), u16("b")})
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if info.Offsets[1] != 16 {
			t.Errorf("offset: got %d, want 16", info.Offsets[1])
		}
	})
}

func TestComputeOverflow(t *testing.T) {
	huge := Spec{Name: "blob", Size: math.MaxUint32, Align: 1}
	_, err := Compute([]Spec{huge, huge})
	if !errors.Is(err, &structerrors.Error{Phase: structerrors.PhaseCompile, Kind: structerrors.KindOverflow}) {
		t.Errorf("got %v, want compile overflow", err)
	}
}
