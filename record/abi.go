package record

import (
	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/record/internal/abi"
)

// ABI describes the target's pointer representation. Every other type uses
// its natural alignment.
type ABI struct {
	Name     string
	PtrSize  uint32 // bytes
	PtrAlign uint32 // bytes
}

func Native64() ABI {
	return ABI{
		Name:     "native64",
		PtrSize:  8,
		PtrAlign: 8,
	}
}

func Wasm32() ABI {
	return ABI{
		Name:     "wasm32",
		PtrSize:  4,
		PtrAlign: 4,
	}
}

// Validate checks the pointer width is 4 or 8 bytes and the alignment a
// power of two no larger than the width.
func (a ABI) Validate() error {
	if a.PtrSize != 4 && a.PtrSize != 8 {
		return errors.New(errors.PhaseDeclare, errors.KindInvalidDeclaration).
			Detail("unsupported pointer size %d", a.PtrSize).
			Build()
	}
	if !abi.IsPowerOfTwo(a.PtrAlign) || a.PtrAlign > a.PtrSize {
		return errors.New(errors.PhaseDeclare, errors.KindInvalidDeclaration).
			Detail("invalid pointer alignment %d", a.PtrAlign).
			Build()
	}
	return nil
}

// pointerType is the opaque slot every pointer field is stored in.
func (a ABI) pointerType() *Type {
	return &Type{name: "void*", kind: KindPointer, size: a.PtrSize, align: a.PtrAlign}
}

func (a ABI) compatible(o ABI) bool {
	return a.PtrSize == o.PtrSize && a.PtrAlign == o.PtrAlign
}
