package memory

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/structlayout"
	"github.com/wippyai/structlayout/errors"
)

const (
	// PageSize is the wasm page size in bytes.
	PageSize = 65536
	// MaxPages is the largest 32-bit linear memory.
	MaxPages = 65536

	// reserved keeps address 0 out of the allocator so it can mean null.
	reserved = 8
)

var (
	_ structlayout.Memory    = (*Linear)(nil)
	_ structlayout.Allocator = (*Linear)(nil)
)

// Linear is a wazero-backed linear memory with a bump allocator.
type Linear struct {
	*Wrapper
	rt   wazero.Runtime
	next uint32
}

// NewLinear instantiates a fresh memory of the given number of pages.
func NewLinear(ctx context.Context, pages uint32) (*Linear, error) {
	if pages == 0 || pages > MaxPages {
		return nil, errors.InvalidData(errors.PhaseMemory, nil, fmt.Sprintf("invalid page count %d", pages))
	}

	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, memoryModule(pages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindAllocation, err, "instantiate memory module")
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.NilPointer(errors.PhaseMemory, nil, "exported memory")
	}

	Logger().Debug("linear memory created", zap.Uint32("pages", pages), zap.Uint32("bytes", mem.Size()))
	return &Linear{
		Wrapper: Wrap(mem),
		rt:      rt,
		next:    reserved,
	}, nil
}

// Close releases the underlying runtime.
func (l *Linear) Close(ctx context.Context) error {
	return l.rt.Close(ctx)
}

// Used returns the number of bytes handed out so far, including the
// reserved null region.
func (l *Linear) Used() uint32 {
	return l.next
}

// Alloc returns the address of a zeroed region of size bytes aligned to align.
// The memory grows when the region does not fit.
func (l *Linear) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Detail("alignment %d is not a power of two", align).
			Build()
	}
	start := (uint64(l.next) + uint64(align) - 1) &^ uint64(align-1)
	end := start + uint64(size)
	if end > uint64(MaxPages)*PageSize {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	if have := uint64(l.Mem.Size()); end > have {
		delta := (end - have + PageSize - 1) / PageSize
		if _, ok := l.Mem.Grow(uint32(delta)); !ok {
			return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
		}
		Logger().Debug("linear memory grown", zap.Uint64("pages", delta))
	}
	ptr := uint32(start)
	if size > 0 {
		if err := l.Write(ptr, make([]byte, size)); err != nil {
			return 0, err
		}
	}
	l.next = uint32(end)
	return ptr, nil
}

// Free reclaims the region only when it is the most recent allocation.
func (l *Linear) Free(ptr, size, align uint32) {
	if ptr != 0 && ptr+size == l.next {
		l.next = ptr
	}
}

// memoryModule encodes (module (memory (export "memory") pages)).
func memoryModule(pages uint32) []byte {
	var limits bytes.Buffer
	limits.WriteByte(0x00) // no maximum
	writeLEB128u(&limits, pages)

	var memSec bytes.Buffer
	memSec.WriteByte(0x01) // one memory
	memSec.Write(limits.Bytes())

	var expSec bytes.Buffer
	expSec.WriteByte(0x01) // one export
	writeLEB128u(&expSec, uint32(len("memory")))
	expSec.WriteString("memory")
	expSec.WriteByte(0x02) // kind: memory
	expSec.WriteByte(0x00) // index 0

	var out bytes.Buffer
	out.Write([]byte{0x00, 0x61, 0x73, 0x6d}) // magic
	out.Write([]byte{0x01, 0x00, 0x00, 0x00}) // version
	out.WriteByte(0x05)
	writeLEB128u(&out, uint32(memSec.Len()))
	out.Write(memSec.Bytes())
	out.WriteByte(0x07)
	writeLEB128u(&out, uint32(expSec.Len()))
	out.Write(expSec.Bytes())
	return out.Bytes()
}

func writeLEB128u(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}
