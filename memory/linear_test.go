package memory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	structerrors "github.com/wippyai/structlayout/errors"
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

func TestMemoryModule_Encoding(t *testing.T) {
	if got := memoryModule(1); !bytes.Equal(got, memoryWASM) {
		t.Errorf("memoryModule(1) = %x, want %x", got, memoryWASM)
	}

	// 200 pages needs a two byte LEB128 limit
	got := memoryModule(200)
	if got[9] != 0x04 {
		t.Errorf("memory section size = %d, want 4", got[9])
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("expected nil for nil memory")
	}
}

func TestWrapper_ReadWrite(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, memoryWASM)
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}

	mem := Wrap(mod.ExportedMemory("memory"))
	if mem == nil {
		t.Fatal("expected non-nil wrapped memory")
	}

	if err := mem.Write(0, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := mem.Read(0, 4)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(data, []byte{1, 2, 3, 4}) {
		t.Errorf("Read = %v, want [1 2 3 4]", data)
	}

	if err := mem.WriteU16(8, 0xBEEF); err != nil {
		t.Fatalf("WriteU16 failed: %v", err)
	}
	if v, _ := mem.ReadU16(8); v != 0xBEEF {
		t.Errorf("ReadU16 = %#x, want 0xbeef", v)
	}
	if err := mem.WriteU32(16, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteU32 failed: %v", err)
	}
	if v, _ := mem.ReadU32(16); v != 0xDEADBEEF {
		t.Errorf("ReadU32 = %#x, want 0xdeadbeef", v)
	}
	if err := mem.WriteU64(24, 0x0102030405060708); err != nil {
		t.Fatalf("WriteU64 failed: %v", err)
	}
	if v, _ := mem.ReadU8(24); v != 0x08 {
		t.Errorf("ReadU8 = %#x, want 0x08 (little endian)", v)
	}
	if v, _ := mem.ReadU64(24); v != 0x0102030405060708 {
		t.Errorf("ReadU64 = %#x", v)
	}
}

func TestWrapper_OutOfBounds(t *testing.T) {
	ctx := context.Background()
	lin, err := NewLinear(ctx, 1)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	defer lin.Close(ctx)

	_, err = lin.ReadU32(PageSize - 2)
	if !errors.Is(err, &structerrors.Error{Phase: structerrors.PhaseMemory, Kind: structerrors.KindOutOfBounds}) {
		t.Errorf("ReadU32 past end: got %v, want out_of_bounds", err)
	}
	if err := lin.WriteU64(PageSize-4, 1); err == nil {
		t.Error("WriteU64 past end should fail")
	}
}

func TestNewLinear_InvalidPages(t *testing.T) {
	ctx := context.Background()
	for _, pages := range []uint32{0, MaxPages + 1} {
		if _, err := NewLinear(ctx, pages); err == nil {
			t.Errorf("NewLinear(%d) should fail", pages)
		}
	}
}

func TestLinear_Alloc(t *testing.T) {
	ctx := context.Background()
	lin, err := NewLinear(ctx, 1)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	defer lin.Close(ctx)

	a, err := lin.Alloc(3, 1)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if a == 0 {
		t.Fatal("Alloc must never return the null address")
	}

	b, err := lin.Alloc(8, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if b%8 != 0 {
		t.Errorf("address %d not 8-aligned", b)
	}
	if b < a+3 {
		t.Errorf("allocations overlap: a=%d b=%d", a, b)
	}

	if _, err := lin.Alloc(4, 3); err == nil {
		t.Error("non power of two alignment should fail")
	}
}

func TestLinear_AllocZeroesAndFree(t *testing.T) {
	ctx := context.Background()
	lin, err := NewLinear(ctx, 1)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	defer lin.Close(ctx)

	p, _ := lin.Alloc(8, 8)
	_ = lin.WriteU64(p, ^uint64(0))
	lin.Free(p, 8, 8)

	q, _ := lin.Alloc(8, 8)
	if q != p {
		t.Fatalf("Free of last allocation should be reused: p=%d q=%d", p, q)
	}
	if v, _ := lin.ReadU64(q); v != 0 {
		t.Errorf("reallocated region = %#x, want zeroed", v)
	}
}

func TestLinear_Grow(t *testing.T) {
	ctx := context.Background()
	lin, err := NewLinear(ctx, 1)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	defer lin.Close(ctx)

	p, err := lin.Alloc(PageSize, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if lin.Size() < 2*PageSize {
		t.Errorf("Size = %d, want at least two pages", lin.Size())
	}
	if err := lin.WriteU8(p+PageSize-1, 1); err != nil {
		t.Errorf("write at end of grown region: %v", err)
	}
	if lin.Used() != p+PageSize {
		t.Errorf("Used = %d, want %d", lin.Used(), p+PageSize)
	}
}

func TestSetLoggerNil(t *testing.T) {
	SetLogger(nil)
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	if Logger() == nil {
		t.Fatal("Logger() = nil after SetLogger(nil)")
	}
	ctx := context.Background()
	lin, err := NewLinear(ctx, 1)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	defer lin.Close(ctx)
	if _, err := lin.Alloc(16, 8); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
}
