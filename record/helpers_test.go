package record

import (
	"context"
	"errors"
	"testing"

	structerrors "github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/memory"
)

func newLinear(t *testing.T) *memory.Linear {
	t.Helper()
	ctx := context.Background()
	lin, err := memory.NewLinear(ctx, 1)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	t.Cleanup(func() { _ = lin.Close(ctx) })
	return lin
}

func newInstance(t *testing.T, lin *memory.Linear, rec *Record) *Instance {
	t.Helper()
	addr, err := lin.Alloc(rec.Size(), rec.Align())
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	return rec.At(lin, addr)
}

func mustDeclare(t *testing.T, b *Builder, name string, bases []*Record, decls ...Decl) *Record {
	t.Helper()
	rec, err := b.Declare(name, bases, decls...)
	if err != nil {
		t.Fatalf("Declare(%s): %v", name, err)
	}
	return rec
}

func wantKind(t *testing.T, err error, kind structerrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("got nil error, want %s", kind)
	}
	var se *structerrors.Error
	if !errors.As(err, &se) {
		t.Fatalf("got %T (%v), want *errors.Error", err, err)
	}
	if se.Kind != kind {
		t.Fatalf("got kind %s (%v), want %s", se.Kind, err, kind)
	}
}
