package schema

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	structerrors "github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/record"
)

func kindOf(t *testing.T, err error) structerrors.Kind {
	t.Helper()
	var se *structerrors.Error
	if !errors.As(err, &se) {
		t.Fatalf("got %T (%v), want *errors.Error", err, err)
	}
	return se.Kind
}

func TestLoadForwardReferences(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "list.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ABI().PtrSize != 4 {
		t.Errorf("PtrSize = %d, want 4", s.ABI().PtrSize)
	}
	if len(s.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(s.Records))
	}

	node, _ := s.Lookup("Node")
	list, _ := s.Lookup("List")

	tests := []struct {
		rec   *record.Record
		field string
		want  *record.Record
	}{
		{node, "next", node},
		{node, "prev", node},
		{node, "owner", list},
		{list, "head", node},
	}
	for _, tt := range tests {
		pf, err := tt.rec.PointerField(tt.field)
		if err != nil {
			t.Fatalf("PointerField(%s): %v", tt.field, err)
		}
		got, err := pf.Target()
		if err != nil || got != tt.want {
			t.Errorf("%s.%s -> %v, %v; want %s", tt.rec.Name(), tt.field, got, err, tt.want.Name())
		}
	}

	if node.Size() != 16 || list.Size() != 12 {
		t.Errorf("sizes = %d/%d, want 16/12", node.Size(), list.Size())
	}
	if off, _ := record.Offsetof(list, "frozen"); off != 65 {
		t.Errorf("Offsetof(frozen) = %d, want 65", off)
	}
	if len(s.Builder().Pending()) != 0 {
		t.Error("placeholders left pending")
	}
}

func TestLoadBasesAndNested(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "shapes.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ABI() != record.Native64() {
		t.Errorf("default ABI = %+v", s.ABI())
	}
	circle, ok := s.Lookup("Circle")
	if !ok {
		t.Fatal("Circle not declared")
	}

	want := []struct {
		name string
		off  uint64
	}{
		{"kind", 0},
		{"flags", 16},
		{"center", 64},
		{"radius", 192},
	}
	fields := circle.Layout().Fields()
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Offset != w.off {
			t.Errorf("field %d = %s@%d, want %s@%d", i, fields[i].Name, fields[i].Offset, w.name, w.off)
		}
	}
	if circle.Size() != 32 {
		t.Errorf("Size() = %d, want 32", circle.Size())
	}
}

func TestLoadDangling(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "dangling.toml"))
	if kindOf(t, err) != structerrors.KindDanglingForward {
		t.Errorf("got %v, want dangling_forward", err)
	}
	if !errors.Is(err, structerrors.ErrDanglingForward) {
		t.Error("errors.Is should see the dangling forward error")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want structerrors.Kind
	}{
		{
			name: "bad toml",
			data: "[[record]\n",
			want: structerrors.KindInvalidData,
		},
		{
			name: "unknown key",
			data: "[[record]]\nname = \"A\"\ncolour = \"red\"\n",
			want: structerrors.KindInvalidData,
		},
		{
			name: "bad pointer size",
			data: "[target]\npointer_size = 2\n",
			want: structerrors.KindInvalidData,
		},
		{
			name: "unknown type",
			data: "[[record]]\nname = \"A\"\n[[record.field]]\nname = \"x\"\ntype = \"quad\"\n",
			want: structerrors.KindInvalidDeclaration,
		},
		{
			name: "by-value forward",
			data: "[[record]]\nname = \"A\"\n[[record.field]]\nname = \"b\"\ntype = \"B\"\n[[record]]\nname = \"B\"\n[[record.field]]\nname = \"x\"\ntype = \"int8\"\n",
			want: structerrors.KindInvalidDeclaration,
		},
		{
			name: "base declared later",
			data: "[[record]]\nname = \"A\"\nbases = [\"B\"]\n[[record]]\nname = \"B\"\n",
			want: structerrors.KindInvalidDeclaration,
		},
		{
			name: "type and pointer",
			data: "[[record]]\nname = \"A\"\n[[record.field]]\nname = \"x\"\ntype = \"int8\"\npointer = \"self\"\n",
			want: structerrors.KindInvalidDeclaration,
		},
		{
			name: "bits on pointer",
			data: "[[record]]\nname = \"A\"\n[[record.field]]\nname = \"x\"\npointer = \"self\"\nbits = 1\n",
			want: structerrors.KindInvalidDeclaration,
		},
		{
			name: "bits too wide",
			data: "[[record]]\nname = \"A\"\n[[record.field]]\nname = \"x\"\ntype = \"uint8_t\"\nbits = 9\n",
			want: structerrors.KindInvalidDeclaration,
		},
		{
			name: "duplicate record",
			data: "[[record]]\nname = \"A\"\n[[record]]\nname = \"A\"\n",
			want: structerrors.KindInvalidDeclaration,
		},
		{
			name: "nameless record",
			data: "[[record]]\n",
			want: structerrors.KindInvalidDeclaration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if got := kindOf(t, err); got != tt.want {
				t.Errorf("kind = %s (%v), want %s", got, err, tt.want)
			}
		})
	}
}

func TestParseWithABI(t *testing.T) {
	s, err := Parse("[[record]]\nname = \"P\"\n[[record.field]]\nname = \"p\"\npointer = \"self\"\n", WithABI(record.Wasm32()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, _ := s.Lookup("P")
	if p.Size() != 4 {
		t.Errorf("Size() = %d, want 4", p.Size())
	}
}

func TestLoadFiles(t *testing.T) {
	paths := []string{
		filepath.Join("testdata", "list.toml"),
		filepath.Join("testdata", "shapes.toml"),
	}
	schemas, err := LoadFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	for i, s := range schemas {
		if s.Path != paths[i] {
			t.Errorf("schema %d path = %s, want %s", i, s.Path, paths[i])
		}
	}
	if _, ok := schemas[0].Lookup("Circle"); ok {
		t.Error("files must not share records")
	}

	_, err = LoadFiles(context.Background(), append(paths, filepath.Join("testdata", "dangling.toml")))
	if !errors.Is(err, structerrors.ErrDanglingForward) {
		t.Errorf("got %v, want dangling_forward", err)
	}
}

func TestLoadFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadFiles(ctx, []string{filepath.Join("testdata", "list.toml")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestSetLoggerNil(t *testing.T) {
	SetLogger(nil)
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	if Logger() == nil {
		t.Fatal("Logger() = nil after SetLogger(nil)")
	}
	if _, err := Parse("[[record]]\nname = \"A\"\n[[record.field]]\nname = \"x\"\ntype = \"int8\"\n"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
}
