package record

import (
	"sort"
)

// Kind classifies a storage type.
type Kind uint8

const (
	KindInt8 Kind = iota
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindBool
	KindChar
	KindFloat32
	KindFloat64
	KindRecord
	KindPointer
)

var kindNames = [...]string{
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindBool:    "bool",
	KindChar:    "char",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindRecord:  "record",
	KindPointer: "pointer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsInteger reports whether fields of this kind may carry a bit width.
// char and bool count as integers.
func (k Kind) IsInteger() bool {
	return k <= KindChar
}

// IsSigned reports whether values of this kind are sign-extended on read.
func (k Kind) IsSigned() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the kind is an IEEE 754 float.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Type is a storage type with a known size and natural alignment.
type Type struct {
	rec   *Record
	name  string
	size  uint32
	align uint32
	kind  Kind
}

func scalar(name string, kind Kind, size uint32) *Type {
	return &Type{name: name, kind: kind, size: size, align: size}
}

// Fixed-width primitive storage types.
var (
	Int8    = scalar("int8_t", KindInt8, 1)
	Uint8   = scalar("uint8_t", KindUint8, 1)
	Int16   = scalar("int16_t", KindInt16, 2)
	Uint16  = scalar("uint16_t", KindUint16, 2)
	Int32   = scalar("int32_t", KindInt32, 4)
	Uint32  = scalar("uint32_t", KindUint32, 4)
	Int64   = scalar("int64_t", KindInt64, 8)
	Uint64  = scalar("uint64_t", KindUint64, 8)
	Bool    = scalar("bool", KindBool, 1)
	Char    = scalar("char", KindChar, 1)
	Float32 = scalar("float32_t", KindFloat32, 4)
	Float64 = scalar("float64_t", KindFloat64, 8)
)

var aliases = map[string]*Type{
	"int8_t":    Int8,
	"uint8_t":   Uint8,
	"int16_t":   Int16,
	"uint16_t":  Uint16,
	"int32_t":   Int32,
	"uint32_t":  Uint32,
	"int64_t":   Int64,
	"uint64_t":  Uint64,
	"float32_t": Float32,
	"float64_t": Float64,
	"float":     Float32,
	"double":    Float64,
	"bool":      Bool,
	"char":      Char,
	"int8":      Int8,
	"uint8":     Uint8,
	"byte":      Uint8,
	"int16":     Int16,
	"uint16":    Uint16,
	"int32":     Int32,
	"uint32":    Uint32,
	"int64":     Int64,
	"uint64":    Uint64,
	"float32":   Float32,
	"float64":   Float64,
}

// LookupType resolves a fixed-width alias such as "uint16_t" or "int32".
func LookupType(name string) (*Type, bool) {
	t, ok := aliases[name]
	return t, ok
}

// Aliases returns every name LookupType accepts, sorted.
func Aliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Type) Name() string  { return t.name }
func (t *Type) Kind() Kind    { return t.kind }
func (t *Type) Size() uint32  { return t.size }
func (t *Type) Align() uint32 { return t.align }

// Bits returns the full width of the type in bits.
func (t *Type) Bits() uint64 { return uint64(t.size) * 8 }

// Record returns the record a by-value record type stores, or nil.
func (t *Type) Record() *Record { return t.rec }

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}
