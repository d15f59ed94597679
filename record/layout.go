package record

import (
	"fmt"
	"strings"
)

// FieldInfo is one physical field of a compiled layout.
type FieldInfo struct {
	Type   *Type
	Name   string // physical name; pointer slots carry the slot prefix
	Offset uint64 // bits from the record start
	Width  uint32 // bit width, 0 for full-width fields
}

// IsBitfield reports whether the field is narrower than its storage type.
func (f FieldInfo) IsBitfield() bool { return f.Width > 0 }

// IsPointer reports whether the field is an opaque pointer slot.
func (f FieldInfo) IsPointer() bool { return f.Type.Kind() == KindPointer }

// Bits returns the number of bits the field occupies.
func (f FieldInfo) Bits() uint64 {
	if f.Width > 0 {
		return uint64(f.Width)
	}
	return f.Type.Bits()
}

// ExternalName is the name callers use: pointer slots drop their prefix.
func (f FieldInfo) ExternalName() string {
	if f.IsPointer() {
		return normalize(f.Name)
	}
	return f.Name
}

// Layout is the immutable physical layout of a record.
type Layout struct {
	name   string
	fields []FieldInfo
	size   uint32
	align  uint32
}

func (l *Layout) Name() string   { return l.name }
func (l *Layout) Size() uint32   { return l.size }
func (l *Layout) Align() uint32  { return l.align }
func (l *Layout) NumFields() int { return len(l.fields) }

// Field returns the i-th physical field.
func (l *Layout) Field(i int) FieldInfo { return l.fields[i] }

// Fields returns a copy of the physical fields in order.
func (l *Layout) Fields() []FieldInfo {
	out := make([]FieldInfo, len(l.fields))
	copy(out, l.fields)
	return out
}

// Layout returns l so a *Layout can be passed to Offsetof.
func (l *Layout) Layout() *Layout { return l }

func (l *Layout) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s{size=%d align=%d", l.name, l.size, l.align)
	for _, f := range l.fields {
		if f.IsBitfield() {
			fmt.Fprintf(&b, " %s:%s:%d@%d", f.Name, f.Type, f.Width, f.Offset)
		} else {
			fmt.Fprintf(&b, " %s:%s@%d", f.Name, f.Type, f.Offset)
		}
	}
	b.WriteByte('}')
	return b.String()
}
