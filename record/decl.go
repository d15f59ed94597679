package record

import (
	"strings"

	"github.com/wippyai/structlayout/errors"
)

// slotPrefix decorates the physical name of a pointer slot.
const slotPrefix = "_"

// Decl declares one field of a record. Build it with Field, Bits or Ptr.
type Decl struct {
	Pointer  Target
	Type     *Type
	Name     string
	Width    int
	Bitfield bool
}

// Field declares a full-width field.
func Field(name string, t *Type) Decl {
	return Decl{Name: name, Type: t}
}

// Bits declares a bitfield of width bits stored in the integer type t.
func Bits(name string, t *Type, width int) Decl {
	return Decl{Name: name, Type: t, Width: width, Bitfield: true}
}

// Ptr declares a pointer field. target is Self, a *Placeholder or a *Record.
func Ptr(name string, target Target) Decl {
	return Decl{Name: name, Pointer: target}
}

// fieldSpec is a parsed field in physical order.
type fieldSpec struct {
	bind  *binding
	typ   *Type
	name  string
	width uint32
}

// normalize strips exactly one slot prefix.
func normalize(name string) string {
	return strings.TrimPrefix(name, slotPrefix)
}

// parse flattens base fields, then validates and lowers decls. Pointer
// decls become opaque slots with fresh bindings; nothing is registered.
func (b *Builder) parse(record string, bases []*Record, decls []Decl) ([]fieldSpec, error) {
	var fields []fieldSpec

	for i, base := range bases {
		if base == nil {
			return nil, errors.InvalidDeclaration(record, nil, "base record %d is nil", i)
		}
		if !base.abi.compatible(b.abi) {
			return nil, errors.InvalidDeclaration(record, nil, "base %s uses ABI %s, builder uses %s", base.name, base.abi.Name, b.abi.Name)
		}
		for j, f := range base.layout.fields {
			fs := fieldSpec{name: f.Name, typ: f.Type, width: f.Width}
			if pf, ok := base.slots[j]; ok {
				fs.bind = pf.bind
			}
			fields = append(fields, fs)
		}
	}

	for _, d := range decls {
		fs, err := b.lower(record, d)
		if err != nil {
			return nil, err
		}
		fields = append(fields, fs)
	}

	if err := checkNames(record, fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (b *Builder) lower(record string, d Decl) (fieldSpec, error) {
	path := []string{d.Name}
	if d.Name == "" {
		return fieldSpec{}, errors.InvalidDeclaration(record, nil, "field without a name")
	}

	switch {
	case d.Type == nil && d.Pointer == nil:
		return fieldSpec{}, errors.InvalidDeclaration(record, path, "declaration has neither a storage type nor a pointer target")
	case d.Type != nil && d.Pointer != nil:
		return fieldSpec{}, errors.InvalidDeclaration(record, path, "declaration has both a storage type and a pointer target")
	case d.Pointer != nil && (d.Bitfield || d.Width != 0):
		return fieldSpec{}, errors.InvalidDeclaration(record, path, "pointer fields cannot carry a bit width")
	case !d.Bitfield && d.Width != 0:
		return fieldSpec{}, errors.InvalidDeclaration(record, path, "bit width %d given for a full-width field", d.Width)
	}

	if d.Pointer != nil {
		bind, err := b.bind(record, d.Name, d.Pointer)
		if err != nil {
			return fieldSpec{}, err
		}
		return fieldSpec{
			name: slotPrefix + d.Name,
			typ:  b.abi.pointerType(),
			bind: bind,
		}, nil
	}

	if d.Type.Kind() == KindPointer {
		return fieldSpec{}, errors.InvalidDeclaration(record, path, "opaque pointer slots are declared with Ptr")
	}

	fs := fieldSpec{name: d.Name, typ: d.Type}
	if d.Bitfield {
		if !d.Type.Kind().IsInteger() {
			return fieldSpec{}, errors.New(errors.PhaseDeclare, errors.KindInvalidDeclaration).
				Record(record).
				Path(path...).
				Expected("integer storage type").
				Detail("bit width %d on %s", d.Width, d.Type.Name()).
				Build()
		}
		if d.Width <= 0 || uint64(d.Width) > d.Type.Bits() {
			return fieldSpec{}, errors.InvalidDeclaration(record, path, "bit width %d out of range 1..%d for %s", d.Width, d.Type.Bits(), d.Type.Name())
		}
		fs.width = uint32(d.Width)
	}
	return fs, nil
}

// checkNames rejects fields that would answer to the same name once one
// slot prefix is stripped.
func checkNames(record string, fields []fieldSpec) error {
	seen := make(map[string]int, 2*len(fields))
	for i, f := range fields {
		for _, n := range []string{f.name, normalize(f.name)} {
			if j, ok := seen[n]; ok && j != i {
				return errors.New(errors.PhaseDeclare, errors.KindInvalidDeclaration).
					Record(record).
					Path(f.name).
					Detail("field name collides with %q", fields[j].name).
					Build()
			}
			seen[n] = i
		}
	}
	return nil
}
