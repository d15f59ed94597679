package format

import (
	"strconv"
	"strings"

	"github.com/wippyai/structlayout/record"
)

// Dump renders inst as Name{field: value, ...} using external field
// names. Nested records are rendered inline, pointers as hex addresses
// or nil. Unresolved pointers print their raw slot.
func Dump(inst *record.Instance) (string, error) {
	var b strings.Builder
	if err := dump(&b, inst); err != nil {
		return "", err
	}
	return b.String(), nil
}

func dump(b *strings.Builder, inst *record.Instance) error {
	b.WriteString(inst.Record().Name())
	b.WriteByte('{')
	for i, f := range inst.Layout().Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.ExternalName())
		b.WriteString(": ")
		if err := value(b, inst, f); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func value(b *strings.Builder, inst *record.Instance, f record.FieldInfo) error {
	kind := f.Type.Kind()
	switch {
	case kind == record.KindRecord:
		nested, err := inst.Field(f.Name)
		if err != nil {
			return err
		}
		return dump(b, nested)

	case kind == record.KindPointer:
		v, err := inst.Uint(f.Name)
		if err != nil {
			return err
		}
		if v == 0 {
			b.WriteString("nil")
		} else {
			b.WriteString("0x" + strconv.FormatUint(v, 16))
		}

	case kind.IsFloat():
		v, err := inst.Float(f.Name)
		if err != nil {
			return err
		}
		bits := 64
		if kind == record.KindFloat32 {
			bits = 32
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, bits))

	case kind == record.KindBool && !f.IsBitfield():
		v, err := inst.Bool(f.Name)
		if err != nil {
			return err
		}
		b.WriteString(strconv.FormatBool(v))

	case kind == record.KindChar:
		v, err := inst.Uint(f.Name)
		if err != nil {
			return err
		}
		b.WriteString(strconv.QuoteRuneToASCII(rune(v)))

	case kind.IsSigned():
		v, err := inst.Int(f.Name)
		if err != nil {
			return err
		}
		b.WriteString(strconv.FormatInt(v, 10))

	default:
		v, err := inst.Uint(f.Name)
		if err != nil {
			return err
		}
		b.WriteString(strconv.FormatUint(v, 10))
	}
	return nil
}
