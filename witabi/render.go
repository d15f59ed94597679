package witabi

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
)

// Render writes WIT record definitions for defs in order.
func Render(defs ...*wit.TypeDef) string {
	var b strings.Builder
	for i, td := range defs {
		if i > 0 {
			b.WriteByte('\n')
		}
		r, ok := td.Kind.(*wit.Record)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "record %s {\n", typeName(td))
		for _, f := range r.Fields {
			fmt.Fprintf(&b, "    %s: %s,\n", f.Name, TypeString(f.Type))
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// TypeString returns the WIT spelling of t.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case *wit.TypeDef:
		return typeName(v)
	default:
		return fmt.Sprintf("%T", t)
	}
}

func typeName(td *wit.TypeDef) string {
	if td.Name != nil {
		return *td.Name
	}
	return "typedef"
}
