package witabi

import (
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/record"
)

// Projector turns records into WIT record types. Nested records are
// projected once and shared.
type Projector struct {
	defs  map[*record.Record]*wit.TypeDef
	order []*wit.TypeDef
}

func NewProjector() *Projector {
	return &Projector{defs: make(map[*record.Record]*wit.TypeDef)}
}

// Project returns the WIT record type of rec.
func Project(rec *record.Record) (*wit.TypeDef, error) {
	return NewProjector().Project(rec)
}

// Project returns the WIT record type of rec. Bitfields have no WIT
// counterpart and are rejected.
func (p *Projector) Project(rec *record.Record) (*wit.TypeDef, error) {
	if rec == nil {
		return nil, errors.NilPointer(errors.PhaseFormat, nil, "record")
	}
	if td, ok := p.defs[rec]; ok {
		return td, nil
	}

	fields := rec.Layout().Fields()
	out := &wit.Record{Fields: make([]wit.Field, 0, len(fields))}
	seen := make(map[string]string, len(fields))

	for _, f := range fields {
		path := []string{rec.Name(), f.Name}
		if f.IsBitfield() {
			return nil, errors.New(errors.PhaseFormat, errors.KindTypeMismatch).
				Record(rec.Name()).
				Path(path...).
				Expected("byte-aligned field").
				Detail("bitfield of %d bits has no WIT representation", f.Width).
				Build()
		}

		name := Name(f.ExternalName())
		if prev, dup := seen[name]; dup {
			return nil, errors.InvalidData(errors.PhaseFormat, path, "WIT name "+name+" also used by "+prev)
		}
		seen[name] = f.Name

		typ, err := p.fieldType(rec, f)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, wit.Field{Name: name, Type: typ})
	}

	name := Name(rec.Name())
	td := &wit.TypeDef{Name: &name, Kind: out}
	p.defs[rec] = td
	p.order = append(p.order, td)
	return td, nil
}

// Defs returns every projected type, dependencies before dependents.
func (p *Projector) Defs() []*wit.TypeDef {
	return append([]*wit.TypeDef(nil), p.order...)
}

func (p *Projector) fieldType(rec *record.Record, f record.FieldInfo) (wit.Type, error) {
	switch f.Type.Kind() {
	case record.KindInt8:
		return wit.S8{}, nil
	case record.KindUint8, record.KindChar:
		return wit.U8{}, nil
	case record.KindInt16:
		return wit.S16{}, nil
	case record.KindUint16:
		return wit.U16{}, nil
	case record.KindInt32:
		return wit.S32{}, nil
	case record.KindUint32:
		return wit.U32{}, nil
	case record.KindInt64:
		return wit.S64{}, nil
	case record.KindUint64:
		return wit.U64{}, nil
	case record.KindBool:
		return wit.Bool{}, nil
	case record.KindFloat32:
		return wit.F32{}, nil
	case record.KindFloat64:
		return wit.F64{}, nil
	case record.KindPointer:
		if rec.ABI().PtrSize == 4 {
			return wit.U32{}, nil
		}
		return wit.U64{}, nil
	case record.KindRecord:
		return p.Project(f.Type.Record())
	default:
		return nil, errors.TypeMismatch(errors.PhaseFormat, []string{rec.Name(), f.Name}, f.Type.Name(), "WIT-representable type")
	}
}

// Name converts an identifier to WIT kebab-case: underscores become
// dashes and camel-case humps are split.
func Name(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range strings.Trim(s, "_") {
		switch {
		case r == '_' || r == '-':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
			prevLower = false
		case r >= 'A' && r <= 'Z':
			if prevLower {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = true
		}
	}
	return b.String()
}
