package record

import (
	"github.com/wippyai/structlayout/errors"
)

// Target is what a pointer field points at: Self, a *Placeholder or a
// concrete *Record.
type Target interface {
	isTarget()
}

type selfTarget struct{}

func (selfTarget) isTarget() {}

// Self makes a pointer field target the record being declared.
var Self Target = selfTarget{}

// TargetKind tags how a pointer field's target is currently known.
type TargetKind uint8

const (
	TargetConcrete TargetKind = iota
	TargetSelf
	TargetForward
)

func (k TargetKind) String() string {
	switch k {
	case TargetConcrete:
		return "concrete"
	case TargetSelf:
		return "self"
	case TargetForward:
		return "forward"
	default:
		return "unknown"
	}
}

// Placeholder stands in for a record that is declared later. It is
// consumed by exactly one Resolve.
type Placeholder struct {
	builder  *Builder
	resolved *Record
	name     string
	pending  []*binding
}

func (*Placeholder) isTarget() {}

func (p *Placeholder) Name() string { return p.name }

// Resolved returns the record the placeholder was resolved to.
func (p *Placeholder) Resolved() (*Record, bool) {
	return p.resolved, p.resolved != nil
}

// Waiting returns the "Owner.field" pointer fields waiting on p.
func (p *Placeholder) Waiting() []string {
	out := make([]string, 0, len(p.pending))
	for _, bd := range p.pending {
		out = append(out, bd.owner.name+"."+bd.field)
	}
	return out
}

func (p *Placeholder) String() string {
	if p.resolved != nil {
		return p.name + " (resolved)"
	}
	return p.name + " (forward)"
}

// binding is the mutable target of one declared pointer field. Records that
// inherit the field share the binding, so resolution reaches them too.
type binding struct {
	owner       *Record
	placeholder *Placeholder
	target      *Record
	field       string
	kind        TargetKind
}

func (bd *binding) resolve() (*Record, error) {
	if bd.target != nil {
		return bd.target, nil
	}
	name := ""
	if bd.placeholder != nil {
		name = bd.placeholder.name
	}
	return nil, errors.UnresolvedTarget(bd.owner.name, bd.field, name)
}

// targetName is the display name of the pointee.
func (bd *binding) targetName() string {
	switch {
	case bd.target != nil:
		return bd.target.name
	case bd.placeholder != nil:
		return bd.placeholder.name
	default:
		return "?"
	}
}

// bind lowers a pointer target for field of record. Forward bindings are
// not added to the placeholder until the declaration commits.
func (b *Builder) bind(record, field string, t Target) (*binding, error) {
	path := []string{field}
	switch target := t.(type) {
	case selfTarget:
		return &binding{field: field, kind: TargetSelf}, nil

	case *Placeholder:
		if target == nil {
			return nil, errors.InvalidDeclaration(record, path, "nil placeholder")
		}
		if target.builder != b {
			return nil, errors.New(errors.PhaseBind, errors.KindUnknownPlaceholder).
				Record(record).
				Path(path...).
				Detail("placeholder %q belongs to another builder", target.name).
				Build()
		}
		if target.resolved != nil {
			return &binding{field: field, kind: TargetConcrete, target: target.resolved}, nil
		}
		return &binding{field: field, kind: TargetForward, placeholder: target}, nil

	case *Record:
		if target == nil {
			return nil, errors.InvalidDeclaration(record, path, "nil target record")
		}
		return &binding{field: field, kind: TargetConcrete, target: target}, nil

	default:
		return nil, errors.InvalidDeclaration(record, path, "unsupported pointer target %T", t)
	}
}
