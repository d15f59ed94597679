package record

import (
	"go.uber.org/zap"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/record/internal/layout"
)

// Builder is the schema-building context: it declares records and owns the
// registry of forward references still waiting for their record.
//
// A Builder is meant for single-threaded initialization and is not safe
// for concurrent use.
type Builder struct {
	log          *zap.Logger
	records      map[string]*Record
	placeholders []*Placeholder
	declared     []*Record
	abi          ABI
}

// Option configures a Builder.
type Option func(*Builder)

// WithABI sets the pointer representation. Defaults to Native64.
func WithABI(a ABI) Option {
	return func(b *Builder) {
		b.abi = a
	}
}

// WithLogger overrides the package logger for this builder.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		abi:     Native64(),
		records: make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = Logger()
	}
	return b
}

func (b *Builder) ABI() ABI { return b.abi }

// ForwardDeclare registers a placeholder for a record declared later.
func (b *Builder) ForwardDeclare(name string) *Placeholder {
	p := &Placeholder{builder: b, name: name}
	b.placeholders = append(b.placeholders, p)
	b.log.Debug("forward declared", zap.String("placeholder", name))
	return p
}

// Declare compiles a record from the fields of bases followed by decls.
// On error nothing is registered and no placeholder changes.
func (b *Builder) Declare(name string, bases []*Record, decls ...Decl) (*Record, error) {
	rec, err := b.declare(name, bases, decls)
	if err != nil {
		return nil, err
	}
	b.commit(rec)
	return rec, nil
}

// DeclareFor declares a record and resolves p to it in one step.
// Pointer fields of the record may target p itself.
func (b *Builder) DeclareFor(p *Placeholder, name string, bases []*Record, decls ...Decl) (*Record, error) {
	if err := b.checkResolvable(p); err != nil {
		return nil, err
	}
	rec, err := b.declare(name, bases, decls)
	if err != nil {
		return nil, err
	}
	b.commit(rec)
	b.resolve(p, rec)
	return rec, nil
}

// Resolve rewrites every pointer field waiting on p to target rec and
// removes p from the registry. A placeholder resolves once.
func (b *Builder) Resolve(p *Placeholder, rec *Record) error {
	if err := b.checkResolvable(p); err != nil {
		return err
	}
	if rec == nil {
		return errors.NilPointer(errors.PhaseResolve, []string{p.name}, "record")
	}
	b.resolve(p, rec)
	return nil
}

// Pending returns the placeholders still waiting for a record.
func (b *Builder) Pending() []*Placeholder {
	return append([]*Placeholder(nil), b.placeholders...)
}

// Finish reports every placeholder that was never resolved. Call it at the
// end of initialization.
func (b *Builder) Finish() error {
	if len(b.placeholders) == 0 {
		return nil
	}
	names := make([]string, 0, len(b.placeholders))
	for _, p := range b.placeholders {
		names = append(names, p.name)
		b.log.Warn("dangling forward reference",
			zap.String("placeholder", p.name),
			zap.Strings("waiting", p.Waiting()))
	}
	return errors.DanglingForward(names)
}

// Lookup returns a record declared through b.
func (b *Builder) Lookup(name string) (*Record, bool) {
	rec, ok := b.records[name]
	return rec, ok
}

// Records returns the declared records in declaration order.
func (b *Builder) Records() []*Record {
	return append([]*Record(nil), b.declared...)
}

func (b *Builder) checkResolvable(p *Placeholder) error {
	if p == nil {
		return errors.NilPointer(errors.PhaseResolve, nil, "placeholder")
	}
	if p.builder != b {
		return errors.New(errors.PhaseResolve, errors.KindUnknownPlaceholder).
			Detail("placeholder %q belongs to another builder", p.name).
			Build()
	}
	if p.resolved != nil {
		return errors.AlreadyResolved(p.name, p.resolved.name)
	}
	return nil
}

func (b *Builder) resolve(p *Placeholder, rec *Record) {
	for _, bd := range p.pending {
		bd.kind = TargetConcrete
		bd.target = rec
		bd.placeholder = nil
	}
	b.log.Debug("forward reference resolved",
		zap.String("placeholder", p.name),
		zap.String("record", rec.name),
		zap.Strings("fields", p.Waiting()))

	p.resolved = rec
	p.pending = nil
	for i, q := range b.placeholders {
		if q == p {
			b.placeholders = append(b.placeholders[:i], b.placeholders[i+1:]...)
			break
		}
	}
}

// declare builds the record without touching builder state.
func (b *Builder) declare(name string, bases []*Record, decls []Decl) (*Record, error) {
	if name == "" {
		return nil, errors.InvalidDeclaration("", nil, "record without a name")
	}
	if _, dup := b.records[name]; dup {
		return nil, errors.InvalidDeclaration(name, nil, "record %q already declared", name)
	}
	if err := b.abi.Validate(); err != nil {
		return nil, err
	}

	fields, err := b.parse(name, bases, decls)
	if err != nil {
		return nil, err
	}

	specs := make([]layout.Spec, len(fields))
	for i, f := range fields {
		specs[i] = layout.Spec{
			Name:  f.name,
			Size:  f.typ.size,
			Align: f.typ.align,
			Width: f.width,
		}
	}
	info, err := layout.Compute(specs)
	if err != nil {
		return nil, err
	}

	lay := &Layout{
		name:   name,
		fields: make([]FieldInfo, len(fields)),
		size:   info.Size,
		align:  info.Align,
	}
	rec := &Record{
		builder: b,
		layout:  lay,
		name:    name,
		bases:   append([]*Record(nil), bases...),
		abi:     b.abi,
		index:   make(map[string]int, 2*len(fields)),
		slots:   make(map[int]*PointerField),
	}
	rec.typ = &Type{name: name, kind: KindRecord, size: info.Size, align: info.Align, rec: rec}

	for i, f := range fields {
		lay.fields[i] = FieldInfo{
			Name:   f.name,
			Type:   f.typ,
			Width:  f.width,
			Offset: info.Offsets[i],
		}
		rec.index[f.name] = i
		rec.index[normalize(f.name)] = i

		if f.bind == nil {
			continue
		}
		if f.bind.owner == nil {
			f.bind.owner = rec
			if f.bind.kind == TargetSelf {
				f.bind.target = rec
			}
		}
		pf := &PointerField{
			owner:  rec,
			bind:   f.bind,
			name:   normalize(f.name),
			slot:   f.name,
			index:  i,
			offset: info.Offsets[i],
		}
		rec.slots[i] = pf
		rec.ptrs = append(rec.ptrs, pf)
	}
	return rec, nil
}

// commit registers rec and enqueues its new forward bindings.
func (b *Builder) commit(rec *Record) {
	b.records[rec.name] = rec
	b.declared = append(b.declared, rec)
	for _, pf := range rec.ptrs {
		bd := pf.bind
		if bd.owner != rec {
			continue
		}
		if bd.kind == TargetForward {
			bd.placeholder.pending = append(bd.placeholder.pending, bd)
		}
		b.log.Debug("pointer bound",
			zap.String("record", rec.name),
			zap.String("field", bd.field),
			zap.Stringer("kind", bd.kind),
			zap.String("target", bd.targetName()))
	}
	b.log.Debug("record declared",
		zap.String("record", rec.name),
		zap.Uint32("size", rec.Size()),
		zap.Uint32("align", rec.Align()),
		zap.Int("fields", rec.layout.NumFields()))
}
