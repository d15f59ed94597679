package schema

import (
	"context"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/record"
)

// SelfPointer is the pointer value that targets the enclosing record.
const SelfPointer = "self"

type fileConfig struct {
	Target  targetConfig   `toml:"target"`
	Records []recordConfig `toml:"record"`
}

type targetConfig struct {
	Name         string `toml:"name"`
	PointerSize  uint32 `toml:"pointer_size"`
	PointerAlign uint32 `toml:"pointer_align"`
}

type recordConfig struct {
	Name   string        `toml:"name"`
	Bases  []string      `toml:"bases"`
	Fields []fieldConfig `toml:"field"`
}

type fieldConfig struct {
	Bits    *int   `toml:"bits"`
	Name    string `toml:"name"`
	Type    string `toml:"type"`
	Pointer string `toml:"pointer"`
}

// Schema is the outcome of loading one file.
type Schema struct {
	builder *record.Builder
	Path    string
	Records []*record.Record
}

// Builder returns the builder the records were declared through.
func (s *Schema) Builder() *record.Builder { return s.builder }

// ABI returns the pointer representation the file was built for.
func (s *Schema) ABI() record.ABI { return s.builder.ABI() }

// Lookup returns a record of the file by name.
func (s *Schema) Lookup(name string) (*record.Record, bool) {
	return s.builder.Lookup(name)
}

type options struct {
	log *zap.Logger
	abi record.ABI
}

// Option configures loading.
type Option func(*options)

// WithABI sets the ABI used when a file has no [target] table.
func WithABI(a record.ABI) Option {
	return func(o *options) {
		o.abi = a
	}
}

// WithLogger overrides the package logger for builders created while
// loading.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{abi: record.Native64()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = Logger()
	}
	return o
}

// Parse builds the records described by data.
func Parse(data string, opts ...Option) (*Schema, error) {
	var cfg fileConfig
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "failed to parse TOML")
	}
	return build("", cfg, meta, newOptions(opts))
}

// Load builds the records described by the file at path.
func Load(path string, opts ...Option) (*Schema, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, path+": failed to parse TOML")
	}
	return build(path, cfg, meta, newOptions(opts))
}

// LoadFiles loads independent schema files concurrently. Results are in
// the order of paths; the first failure cancels the rest.
func LoadFiles(ctx context.Context, paths []string, opts ...Option) ([]*Schema, error) {
	results := make([]*Schema, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.GOMAXPROCS(0), len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			s, err := Load(path, opts...)
			if err != nil {
				return err
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func build(path string, cfg fileConfig, meta toml.MetaData, o options) (*Schema, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fail(path, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Detail("unknown keys: %s", strings.Join(keys, ", ")).
			Build())
	}

	abi := o.abi
	if meta.IsDefined("target") {
		var err error
		if abi, err = targetABI(cfg.Target); err != nil {
			return nil, fail(path, err)
		}
	}

	ld := &loader{
		builder:      record.NewBuilder(record.WithABI(abi), record.WithLogger(o.log)),
		placeholders: make(map[string]*record.Placeholder),
	}
	s := &Schema{Path: path, builder: ld.builder}
	for i, rc := range cfg.Records {
		rec, err := ld.declare(i, rc)
		if err != nil {
			return nil, fail(path, err)
		}
		s.Records = append(s.Records, rec)
	}
	if err := ld.builder.Finish(); err != nil {
		return nil, fail(path, err)
	}

	o.log.Debug("schema loaded",
		zap.String("path", path),
		zap.String("abi", abi.Name),
		zap.Int("records", len(s.Records)))
	return s, nil
}

func targetABI(t targetConfig) (record.ABI, error) {
	var a record.ABI
	switch t.PointerSize {
	case 4:
		a = record.Wasm32()
	case 8:
		a = record.Native64()
	default:
		return record.ABI{}, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Path("target", "pointer_size").
			Value(t.PointerSize).
			Detail("pointer_size must be 4 or 8, got %d", t.PointerSize).
			Build()
	}
	if t.Name != "" {
		a.Name = t.Name
	}
	if t.PointerAlign != 0 {
		a.PtrAlign = t.PointerAlign
	}
	return a, a.Validate()
}

// fail tags err with the file it came from, keeping its kind.
func fail(path string, err error) error {
	if path == "" {
		return err
	}
	kind := errors.KindInvalidData
	if se, ok := err.(*errors.Error); ok {
		kind = se.Kind
	}
	return errors.Wrap(errors.PhaseLoad, kind, err, path)
}

type loader struct {
	builder      *record.Builder
	placeholders map[string]*record.Placeholder
}

func (l *loader) declare(i int, rc recordConfig) (*record.Record, error) {
	if rc.Name == "" {
		return nil, errors.InvalidDeclaration("", []string{"record"}, "record %d has no name", i)
	}

	bases := make([]*record.Record, 0, len(rc.Bases))
	for _, name := range rc.Bases {
		base, ok := l.builder.Lookup(name)
		if !ok {
			return nil, errors.InvalidDeclaration(rc.Name, []string{"bases"}, "base %q is not declared before %q", name, rc.Name)
		}
		bases = append(bases, base)
	}

	decls := make([]record.Decl, 0, len(rc.Fields))
	for _, fc := range rc.Fields {
		d, err := l.field(rc.Name, fc)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}

	if p, ok := l.placeholders[rc.Name]; ok {
		rec, err := l.builder.DeclareFor(p, rc.Name, bases, decls...)
		if err != nil {
			return nil, err
		}
		delete(l.placeholders, rc.Name)
		return rec, nil
	}
	return l.builder.Declare(rc.Name, bases, decls...)
}

func (l *loader) field(owner string, fc fieldConfig) (record.Decl, error) {
	path := []string{fc.Name}
	switch {
	case fc.Pointer != "" && fc.Type != "":
		return record.Decl{}, errors.InvalidDeclaration(owner, path, "field has both type and pointer")
	case fc.Pointer != "":
		if fc.Bits != nil {
			return record.Decl{}, errors.InvalidDeclaration(owner, path, "pointer fields cannot carry bits")
		}
		return record.Ptr(fc.Name, l.target(owner, fc.Pointer)), nil
	case fc.Type == "":
		return record.Decl{}, errors.InvalidDeclaration(owner, path, "field has neither type nor pointer")
	}

	t, err := l.storage(owner, fc)
	if err != nil {
		return record.Decl{}, err
	}
	if fc.Bits != nil {
		return record.Bits(fc.Name, t, *fc.Bits), nil
	}
	return record.Field(fc.Name, t), nil
}

// target maps a pointer value to Self, a declared record or a placeholder
// for a record not declared yet.
func (l *loader) target(owner, name string) record.Target {
	if name == SelfPointer || name == owner {
		return record.Self
	}
	if rec, ok := l.builder.Lookup(name); ok {
		return rec
	}
	p, ok := l.placeholders[name]
	if !ok {
		p = l.builder.ForwardDeclare(name)
		l.placeholders[name] = p
	}
	return p
}

func (l *loader) storage(owner string, fc fieldConfig) (*record.Type, error) {
	if t, ok := record.LookupType(fc.Type); ok {
		return t, nil
	}
	if rec, ok := l.builder.Lookup(fc.Type); ok {
		return rec.Type(), nil
	}
	return nil, errors.New(errors.PhaseLoad, errors.KindInvalidDeclaration).
		Record(owner).
		Path(fc.Name).
		Expected("fixed-width type or earlier record").
		Detail("unknown type %q", fc.Type).
		Build()
}
