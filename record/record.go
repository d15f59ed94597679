package record

import (
	"github.com/wippyai/structlayout"
	"github.com/wippyai/structlayout/errors"
)

// Record is a compiled record type.
type Record struct {
	builder *Builder
	layout  *Layout
	typ     *Type
	index   map[string]int
	slots   map[int]*PointerField
	name    string
	bases   []*Record
	ptrs    []*PointerField
	abi     ABI
}

func (*Record) isTarget() {}

func (r *Record) Name() string  { return r.name }
func (r *Record) Size() uint32  { return r.layout.size }
func (r *Record) Align() uint32 { return r.layout.align }
func (r *Record) ABI() ABI      { return r.abi }

// Layout returns the compiled layout; nil for a nil record.
func (r *Record) Layout() *Layout {
	if r == nil {
		return nil
	}
	return r.layout
}

// Bases returns the records whose fields this record inherits.
func (r *Record) Bases() []*Record {
	return append([]*Record(nil), r.bases...)
}

// Type returns the storage type for embedding r by value in another record.
func (r *Record) Type() *Type {
	return r.typ
}

// At views the region at addr of mem as an instance of r. The region is
// owned by the caller.
func (r *Record) At(mem structlayout.Memory, addr uint32) *Instance {
	return &Instance{rec: r, mem: mem, addr: addr}
}

// PointerField returns the typed accessor for the pointer field name.
func (r *Record) PointerField(name string) (*PointerField, error) {
	i, ok := r.index[name]
	if ok {
		if pf, ok := r.slots[i]; ok {
			return pf, nil
		}
	}
	return nil, errors.FieldNotFound(errors.PhaseAccess, r.name, name)
}

// PointerFields returns the accessors of every pointer field, inherited
// ones first.
func (r *Record) PointerFields() []*PointerField {
	return append([]*PointerField(nil), r.ptrs...)
}

// lookup finds a field by physical or external name.
func (r *Record) lookup(name string) (int, FieldInfo, error) {
	i, ok := r.index[name]
	if !ok {
		return 0, FieldInfo{}, errors.FieldNotFound(errors.PhaseAccess, r.name, name)
	}
	return i, r.layout.fields[i], nil
}

func (r *Record) String() string {
	return r.name
}
