package record

import (
	"fortio.org/safecast"

	"github.com/wippyai/structlayout/errors"
)

// PointerField is the typed accessor pair attached to a pointer field. The
// field itself is stored in an opaque slot whose width depends only on the
// ABI, never on the target.
type PointerField struct {
	owner  *Record
	bind   *binding
	name   string
	slot   string
	index  int
	offset uint64
}

// Name is the external field name.
func (p *PointerField) Name() string { return p.name }

// Slot is the physical name of the opaque slot.
func (p *PointerField) Slot() string { return p.slot }

// Offset is the slot's bit offset in the owning record.
func (p *PointerField) Offset() uint64 { return p.offset }

// Kind reports how the target is currently known.
func (p *PointerField) Kind() TargetKind { return p.bind.kind }

// Target returns the resolved target record.
func (p *PointerField) Target() (*Record, error) {
	return p.bind.resolve()
}

// TargetName names the target, or the placeholder while unresolved.
func (p *PointerField) TargetName() string {
	return p.bind.targetName()
}

// Get reads the slot of inst as a pointer to the target record. A null
// slot yields nil.
func (p *PointerField) Get(inst *Instance) (*Instance, error) {
	if err := p.check(inst); err != nil {
		return nil, err
	}
	target, err := p.bind.resolve()
	if err != nil {
		return nil, err
	}
	raw, err := inst.readRaw(p.owner.layout.fields[p.index])
	if err != nil {
		return nil, err
	}
	if raw == 0 {
		return nil, nil
	}
	addr, err := safecast.Conv[uint32](raw)
	if err != nil {
		return nil, errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
			Record(p.owner.name).
			Path(p.name).
			Value(raw).
			Cause(err).
			Detail("address %#x outside 32-bit memory", raw).
			Build()
	}
	return target.At(inst.mem, addr), nil
}

// Set stores the address of v in the slot of inst. v must be an instance
// of the resolved target record in the same memory as inst; nil stores a
// null pointer.
func (p *PointerField) Set(inst *Instance, v *Instance) error {
	if err := p.check(inst); err != nil {
		return err
	}
	target, err := p.bind.resolve()
	if err != nil {
		return err
	}
	if v == nil {
		return inst.writeRaw(p.owner.layout.fields[p.index], 0)
	}
	if v.rec == nil || v.mem == nil {
		return errors.NilPointer(errors.PhaseAccess, []string{p.owner.name, p.name}, "pointee instance")
	}
	if v.rec != target {
		return errors.TypeMismatch(errors.PhaseAccess, []string{p.owner.name, p.name}, v.rec.name, target.name)
	}
	if v.mem != inst.mem {
		return errors.New(errors.PhaseAccess, errors.KindTypeMismatch).
			Record(p.owner.name).
			Path(p.name).
			Expected("instance in the same memory").
			Detail("%s at %#x lives in another memory", v.rec.name, v.addr).
			Build()
	}
	return inst.writeRaw(p.owner.layout.fields[p.index], uint64(v.addr))
}

func (p *PointerField) check(inst *Instance) error {
	if inst == nil || inst.rec == nil || inst.mem == nil {
		return errors.NilPointer(errors.PhaseAccess, []string{p.owner.name, p.name}, "instance")
	}
	if inst.rec != p.owner {
		return errors.TypeMismatch(errors.PhaseAccess, []string{p.name}, inst.rec.name, p.owner.name)
	}
	return nil
}
