package record

import (
	"math"

	"fortio.org/safecast"

	"github.com/wippyai/structlayout"
	"github.com/wippyai/structlayout/errors"
)

// Instance is a record laid out at an address of a Memory. It holds no
// storage of its own; reads and writes go straight to memory and are not
// synchronized.
type Instance struct {
	rec  *Record
	mem  structlayout.Memory
	addr uint32
}

func (i *Instance) Record() *Record             { return i.rec }
func (i *Instance) Memory() structlayout.Memory { return i.mem }
func (i *Instance) Addr() uint32                { return i.addr }

// Layout returns the record's layout; nil for a nil instance.
func (i *Instance) Layout() *Layout {
	if i == nil || i.rec == nil {
		return nil
	}
	return i.rec.Layout()
}

// SameAddress reports whether a and b view the same address of the same
// memory.
func SameAddress(a, b *Instance) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.addr == b.addr && a.mem == b.mem
}

// Bytes returns the raw bytes of the instance.
func (i *Instance) Bytes() ([]byte, error) {
	if err := i.valid(); err != nil {
		return nil, err
	}
	return i.mem.Read(i.addr, i.rec.Size())
}

// Zero clears the instance.
func (i *Instance) Zero() error {
	if err := i.valid(); err != nil {
		return err
	}
	return i.mem.Write(i.addr, make([]byte, i.rec.Size()))
}

// valid rejects instances not created through Record.At.
func (i *Instance) valid() error {
	if i == nil || i.rec == nil || i.mem == nil {
		return errors.NilPointer(errors.PhaseAccess, nil, "instance")
	}
	return nil
}

func (i *Instance) lookup(name string) (FieldInfo, error) {
	if err := i.valid(); err != nil {
		return FieldInfo{}, err
	}
	_, f, err := i.rec.lookup(name)
	return f, err
}

// Uint reads an integer, bool, char or raw pointer slot zero-extended.
func (i *Instance) Uint(name string) (uint64, error) {
	f, err := i.lookup(name)
	if err != nil {
		return 0, err
	}
	if !f.Type.Kind().IsInteger() && !f.IsPointer() {
		return 0, i.mismatch(f, "integer")
	}
	return i.readRaw(f)
}

// SetUint writes an unsigned value; it must fit the field's bit width.
func (i *Instance) SetUint(name string, v uint64) error {
	f, err := i.lookup(name)
	if err != nil {
		return err
	}
	if !f.Type.Kind().IsInteger() {
		return i.mismatch(f, "integer")
	}
	if w := f.Bits(); w < 64 && v>>w != 0 {
		return errors.Overflow(errors.PhaseAccess, []string{i.rec.name, f.Name}, v, f.Type.Name())
	}
	return i.writeRaw(f, v)
}

// Int reads an integer field, sign-extending signed kinds.
func (i *Instance) Int(name string) (int64, error) {
	f, err := i.lookup(name)
	if err != nil {
		return 0, err
	}
	if !f.Type.Kind().IsInteger() {
		return 0, i.mismatch(f, "integer")
	}
	raw, err := i.readRaw(f)
	if err != nil {
		return 0, err
	}
	if !f.Type.Kind().IsSigned() {
		v, err := safecast.Conv[int64](raw)
		if err != nil {
			return 0, errors.Overflow(errors.PhaseAccess, []string{i.rec.name, f.Name}, raw, "int64")
		}
		return v, nil
	}
	shift := 64 - f.Bits()
	return int64(raw<<shift) >> shift, nil
}

// SetInt writes a signed value; it must fit the field's bit width.
func (i *Instance) SetInt(name string, v int64) error {
	f, err := i.lookup(name)
	if err != nil {
		return err
	}
	if !f.Type.Kind().IsInteger() {
		return i.mismatch(f, "integer")
	}
	w := f.Bits()
	if !f.Type.Kind().IsSigned() {
		if v < 0 || (w < 64 && uint64(v)>>w != 0) {
			return errors.Overflow(errors.PhaseAccess, []string{i.rec.name, f.Name}, v, f.Type.Name())
		}
		return i.writeRaw(f, uint64(v))
	}
	if w < 64 {
		lo, hi := -(int64(1) << (w - 1)), int64(1)<<(w-1)-1
		if v < lo || v > hi {
			return errors.Overflow(errors.PhaseAccess, []string{i.rec.name, f.Name}, v, f.Type.Name())
		}
	}
	return i.writeRaw(f, uint64(v)&mask(w))
}

// Bool reads a field as a truth value.
func (i *Instance) Bool(name string) (bool, error) {
	v, err := i.Uint(name)
	return v != 0, err
}

// SetBool writes 1 or 0.
func (i *Instance) SetBool(name string, v bool) error {
	if v {
		return i.SetUint(name, 1)
	}
	return i.SetUint(name, 0)
}

// Float reads a float32 or float64 field.
func (i *Instance) Float(name string) (float64, error) {
	f, err := i.lookup(name)
	if err != nil {
		return 0, err
	}
	raw, err := i.readFloat(f)
	if err != nil {
		return 0, err
	}
	if f.Type.Kind() == KindFloat32 {
		return float64(math.Float32frombits(uint32(raw))), nil
	}
	return math.Float64frombits(raw), nil
}

// SetFloat writes a float32 or float64 field.
func (i *Instance) SetFloat(name string, v float64) error {
	f, err := i.lookup(name)
	if err != nil {
		return err
	}
	switch f.Type.Kind() {
	case KindFloat32:
		return i.writeRaw(f, uint64(math.Float32bits(float32(v))))
	case KindFloat64:
		return i.writeRaw(f, math.Float64bits(v))
	default:
		return i.mismatch(f, "float")
	}
}

func (i *Instance) readFloat(f FieldInfo) (uint64, error) {
	if !f.Type.Kind().IsFloat() {
		return 0, i.mismatch(f, "float")
	}
	return i.readRaw(f)
}

// Field returns a view of a by-value record field at its own address.
func (i *Instance) Field(name string) (*Instance, error) {
	f, err := i.lookup(name)
	if err != nil {
		return nil, err
	}
	if f.Type.Kind() != KindRecord {
		return nil, i.mismatch(f, "record")
	}
	addr, err := i.byteAddr(f)
	if err != nil {
		return nil, err
	}
	return f.Type.Record().At(i.mem, addr), nil
}

// Pointer dereferences a pointer field through its typed accessor.
func (i *Instance) Pointer(name string) (*Instance, error) {
	if err := i.valid(); err != nil {
		return nil, err
	}
	pf, err := i.rec.PointerField(name)
	if err != nil {
		return nil, err
	}
	return pf.Get(i)
}

// SetPointer stores the address of v through the field's typed accessor.
func (i *Instance) SetPointer(name string, v *Instance) error {
	if err := i.valid(); err != nil {
		return err
	}
	pf, err := i.rec.PointerField(name)
	if err != nil {
		return err
	}
	return pf.Set(i, v)
}

func (i *Instance) mismatch(f FieldInfo, expected string) error {
	return errors.TypeMismatch(errors.PhaseAccess, []string{i.rec.name, f.Name}, f.Type.Name(), expected)
}

func (i *Instance) byteAddr(f FieldInfo) (uint32, error) {
	addr, err := safecast.Conv[uint32](uint64(i.addr) + f.Offset/8)
	if err != nil {
		return 0, errors.OutOfBounds(errors.PhaseAccess, []string{i.rec.name, f.Name}, uint64(i.addr)+f.Offset/8, uint64(f.Type.Size()))
	}
	return addr, nil
}

func mask(bits uint64) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return 1<<bits - 1
}

// readRaw returns the field's bits zero-extended.
func (i *Instance) readRaw(f FieldInfo) (uint64, error) {
	if f.IsBitfield() {
		return i.readBits(f)
	}
	addr, err := i.byteAddr(f)
	if err != nil {
		return 0, err
	}
	switch f.Type.Size() {
	case 1:
		v, err := i.mem.ReadU8(addr)
		return uint64(v), err
	case 2:
		v, err := i.mem.ReadU16(addr)
		return uint64(v), err
	case 4:
		v, err := i.mem.ReadU32(addr)
		return uint64(v), err
	case 8:
		return i.mem.ReadU64(addr)
	default:
		return 0, i.mismatch(f, "scalar")
	}
}

func (i *Instance) writeRaw(f FieldInfo, v uint64) error {
	if f.IsBitfield() {
		return i.writeBits(f, v)
	}
	addr, err := i.byteAddr(f)
	if err != nil {
		return err
	}
	switch f.Type.Size() {
	case 1:
		return i.mem.WriteU8(addr, uint8(v))
	case 2:
		return i.mem.WriteU16(addr, uint16(v))
	case 4:
		return i.mem.WriteU32(addr, uint32(v))
	case 8:
		return i.mem.WriteU64(addr, v)
	default:
		return i.mismatch(f, "scalar")
	}
}

// span returns the bytes covering a bitfield and the bit position of the
// field inside them. Bits are numbered from the least significant bit of
// the lowest byte.
func (i *Instance) span(f FieldInfo) (uint32, uint32, uint64, error) {
	first := f.Offset / 8
	last := (f.Offset + f.Bits() + 7) / 8
	addr, err := safecast.Conv[uint32](uint64(i.addr) + first)
	if err != nil {
		return 0, 0, 0, errors.OutOfBounds(errors.PhaseAccess, []string{i.rec.name, f.Name}, uint64(i.addr)+first, last-first)
	}
	return addr, uint32(last - first), f.Offset % 8, nil
}

func (i *Instance) readBits(f FieldInfo) (uint64, error) {
	addr, n, shift, err := i.span(f)
	if err != nil {
		return 0, err
	}
	buf, err := i.mem.Read(addr, n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for b := uint64(0); b < f.Bits(); b++ {
		pos := shift + b
		if buf[pos/8]>>(pos%8)&1 == 1 {
			v |= 1 << b
		}
	}
	return v, nil
}

func (i *Instance) writeBits(f FieldInfo, v uint64) error {
	addr, n, shift, err := i.span(f)
	if err != nil {
		return err
	}
	cur, err := i.mem.Read(addr, n)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	copy(buf, cur)
	for b := uint64(0); b < f.Bits(); b++ {
		pos := shift + b
		if v>>b&1 == 1 {
			buf[pos/8] |= 1 << (pos % 8)
		} else {
			buf[pos/8] &^= 1 << (pos % 8)
		}
	}
	return i.mem.Write(addr, buf)
}
