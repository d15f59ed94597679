package format

import (
	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/record"
)

// EnumEntry is one label of an Enum. Entries built with Auto take the
// previous entry's value plus one; the first one starts at zero.
type EnumEntry struct {
	Name     string
	Value    int64
	Explicit bool
}

// Auto is an entry whose value follows the previous entry.
func Auto(name string) EnumEntry {
	return EnumEntry{Name: name}
}

// Value is an entry with an explicit value.
func Value(name string, v int64) EnumEntry {
	return EnumEntry{Name: name, Value: v, Explicit: true}
}

// Enum maps integer values to labels. The first label wins when two
// entries share a value.
type Enum struct {
	byValue map[int64]string
	byName  map[string]int64
	name    string
	entries []EnumEntry
}

func NewEnum(name string, entries ...EnumEntry) (*Enum, error) {
	e := &Enum{
		name:    name,
		byValue: make(map[int64]string, len(entries)),
		byName:  make(map[string]int64, len(entries)),
		entries: make([]EnumEntry, 0, len(entries)),
	}
	next := int64(0)
	for _, entry := range entries {
		if entry.Name == "" {
			return nil, errors.InvalidDeclaration(name, nil, "enum entry without a name")
		}
		if _, dup := e.byName[entry.Name]; dup {
			return nil, errors.InvalidDeclaration(name, []string{entry.Name}, "duplicate enum label")
		}
		if !entry.Explicit {
			entry.Value = next
			entry.Explicit = true
		}
		next = entry.Value + 1

		e.byName[entry.Name] = entry.Value
		if _, taken := e.byValue[entry.Value]; !taken {
			e.byValue[entry.Value] = entry.Name
		}
		e.entries = append(e.entries, entry)
	}
	return e, nil
}

func (e *Enum) Name() string { return e.name }

// Entries returns the entries with their resolved values.
func (e *Enum) Entries() []EnumEntry {
	return append([]EnumEntry(nil), e.entries...)
}

// String returns the label of v.
func (e *Enum) String(v int64) (string, error) {
	if name, ok := e.byValue[v]; ok {
		return name, nil
	}
	return "", errors.InvalidEnum(errors.PhaseFormat, v, e.name)
}

// Lookup returns the value of a label.
func (e *Enum) Lookup(name string) (int64, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// Field reads an integer field of inst and returns its label.
func (e *Enum) Field(inst *record.Instance, name string) (string, error) {
	v, err := inst.Int(name)
	if err != nil {
		return "", err
	}
	return e.String(v)
}
