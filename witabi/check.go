package witabi

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/record"
)

// Check projects rec and verifies that the canonical layout of the WIT
// record matches the compiled layout: same size, alignment and byte
// offset for every field.
func Check(rec *record.Record) error {
	td, err := Project(rec)
	if err != nil {
		return err
	}
	info := NewCalculator().Calculate(td)

	if info.Size != rec.Size() || info.Align != rec.Align() {
		return mismatch(rec, nil,
			fmt.Sprintf("size %d align %d", rec.Size(), rec.Align()),
			fmt.Sprintf("size %d align %d", info.Size, info.Align))
	}

	fields := td.Kind.(*wit.Record).Fields
	for i, f := range rec.Layout().Fields() {
		got := uint32(f.Offset / 8)
		want := info.FieldOffs[fields[i].Name]
		if got != want {
			return mismatch(rec, []string{f.Name},
				fmt.Sprintf("offset %d", got),
				fmt.Sprintf("offset %d", want))
		}
	}
	return nil
}

func mismatch(rec *record.Record, path []string, got, want string) error {
	return errors.New(errors.PhaseFormat, errors.KindTypeMismatch).
		Record(rec.Name()).
		Path(path...).
		Expected(want).
		Detail("compiled layout has %s, canonical ABI %s", got, want).
		Build()
}
