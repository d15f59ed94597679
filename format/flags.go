package format

import (
	"strconv"
	"strings"

	"github.com/wippyai/structlayout/record"
)

// Flags joins the names of the set 1-bit fields of inst with " | ".
// Fields of other widths are ignored. No set flag yields "".
func Flags(inst *record.Instance) (string, error) {
	var set []string
	for _, f := range inst.Layout().Fields() {
		if f.Width != 1 {
			continue
		}
		v, err := inst.Uint(f.Name)
		if err != nil {
			return "", err
		}
		if v == 1 {
			set = append(set, f.ExternalName())
		}
	}
	return strings.Join(set, " | "), nil
}

// Mask formats a plain integer bit mask: bit i is named names[i]. Bits
// without a name are shown in hex.
func Mask(mask uint64, names ...string) string {
	var set []string
	for i := 0; i < 64 && mask != 0; i++ {
		bit := uint64(1) << i
		if mask&bit == 0 {
			continue
		}
		mask &^= bit
		if i < len(names) && names[i] != "" {
			set = append(set, names[i])
		} else {
			set = append(set, "0x"+strconv.FormatUint(bit, 16))
		}
	}
	return strings.Join(set, " | ")
}
