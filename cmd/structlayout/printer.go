package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/structlayout/record"
	"github.com/wippyai/structlayout/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// printer renders layouts as text tables, styled only on a terminal.
type printer struct {
	styled bool
}

func newPrinter(styled bool) printer {
	return printer{styled: styled}
}

func (p printer) paint(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p printer) warn(text string) string {
	return p.paint(errorStyle, "warning: "+text)
}

func (p printer) header(s *schema.Schema) string {
	a := s.ABI()
	return fmt.Sprintf("%s %s (pointer %d/%d)", p.paint(titleStyle, s.Path), a.Name, a.PtrSize, a.PtrAlign)
}

// layout renders one record: a title line, then one row per physical
// field with its bit offset, width and type.
func (p printer) layout(rec *record.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s size=%d align=%d\n", p.paint(titleStyle, rec.Name()), rec.Size(), rec.Align())

	fields := rec.Layout().Fields()
	nameWidth := len("field")
	for _, f := range fields {
		nameWidth = max(nameWidth, len(f.Name))
	}

	fmt.Fprintf(&b, "  %-*s %8s %6s  %s\n", nameWidth, "field", "offset", "bits", "type")
	for _, f := range fields {
		name := fmt.Sprintf("%-*s", nameWidth, f.Name)
		fmt.Fprintf(&b, "  %s %8d %6d  %s\n",
			p.paint(fieldStyle, name), f.Offset, f.Bits(), p.paint(typeStyle, typeLabel(rec, f)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// typeLabel names a field's type; pointer slots show their target.
func typeLabel(rec *record.Record, f record.FieldInfo) string {
	if !f.IsPointer() {
		if f.IsBitfield() {
			return fmt.Sprintf("%s:%d", f.Type.Name(), f.Width)
		}
		return f.Type.Name()
	}
	pf, err := rec.PointerField(f.Name)
	if err != nil {
		return f.Type.Name()
	}
	return "*" + pf.TargetName()
}
