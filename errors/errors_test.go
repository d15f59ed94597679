package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseAccess,
				Kind:     KindTypeMismatch,
				Path:     []string{"node", "next"},
				Record:   "Other",
				Expected: "Node",
				Detail:   "pointee differs",
			},
			contains: []string{"[access]", "type_mismatch", "node.next", "Other", "Node", "pointee differs"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseQuery,
				Kind:  KindFieldNotFound,
			},
			contains: []string{"[query]", "field_not_found"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "bad schema",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_data", "bad schema", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseResolve,
		Kind:  KindAlreadyResolved,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseResolve, Kind: KindAlreadyResolved}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDeclare, Kind: KindAlreadyResolved}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseResolve, Kind: KindFieldNotFound}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrAlreadyResolved) {
		t.Error("errors.Is should match kind sentinel")
	}
	if errors.Is(err, ErrUnresolvedTarget) {
		t.Error("errors.Is should not match other kind sentinel")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDeclare, KindInvalidDeclaration).
		Path("flags").
		Record("Node").
		Expected("integer").
		Value(3).
		Cause(cause).
		Detail("width %d on %s", 3, "float32").
		Build()

	if err.Phase != PhaseDeclare {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDeclare)
	}
	if err.Kind != KindInvalidDeclaration {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidDeclaration)
	}
	if len(err.Path) != 1 || err.Path[0] != "flags" {
		t.Errorf("Path = %v, want [flags]", err.Path)
	}
	if err.Record != "Node" || err.Expected != "integer" {
		t.Errorf("Record=%v Expected=%v", err.Record, err.Expected)
	}
	if err.Value != 3 {
		t.Errorf("Value = %v, want 3", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "width 3 on float32" {
		t.Errorf("Detail = %v, want 'width 3 on float32'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidDeclaration", func(t *testing.T) {
		err := InvalidDeclaration("Node", []string{"x"}, "bad width %d", 0)
		if err.Kind != KindInvalidDeclaration || err.Phase != PhaseDeclare {
			t.Errorf("Kind=%v Phase=%v", err.Kind, err.Phase)
		}
		if err.Detail != "bad width 0" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("UnresolvedTarget", func(t *testing.T) {
		err := UnresolvedTarget("A", "b", "B")
		if err.Kind != KindUnresolvedTarget {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnresolvedTarget)
		}
		if !strings.Contains(err.Error(), `"B"`) {
			t.Errorf("message %q should name the placeholder", err.Error())
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseAccess, []string{"next"}, "Other", "Node")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.Record != "Other" || err.Expected != "Node" {
			t.Errorf("Record=%v Expected=%v", err.Record, err.Expected)
		}
	})

	t.Run("AlreadyResolved", func(t *testing.T) {
		err := AlreadyResolved("P", "B")
		if err.Kind != KindAlreadyResolved || err.Phase != PhaseResolve {
			t.Errorf("Kind=%v Phase=%v", err.Kind, err.Phase)
		}
	})

	t.Run("FieldNotFound", func(t *testing.T) {
		err := FieldNotFound(PhaseQuery, "Node", "nxt")
		if err.Kind != KindFieldNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindFieldNotFound)
		}
		if err.Value != "nxt" {
			t.Errorf("Value = %v, want nxt", err.Value)
		}
	})

	t.Run("DanglingForward", func(t *testing.T) {
		err := DanglingForward([]string{"A", "B"})
		if err.Kind != KindDanglingForward {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDanglingForward)
		}
		if !strings.Contains(err.Detail, "A, B") {
			t.Errorf("Detail = %q, should list placeholders", err.Detail)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseAccess, []string{"value"}, 0x10000, 4)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != uint64(0x10000) {
			t.Errorf("Value = %v, want 0x10000", err.Value)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseMemory, 1024, 8)
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseAccess, []string{"flags"}, 9, "3-bit field")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
	})

	t.Run("InvalidEnum", func(t *testing.T) {
		err := InvalidEnum(PhaseFormat, 7, "Mode")
		if err.Kind != KindInvalidEnum || err.Expected != "Mode" {
			t.Errorf("Kind=%v Expected=%v", err.Kind, err.Expected)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("io")
		err := Wrap(PhaseLoad, KindInvalidData, cause, "read schema")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep the cause in the chain")
		}
	})
}
