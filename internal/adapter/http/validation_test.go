package http

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		RequestID string `json:"request_id" validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	ok := P{RequestID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		err := cv.Validate(P{RequestID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "request_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestFieldNamesFollowTags(t *testing.T) {
	type P struct {
		LeaveType string `json:"leave_type,omitempty" validate:"required"`
		Ref       string `param:"request_id" validate:"required"`
		Plain     string `validate:"required"`
	}
	fe := ToFieldErrors(NewValidator().Validate(P{}))
	for _, field := range []string{"leave_type", "request_id", "Plain"} {
		if !containsFieldMsg(fe, field, "is required") {
			t.Fatalf("missing %s in %+v", field, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name     string   `json:"name" validate:"required"`
		Min      int      `json:"min" validate:"gte=10"`
		Max      int      `json:"max" validate:"lte=5"`
		Date     string   `json:"date" validate:"datetime=2006-01-02"`
		Decision string   `json:"decision" validate:"oneof=Approved Rejected"`
		Address  string   `json:"address" validate:"hostname_port"`
		Records  []string `json:"records" validate:"min=1"`
		Note     string   `json:"note" validate:"max=3"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{
		Name:     "",
		Min:      9,
		Max:      6,
		Date:     "2025/03/01",
		Decision: "Maybe",
		Address:  "no-port",
		Records:  []string{},
		Note:     "too long",
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	for _, want := range []struct{ field, msg string }{
		{"name", "is required"},
		{"min", "greater than or equal to 10"},
		{"max", "less than or equal to 5"},
		{"date", "layout 2006-01-02"},
		{"decision", "one of: Approved Rejected"},
		{"address", "host:port"},
		{"records", "at least 1"},
		{"note", "at most 3"},
	} {
		if !containsFieldMsg(fe, want.field, want.msg) {
			t.Fatalf("missing %q for %s: %+v", want.msg, want.field, fe)
		}
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}

func TestToFieldErrors_Wrapped(t *testing.T) {
	type P struct {
		Name string `json:"name" validate:"required"`
	}
	err := fmt.Errorf("create: %w", NewValidator().Validate(P{}))
	if fe := ToFieldErrors(err); !containsFieldMsg(fe, "name", "is required") {
		t.Fatalf("wrapped errors should still map: %+v", fe)
	}
}
