package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestGoalName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"Trip to Lagos", "Trip to Lagos", nil},
		{"  padded  ", "padded", nil},
		{"<b>Rent</b> & bills", "Rent & bills", nil},
		{"<script>alert(1)</script>", "", ErrNameRequired},
		{"   ", "", ErrNameRequired},
		{strings.Repeat("é", 100), strings.Repeat("é", 100), nil},
		{strings.Repeat("a", 101), "", ErrNameTooLong},
	}

	for _, tt := range tests {
		got, err := GoalName(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("GoalName(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("GoalName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddress(t *testing.T) {
	got, err := Address("0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1")
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if got != "0x874069fa1eb16d44d622f2e0ca25eea172369bc1" {
		t.Errorf("Address = %q", got)
	}

	for _, bad := range []string{"", "0x123", "874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1", "0xZZ4069Fa1Eb16D44d622F2e0Ca25eeA172369bC1"} {
		if _, err := Address(bad); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("Address(%q) error = %v, want ErrInvalidAddress", bad, err)
		}
	}
}

func TestStruct(t *testing.T) {
	type req struct {
		Name   string `validate:"required,max=5"`
		Amount string `validate:"required,numeric"`
	}

	if errs := Struct(req{Name: "Trip", Amount: "10.5"}); errs != nil {
		t.Errorf("valid request reported %v", errs)
	}

	errs := Struct(req{Name: "too long name"})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if errs[0].Field != "Name" || errs[0].Type != "max" {
		t.Errorf("first error = %+v", errs[0])
	}
	if errs[1].Field != "Amount" || errs[1].Type != "required" {
		t.Errorf("second error = %+v", errs[1])
	}
}
