package goalid

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNumericID(t *testing.T) {
	tests := []struct {
		name   string
		opaque string
		want   uint64
	}{
		{"uuid", "0f8fad5b-d9cb-469f-a165-70867728950e", 0x0f8fad5bd9cb469f},
		{"upper case", "0F8FAD5B-D9CB-469F-A165-70867728950E", 0x0f8fad5bd9cb469f},
		{"short", "ff", 0xff},
		{"exactly sixteen", "ffffffffffffffff", ^uint64(0)},
		{"separators only between groups", "12-34", 0x1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NumericID(tt.opaque)
			if err != nil {
				t.Fatalf("NumericID(%q) error: %v", tt.opaque, err)
			}
			if got != tt.want {
				t.Errorf("NumericID(%q) = %#x, want %#x", tt.opaque, got, tt.want)
			}
		})
	}
}

func TestNumericIDRejects(t *testing.T) {
	for _, in := range []string{"", "---", "not-a-uuid", "0f8fad5b-d9cb-469f-a165-7086772895zz", "12 34"} {
		if _, err := NumericID(in); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("NumericID(%q) error = %v, want ErrInvalidIdentifier", in, err)
		}
	}
}

func TestNumericIDIsStable(t *testing.T) {
	for i := 0; i < 50; i++ {
		opaque := uuid.NewString()
		a, err := NumericID(opaque)
		if err != nil {
			t.Fatalf("NumericID(%q): %v", opaque, err)
		}
		b, _ := NumericID(opaque)
		if a != b {
			t.Fatalf("NumericID(%q) not stable: %d != %d", opaque, a, b)
		}
	}
}

func TestSharedPrefixCollides(t *testing.T) {
	a, _ := NumericID("0f8fad5b-d9cb-469f-0000-000000000001")
	b, _ := NumericID("0f8fad5b-d9cb-469f-ffff-000000000002")
	if a != b {
		t.Errorf("expected ids sharing a 16 char prefix to collide, got %d and %d", a, b)
	}
}

func TestParseFormat(t *testing.T) {
	for _, id := range []uint64{0, 1, 1 << 53, ^uint64(0)} {
		got, err := Parse(Format(id))
		if err != nil {
			t.Fatalf("Parse(Format(%d)): %v", id, err)
		}
		if got != id {
			t.Errorf("Parse(Format(%d)) = %d", id, got)
		}
	}
	if _, err := Parse("-1"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("Parse(-1) error = %v, want ErrInvalidIdentifier", err)
	}
}
