// Package goalid derives numeric goal ids from the relational store's opaque row ids.
package goalid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PrefixLen is the number of hex characters read from an opaque id.
const PrefixLen = 16

var ErrInvalidIdentifier = errors.New("invalid identifier")

// NumericID strips '-' separators from opaque and reads its first PrefixLen hex
// characters as an unsigned integer. Two ids sharing that prefix map to the same
// value; callers that look rows up by numeric id must detect the collision.
func NumericID(opaque string) (uint64, error) {
	hex := strings.ReplaceAll(strings.TrimSpace(opaque), "-", "")
	if hex == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	for _, r := range hex {
		if !isHex(r) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, opaque)
		}
	}
	if len(hex) > PrefixLen {
		hex = hex[:PrefixLen]
	}

	id, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidIdentifier, opaque, err)
	}
	return id, nil
}

// Parse reads a numeric id as written by Format.
func Parse(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return id, nil
}

// Format renders id in decimal. Numeric ids can exceed 2^53 so they travel as strings.
func Format(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
