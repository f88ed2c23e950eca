package validation

import (
	"errors"
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

const MaxGoalNameLength = 100

var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name is too long (max 100 characters)")
)

// Removes all HTML tags
var strictHTMLPolicy = bluemonday.StrictPolicy()

// GoalName strips markup and control characters from name and checks its length.
// It returns the cleaned name that should be stored.
func GoalName(name string) (string, error) {
	cleaned := html.UnescapeString(strictHTMLPolicy.Sanitize(name))
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, cleaned)
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return "", ErrNameRequired
	}

	if len([]rune(cleaned)) > MaxGoalNameLength {
		return "", ErrNameTooLong
	}

	return cleaned, nil
}
