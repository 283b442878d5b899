package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	clockRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	slugStrip  = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateClock checks an HH:MM string in the 00:00–23:59 range.
func ValidateClock(s string) error {
	if !clockRegex.MatchString(s) {
		return fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return nil
}

// Slugify turns a display name into a URL-safe slug.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = replaceAccents(s)
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// replaceAccents folds the latin accented letters common in venue names.
func replaceAccents(s string) string {
	r := strings.NewReplacer(
		"á", "a", "à", "a", "ã", "a", "â", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "õ", "o", "ô", "o",
		"ú", "u", "ü", "u",
		"ç", "c",
	)
	return r.Replace(s)
}

// Timestamp layouts accepted on input. All times are naive local instants;
// an explicit zone offset, if present, is discarded.
var localLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseLocalTime parses an ISO-like timestamp into a naive local instant.
func ParseLocalTime(s string) (time.Time, error) {
	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
