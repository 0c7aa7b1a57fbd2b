package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxNameLen = 64

// NameError explains why a profile name was rejected.
type NameError struct {
	Name    string
	Reason  string
	Suggest string
}

func (e *NameError) Error() string {
	msg := fmt.Sprintf("invalid profile name %q: %s", e.Name, e.Reason)
	if e.Suggest != "" {
		msg += fmt.Sprintf(" (try %q)", e.Suggest)
	}
	return msg
}

// ValidateName accepts lowercase letters, digits, '-' and '_', up to 64
// characters. Profile names become directory names.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &NameError{Name: name, Reason: "name is empty"}
	case len(name) > maxNameLen:
		return &NameError{Name: name, Reason: fmt.Sprintf("longer than %d characters", maxNameLen), Suggest: suggest(name)}
	}
	for i, r := range name {
		if !nameRune(r) {
			return &NameError{
				Name:    name,
				Reason:  fmt.Sprintf("character %q at position %d is not allowed; use a-z, 0-9, '-' or '_'", r, utf8.RuneCountInString(name[:i])+1),
				Suggest: suggest(name),
			}
		}
	}
	return nil
}

func nameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

// suggest derives a valid name from s, or returns "" when nothing usable is
// left.
func suggest(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case nameRune(r):
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > maxNameLen {
		out = out[:maxNameLen]
	}
	return out
}
