package dictionary

import (
	"fmt"
	"strings"
)

// WarningKind classifies a lint finding.
type WarningKind string

const (
	WarnDuplicate WarningKind = "duplicate"
	WarnOverlap   WarningKind = "overlap"
)

// Warning describes an ambiguity in a dictionary that does not prevent
// annotation but changes which entry wins a match.
type Warning struct {
	Kind    WarningKind
	Index   int // entry that loses the match
	Other   int // entry that shadows it
	Message string
}

// Lint reports repeated keys and keys that occur inside a longer key
// containing whitespace. Earlier entries win matches, so a short key listed
// before a longer phrase that contains it will split that phrase.
func Lint(entries []Entry) []Warning {
	var warnings []Warning
	seen := make(map[string]int, len(entries))

	for i, e := range entries {
		if first, ok := seen[e.Text]; ok {
			warnings = append(warnings, Warning{
				Kind:    WarnDuplicate,
				Index:   i,
				Other:   first,
				Message: fmt.Sprintf("entry %d repeats %q from entry %d and will never match", i, e.Text, first),
			})
			continue
		}
		seen[e.Text] = i
	}

	for i, long := range entries {
		if !strings.ContainsAny(long.Text, " \t\n") {
			continue
		}
		for j, short := range entries {
			if j >= i || short.Text == "" || short.Text == long.Text {
				continue
			}
			if strings.Contains(long.Text, short.Text) {
				warnings = append(warnings, Warning{
					Kind:    WarnOverlap,
					Index:   i,
					Other:   j,
					Message: fmt.Sprintf("entry %d %q contains earlier entry %d %q", i, long.Text, j, short.Text),
				})
			}
		}
	}

	return warnings
}
