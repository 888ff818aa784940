package dictionary

import (
	"errors"
	"fmt"
)

// Entry is one glossary term: the literal text to find, the content shown
// in its popover, and an optional link.
type Entry struct {
	Text    string `json:"text" yaml:"text"`
	Content string `json:"content" yaml:"content"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ErrMissingText is wrapped by EntryError when a record has no text.
var ErrMissingText = errors.New("missing text")

// EntryError reports a malformed dictionary record by its position.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("dictionary entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// FetchError carries the raw failure payload of a dictionary fetch.
type FetchError struct {
	Ref    string
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching dictionary %s: status %d", e.Ref, e.Status)
}

// Validate checks every record and returns the first malformed one.
func Validate(entries []Entry) error {
	for i, e := range entries {
		if e.Text == "" {
			return &EntryError{Index: i, Err: ErrMissingText}
		}
	}
	return nil
}
