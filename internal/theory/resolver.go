// Package theory resolves scales, chords and pitches for the practice tools.
package theory

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKey   = errors.New("unknown key")
	ErrUnknownScale = errors.New("unknown scale")
)

// ResolveScale returns the notes of scaleName starting from key.
//
// Unknown keys produce an empty slice and unknown scale names fall back to
// major; neither is reported as an error. mode is accepted for callers that
// already pass it but does not change the result.
func ResolveScale(key Note, scaleName string, mode string) []Note {
	root, ok := NoteIndex(key)
	if !ok {
		return []Note{}
	}

	tmpl, ok := LookupScale(scaleName)
	if !ok {
		tmpl, _ = LookupScale(DefaultScale)
	}

	return spell(root, tmpl.Intervals)
}

// ResolveScaleStrict is ResolveScale without the silent fallbacks
func ResolveScaleStrict(key Note, scaleName string, mode string) ([]Note, error) {
	root, ok := NoteIndex(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	tmpl, ok := LookupScale(scaleName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScale, scaleName)
	}

	return spell(root, tmpl.Intervals), nil
}

func spell(root int, intervals []int) []Note {
	notes := make([]Note, 0, len(intervals))
	for _, offset := range intervals {
		notes = append(notes, Notes[(root+offset)%notesPerOctave])
	}
	return notes
}
