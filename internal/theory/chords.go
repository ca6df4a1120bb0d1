package theory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotHeptatonic is returned when triads are requested for a scale
// that does not have seven notes
var ErrNotHeptatonic = errors.New("scale does not have seven notes")

// Chord qualities
const (
	QualityMajor      = "major"
	QualityMinor      = "minor"
	QualityDiminished = "diminished"
	QualityAugmented  = "augmented"
)

const heptatonicSize = 7

var romanNumerals = [heptatonicSize]string{"I", "II", "III", "IV", "V", "VI", "VII"}

// Chord is a triad built on one degree of a scale
type Chord struct {
	Degree  int    `json:"degree"` // 1-based scale degree
	Numeral string `json:"numeral"`
	Root    Note   `json:"root"`
	Quality string `json:"quality"`
	Symbol  string `json:"symbol"`
	Notes   []Note `json:"notes"`
}

// DiatonicTriads stacks thirds on every degree of a seven-note scale
func DiatonicTriads(key Note, scaleName string) ([]Chord, error) {
	scale, err := ResolveScaleStrict(key, scaleName, "")
	if err != nil {
		return nil, err
	}
	if len(scale) != heptatonicSize {
		return nil, fmt.Errorf("%w: %s has %d", ErrNotHeptatonic, scaleName, len(scale))
	}

	chords := make([]Chord, 0, heptatonicSize)
	for degree := range scale {
		root := scale[degree]
		third := scale[(degree+2)%heptatonicSize]
		fifth := scale[(degree+4)%heptatonicSize]

		quality := triadQuality(root, third, fifth)
		chords = append(chords, Chord{
			Degree:  degree + 1,
			Numeral: numeral(degree, quality),
			Root:    root,
			Quality: quality,
			Symbol:  string(root) + symbolSuffix(quality),
			Notes:   []Note{root, third, fifth},
		})
	}

	return chords, nil
}

func triadQuality(root, third, fifth Note) string {
	r, _ := NoteIndex(root)
	t, _ := NoteIndex(third)
	f, _ := NoteIndex(fifth)

	thirdInterval := mod(t-r, notesPerOctave)
	fifthInterval := mod(f-r, notesPerOctave)

	switch {
	case thirdInterval == 3 && fifthInterval == 6:
		return QualityDiminished
	case thirdInterval == 4 && fifthInterval == 8:
		return QualityAugmented
	case thirdInterval == 3:
		return QualityMinor
	default:
		return QualityMajor
	}
}

func symbolSuffix(quality string) string {
	switch quality {
	case QualityMinor:
		return "m"
	case QualityDiminished:
		return "dim"
	case QualityAugmented:
		return "aug"
	default:
		return ""
	}
}

func numeral(degree int, quality string) string {
	n := romanNumerals[degree]
	switch quality {
	case QualityMinor:
		return strings.ToLower(n)
	case QualityDiminished:
		return strings.ToLower(n) + "°"
	case QualityAugmented:
		return n + "+"
	default:
		return n
	}
}
