package theory

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidFrequency    = errors.New("frequency must be positive")
	ErrFrequencyOutOfRange = errors.New("frequency outside MIDI range")
)

const centsPerOctave = 1200

// Pitch is the nearest equal-tempered note to a measured frequency
type Pitch struct {
	Frequency float64 `json:"frequency"`
	MIDINote  int     `json:"midi_note"`
	Name      string  `json:"name"`
	Note      Note    `json:"note"`
	Target    float64 `json:"target_frequency"`
	Cents     float64 `json:"cents"` // negative when flat
}

// GuitarString is an open string of the tuner's reference tuning
type GuitarString struct {
	Number   int    `json:"number"` // 6 is the lowest string
	Name     string `json:"name"`
	MIDINote int    `json:"midi_note"`
}

// StandardTuning is E2 A2 D3 G3 B3 E4, lowest string first
var StandardTuning = []GuitarString{
	{Number: 6, Name: "E2", MIDINote: 40},
	{Number: 5, Name: "A2", MIDINote: 45},
	{Number: 4, Name: "D3", MIDINote: 50},
	{Number: 3, Name: "G3", MIDINote: 55},
	{Number: 2, Name: "B3", MIDINote: 59},
	{Number: 1, Name: "E4", MIDINote: 64},
}

// DetectPitch maps a frequency onto the nearest MIDI note and reports the
// deviation in cents
func DetectPitch(freq float64) (Pitch, error) {
	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return Pitch{}, fmt.Errorf("%w: %v", ErrInvalidFrequency, freq)
	}

	note := int(math.Round(a4MIDINote + notesPerOctave*math.Log2(freq/a4Frequency)))
	if note < minMIDINote || note > maxMIDINote {
		return Pitch{}, fmt.Errorf("%w: %.2f Hz", ErrFrequencyOutOfRange, freq)
	}

	target := MIDIToFrequency(note)
	return Pitch{
		Frequency: freq,
		MIDINote:  note,
		Name:      MIDINoteName(note),
		Note:      Notes[note%notesPerOctave],
		Target:    target,
		Cents:     cents(freq, target),
	}, nil
}

// NearestString picks the open string closest to freq and the cents offset from it
func NearestString(freq float64) (GuitarString, float64, error) {
	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return GuitarString{}, 0, fmt.Errorf("%w: %v", ErrInvalidFrequency, freq)
	}

	best := StandardTuning[0]
	bestCents := cents(freq, MIDIToFrequency(best.MIDINote))
	for _, s := range StandardTuning[1:] {
		c := cents(freq, MIDIToFrequency(s.MIDINote))
		if math.Abs(c) < math.Abs(bestCents) {
			best, bestCents = s, c
		}
	}

	return best, bestCents, nil
}

func cents(freq, target float64) float64 {
	return centsPerOctave * math.Log2(freq/target)
}
