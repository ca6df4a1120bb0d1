package theory

import (
	"fmt"
	"math"
	"strings"
)

// Note is a pitch class name using sharp spellings only
type Note string

const (
	notesPerOctave = 12
	minMIDINote    = 0
	maxMIDINote    = 127
	a4MIDINote     = 69
	a4Frequency    = 440.0
)

// Notes is the canonical pitch class order; the index is the semitone offset from C
var Notes = [notesPerOctave]Note{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Semitone offsets of the natural note letters from C
var letterOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// NoteIndex returns the semitone offset of a canonical note name.
// Only exact canonical spellings match ("C#", not "c#" or "Db").
func NoteIndex(n Note) (int, bool) {
	for i, candidate := range Notes {
		if candidate == n {
			return i, true
		}
	}
	return -1, false
}

// ParseNote converts a user supplied note name into its canonical form.
// The letter is case insensitive and flats are respelled as sharps: "bb" -> "A#".
func ParseNote(name string) (Note, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 2 {
		return "", false
	}

	letter := strings.ToUpper(name[:1])[0]
	semitone, ok := letterOffsets[letter]
	if !ok {
		return "", false
	}

	if len(name) == 2 {
		switch name[1] {
		case '#':
			semitone++
		case 'b':
			semitone--
		default:
			return "", false
		}
	}

	return Notes[mod(semitone, notesPerOctave)], true
}

// MIDINoteName returns the scientific pitch name of a MIDI note, 60 -> "C4"
func MIDINoteName(note int) string {
	octave := note/notesPerOctave - 1
	return fmt.Sprintf("%s%d", Notes[mod(note, notesPerOctave)], octave)
}

// NoteNameToMIDI converts a note name like "E1", "C4", "F#3" or "Bb2" to a MIDI note number.
// The result is clamped to the 0-127 MIDI range.
func NoteNameToMIDI(noteName string) (int, error) {
	if len(noteName) < 2 {
		return 0, fmt.Errorf("note name too short: %s", noteName)
	}

	// Pitch class is one letter plus an optional accidental
	idx := 1
	if noteName[1] == '#' || noteName[1] == 'b' {
		idx = 2
	}
	pitch, ok := ParseNote(noteName[:idx])
	if !ok {
		return 0, fmt.Errorf("invalid note in note name: %s", noteName)
	}
	semitone, _ := NoteIndex(pitch)

	if idx >= len(noteName) {
		return 0, fmt.Errorf("missing octave in note name: %s", noteName)
	}

	var octave int
	if _, err := fmt.Sscanf(noteName[idx:], "%d", &octave); err != nil {
		return 0, fmt.Errorf("invalid octave in note name %s: %w", noteName, err)
	}

	// Bb and Cb respell into the octave below their letter
	letter := strings.ToUpper(noteName[:1])[0]
	if letterOffsets[letter] == 0 && noteName[1] == 'b' {
		octave--
	}
	if letter == 'B' && noteName[1] == '#' {
		octave++
	}

	// C-1 = 0, C4 = 60
	midiNote := (octave+1)*notesPerOctave + semitone

	if midiNote < minMIDINote {
		midiNote = minMIDINote
	}
	if midiNote > maxMIDINote {
		midiNote = maxMIDINote
	}

	return midiNote, nil
}

// MIDIToFrequency converts a MIDI note number to frequency in Hz (A4 = 440 Hz)
func MIDIToFrequency(note int) float64 {
	return a4Frequency * math.Pow(2.0, float64(note-a4MIDINote)/notesPerOctave)
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
