// Package midifile writes Standard MIDI Files for metronome clicks and scale practice.
package midifile

import (
	"fmt"
	"io"
	"math"

	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/Conceptual-Machines/maestro-api/internal/timing"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarterNote = 960 // Standard MIDI resolution

	// General MIDI percussion lives on channel 10
	percussionChannel = 9
	accentClickNote   = 76 // Hi wood block
	normalClickNote   = 77 // Low wood block
	accentVelocity    = 127
	normalVelocity    = 90
	clickTicks        = ticksPerQuarterNote / 4

	scaleChannel   = 0
	scaleVelocity  = 100
	maxMIDINote    = 127
	notesPerOctave = 12
)

// WriteClickTrack writes bars bars of metronome clicks in meter at bpm
func WriteClickTrack(w io.Writer, bpm float64, bars int, meter timing.Meter) error {
	if bpm <= 0 {
		return fmt.Errorf("invalid tempo: %v", bpm)
	}
	if bars <= 0 {
		return fmt.Errorf("invalid bar count: %d", bars)
	}
	if err := meter.Validate(); err != nil {
		return err
	}

	sm := newSMF()
	if err := sm.Add(tempoTrack(bpm, meter)); err != nil {
		return fmt.Errorf("error adding tempo track: %w", err)
	}

	beat := timing.BeatLength(bpm)
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("Click"))

	var lastTick uint32
	for _, click := range timing.ClickSchedule(bpm, bars, meter) {
		pos := uint32(math.Round(click.Time / beat * ticksPerQuarterNote))

		note, velocity := uint8(normalClickNote), uint8(normalVelocity)
		if click.Accent {
			note, velocity = accentClickNote, accentVelocity
		}

		track.Add(pos-lastTick, midi.NoteOn(percussionChannel, note, velocity))
		track.Add(clickTicks, midi.NoteOff(percussionChannel, note))
		lastTick = pos + clickTicks
	}

	endTick := uint32(bars*meter.BeatsPerBar) * ticksPerQuarterNote
	if lastTick < endTick {
		track.Close(endTick - lastTick)
	} else {
		track.Close(0)
	}
	if err := sm.Add(track); err != nil {
		return fmt.Errorf("error adding click track: %w", err)
	}

	return write(w, sm)
}

// WriteScale writes the scale as ascending quarter notes starting at octave,
// finishing on the root one octave up
func WriteScale(w io.Writer, notes []theory.Note, octave int, bpm float64) error {
	if len(notes) == 0 {
		return fmt.Errorf("no notes to write")
	}
	if bpm <= 0 {
		return fmt.Errorf("invalid tempo: %v", bpm)
	}

	pitches, err := ascendingPitches(notes, octave)
	if err != nil {
		return err
	}

	sm := newSMF()
	if err := sm.Add(tempoTrack(bpm, timing.CommonTime)); err != nil {
		return fmt.Errorf("error adding tempo track: %w", err)
	}

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("Scale"))
	for _, p := range pitches {
		track.Add(0, midi.NoteOn(scaleChannel, p, scaleVelocity))
		track.Add(ticksPerQuarterNote, midi.NoteOff(scaleChannel, p))
	}
	track.Close(0)

	if err := sm.Add(track); err != nil {
		return fmt.Errorf("error adding scale track: %w", err)
	}

	return write(w, sm)
}

// ascendingPitches places each pitch class above the root within one octave
// and appends the octave
func ascendingPitches(notes []theory.Note, octave int) ([]uint8, error) {
	rootIdx, ok := theory.NoteIndex(notes[0])
	if !ok {
		return nil, fmt.Errorf("invalid root: %q", notes[0])
	}

	// MIDI octave -1 starts at note 0
	root := (octave+1)*notesPerOctave + rootIdx
	if root < 0 || root+notesPerOctave > maxMIDINote {
		return nil, fmt.Errorf("octave %d is out of MIDI range", octave)
	}

	pitches := make([]uint8, 0, len(notes)+1)
	for _, n := range notes {
		idx, ok := theory.NoteIndex(n)
		if !ok {
			return nil, fmt.Errorf("invalid note: %q", n)
		}
		offset := ((idx-rootIdx)%notesPerOctave + notesPerOctave) % notesPerOctave
		pitches = append(pitches, uint8(root+offset)) //nolint:gosec // root+offset < root+12 <= 127
	}
	pitches = append(pitches, uint8(root+notesPerOctave)) //nolint:gosec // checked against maxMIDINote

	return pitches, nil
}

func newSMF() *smf.SMF {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarterNote)
	return sm
}

func tempoTrack(bpm float64, meter timing.Meter) smf.Track {
	var track smf.Track
	track.Add(0, smf.MetaMeter(uint8(meter.BeatsPerBar), uint8(meter.BeatUnit))) //nolint:gosec // validated meter
	track.Add(0, smf.MetaTempo(bpm))
	track.Close(0)
	return track
}

func write(w io.Writer, sm *smf.SMF) error {
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}
