package timing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidMeter = errors.New("invalid time signature")

// Meter is a time signature. Beats are always counted at the tempo's beat
// length; BeatUnit is kept for display and MIDI meta events.
type Meter struct {
	BeatsPerBar int `json:"beats_per_bar"`
	BeatUnit    int `json:"beat_unit"`
}

// CommonTime is 4/4, the meter of the package-level functions
var CommonTime = Meter{BeatsPerBar: 4, BeatUnit: 4}

const maxBeatsPerBar = 32

// ParseMeter reads a time signature such as "3/4" or "6/8"
func ParseMeter(s string) (Meter, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return Meter{}, fmt.Errorf("%w: %q", ErrInvalidMeter, s)
	}

	beats, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Meter{}, fmt.Errorf("%w: %q", ErrInvalidMeter, s)
	}
	unit, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Meter{}, fmt.Errorf("%w: %q", ErrInvalidMeter, s)
	}

	m := Meter{BeatsPerBar: beats, BeatUnit: unit}
	if err := m.Validate(); err != nil {
		return Meter{}, err
	}
	return m, nil
}

// Validate checks the beat count and that the unit is a power of two
func (m Meter) Validate() error {
	if m.BeatsPerBar < 1 || m.BeatsPerBar > maxBeatsPerBar {
		return fmt.Errorf("%w: %d beats per bar", ErrInvalidMeter, m.BeatsPerBar)
	}
	if m.BeatUnit < 1 || m.BeatUnit > 64 || m.BeatUnit&(m.BeatUnit-1) != 0 {
		return fmt.Errorf("%w: beat unit %d", ErrInvalidMeter, m.BeatUnit)
	}
	return nil
}

func (m Meter) String() string {
	return fmt.Sprintf("%d/%d", m.BeatsPerBar, m.BeatUnit)
}

// BarLength is the length of one bar in seconds
func (m Meter) BarLength(bpm float64) float64 {
	return BeatLength(bpm) * float64(m.BeatsPerBar)
}

// SnapToBar floors time to the start of its bar
func (m Meter) SnapToBar(time, bpm float64) float64 {
	bar := m.BarLength(bpm)
	return math.Floor(time/bar) * bar
}

// LoopRegion spans bars whole bars from start
func (m Meter) LoopRegion(start float64, bars int, bpm float64) LoopRegion {
	return LoopRegion{
		Start: start,
		End:   start + float64(bars)*m.BarLength(bpm),
	}
}

// MeasureBoundaries returns ceil(duration/bar)+1 bar start times beginning at 0
func (m Meter) MeasureBoundaries(duration, bpm float64) []float64 {
	bar := m.BarLength(bpm)
	count := int(math.Ceil(duration/bar)) + 1
	if count < 1 {
		count = 1
	}

	boundaries := make([]float64, count)
	for i := range boundaries {
		boundaries[i] = float64(i) * bar
	}
	return boundaries
}
