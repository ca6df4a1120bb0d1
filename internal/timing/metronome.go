package timing

import (
	"errors"
	"fmt"
)

// Metronome tempo limits
const (
	MinTempo     = 60.0
	MaxTempo     = 200.0
	DefaultTempo = 120.0
)

var (
	ErrNotEnoughTaps = errors.New("tap tempo needs at least two taps")
	ErrUnorderedTaps = errors.New("tap times must be strictly increasing")
)

// Click is one metronome beat
type Click struct {
	Time   float64 `json:"time"`
	Bar    int     `json:"bar"`  // 1-based
	Beat   int     `json:"beat"` // 1-based within the bar
	Accent bool    `json:"accent"`
}

// ClampTempo limits bpm to the metronome range
func ClampTempo(bpm float64) float64 {
	if bpm < MinTempo {
		return MinTempo
	}
	if bpm > MaxTempo {
		return MaxTempo
	}
	return bpm
}

// ClickSchedule lists every beat of bars bars in meter, accenting the downbeat
func ClickSchedule(bpm float64, bars int, meter Meter) []Click {
	if bars <= 0 {
		return []Click{}
	}

	beat := BeatLength(bpm)
	clicks := make([]Click, 0, bars*meter.BeatsPerBar)
	for bar := 0; bar < bars; bar++ {
		for b := 0; b < meter.BeatsPerBar; b++ {
			index := bar*meter.BeatsPerBar + b
			clicks = append(clicks, Click{
				Time:   float64(index) * beat,
				Bar:    bar + 1,
				Beat:   b + 1,
				Accent: b == 0,
			})
		}
	}
	return clicks
}

// TapTempo derives a tempo from tap timestamps in seconds using the mean interval
func TapTempo(taps []float64) (float64, error) {
	if len(taps) < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrNotEnoughTaps, len(taps))
	}

	for i := 1; i < len(taps); i++ {
		if taps[i] <= taps[i-1] {
			return 0, fmt.Errorf("%w: tap %d at %.3fs", ErrUnorderedTaps, i, taps[i])
		}
	}

	// The mean of consecutive intervals telescopes to the overall span
	meanSeconds := (taps[len(taps)-1] - taps[0]) / float64(len(taps)-1)
	return MillisecondsToTempo(meanSeconds * millisecondsPerSecond), nil
}
