// Package timing converts between wall-clock seconds, tempo and the bar/beat
// grid used by the jam and metronome tools.
//
// The package-level functions assume four beats per bar. Meter carries the
// same operations for other time signatures. None of the functions guard
// against bpm <= 0; callers validate tempo.
package timing

import "math"

const (
	secondsPerMinute      = 60.0
	millisecondsPerMinute = 60000.0
	millisecondsPerSecond = 1000.0

	// DefaultSubdivision is the quantize grid density per beat (16th notes)
	DefaultSubdivision = 4
)

// LoopRegion is a [Start, End] span in seconds
type LoopRegion struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration is the length of the region in seconds
func (r LoopRegion) Duration() float64 {
	return r.End - r.Start
}

// BeatLength is the length of one beat in seconds
func BeatLength(bpm float64) float64 {
	return secondsPerMinute / bpm
}

// BarLength is the length of a 4/4 bar in seconds
func BarLength(bpm float64) float64 {
	return CommonTime.BarLength(bpm)
}

// SnapToBar moves time back to the start of the bar it falls in.
// It never rounds forward, so a loop start is not pushed past the playhead.
func SnapToBar(time, bpm float64) float64 {
	return CommonTime.SnapToBar(time, bpm)
}

// CalculateLoopRegion returns the region spanning bars whole bars from start
func CalculateLoopRegion(start float64, bars int, bpm float64) LoopRegion {
	return CommonTime.LoopRegion(start, bars, bpm)
}

// CalculateBeatPosition is the fraction of the current beat elapsed at time, in [0, 1)
func CalculateBeatPosition(time, bpm float64) float64 {
	beat := BeatLength(bpm)
	return math.Mod(time, beat) / beat
}

// QuantizeToGrid snaps time to the nearest line of a grid with subdivision
// lines per beat. A subdivision of zero or less uses DefaultSubdivision.
func QuantizeToGrid(time, bpm float64, subdivision int) float64 {
	if subdivision <= 0 {
		subdivision = DefaultSubdivision
	}
	grid := BeatLength(bpm) / float64(subdivision)
	return math.Round(time/grid) * grid
}

// CalculateMeasureBoundaries lists bar start times from 0 until the first
// boundary at or after duration
func CalculateMeasureBoundaries(duration, bpm float64) []float64 {
	return CommonTime.MeasureBoundaries(duration, bpm)
}

// TempoToMilliseconds is the length of one beat in milliseconds
func TempoToMilliseconds(bpm float64) float64 {
	return (secondsPerMinute / bpm) * millisecondsPerSecond
}

// MillisecondsToTempo is the inverse of TempoToMilliseconds
func MillisecondsToTempo(ms float64) float64 {
	return millisecondsPerMinute / ms
}
