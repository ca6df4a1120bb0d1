package handlers

import (
	"math"
	"net/http"

	"github.com/Conceptual-Machines/maestro-api/internal/timing"
	"github.com/gin-gonic/gin"
)

type TimingHandler struct{}

func NewTimingHandler() *TimingHandler {
	return &TimingHandler{}
}

type TimeQuery struct {
	Time  float64 `form:"time"`
	BPM   float64 `form:"bpm" binding:"gt=0"`
	Meter string  `form:"meter"`
}

type QuantizeQuery struct {
	Time        float64 `form:"time"`
	BPM         float64 `form:"bpm" binding:"gt=0"`
	Subdivision int     `form:"subdivision"`
}

type MeasuresQuery struct {
	Duration float64 `form:"duration" binding:"gte=0"`
	BPM      float64 `form:"bpm" binding:"gt=0"`
	Meter    string  `form:"meter"`
}

type LoopQuery struct {
	Start float64 `form:"start"`
	Bars  int     `form:"bars" binding:"gte=0"`
	BPM   float64 `form:"bpm" binding:"gt=0"`
	Meter string  `form:"meter"`
}

type ClickScheduleQuery struct {
	BPM   float64 `form:"bpm" binding:"gt=0"`
	Bars  int     `form:"bars" binding:"gte=0"`
	Meter string  `form:"meter"`
}

type TempoQuery struct {
	BPM float64 `form:"bpm" binding:"gt=0"`
}

type MillisecondsQuery struct {
	MS float64 `form:"ms" binding:"gt=0"`
}

type TapRequest struct {
	Taps []float64 `json:"taps" binding:"required,min=2"`
}

// Snap moves time back to the start of its bar
func (h *TimingHandler) Snap(c *gin.Context) {
	var q TimeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	if !finite(q.Time, q.BPM) {
		badRequest(c, "Values must be finite", nil)
		return
	}
	meter, err := parseMeter(q.Meter)
	if err != nil {
		badRequest(c, errInvalidMeterText, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"time":       q.Time,
		"bpm":        q.BPM,
		"meter":      meter.String(),
		"snapped":    meter.SnapToBar(q.Time, q.BPM),
		"bar_length": meter.BarLength(q.BPM),
	})
}

// BeatPosition returns the fraction of the current beat elapsed
func (h *TimingHandler) BeatPosition(c *gin.Context) {
	var q TimeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	if !finite(q.Time, q.BPM) {
		badRequest(c, "Values must be finite", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"time":          q.Time,
		"bpm":           q.BPM,
		"beat_position": timing.CalculateBeatPosition(q.Time, q.BPM),
	})
}

// Quantize snaps time to the nearest grid line
func (h *TimingHandler) Quantize(c *gin.Context) {
	var q QuantizeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	if !finite(q.Time, q.BPM) {
		badRequest(c, "Values must be finite", nil)
		return
	}

	subdivision := q.Subdivision
	if subdivision <= 0 {
		subdivision = timing.DefaultSubdivision
	}

	c.JSON(http.StatusOK, gin.H{
		"time":        q.Time,
		"bpm":         q.BPM,
		"subdivision": subdivision,
		"quantized":   timing.QuantizeToGrid(q.Time, q.BPM, subdivision),
	})
}

// Measures lists bar boundaries covering duration
func (h *TimingHandler) Measures(c *gin.Context) {
	var q MeasuresQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	if !finite(q.Duration, q.BPM) {
		badRequest(c, "Values must be finite", nil)
		return
	}
	meter, err := parseMeter(q.Meter)
	if err != nil {
		badRequest(c, errInvalidMeterText, err)
		return
	}
	if math.Ceil(q.Duration/meter.BarLength(q.BPM)) > maxMeasureBoundaries {
		badRequest(c, "Too many measures", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"duration":   q.Duration,
		"bpm":        q.BPM,
		"meter":      meter.String(),
		"boundaries": meter.MeasureBoundaries(q.Duration, q.BPM),
	})
}

// Loop returns the region spanning whole bars from start
func (h *TimingHandler) Loop(c *gin.Context) {
	var q LoopQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	if !finite(q.Start, q.BPM) {
		badRequest(c, "Values must be finite", nil)
		return
	}
	meter, err := parseMeter(q.Meter)
	if err != nil {
		badRequest(c, errInvalidMeterText, err)
		return
	}

	region := meter.LoopRegion(q.Start, q.Bars, q.BPM)
	c.JSON(http.StatusOK, gin.H{
		"start":    region.Start,
		"end":      region.End,
		"duration": region.Duration(),
		"bars":     q.Bars,
		"meter":    meter.String(),
	})
}

// ClickSchedule lists every metronome beat for bars bars
func (h *TimingHandler) ClickSchedule(c *gin.Context) {
	var q ClickScheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	if !finite(q.BPM) {
		badRequest(c, "Values must be finite", nil)
		return
	}
	if q.Bars > maxScheduleBars {
		badRequest(c, "Too many bars", nil)
		return
	}
	meter, err := parseMeter(q.Meter)
	if err != nil {
		badRequest(c, errInvalidMeterText, err)
		return
	}

	bpm := timing.ClampTempo(q.BPM)
	c.JSON(http.StatusOK, gin.H{
		"bpm":    bpm,
		"meter":  meter.String(),
		"clicks": timing.ClickSchedule(bpm, q.Bars, meter),
	})
}

// TempoToMilliseconds converts bpm to beat length in ms
func (h *TimingHandler) TempoToMilliseconds(c *gin.Context) {
	var q TempoQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	if !finite(q.BPM) {
		badRequest(c, "Values must be finite", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bpm": q.BPM,
		"ms":  timing.TempoToMilliseconds(q.BPM),
	})
}

// MillisecondsToTempo converts beat length in ms to bpm
func (h *TimingHandler) MillisecondsToTempo(c *gin.Context) {
	var q MillisecondsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	if !finite(q.MS) {
		badRequest(c, "Values must be finite", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ms":  q.MS,
		"bpm": timing.MillisecondsToTempo(q.MS),
	})
}

// TapTempo derives a tempo from tap timestamps in seconds
func (h *TimingHandler) TapTempo(c *gin.Context) {
	var req TapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	bpm, err := timing.TapTempo(req.Taps)
	if err != nil {
		badRequest(c, "Cannot derive tempo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bpm":         bpm,
		"metronome":   timing.ClampTempo(bpm),
		"taps":        len(req.Taps),
		"beat_length": timing.TempoToMilliseconds(bpm),
	})
}
