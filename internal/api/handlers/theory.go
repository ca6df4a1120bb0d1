package handlers

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/gin-gonic/gin"
)

type TheoryHandler struct{}

func NewTheoryHandler() *TheoryHandler {
	return &TheoryHandler{}
}

type ScaleQuery struct {
	Key    string `form:"key" binding:"required"`
	Scale  string `form:"scale"`
	Mode   string `form:"mode"`
	Strict bool   `form:"strict"`
}

type ChordsQuery struct {
	Key   string `form:"key" binding:"required"`
	Scale string `form:"scale"`
}

type TunerQuery struct {
	Frequency float64 `form:"frequency" binding:"gt=0"`
}

// Notes lists the twelve pitch classes in sharp spelling
func (h *TheoryHandler) Notes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notes": theory.Notes,
	})
}

// Scales lists the built-in scale templates
func (h *TheoryHandler) Scales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": theory.DefaultScale,
		"scales":  theory.Scales(),
	})
}

// Scale resolves the notes of key/scale. The lenient form always answers 200:
// unknown keys give an empty list and unknown scales fall back to major.
func (h *TheoryHandler) Scale(c *gin.Context) {
	var q ScaleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	key := normalizeKey(q.Key)
	q.Scale = scaleOrDefault(q.Scale)

	var notes []theory.Note
	if q.Strict {
		resolved, err := theory.ResolveScaleStrict(key, q.Scale, q.Mode)
		if err != nil {
			badRequest(c, "Cannot resolve scale", err)
			return
		}
		notes = resolved
	} else {
		notes = theory.ResolveScale(key, q.Scale, q.Mode)
	}

	scale := theory.DefaultScale
	if tmpl, ok := theory.LookupScale(q.Scale); ok {
		scale = tmpl.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"key":   key,
		"scale": scale,
		"mode":  q.Mode,
		"notes": notes,
	})
}

// Chords returns the diatonic triads of a seven-note scale
func (h *TheoryHandler) Chords(c *gin.Context) {
	var q ChordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	key := normalizeKey(q.Key)
	chords, err := theory.DiatonicTriads(key, scaleOrDefault(q.Scale))
	if err != nil {
		badRequest(c, "Cannot build chords", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":    key,
		"chords": chords,
	})
}

// Tuner reports the nearest note and guitar string for a frequency in Hz
func (h *TheoryHandler) Tuner(c *gin.Context) {
	var q TunerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	if !finite(q.Frequency) {
		badRequest(c, "Frequency must be finite", nil)
		return
	}

	pitch, err := theory.DetectPitch(q.Frequency)
	if err != nil {
		if errors.Is(err, theory.ErrFrequencyOutOfRange) || errors.Is(err, theory.ErrInvalidFrequency) {
			badRequest(c, "Cannot detect pitch", err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pitch detection failed"})
		return
	}

	str, cents, err := theory.NearestString(q.Frequency)
	if err != nil {
		badRequest(c, "Cannot match string", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pitch": pitch,
		"string": gin.H{
			"number":    str.Number,
			"name":      str.Name,
			"midi_note": str.MIDINote,
			"cents":     cents,
		},
	})
}
