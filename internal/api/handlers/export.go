package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Conceptual-Machines/maestro-api/internal/logger"
	"github.com/Conceptual-Machines/maestro-api/internal/metrics"
	"github.com/Conceptual-Machines/maestro-api/internal/midifile"
	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/Conceptual-Machines/maestro-api/internal/timing"
	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	sentry     *metrics.SentryMetrics
	cloudwatch *metrics.Client
}

// NewExportHandler builds the MIDI export handler. cloudwatch may be nil.
func NewExportHandler(cloudwatch *metrics.Client) *ExportHandler {
	return &ExportHandler{
		sentry:     metrics.NewSentryMetrics(),
		cloudwatch: cloudwatch,
	}
}

type ClickExportQuery struct {
	BPM   float64 `form:"bpm"`
	Bars  int     `form:"bars"`
	Meter string  `form:"meter"`
}

type ScaleExportQuery struct {
	Key    string  `form:"key" binding:"required"`
	Scale  string  `form:"scale"`
	Octave *int    `form:"octave"`
	BPM    float64 `form:"bpm"`
}

// ClickTrack serves a metronome click as a Standard MIDI File
func (h *ExportHandler) ClickTrack(c *gin.Context) {
	var q ClickExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	bpm := timing.DefaultTempo
	if q.BPM != 0 {
		if !finite(q.BPM) {
			badRequest(c, "Values must be finite", nil)
			return
		}
		bpm = exportTempo(c, q.BPM)
	}

	bars := q.Bars
	if bars == 0 {
		bars = defaultExportBars
	}
	if bars < 0 || bars > maxExportBars {
		badRequest(c, fmt.Sprintf("Bars must be between 1 and %d", maxExportBars), nil)
		return
	}

	meter, err := parseMeter(q.Meter)
	if err != nil {
		badRequest(c, errInvalidMeterText, err)
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := midifile.WriteClickTrack(&buf, bpm, bars, meter); err != nil {
		fields := logger.WithContext(c)
		fields["bpm"] = bpm
		fields["bars"] = bars
		logger.Error("Click track export failed", err, fields)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export click track"})
		return
	}

	filename := fmt.Sprintf("click-%g-%s.mid", bpm, strings.ReplaceAll(meter.String(), "/", "-"))
	h.send(c, "click", filename, &buf, time.Since(start))
}

// Scale serves an ascending scale run as a Standard MIDI File
func (h *ExportHandler) Scale(c *gin.Context) {
	var q ScaleExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	key := normalizeKey(q.Key)
	q.Scale = scaleOrDefault(q.Scale)
	notes, err := theory.ResolveScaleStrict(key, q.Scale, "")
	if err != nil {
		badRequest(c, "Cannot resolve scale", err)
		return
	}

	octave := defaultScaleOctave
	if q.Octave != nil {
		octave = *q.Octave
	}

	bpm := timing.DefaultTempo
	if q.BPM != 0 {
		if !finite(q.BPM) {
			badRequest(c, "Values must be finite", nil)
			return
		}
		bpm = exportTempo(c, q.BPM)
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := midifile.WriteScale(&buf, notes, octave, bpm); err != nil {
		// Octave out of MIDI range is the only input-dependent failure
		badRequest(c, "Cannot export scale", err)
		return
	}

	scale := theory.DefaultScale
	if tmpl, ok := theory.LookupScale(q.Scale); ok {
		scale = tmpl.Name
	}
	filename := fmt.Sprintf("%s-%s.mid", strings.ReplaceAll(string(key), "#", "sharp"), scale)
	h.send(c, "scale", filename, &buf, time.Since(start))
}

// exportTempo clamps a requested tempo to the metronome range
func exportTempo(c *gin.Context, requested float64) float64 {
	bpm := timing.ClampTempo(requested)
	if bpm != requested {
		fields := logger.WithContext(c)
		fields["requested_bpm"] = requested
		fields["bpm"] = bpm
		logger.Debug("Export tempo clamped", fields)
	}
	return bpm
}

func (h *ExportHandler) send(c *gin.Context, kind, filename string, buf *bytes.Buffer, duration time.Duration) {
	h.sentry.RecordExport(c.Request.Context(), kind, buf.Len(), duration)
	h.cloudwatch.RecordExport(kind, buf.Len())

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, midiContentType, buf.Bytes())
}
