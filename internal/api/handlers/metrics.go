package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/Conceptual-Machines/maestro-api/internal/timing"
	"github.com/gin-gonic/gin"
)

const (
	bytesToMB       = 1024 * 1024
	uptimePrecision = 10 * time.Millisecond
)

type MetricsHandler struct {
	startTime time.Time
	version   string
	storage   string
	authMode  string
}

// NewMetricsHandler reports runtime and jam defaults. storage names the preset
// backend ("postgres" or "memory").
func NewMetricsHandler(version, storage, authMode string) *MetricsHandler {
	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
		storage:   storage,
		authMode:  authMode,
	}
}

type MetricsResponse struct {
	Status    string        `json:"status"`
	Uptime    string        `json:"uptime"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version"`
	StartTime string        `json:"start_time"`
	System    SystemMetrics `json:"system"`
	API       APIMetrics    `json:"api"`
}

type SystemMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
	MemTotalMB   uint64 `json:"mem_total_mb"`
	NumGC        uint32 `json:"num_gc"`
}

// APIMetrics describes what the jam endpoints accept and fall back to
type APIMetrics struct {
	Version     string      `json:"version"`
	Storage     string      `json:"storage"`
	AuthMode    string      `json:"auth_mode"`
	Scales      []string    `json:"scales"`
	Defaults    JamDefaults `json:"defaults"`
	TempoRange  TempoRange  `json:"tempo_range"`
	MIDIExports []string    `json:"midi_exports"`
}

type JamDefaults struct {
	Key         theory.Note `json:"key"`
	Scale       string      `json:"scale"`
	BPM         float64     `json:"bpm"`
	Meter       string      `json:"meter"`
	Subdivision int         `json:"subdivision"`
}

type TempoRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	resp := MetricsResponse{
		Status:    "healthy",
		Uptime:    time.Since(h.startTime).Round(uptimePrecision).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		StartTime: h.startTime.UTC().Format(time.RFC3339),
		System: SystemMetrics{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   m.Alloc / bytesToMB,
			MemTotalMB:   m.TotalAlloc / bytesToMB,
			NumGC:        m.NumGC,
		},
		API: APIMetrics{
			Version:  "v1",
			Storage:  h.storage,
			AuthMode: h.authMode,
			Scales:   theory.ScaleNames(),
			Defaults: JamDefaults{
				Key:         theory.Notes[0],
				Scale:       theory.DefaultScale,
				BPM:         timing.DefaultTempo,
				Meter:       timing.CommonTime.String(),
				Subdivision: timing.DefaultSubdivision,
			},
			TempoRange:  TempoRange{Min: timing.MinTempo, Max: timing.MaxTempo},
			MIDIExports: []string{"click", "scale"},
		},
	}

	c.JSON(http.StatusOK, resp)
}
