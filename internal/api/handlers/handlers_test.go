package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	apimiddleware "github.com/Conceptual-Machines/maestro-api/internal/api/middleware"
	"github.com/Conceptual-Machines/maestro-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

// setupTestRouter mounts every handler without Sentry or auth gateway
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery(), apimiddleware.NoAuth())

	healthHandler := NewHealthHandler(nil)
	router.GET("/health", healthHandler.HealthCheck)

	metricsHandler := NewMetricsHandler("test", "memory", "none")
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	th := NewTheoryHandler()
	router.GET("/theory/notes", th.Notes)
	router.GET("/theory/scales", th.Scales)
	router.GET("/theory/scale", th.Scale)
	router.GET("/theory/chords", th.Chords)
	router.GET("/theory/tuner", th.Tuner)

	tm := NewTimingHandler()
	router.GET("/timing/snap", tm.Snap)
	router.GET("/timing/beat-position", tm.BeatPosition)
	router.GET("/timing/quantize", tm.Quantize)
	router.GET("/timing/measures", tm.Measures)
	router.GET("/timing/loop", tm.Loop)
	router.GET("/timing/click-schedule", tm.ClickSchedule)
	router.GET("/timing/tempo/ms", tm.TempoToMilliseconds)
	router.GET("/timing/tempo/bpm", tm.MillisecondsToTempo)
	router.POST("/timing/tap", tm.TapTempo)

	ex := NewExportHandler(nil)
	router.GET("/export/click.mid", ex.ClickTrack)
	router.GET("/export/scale.mid", ex.Scale)

	ph := NewPresetHandler(services.NewPresetService(services.NewMemoryPresetRepository()))
	router.POST("/presets", ph.Create)
	router.GET("/presets", ph.List)
	router.GET("/presets/:id", ph.Get)
	router.PUT("/presets/:id", ph.Update)
	router.DELETE("/presets/:id", ph.Delete)

	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHealthCheck_Memory(t *testing.T) {
	router := setupTestRouter()
	w := doRequest(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "memory", resp["database"].(map[string]any)["status"])
}

func TestGetMetrics(t *testing.T) {
	router := setupTestRouter()
	w := doRequest(t, router, http.MethodGet, "/api/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "test", resp["version"])
	api := resp["api"].(map[string]any)
	assert.Equal(t, "memory", api["storage"])
	assert.Equal(t, "none", api["auth_mode"])
	assert.Len(t, api["scales"], 7)
	assert.Contains(t, api["scales"], "dorian")

	defaults := api["defaults"].(map[string]any)
	assert.Equal(t, "C", defaults["key"])
	assert.Equal(t, "major", defaults["scale"])
	assert.EqualValues(t, 120, defaults["bpm"])
	assert.Equal(t, "4/4", defaults["meter"])
	assert.EqualValues(t, 4, defaults["subdivision"])

	tempo := api["tempo_range"].(map[string]any)
	assert.EqualValues(t, 60, tempo["min"])
	assert.EqualValues(t, 200, tempo["max"])
	assert.Equal(t, []any{"click", "scale"}, api["midi_exports"])
}

func TestTheoryHandler_Scale(t *testing.T) {
	router := setupTestRouter()

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedNotes  []any
	}{
		{"c major", "key=C&scale=major", http.StatusOK, []any{"C", "D", "E", "F", "G", "A", "B"}},
		{"flat key respelled", "key=Bb&scale=minor", http.StatusOK, []any{"A#", "C", "C#", "D#", "F", "F#", "G#"}},
		{"unknown scale falls back", "key=G&scale=klingon", http.StatusOK, []any{"G", "A", "B", "C", "D", "E", "F#"}},
		{"unknown key is empty", "key=H&scale=major", http.StatusOK, []any{}},
		{"strict unknown key", "key=H&scale=major&strict=true", http.StatusBadRequest, nil},
		{"strict unknown scale", "key=C&scale=klingon&strict=true", http.StatusBadRequest, nil},
		{"missing key", "scale=major", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, "/theory/scale?"+tt.query, nil)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedNotes != nil {
				assert.Equal(t, tt.expectedNotes, decode(t, w)["notes"])
			}
		})
	}
}

func TestTheoryHandler_NotesAndScales(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodGet, "/theory/notes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["notes"], 12)

	w = doRequest(t, router, http.MethodGet, "/theory/scales", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "major", resp["default"])
	assert.Len(t, resp["scales"], 7)
}

func TestTheoryHandler_Chords(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodGet, "/theory/chords?key=C&scale=major", nil)
	require.Equal(t, http.StatusOK, w.Code)
	chords := decode(t, w)["chords"].([]any)
	require.Len(t, chords, 7)
	assert.Equal(t, "C", chords[0].(map[string]any)["symbol"])
	assert.Equal(t, "Bdim", chords[6].(map[string]any)["symbol"])

	w = doRequest(t, router, http.MethodGet, "/theory/chords?key=C&scale=blues", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// no scale means major
	w = doRequest(t, router, http.MethodGet, "/theory/chords?key=C", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	chords = decode(t, w)["chords"].([]any)
	require.Len(t, chords, 7)
	assert.Equal(t, "Dm", chords[1].(map[string]any)["symbol"])
}

func TestTheoryHandler_Tuner(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodGet, "/theory/tuner?frequency=440", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "A4", resp["pitch"].(map[string]any)["name"])
	assert.EqualValues(t, 1, resp["string"].(map[string]any)["number"])

	for _, q := range []string{"frequency=0", "frequency=-3", "frequency=abc", "frequency=1e9"} {
		w = doRequest(t, router, http.MethodGet, "/theory/tuner?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestTimingHandler(t *testing.T) {
	router := setupTestRouter()

	tests := []struct {
		name     string
		path     string
		field    string
		expected float64
	}{
		{"snap", "/timing/snap?time=5&bpm=120", "snapped", 4},
		{"snap three four", "/timing/snap?time=5&bpm=120&meter=3/4", "snapped", 4.5},
		{"beat position", "/timing/beat-position?time=0.75&bpm=120", "beat_position", 0.5},
		{"quantize", "/timing/quantize?time=0.13&bpm=120", "quantized", 0.125},
		{"quantize explicit", "/timing/quantize?time=0.3&bpm=120&subdivision=2", "quantized", 0.25},
		{"loop", "/timing/loop?start=1&bars=2&bpm=120", "end", 5},
		{"tempo to ms", "/timing/tempo/ms?bpm=120", "ms", 500},
		{"ms to tempo", "/timing/tempo/bpm?ms=250", "bpm", 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.InDelta(t, tt.expected, decode(t, w)[tt.field], 1e-9)
		})
	}
}

func TestTimingHandler_Validation(t *testing.T) {
	router := setupTestRouter()

	paths := []string{
		"/timing/snap?time=5",
		"/timing/snap?time=5&bpm=0",
		"/timing/snap?time=5&bpm=-120",
		"/timing/snap?time=5&bpm=120&meter=4/3",
		"/timing/beat-position?time=Inf&bpm=120",
		"/timing/quantize?time=1&bpm=NaN",
		"/timing/measures?duration=-1&bpm=120",
		"/timing/measures?duration=1000000&bpm=120",
		"/timing/loop?start=0&bars=-1&bpm=120",
		"/timing/click-schedule?bpm=120&bars=100000",
		"/timing/tempo/ms?bpm=0",
		"/timing/tempo/bpm?ms=0",
	}

	for _, path := range paths {
		w := doRequest(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestTimingHandler_Measures(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodGet, "/timing/measures?duration=10&bpm=120", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{0.0, 2.0, 4.0, 6.0, 8.0, 10.0}, decode(t, w)["boundaries"])
}

func TestTimingHandler_ClickSchedule(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodGet, "/timing/click-schedule?bpm=300&bars=2&meter=3/4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.EqualValues(t, 200, resp["bpm"])
	clicks := resp["clicks"].([]any)
	require.Len(t, clicks, 6)
	assert.Equal(t, true, clicks[3].(map[string]any)["accent"])
}

func TestTimingHandler_TapTempo(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/timing/tap", gin.H{"taps": []float64{0, 0.5, 1.0, 1.5}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, 120, decode(t, w)["bpm"], 1e-9)

	w = doRequest(t, router, http.MethodPost, "/timing/tap", gin.H{"taps": []float64{1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/timing/tap", gin.H{"taps": []float64{1, 0.5}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandler_ClickTrack(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodGet, "/export/click.mid?bpm=90&bars=2&meter=3/4", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, midiContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "click-90-3-4.mid")

	rd, err := smf.ReadFrom(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Len(t, rd.Tracks, 2)

	w = doRequest(t, router, http.MethodGet, "/export/click.mid?bars=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandler_ClampedTempo(t *testing.T) {
	router := setupTestRouter()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	w := doRequest(t, router, http.MethodGet, "/export/click.mid?bpm=500&bars=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "click-200-4-4.mid")
	assert.Contains(t, buf.String(), "[DEBUG] Export tempo clamped")
	assert.Contains(t, buf.String(), "requested_bpm=500.00")
}

func TestExportHandler_Scale(t *testing.T) {
	router := setupTestRouter()

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedFile   string
	}{
		{"sharp key dorian", "key=F%23&scale=dorian&octave=3", http.StatusOK, "Fsharp-dorian.mid"},
		{"scale defaults to major", "key=D", http.StatusOK, "D-major.mid"},
		{"lowest midi octave", "key=C&scale=major&octave=-1", http.StatusOK, "C-major.mid"},
		{"unknown key", "key=H", http.StatusBadRequest, ""},
		{"unknown scale", "key=C&scale=klingon", http.StatusBadRequest, ""},
		{"octave too high", "key=C&scale=major&octave=12", http.StatusBadRequest, ""},
		{"octave below midi range", "key=A&scale=major&octave=-2", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, "/export/scale.mid?"+tt.query, nil)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedFile != "" {
				assert.True(t, strings.HasSuffix(w.Header().Get("Content-Disposition"), tt.expectedFile+`"`))
				assert.Equal(t, "MThd", w.Body.String()[:4])
			}
		})
	}
}

func TestPresetHandler_CRUD(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/presets", gin.H{
		"name":           "Funk",
		"key":            "eb",
		"scale":          "mixolydian",
		"bpm":            104,
		"time_signature": "4/4",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "D#", created["key"])
	assert.Equal(t, "anonymous", created["user_id"])
	id := int(created["id"].(float64))

	path := "/presets/" + jsonNumber(id)

	w = doRequest(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Funk", decode(t, w)["name"])

	w = doRequest(t, router, http.MethodPut, path, gin.H{"name": "Slow funk", "key": "E", "bpm": 80})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 80, decode(t, w)["bpm"])

	w = doRequest(t, router, http.MethodGet, "/presets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = doRequest(t, router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresetHandler_Errors(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(t, router, http.MethodPost, "/presets", gin.H{"key": "C"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/presets", gin.H{"name": "Bad", "scale": "phrygian"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/presets/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/presets/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func jsonNumber(n int) string {
	data, _ := json.Marshal(n)
	return string(data)
}
