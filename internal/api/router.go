package api

import (
	"github.com/Conceptual-Machines/maestro-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/maestro-api/internal/api/middleware"
	"github.com/Conceptual-Machines/maestro-api/internal/config"
	"github.com/Conceptual-Machines/maestro-api/internal/metrics"
	"github.com/Conceptual-Machines/maestro-api/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires every route. A nil db keeps presets in memory and a nil
// cloudwatch client disables CloudWatch metrics.
func SetupRouter(db *gorm.DB, cfg *config.Config, version string, cloudwatch *metrics.Client) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(cloudwatch))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	// Health check
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.HealthCheck)

	// Preset storage
	var repo services.PresetRepository
	storage := "memory"
	if db != nil {
		repo = services.NewGormPresetRepository(db)
		storage = "postgres"
	} else {
		repo = services.NewMemoryPresetRepository()
	}

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, storage, cfg.AuthMode)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	switch {
	case cfg.IsGatewayMode():
		v1.Use(apimiddleware.GatewayAuth())
	case cfg.IsJWTMode():
		v1.Use(apimiddleware.JWTAuth(cfg.JWTSecret))
	default:
		v1.Use(apimiddleware.NoAuth())
	}
	{
		theoryHandler := handlers.NewTheoryHandler()
		v1.GET("/theory/notes", theoryHandler.Notes)
		v1.GET("/theory/scales", theoryHandler.Scales)
		v1.GET("/theory/scale", theoryHandler.Scale)
		v1.GET("/theory/chords", theoryHandler.Chords)
		v1.GET("/theory/tuner", theoryHandler.Tuner)

		timingHandler := handlers.NewTimingHandler()
		v1.GET("/timing/snap", timingHandler.Snap)
		v1.GET("/timing/beat-position", timingHandler.BeatPosition)
		v1.GET("/timing/quantize", timingHandler.Quantize)
		v1.GET("/timing/measures", timingHandler.Measures)
		v1.GET("/timing/loop", timingHandler.Loop)
		v1.GET("/timing/click-schedule", timingHandler.ClickSchedule)
		v1.GET("/timing/tempo/ms", timingHandler.TempoToMilliseconds)
		v1.GET("/timing/tempo/bpm", timingHandler.MillisecondsToTempo)
		v1.POST("/timing/tap", timingHandler.TapTempo)

		exportHandler := handlers.NewExportHandler(cloudwatch)
		v1.GET("/export/click.mid", exportHandler.ClickTrack)
		v1.GET("/export/scale.mid", exportHandler.Scale)

		presetHandler := handlers.NewPresetHandler(services.NewPresetService(repo))
		v1.POST("/presets", presetHandler.Create)
		v1.GET("/presets", presetHandler.List)
		v1.GET("/presets/:id", presetHandler.Get)
		v1.PUT("/presets/:id", presetHandler.Update)
		v1.DELETE("/presets/:id", presetHandler.Delete)
	}

	return router
}
