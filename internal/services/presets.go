package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Conceptual-Machines/maestro-api/internal/models"
	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/Conceptual-Machines/maestro-api/internal/timing"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

const (
	maxPresetNameLength = 100
	maxLoopBars         = 64
	maxSubdivision      = 16
)

// PresetRepository persists jam presets. Every lookup is scoped to a user.
type PresetRepository interface {
	Create(preset *models.JamPreset) error
	ListByUser(userID string) ([]models.JamPreset, error)
	Get(userID string, id uint) (*models.JamPreset, error)
	Save(preset *models.JamPreset) error
	Delete(userID string, id uint) error
}

type PresetService struct {
	repo PresetRepository
}

func NewPresetService(repo PresetRepository) *PresetService {
	return &PresetService{repo: repo}
}

// Create validates settings and stores a new preset for userID
func (s *PresetService) Create(userID, name string, settings models.JamSettings) (*models.JamPreset, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	settings, err = NormalizeSettings(settings)
	if err != nil {
		return nil, err
	}

	preset := &models.JamPreset{
		UserID:      userID,
		Name:        name,
		JamSettings: settings,
	}
	if err := s.repo.Create(preset); err != nil {
		return nil, fmt.Errorf("failed to create preset: %w", err)
	}
	return preset, nil
}

// List returns the user's presets, oldest first
func (s *PresetService) List(userID string) ([]models.JamPreset, error) {
	return s.repo.ListByUser(userID)
}

// Get returns one preset or ErrPresetNotFound
func (s *PresetService) Get(userID string, id uint) (*models.JamPreset, error) {
	return s.repo.Get(userID, id)
}

// Update replaces the name and settings of an existing preset
func (s *PresetService) Update(userID string, id uint, name string, settings models.JamSettings) (*models.JamPreset, error) {
	preset, err := s.repo.Get(userID, id)
	if err != nil {
		return nil, err
	}

	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}
	settings, err = NormalizeSettings(settings)
	if err != nil {
		return nil, err
	}

	preset.Name = name
	preset.JamSettings = settings
	if err := s.repo.Save(preset); err != nil {
		return nil, fmt.Errorf("failed to update preset: %w", err)
	}
	return preset, nil
}

// Delete removes a preset or returns ErrPresetNotFound
func (s *PresetService) Delete(userID string, id uint) error {
	return s.repo.Delete(userID, id)
}

// NormalizeSettings fills defaults, canonicalizes spellings and rejects
// values the practice tools cannot use. Tempo is clamped to the metronome range.
func NormalizeSettings(settings models.JamSettings) (models.JamSettings, error) {
	defaults := models.DefaultJamSettings()

	if strings.TrimSpace(settings.Key) == "" {
		settings.Key = defaults.Key
	}
	key, ok := theory.ParseNote(settings.Key)
	if !ok {
		return settings, fmt.Errorf("%w: unknown key %q", ErrInvalidPreset, settings.Key)
	}
	settings.Key = string(key)

	if strings.TrimSpace(settings.Scale) == "" {
		settings.Scale = defaults.Scale
	}
	tmpl, ok := theory.LookupScale(settings.Scale)
	if !ok {
		return settings, fmt.Errorf("%w: unknown scale %q", ErrInvalidPreset, settings.Scale)
	}
	settings.Scale = tmpl.Name
	settings.Mode = strings.TrimSpace(settings.Mode)

	switch {
	case settings.BPM == 0:
		settings.BPM = defaults.BPM
	case settings.BPM < 0 || math.IsNaN(settings.BPM) || math.IsInf(settings.BPM, 0):
		return settings, fmt.Errorf("%w: bpm must be positive", ErrInvalidPreset)
	}
	settings.BPM = timing.ClampTempo(settings.BPM)

	if strings.TrimSpace(settings.TimeSignature) == "" {
		settings.TimeSignature = defaults.TimeSignature
	}
	meter, err := timing.ParseMeter(settings.TimeSignature)
	if err != nil {
		return settings, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	settings.TimeSignature = meter.String()

	if settings.LoopBars == 0 {
		settings.LoopBars = defaults.LoopBars
	}
	if settings.LoopBars < 0 || settings.LoopBars > maxLoopBars {
		return settings, fmt.Errorf("%w: loop bars must be between 1 and %d", ErrInvalidPreset, maxLoopBars)
	}

	if settings.Subdivision == 0 {
		settings.Subdivision = defaults.Subdivision
	}
	if settings.Subdivision < 0 || settings.Subdivision > maxSubdivision {
		return settings, fmt.Errorf("%w: subdivision must be between 1 and %d", ErrInvalidPreset, maxSubdivision)
	}

	return settings, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidPreset)
	}
	if len(name) > maxPresetNameLength {
		return "", fmt.Errorf("%w: name longer than %d characters", ErrInvalidPreset, maxPresetNameLength)
	}
	return name, nil
}
