package services

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Conceptual-Machines/maestro-api/internal/models"
	"gorm.io/gorm"
)

// GormPresetRepository stores presets in the application database
type GormPresetRepository struct {
	db *gorm.DB
}

func NewGormPresetRepository(db *gorm.DB) *GormPresetRepository {
	return &GormPresetRepository{db: db}
}

func (r *GormPresetRepository) Create(preset *models.JamPreset) error {
	return r.db.Create(preset).Error
}

func (r *GormPresetRepository) ListByUser(userID string) ([]models.JamPreset, error) {
	var presets []models.JamPreset
	if err := r.db.Where("user_id = ?", userID).Order("id asc").Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

func (r *GormPresetRepository) Get(userID string, id uint) (*models.JamPreset, error) {
	var preset models.JamPreset
	if err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&preset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, err
	}
	return &preset, nil
}

func (r *GormPresetRepository) Save(preset *models.JamPreset) error {
	return r.db.Save(preset).Error
}

func (r *GormPresetRepository) Delete(userID string, id uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&models.JamPreset{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}

// MemoryPresetRepository keeps presets in process memory. It backs the
// service when no database is configured.
type MemoryPresetRepository struct {
	mu      sync.RWMutex
	nextID  uint
	presets map[uint]models.JamPreset
}

func NewMemoryPresetRepository() *MemoryPresetRepository {
	return &MemoryPresetRepository{
		nextID:  1,
		presets: make(map[uint]models.JamPreset),
	}
}

func (r *MemoryPresetRepository) Create(preset *models.JamPreset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	preset.ID = r.nextID
	preset.CreatedAt = now
	preset.UpdatedAt = now
	r.nextID++

	r.presets[preset.ID] = *preset
	return nil
}

func (r *MemoryPresetRepository) ListByUser(userID string) ([]models.JamPreset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	presets := make([]models.JamPreset, 0)
	for _, p := range r.presets {
		if p.UserID == userID {
			presets = append(presets, p)
		}
	}
	sort.Slice(presets, func(i, j int) bool {
		return presets[i].ID < presets[j].ID
	})
	return presets, nil
}

func (r *MemoryPresetRepository) Get(userID string, id uint) (*models.JamPreset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.presets[id]
	if !ok || p.UserID != userID {
		return nil, ErrPresetNotFound
	}
	return &p, nil
}

func (r *MemoryPresetRepository) Save(preset *models.JamPreset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.presets[preset.ID]
	if !ok || existing.UserID != preset.UserID {
		return ErrPresetNotFound
	}
	preset.CreatedAt = existing.CreatedAt
	preset.UpdatedAt = time.Now()
	r.presets[preset.ID] = *preset
	return nil
}

func (r *MemoryPresetRepository) Delete(userID string, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.presets[id]
	if !ok || p.UserID != userID {
		return ErrPresetNotFound
	}
	delete(r.presets, id)
	return nil
}
