package models

import (
	"time"

	"gorm.io/gorm"
)

// Default jam settings
const (
	DefaultKey           = "C"
	DefaultScale         = "major"
	DefaultBPM           = 120
	DefaultTimeSignature = "4/4"
	DefaultLoopBars      = 4
	DefaultSubdivision   = 4
)

// JamSettings is the key switcher state shared by the jam, metronome and
// chord panels: selected key, scale, mode and transport settings
type JamSettings struct {
	Key           string  `gorm:"not null" json:"key"`
	Scale         string  `gorm:"not null" json:"scale"`
	Mode          string  `json:"mode,omitempty"` // stored as given, not used for scale spelling
	BPM           float64 `gorm:"not null" json:"bpm"`
	TimeSignature string  `gorm:"default:'4/4'" json:"time_signature"`
	LoopBars      int     `gorm:"default:4" json:"loop_bars"`
	Subdivision   int     `gorm:"default:4" json:"subdivision"`
}

// DefaultJamSettings is C major at 120 bpm in 4/4
func DefaultJamSettings() JamSettings {
	return JamSettings{
		Key:           DefaultKey,
		Scale:         DefaultScale,
		BPM:           DefaultBPM,
		TimeSignature: DefaultTimeSignature,
		LoopBars:      DefaultLoopBars,
		Subdivision:   DefaultSubdivision,
	}
}

// JamPreset is a named, saved JamSettings owned by a user
type JamPreset struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"not null;index" json:"user_id"` // gateway user ID or "anonymous"
	Name   string `gorm:"not null" json:"name"`

	JamSettings `gorm:"embedded"`
}
