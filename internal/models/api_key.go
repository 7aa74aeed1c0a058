package models

import (
	"time"

	"gorm.io/gorm"
)

type APIKey struct {
	gorm.Model
	ParticipantID uint        `json:"participant_id"`
	Participant   Participant `json:"participant"`
	Key           string      `gorm:"uniqueIndex" json:"key"`
	Name          string      `json:"name"`
	ExpiresAt     *time.Time  `json:"expires_at"`
	LastUsedAt    *time.Time  `json:"last_used_at"`
}
