package models

import (
	"gorm.io/gorm"
)

type Participant struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	ExternalID   string `gorm:"index" json:"-"`
	Avatar       string `json:"avatar"`
}
