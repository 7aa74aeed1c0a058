// Package directory is the participant directory collaborator: signup,
// credential checks, and the GetParticipant lookup the admission engine uses.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventdesk/registration-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// GetParticipant returns the participant or gorm.ErrRecordNotFound.
func (d *Directory) GetParticipant(ctx context.Context, id uint) (*models.Participant, error) {
	var participant models.Participant
	if err := d.db.WithContext(ctx).First(&participant, id).Error; err != nil {
		return nil, fmt.Errorf("get participant %d: %w", id, err)
	}
	return &participant, nil
}

// Register creates a participant with a bcrypt password hash.
func (d *Directory) Register(ctx context.Context, name, email, password string) (*models.Participant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	var count int64
	if err := d.db.WithContext(ctx).Model(&models.Participant{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	participant := models.Participant{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := d.db.WithContext(ctx).Create(&participant).Error; err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return &participant, nil
}

// Authenticate checks email and password and returns the participant.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*models.Participant, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var participant models.Participant
	err := d.db.WithContext(ctx).Where("email = ?", email).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find participant: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(participant.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &participant, nil
}

// UpsertExternal creates or refreshes a participant signed in through an
// OAuth provider, keyed by the provider's user id.
func (d *Directory) UpsertExternal(ctx context.Context, externalID, name, email, avatar string) (*models.Participant, error) {
	var participant models.Participant
	err := d.db.WithContext(ctx).FirstOrInit(&participant, models.Participant{ExternalID: externalID}).Error
	if err != nil {
		return nil, fmt.Errorf("find participant: %w", err)
	}

	participant.Name = name
	participant.Email = strings.ToLower(strings.TrimSpace(email))
	participant.Avatar = avatar

	if err := d.db.WithContext(ctx).Save(&participant).Error; err != nil {
		return nil, fmt.Errorf("save participant: %w", err)
	}
	return &participant, nil
}
