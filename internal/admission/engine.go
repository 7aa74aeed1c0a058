// Package admission implements the registration admission engine: the single
// place that decides whether a registration request is accepted, waitlisted,
// or rejected, and the only code that writes registration rows.
package admission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventdesk/registration-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quantity bounds for a single registration request.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// DefaultLockTimeout bounds how long an admit call waits for its event's
// critical section before failing with ErrBusy.
const DefaultLockTimeout = 5 * time.Second

// EventSource resolves events from the catalog. The engine treats the result
// as a read-only snapshot taken at the start of the admit call.
type EventSource interface {
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
}

// ParticipantSource resolves participants from the directory.
type ParticipantSource interface {
	GetParticipant(ctx context.Context, id uint) (*models.Participant, error)
}

// AdmitRequest is a single registration attempt.
type AdmitRequest struct {
	ParticipantID  uint
	EventID        uint
	TicketCategory string
	Quantity       int
}

// Engine orchestrates validation, the duplicate guard, the conflict detector
// and the capacity ledger, then persists the decided registration. All reads
// and the write for one request happen inside one transaction, guarded by a
// per-event lock so concurrent requests for the same event serialize.
type Engine struct {
	db           *gorm.DB
	events       EventSource
	participants ParticipantSource
	ledger       Ledger
	conflicts    ConflictDetector
	duplicates   DuplicateGuard
	locks        *eventLocks
	lockTimeout  time.Duration
}

func NewEngine(db *gorm.DB, events EventSource, participants ParticipantSource, lockTimeout time.Duration) *Engine {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Engine{
		db:           db,
		events:       events,
		participants: participants,
		locks:        newEventLocks(),
		lockTimeout:  lockTimeout,
	}
}

// Admit decides and persists a registration request.
//
// The capacity ceiling counts accepted and waitlisted seats, so the waitlist
// is bounded by capacity too. The accept/waitlist split counts accepted seats
// only, so a request may be waitlisted even though earlier waitlisted rows
// already consume the remaining headroom. The two denominators are
// intentionally different.
func (e *Engine) Admit(ctx context.Context, req AdmitRequest) (*models.Registration, error) {
	req.TicketCategory = strings.TrimSpace(req.TicketCategory)
	if req.ParticipantID == 0 {
		return nil, fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}
	if req.EventID == 0 {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if req.TicketCategory == "" {
		return nil, fmt.Errorf("%w: ticket category is required", ErrInvalidInput)
	}
	if req.Quantity < MinQuantity || req.Quantity > MaxQuantity {
		return nil, fmt.Errorf("%w: quantity must be between %d and %d", ErrInvalidInput, MinQuantity, MaxQuantity)
	}

	event, err := e.events.GetEvent(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("resolve event: %w", err)
	}

	if _, err := e.participants.GetParticipant(ctx, req.ParticipantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("resolve participant: %w", err)
	}

	release, err := e.locks.acquire(ctx, req.EventID, e.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	var reg models.Registration
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dup, err := e.duplicates.HasLiveRegistration(tx, req.ParticipantID, req.EventID)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateRegistration
		}

		start, end := event.Window()
		overlap, err := e.conflicts.HasOverlap(tx, req.ParticipantID, Window{Start: start, End: end}, req.EventID)
		if err != nil {
			return err
		}
		if overlap {
			return ErrScheduleConflict
		}

		committed, err := e.ledger.CommittedSeats(tx, req.EventID)
		if err != nil {
			return err
		}
		if event.Capacity-committed < req.Quantity {
			return fmt.Errorf("%w: %d places available, %d requested",
				ErrCapacityExceeded, event.Capacity-committed, req.Quantity)
		}

		accepted, err := e.ledger.AcceptedSeats(tx, req.EventID)
		if err != nil {
			return err
		}
		status := models.StatusWaitlisted
		if event.Capacity-accepted >= req.Quantity {
			status = models.StatusAccepted
		}

		reg = models.Registration{
			Reference: uuid.NewString(),
			RegistrationFields: models.RegistrationFields{
				ParticipantID:  req.ParticipantID,
				EventID:        req.EventID,
				TicketCategory: req.TicketCategory,
				Quantity:       req.Quantity,
				Status:         status,
			},
		}
		if err := tx.Create(&reg).Error; err != nil {
			return fmt.Errorf("create registration: %w", err)
		}

		history := models.RegistrationHistory{
			RegistrationID:     reg.ID,
			RegistrationFields: reg.RegistrationFields,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("record registration history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// PlacesAvailable returns capacity minus committed (accepted plus waitlisted)
// seats for the event.
func (e *Engine) PlacesAvailable(ctx context.Context, eventID uint) (int, error) {
	event, err := e.events.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEventNotFound
		}
		return 0, fmt.Errorf("resolve event: %w", err)
	}

	committed, err := e.ledger.CommittedSeats(e.db.WithContext(ctx), eventID)
	if err != nil {
		return 0, err
	}
	return event.Capacity - committed, nil
}

// Cancel transitions the caller's live registration to CANCELLED, freeing its
// seats. It holds the same per-event lock as Admit so a concurrent admit
// never observes the rows mid-transition. Waitlisted rows are not promoted.
func (e *Engine) Cancel(ctx context.Context, reference string, participantID uint) (*models.Registration, error) {
	var found models.Registration
	err := e.db.WithContext(ctx).
		Where("reference = ? AND participant_id = ?", reference, participantID).
		First(&found).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}

	release, err := e.locks.acquire(ctx, found.EventID, e.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	var reg models.Registration
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, found.ID).Error; err != nil {
			return fmt.Errorf("reload registration: %w", err)
		}
		if !reg.Status.IsLive() {
			return ErrNotLive
		}

		reg.Status = models.StatusCancelled
		if err := tx.Save(&reg).Error; err != nil {
			return fmt.Errorf("cancel registration: %w", err)
		}

		history := models.RegistrationHistory{
			RegistrationID:     reg.ID,
			RegistrationFields: reg.RegistrationFields,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("record registration history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
