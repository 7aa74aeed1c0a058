package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/eventdesk/registration-api/internal/admission"
	"github.com/eventdesk/registration-api/internal/auth"
	"github.com/eventdesk/registration-api/internal/models"
	"github.com/eventdesk/registration-api/internal/notifier"
	"gorm.io/gorm"
)

type RegistrationHandler struct {
	db          *gorm.DB
	engine      *admission.Engine
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewRegistrationHandler(db *gorm.DB, engine *admission.Engine, n notifier.Notifier, authHandler *auth.AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{db: db, engine: engine, notifier: n, authHandler: authHandler}
}

type AdmitInput struct {
	auth.AuthInput
	EventID uint `path:"eventID"`
	Body    struct {
		TicketCategory string `json:"ticket_category" doc:"Ticket category, e.g. STANDARD, VIP, PREMIUM"`
		Quantity       int    `json:"quantity" minimum:"1" maximum:"10" doc:"Number of seats requested"`
	}
}

type RegistrationResponse struct {
	Reference      string                    `json:"reference"`
	EventID        uint                      `json:"event_id"`
	EventTitle     string                    `json:"event_title,omitempty"`
	TicketCategory string                    `json:"ticket_category"`
	Quantity       int                       `json:"quantity"`
	Status         models.RegistrationStatus `json:"status"`
	CreatedAt      time.Time                 `json:"created_at"`
}

type AdmitOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      RegistrationResponse
}

func (h *RegistrationHandler) HandleAdmit(ctx context.Context, input *AdmitInput) (*AdmitOutput, error) {
	participantID, refreshed, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	registration, err := h.engine.Admit(ctx, admission.AdmitRequest{
		ParticipantID:  participantID,
		EventID:        input.EventID,
		TicketCategory: input.Body.TicketCategory,
		Quantity:       input.Body.Quantity,
	})
	if err != nil {
		return nil, admissionStatusError(err)
	}

	h.notify(ctx, *registration, false)

	return &AdmitOutput{SetCookie: refreshed, Body: RegistrationResponse{
		Reference:      registration.Reference,
		EventID:        registration.EventID,
		TicketCategory: registration.TicketCategory,
		Quantity:       registration.Quantity,
		Status:         registration.Status,
		CreatedAt:      registration.CreatedAt,
	}}, nil
}

type AvailabilityInput struct {
	EventID uint `path:"eventID"`
}

type AvailabilityOutput struct {
	Body struct {
		EventID         uint `json:"event_id"`
		PlacesAvailable int  `json:"places_available"`
	}
}

func (h *RegistrationHandler) HandleAvailability(ctx context.Context, input *AvailabilityInput) (*AvailabilityOutput, error) {
	available, err := h.engine.PlacesAvailable(ctx, input.EventID)
	if err != nil {
		return nil, admissionStatusError(err)
	}

	out := &AvailabilityOutput{}
	out.Body.EventID = input.EventID
	out.Body.PlacesAvailable = available
	return out, nil
}

type ListRegistrationsInput struct {
	auth.AuthInput
}

type ListRegistrationsOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      []RegistrationResponse
}

func (h *RegistrationHandler) HandleListMine(ctx context.Context, input *ListRegistrationsInput) (*ListRegistrationsOutput, error) {
	participantID, refreshed, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var registrations []models.Registration
	err = h.db.WithContext(ctx).Preload("Event").
		Where("participant_id = ?", participantID).
		Order("created_at desc").
		Find(&registrations).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list registrations")
	}

	var response []RegistrationResponse
	for _, reg := range registrations {
		response = append(response, RegistrationResponse{
			Reference:      reg.Reference,
			EventID:        reg.EventID,
			EventTitle:     reg.Event.Title,
			TicketCategory: reg.TicketCategory,
			Quantity:       reg.Quantity,
			Status:         reg.Status,
			CreatedAt:      reg.CreatedAt,
		})
	}
	return &ListRegistrationsOutput{SetCookie: refreshed, Body: response}, nil
}

type CancelInput struct {
	auth.AuthInput
	Reference string `path:"reference"`
}

type CancelOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      RegistrationResponse
}

func (h *RegistrationHandler) HandleCancel(ctx context.Context, input *CancelInput) (*CancelOutput, error) {
	participantID, refreshed, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	registration, err := h.engine.Cancel(ctx, input.Reference, participantID)
	if err != nil {
		return nil, admissionStatusError(err)
	}

	h.notify(ctx, *registration, true)

	return &CancelOutput{SetCookie: refreshed, Body: RegistrationResponse{
		Reference:      registration.Reference,
		EventID:        registration.EventID,
		TicketCategory: registration.TicketCategory,
		Quantity:       registration.Quantity,
		Status:         registration.Status,
		CreatedAt:      registration.CreatedAt,
	}}, nil
}

// notify sends the outcome to the configured channel. Best effort only; the
// registration is already committed.
func (h *RegistrationHandler) notify(ctx context.Context, registration models.Registration, cancelled bool) {
	if h.notifier == nil {
		return
	}

	var participant models.Participant
	var event models.Event
	if err := h.db.WithContext(ctx).First(&participant, registration.ParticipantID).Error; err != nil {
		return
	}
	if err := h.db.WithContext(ctx).First(&event, registration.EventID).Error; err != nil {
		return
	}

	var err error
	if cancelled {
		err = h.notifier.NotifyCancellation(participant, event, registration)
	} else {
		err = h.notifier.NotifyAdmission(participant, event, registration)
	}
	if err != nil {
		log.Printf("Failed to notify registration %s: %v", registration.Reference, err)
	}
}

// admissionStatusError translates engine errors into HTTP status errors.
func admissionStatusError(err error) error {
	switch {
	case errors.Is(err, admission.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, admission.ErrEventNotFound),
		errors.Is(err, admission.ErrParticipantNotFound),
		errors.Is(err, admission.ErrRegistrationNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, admission.ErrDuplicateRegistration),
		errors.Is(err, admission.ErrScheduleConflict),
		errors.Is(err, admission.ErrCapacityExceeded),
		errors.Is(err, admission.ErrNotLive):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, admission.ErrBusy):
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		return huma.Error500InternalServerError("Failed to process registration: " + err.Error())
	}
}
