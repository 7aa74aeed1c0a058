package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/eventdesk/registration-api/internal/auth"
	"github.com/eventdesk/registration-api/internal/catalog"
	"github.com/eventdesk/registration-api/internal/models"
	"gorm.io/gorm"
)

type EventHandler struct {
	catalog     *catalog.Catalog
	authHandler *auth.AuthHandler
}

func NewEventHandler(c *catalog.Catalog, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{catalog: c, authHandler: authHandler}
}

type EventResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    int        `json:"capacity"`
	Category    string     `json:"category,omitempty"`
}

func eventResponse(e models.Event) EventResponse {
	resp := EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Capacity:    e.Capacity,
	}
	if e.Category != nil {
		resp.Category = e.Category.Name
	}
	return resp
}

type ListEventsInput struct {
	CategoryID uint   `query:"category_id" required:"false" doc:"Filter by category"`
	Search     string `query:"search" required:"false" doc:"Filter by title or description"`
	Upcoming   bool   `query:"upcoming" required:"false" doc:"Only events that have not started yet"`
}

type ListEventsOutput struct {
	Body []EventResponse
}

func (h *EventHandler) HandleList(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	filter := catalog.ListFilter{
		CategoryID: input.CategoryID,
		Search:     input.Search,
	}
	if input.Upcoming {
		filter.After = time.Now()
	}

	events, err := h.catalog.ListEvents(ctx, filter)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list events")
	}

	var response []EventResponse
	for _, e := range events {
		response = append(response, eventResponse(e))
	}
	return &ListEventsOutput{Body: response}, nil
}

type GetEventInput struct {
	EventID uint `path:"eventID"`
}

type GetEventOutput struct {
	Body EventResponse
}

func (h *EventHandler) HandleGet(ctx context.Context, input *GetEventInput) (*GetEventOutput, error) {
	event, err := h.catalog.GetEvent(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		return nil, huma.Error500InternalServerError("Failed to get event")
	}
	return &GetEventOutput{Body: eventResponse(*event)}, nil
}

type CreateEventInput struct {
	auth.AuthInput
	Body struct {
		Title       string     `json:"title" minLength:"1"`
		Description string     `json:"description" required:"false"`
		Location    string     `json:"location" required:"false"`
		StartsAt    time.Time  `json:"starts_at"`
		EndsAt      *time.Time `json:"ends_at" required:"false"`
		Capacity    int        `json:"capacity" minimum:"1"`
		CategoryID  *uint      `json:"category_id" required:"false"`
	}
}

type CreateEventOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      EventResponse
}

func (h *EventHandler) HandleCreate(ctx context.Context, input *CreateEventInput) (*CreateEventOutput, error) {
	organizerID, refreshed, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	if input.Body.EndsAt != nil && input.Body.StartsAt.After(*input.Body.EndsAt) {
		return nil, huma.Error400BadRequest("Event cannot end before it starts")
	}

	event := models.Event{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Location:    input.Body.Location,
		StartsAt:    input.Body.StartsAt,
		EndsAt:      input.Body.EndsAt,
		Capacity:    input.Body.Capacity,
		CategoryID:  input.Body.CategoryID,
		OrganizerID: &organizerID,
	}
	if err := h.catalog.CreateEvent(ctx, &event); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create event")
	}
	return &CreateEventOutput{SetCookie: refreshed, Body: eventResponse(event)}, nil
}

type UpdateEventInput struct {
	auth.AuthInput
	EventID uint `path:"eventID"`
	Body    struct {
		Title       string     `json:"title" minLength:"1"`
		Description string     `json:"description" required:"false"`
		Location    string     `json:"location" required:"false"`
		StartsAt    time.Time  `json:"starts_at"`
		EndsAt      *time.Time `json:"ends_at" required:"false"`
		Capacity    int        `json:"capacity" minimum:"1"`
		CategoryID  *uint      `json:"category_id" required:"false"`
	}
}

type UpdateEventOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      EventResponse
}

// HandleUpdate replaces an event's details. Only the organizer who created
// the event may edit it.
func (h *EventHandler) HandleUpdate(ctx context.Context, input *UpdateEventInput) (*UpdateEventOutput, error) {
	participantID, refreshed, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	event, err := h.catalog.GetEvent(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		return nil, huma.Error500InternalServerError("Failed to get event")
	}
	if event.OrganizerID != nil && *event.OrganizerID != participantID {
		return nil, huma.Error403Forbidden("Only the organizer can edit this event")
	}

	if input.Body.EndsAt != nil && input.Body.StartsAt.After(*input.Body.EndsAt) {
		return nil, huma.Error400BadRequest("Event cannot end before it starts")
	}

	event.Title = input.Body.Title
	event.Description = input.Body.Description
	event.Location = input.Body.Location
	event.StartsAt = input.Body.StartsAt
	event.EndsAt = input.Body.EndsAt
	event.Capacity = input.Body.Capacity
	event.CategoryID = input.Body.CategoryID
	if err := h.catalog.UpdateEvent(ctx, event); err != nil {
		return nil, huma.Error500InternalServerError("Failed to update event")
	}

	// Reload so the response reflects the category as stored.
	updated, err := h.catalog.GetEvent(ctx, input.EventID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get event")
	}
	return &UpdateEventOutput{SetCookie: refreshed, Body: eventResponse(*updated)}, nil
}
