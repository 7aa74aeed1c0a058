package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/eventdesk/registration-api/internal/admission"
	"github.com/eventdesk/registration-api/internal/auth"
	"github.com/eventdesk/registration-api/internal/catalog"
	"github.com/eventdesk/registration-api/internal/config"
	"github.com/eventdesk/registration-api/internal/database"
	"github.com/eventdesk/registration-api/internal/directory"
	"github.com/eventdesk/registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db           *gorm.DB
	auth         *auth.AuthHandler
	registration *RegistrationHandler
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}
	dir := directory.NewDirectory(db)
	authHandler := auth.NewAuthHandler(cfg, db, dir)
	engine := admission.NewEngine(db, catalog.NewCatalog(db), dir, time.Second)

	return &testEnv{
		db:           db,
		auth:         authHandler,
		registration: NewRegistrationHandler(db, engine, nil, authHandler),
	}
}

func (env *testEnv) participant(t *testing.T, email string) (models.Participant, string) {
	t.Helper()
	p := models.Participant{Name: email, Email: email}
	if err := env.db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create participant: %v", err)
	}
	token, err := env.auth.GenerateToken(p.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return p, auth.CookieName + "=" + token
}

func (env *testEnv) event(t *testing.T, capacity int, start time.Time, end *time.Time) models.Event {
	t.Helper()
	e := models.Event{Title: "test event", Capacity: capacity, StartsAt: start, EndsAt: end}
	if err := env.db.Create(&e).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return e
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected a status error, got %v", err)
	}
	return se.GetStatus()
}

func TestHandleAdmit(t *testing.T) {
	env := setup(t)

	_, cookie := env.participant(t, "p1@example.com")
	start := time.Now().Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)
	event := env.event(t, 10, start, &end)

	input := &AdmitInput{EventID: event.ID}
	input.Cookie = cookie
	input.Body.TicketCategory = "VIP"
	input.Body.Quantity = 4

	resp, err := env.registration.HandleAdmit(context.Background(), input)
	if err != nil {
		t.Fatalf("HandleAdmit returned error: %v", err)
	}

	if resp.Body.Status != models.StatusAccepted {
		t.Errorf("expected ACCEPTED, got %s", resp.Body.Status)
	}
	if resp.Body.Reference == "" {
		t.Error("expected a reference in the response")
	}
	if resp.Body.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", resp.Body.Quantity)
	}

	avail, err := env.registration.HandleAvailability(context.Background(), &AvailabilityInput{EventID: event.ID})
	if err != nil {
		t.Fatalf("HandleAvailability returned error: %v", err)
	}
	if avail.Body.PlacesAvailable != 6 {
		t.Errorf("expected 6 places available, got %d", avail.Body.PlacesAvailable)
	}
}

func TestHandleAdmitUnauthorized(t *testing.T) {
	env := setup(t)

	start := time.Now().Add(24 * time.Hour)
	event := env.event(t, 10, start, nil)

	input := &AdmitInput{EventID: event.ID}
	input.Body.TicketCategory = "STANDARD"
	input.Body.Quantity = 1

	_, err := env.registration.HandleAdmit(context.Background(), input)
	if got := statusOf(t, err); got != 401 {
		t.Errorf("expected 401, got %d", got)
	}
}

func TestHandleAdmitErrorMapping(t *testing.T) {
	env := setup(t)

	_, cookie := env.participant(t, "p1@example.com")
	_, cookie2 := env.participant(t, "p2@example.com")
	start := time.Now().Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)
	event := env.event(t, 5, start, &end)

	admit := func(cookie string, eventID uint, quantity int) error {
		input := &AdmitInput{EventID: eventID}
		input.Cookie = cookie
		input.Body.TicketCategory = "STANDARD"
		input.Body.Quantity = quantity
		_, err := env.registration.HandleAdmit(context.Background(), input)
		return err
	}

	if err := admit(cookie, event.ID, 3); err != nil {
		t.Fatalf("seed admit failed: %v", err)
	}

	// Duplicate registration.
	if got := statusOf(t, admit(cookie, event.ID, 1)); got != 409 {
		t.Errorf("duplicate: expected 409, got %d", got)
	}
	// Capacity exceeded.
	if got := statusOf(t, admit(cookie2, event.ID, 3)); got != 409 {
		t.Errorf("capacity: expected 409, got %d", got)
	}
	// Unknown event.
	if got := statusOf(t, admit(cookie2, 999, 1)); got != 404 {
		t.Errorf("unknown event: expected 404, got %d", got)
	}
	// Invalid quantity (below the huma minimum, caught by the engine too).
	if got := statusOf(t, admit(cookie2, event.ID, 0)); got != 400 {
		t.Errorf("invalid quantity: expected 400, got %d", got)
	}
}

func TestHandleCancelAndList(t *testing.T) {
	env := setup(t)

	_, cookie := env.participant(t, "p1@example.com")
	start := time.Now().Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)
	event := env.event(t, 10, start, &end)

	admitInput := &AdmitInput{EventID: event.ID}
	admitInput.Cookie = cookie
	admitInput.Body.TicketCategory = "STANDARD"
	admitInput.Body.Quantity = 2

	admitted, err := env.registration.HandleAdmit(context.Background(), admitInput)
	if err != nil {
		t.Fatalf("HandleAdmit returned error: %v", err)
	}

	listInput := &ListRegistrationsInput{}
	listInput.Cookie = cookie
	list, err := env.registration.HandleListMine(context.Background(), listInput)
	if err != nil {
		t.Fatalf("HandleListMine returned error: %v", err)
	}
	if len(list.Body) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(list.Body))
	}
	if list.Body[0].EventTitle != "test event" {
		t.Errorf("expected event title in listing, got %q", list.Body[0].EventTitle)
	}

	cancelInput := &CancelInput{Reference: admitted.Body.Reference}
	cancelInput.Cookie = cookie
	cancelled, err := env.registration.HandleCancel(context.Background(), cancelInput)
	if err != nil {
		t.Fatalf("HandleCancel returned error: %v", err)
	}
	if cancelled.Body.Status != models.StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Body.Status)
	}

	// Second cancel conflicts.
	if _, err := env.registration.HandleCancel(context.Background(), cancelInput); err == nil {
		t.Error("expected error on double cancel")
	} else if got := statusOf(t, err); got != 409 {
		t.Errorf("double cancel: expected 409, got %d", got)
	}
}
