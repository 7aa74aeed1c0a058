package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/eventdesk/registration-api/internal/config"
	"github.com/eventdesk/registration-api/internal/directory"
	"github.com/eventdesk/registration-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Participant{}, &models.APIKey{}); err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}
	return NewAuthHandler(cfg, db, directory.NewDirectory(db)), db
}

func TestAuthorizeWithCookie(t *testing.T) {
	h, db := testHandler(t)

	p := models.Participant{Email: "p1@example.com"}
	db.Create(&p)

	token, err := h.GenerateToken(p.ID)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	id, refreshed, err := h.Authorize(context.Background(), AuthInput{Cookie: CookieName + "=" + token})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if id != p.ID {
		t.Errorf("expected participant %d, got %d", p.ID, id)
	}
	if refreshed != "" {
		t.Errorf("expected no refresh for a fresh token, got %q", refreshed)
	}
}

func TestAuthorizeRejectsBadToken(t *testing.T) {
	h, _ := testHandler(t)

	if _, _, err := h.Authorize(context.Background(), AuthInput{}); err == nil {
		t.Error("expected error with no credentials")
	}
	if _, _, err := h.Authorize(context.Background(), AuthInput{Cookie: CookieName + "=garbage"}); err == nil {
		t.Error("expected error with a garbage token")
	}
}

func TestAuthorizeSlidingRefresh(t *testing.T) {
	h, db := testHandler(t)

	p := models.Participant{Email: "p1@example.com"}
	db.Create(&p)

	// Token past half its duration: Authorize should re-issue the cookie.
	claims := jwt.MapClaims{
		"participant_id": p.ID,
		"exp":            time.Now().Add(TokenDuration/2 - time.Hour).Unix(),
	}
	aging, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	id, refreshed, err := h.Authorize(context.Background(), AuthInput{Cookie: CookieName + "=" + aging})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if id != p.ID {
		t.Errorf("expected participant %d, got %d", p.ID, id)
	}
	if refreshed == "" {
		t.Fatal("expected a refreshed cookie for a token past half its duration")
	}

	// The refreshed cookie must itself authorize.
	cookie, err := http.ParseSetCookie(refreshed)
	if err != nil {
		t.Fatalf("refreshed value is not a valid Set-Cookie: %v", err)
	}
	again, next, err := h.Authorize(context.Background(), AuthInput{Cookie: CookieName + "=" + cookie.Value})
	if err != nil {
		t.Fatalf("refreshed cookie did not authorize: %v", err)
	}
	if again != p.ID {
		t.Errorf("expected participant %d, got %d", p.ID, again)
	}
	if next != "" {
		t.Errorf("expected no second refresh for a freshly issued token, got %q", next)
	}
}

func TestAuthorizeWithAPIKey(t *testing.T) {
	h, db := testHandler(t)

	p := models.Participant{Email: "p1@example.com"}
	db.Create(&p)

	key := models.APIKey{ParticipantID: p.ID, Key: "the-key", Name: "ci"}
	db.Create(&key)

	id, refreshed, err := h.Authorize(context.Background(), AuthInput{APIKey: "the-key"})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if id != p.ID {
		t.Errorf("expected participant %d, got %d", p.ID, id)
	}
	if refreshed != "" {
		t.Errorf("expected no cookie refresh on the API key path, got %q", refreshed)
	}

	var updated models.APIKey
	db.First(&updated, key.ID)
	if updated.LastUsedAt == nil {
		t.Error("expected last_used_at to be stamped")
	}
}

func TestAuthorizeRejectsExpiredAPIKey(t *testing.T) {
	h, db := testHandler(t)

	p := models.Participant{Email: "p1@example.com"}
	db.Create(&p)

	expired := time.Now().Add(-time.Hour)
	db.Create(&models.APIKey{ParticipantID: p.ID, Key: "old-key", ExpiresAt: &expired})

	if _, _, err := h.Authorize(context.Background(), AuthInput{APIKey: "old-key"}); err == nil {
		t.Error("expected error for expired API key")
	}
}

func TestSignupAndLogin(t *testing.T) {
	h, _ := testHandler(t)

	signup := &SignupInput{}
	signup.Body.Name = "Pat"
	signup.Body.Email = "pat@example.com"
	signup.Body.Password = "correct-horse"

	created, err := h.HandleSignup(context.Background(), signup)
	if err != nil {
		t.Fatalf("HandleSignup returned error: %v", err)
	}
	if created.SetCookie == "" {
		t.Error("expected a session cookie on signup")
	}

	login := &LoginInput{}
	login.Body.Email = "pat@example.com"
	login.Body.Password = "correct-horse"

	session, err := h.HandleLogin(context.Background(), login)
	if err != nil {
		t.Fatalf("HandleLogin returned error: %v", err)
	}
	if session.Body.ParticipantID != created.Body.ParticipantID {
		t.Errorf("login resolved a different participant: %d vs %d",
			session.Body.ParticipantID, created.Body.ParticipantID)
	}

	login.Body.Password = "wrong"
	if _, err := h.HandleLogin(context.Background(), login); err == nil {
		t.Error("expected error for wrong password")
	}
}
