package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/eventdesk/registration-api/internal/models"
)

// AuthInput is embedded in every protected operation's input so huma exposes
// both credential channels: the session cookie and the API key header.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie" required:"false"`
	APIKey string `header:"X-API-KEY" doc:"API key" required:"false"`
}

// Authorize resolves the calling participant from an API key or the session
// cookie, in that order. It returns a huma error suitable to bubble straight
// out of the operation.
//
// Sessions slide: once a token is past half its duration, Authorize re-issues
// it and returns a Set-Cookie value for the handler to surface; otherwise the
// second return value is empty. API key calls never carry a cookie.
func (h *AuthHandler) Authorize(ctx context.Context, input AuthInput) (uint, string, error) {
	if input.APIKey != "" {
		var keyModel models.APIKey
		if err := h.db.WithContext(ctx).Where("key = ?", input.APIKey).First(&keyModel).Error; err == nil {
			if keyModel.ExpiresAt != nil && time.Now().After(*keyModel.ExpiresAt) {
				return 0, "", huma.Error401Unauthorized("API key expired")
			}
			h.db.WithContext(ctx).Model(&keyModel).Update("last_used_at", time.Now())
			return keyModel.ParticipantID, "", nil
		}
		return 0, "", huma.Error401Unauthorized("Invalid API key")
	}

	cookie, err := readCookie(input.Cookie, CookieName)
	if err != nil {
		return 0, "", huma.Error401Unauthorized("No token found")
	}

	participantID, expiry, err := h.parseToken(cookie.Value)
	if err != nil {
		return 0, "", huma.Error401Unauthorized("Invalid token")
	}

	var refreshed string
	if time.Until(expiry) < TokenDuration/2 {
		if token, err := h.GenerateToken(participantID); err == nil {
			refreshed = sessionCookie(token).String()
		}
	}
	return participantID, refreshed, nil
}

// readCookie parses a raw Cookie header the way net/http would on a request.
func readCookie(header, name string) (*http.Cookie, error) {
	r := http.Request{Header: http.Header{"Cookie": []string{header}}}
	return r.Cookie(name)
}
