package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/eventdesk/registration-api/internal/config"
	"github.com/eventdesk/registration-api/internal/directory"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	CookieName    = "auth_token"
	TokenDuration = 24 * time.Hour
)

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
	directory   *directory.Directory
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, dir *directory.Directory) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
		db:        db,
		cfg:       cfg,
		directory: dir,
	}
}

type SignupInput struct {
	Body struct {
		Name     string `json:"name" doc:"Display name"`
		Email    string `json:"email" doc:"Email address, used to log in"`
		Password string `json:"password" doc:"Password, at least 8 characters"`
	}
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
}

type SessionOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      struct {
		ParticipantID uint   `json:"participant_id"`
		Name          string `json:"name"`
		Email         string `json:"email"`
	}
}

func (h *AuthHandler) HandleSignup(ctx context.Context, input *SignupInput) (*SessionOutput, error) {
	participant, err := h.directory.Register(ctx, input.Body.Name, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, directory.ErrEmailTaken) {
			return nil, huma.Error409Conflict(err.Error())
		}
		return nil, huma.Error400BadRequest(err.Error())
	}
	return h.session(participant.ID, participant.Name, participant.Email)
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
	participant, err := h.directory.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, directory.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized(err.Error())
		}
		return nil, huma.Error500InternalServerError("Failed to log in")
	}
	return h.session(participant.ID, participant.Name, participant.Email)
}

func (h *AuthHandler) session(id uint, name, email string) (*SessionOutput, error) {
	token, err := h.GenerateToken(id)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	out := &SessionOutput{SetCookie: sessionCookie(token).String()}
	out.Body.ParticipantID = id
	out.Body.Name = name
	out.Body.Email = email
	return out, nil
}

// HandleOAuthLogin redirects the browser to the configured OAuth provider.
func (h *AuthHandler) HandleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	url := h.oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleOAuthCallback exchanges the code, fetches the provider's user info,
// upserts the participant and sets the session cookie.
func (h *AuthHandler) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(h.cfg.OAuthUserInfoURL)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var info struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}
	name := info.Name
	if name == "" {
		name = info.Username
	}

	participant, err := h.directory.UpsertExternal(r.Context(), info.ID, name, info.Email, info.Avatar)
	if err != nil {
		http.Error(w, "Failed to save participant", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(participant.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, sessionCookie(jwtToken))
	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GenerateToken(participantID uint) (string, error) {
	claims := jwt.MapClaims{
		"participant_id": participantID,
		"exp":            time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

func (h *AuthHandler) parseToken(tokenString string) (uint, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, time.Time{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("invalid token claims")
	}
	idFloat, ok := claims["participant_id"].(float64)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("invalid token claims")
	}
	var expiry time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expiry = time.Unix(int64(exp), 0)
	}
	return uint(idFloat), expiry, nil
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}
}
