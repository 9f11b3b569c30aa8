// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"catalogcms/internal/middleware"
	"catalogcms/internal/models"
	"catalogcms/internal/session"
)

// totpIssuer names the account in authenticator apps.
const totpIssuer = "CatalogCMS"

// UserStore is the user persistence used by Auth.
type UserStore interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
}

// SessionStore creates and destroys cookie sessions.
type SessionStore interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(u *models.User) (string, error)
	TTL() time.Duration
}

// Auth groups the login, logout and 2FA endpoints.
type Auth struct {
	users    UserStore
	sessions SessionStore
	tokens   TokenIssuer
	validate *validator.Validate
}

// NewAuth creates the Auth handler group. sessions may be nil, in which
// case login only returns a bearer token.
func NewAuth(users UserStore, sessions SessionStore, tokens TokenIssuer) *Auth {
	return &Auth{users: users, sessions: sessions, tokens: tokens, validate: newValidator()}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code"`
}

type userView struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	TOTPEnabled bool        `json:"totp_enabled"`
}

func viewUser(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, Role: u.Role, TOTPEnabled: u.TOTPEnabled}
}

type loginResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int      `json:"expires_in"`
	User      userView `json:"user"`
}

// Login checks email and password, plus a TOTP code for users with 2FA
// enabled. On success it starts a cookie session and returns a bearer
// token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var in loginInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if errs := validateStruct(a.validate, &in); errs != nil {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	user, err := a.users.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		serverError(w, "login lookup failed", err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusBadRequest, FieldErrors{"non_field_errors": {"Unable to log in with provided credentials."}})
		return
	}

	if user.TOTPEnabled {
		code := strings.TrimSpace(in.Code)
		if code == "" {
			writeJSON(w, http.StatusBadRequest, FieldErrors{"code": {"This field is required."}})
			return
		}
		if user.TOTPSecret == nil || !totp.Validate(code, *user.TOTPSecret) {
			writeJSON(w, http.StatusBadRequest, FieldErrors{"code": {"Invalid two-factor code."}})
			return
		}
	}

	if a.sessions != nil {
		if _, err := a.sessions.Create(ctx, w, &session.Data{
			UserID:      user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        string(user.Role),
		}); err != nil {
			serverError(w, "session create failed", err, "user", user.ID)
			return
		}
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		serverError(w, "issue token failed", err, "user", user.ID)
		return
	}

	slog.Info("user logged in", "user", user.ID)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(a.tokens.TTL().Seconds()),
		User:      viewUser(user),
	})
}

// Logout ends the cookie session. Bearer tokens expire on their own.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if a.sessions != nil {
		if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
			serverError(w, "session destroy failed", err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	p := middleware.PrincipalFromCtx(r.Context())
	writeJSON(w, http.StatusOK, struct {
		userView
		AuthMethod string `json:"auth_method"`
	}{viewUser(user), p.Method})
}

type twoFASetupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
	QRCode     string `json:"qr_code"`
}

// TwoFASetup generates a new TOTP secret for the caller and returns it
// with a QR code. 2FA stays disabled until TwoFAEnable verifies a code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	if user.TOTPEnabled {
		writeDetail(w, http.StatusBadRequest, "Two-factor authentication is already enabled.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		serverError(w, "totp generate failed", err)
		return
	}
	if err := a.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		serverError(w, "save totp secret failed", err, "user", user.ID)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		serverError(w, "qr code generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, twoFASetupResponse{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFAEnable verifies a code against the pending secret and turns 2FA on.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<12)).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}

	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	if user.TOTPSecret == nil {
		writeDetail(w, http.StatusBadRequest, "Run two-factor setup first.")
		return
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		writeJSON(w, http.StatusBadRequest, FieldErrors{"code": {"This field is required."}})
		return
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		writeJSON(w, http.StatusBadRequest, FieldErrors{"code": {"Invalid two-factor code."}})
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
			serverError(w, "enable totp failed", err, "user", user.ID)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"totp_enabled": true})
}

// currentUser loads the caller's user row. It writes 401 when there is
// no principal or the user no longer exists.
func (a *Auth) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil, false
	}
	user, err := a.users.FindByID(r.Context(), p.UserID)
	if err != nil {
		serverError(w, "load current user failed", err, "user", p.UserID)
		return nil, false
	}
	if user == nil {
		writeDetail(w, http.StatusUnauthorized, "User not found.")
		return nil, false
	}
	return user, true
}
