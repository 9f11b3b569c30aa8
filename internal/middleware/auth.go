// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"catalogcms/internal/auth"
	"catalogcms/internal/models"
	"catalogcms/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// PrincipalKey is the context key for the authenticated principal.
const PrincipalKey contextKey = "principal"

// Authentication methods recorded on a Principal.
const (
	MethodSession = "session"
	MethodBearer  = "bearer"
	MethodBasic   = "basic"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	Role        models.Role
	Method      string
}

// CanEditCatalog reports whether the caller may write catalog entries.
func (p *Principal) CanEditCatalog() bool {
	return p.Role == models.RoleAdmin || p.Role == models.RoleEditor
}

// SessionLoader reads the session attached to a request.
type SessionLoader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// PasswordAuthenticator checks email/password pairs. It returns (nil, nil)
// for wrong credentials.
type PasswordAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// Authenticate resolves the caller from, in order, the session cookie, a
// bearer token and HTTP Basic credentials. Requests without credentials
// pass through anonymously; credentials that are present but wrong are
// rejected with 401.
func Authenticate(sessions SessionLoader, tokens TokenParser, users PasswordAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions != nil {
				data, err := sessions.Get(r.Context(), r)
				if err != nil {
					slog.Warn("session lookup failed", "error", err)
				}
				if data != nil {
					next.ServeHTTP(w, withPrincipal(r, &Principal{
						UserID:      data.UserID,
						Email:       data.Email,
						DisplayName: data.DisplayName,
						Role:        models.Role(data.Role),
						Method:      MethodSession,
					}))
					return
				}
			}

			header := r.Header.Get("Authorization")
			scheme, credentials, _ := strings.Cut(header, " ")

			switch {
			case strings.EqualFold(scheme, "Bearer") && tokens != nil:
				claims, err := tokens.Parse(strings.TrimSpace(credentials))
				if err != nil {
					unauthorized(w, "Invalid token.")
					return
				}
				id, _ := claims.UserID()
				next.ServeHTTP(w, withPrincipal(r, &Principal{
					UserID: id,
					Email:  claims.Email,
					Role:   models.Role(claims.Role),
					Method: MethodBearer,
				}))
				return

			case strings.EqualFold(scheme, "Basic") && users != nil:
				email, password, ok := r.BasicAuth()
				if !ok {
					unauthorized(w, "Invalid basic header.")
					return
				}
				user, err := users.Authenticate(r.Context(), email, password)
				if err != nil {
					slog.Error("basic auth lookup failed", "error", err)
					writeDetail(w, http.StatusInternalServerError, "Internal server error.")
					return
				}
				if user == nil || user.TOTPEnabled {
					unauthorized(w, "Invalid username/password.")
					return
				}
				next.ServeHTTP(w, withPrincipal(r, &Principal{
					UserID:      user.ID,
					Email:       user.Email,
					DisplayName: user.DisplayName,
					Role:        user.Role,
					Method:      MethodBasic,
				}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests with 401. Must be applied after
// Authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromCtx(r.Context()) == nil {
			unauthorized(w, "Authentication credentials were not provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCatalogEditor returns 403 unless the caller is an admin or
// editor. Anonymous callers get 401.
func RequireCatalogEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromCtx(r.Context())
		if p == nil {
			unauthorized(w, "Authentication credentials were not provided.")
			return
		}
		if !p.CanEditCatalog() {
			writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromCtx returns the authenticated caller, or nil.
func PrincipalFromCtx(ctx context.Context) *Principal {
	p, _ := ctx.Value(PrincipalKey).(*Principal)
	return p
}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func withPrincipal(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(WithPrincipal(r.Context(), p))
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	writeDetail(w, http.StatusUnauthorized, detail)
}
