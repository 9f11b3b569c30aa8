package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"catalogcms/internal/auth"
	"catalogcms/internal/models"
	"catalogcms/internal/session"
)

type fakeSessions struct {
	data *session.Data
	err  error
}

func (f *fakeSessions) Get(context.Context, *http.Request) (*session.Data, error) {
	return f.data, f.err
}

type fakeUsers struct {
	user  *models.User
	err   error
	calls int
}

func (f *fakeUsers) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && email == f.user.Email && password == "pw" {
		return f.user, nil
	}
	return nil, nil
}

// captureHandler records the principal it was called with.
func captureHandler() (http.Handler, **Principal, *bool) {
	var got *Principal
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got = PrincipalFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &got, &called
}

func editorUser() *models.User {
	return &models.User{
		ID:          uuid.New(),
		Email:       "editor@catalogcms.local",
		DisplayName: "Editor",
		Role:        models.RoleEditor,
	}
}

func TestAuthenticateAnonymous(t *testing.T) {
	next, got, called := captureHandler()
	h := Authenticate(&fakeSessions{}, auth.NewIssuer("s", time.Hour), &fakeUsers{})(next)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products/", nil))

	if !*called {
		t.Fatal("next handler should run for anonymous requests")
	}
	if *got != nil {
		t.Errorf("expected no principal, got %+v", *got)
	}
}

func TestAuthenticateSession(t *testing.T) {
	id := uuid.New()
	sessions := &fakeSessions{data: &session.Data{UserID: id, Email: "a@b.c", Role: "admin"}}
	next, got, _ := captureHandler()
	h := Authenticate(sessions, nil, nil)(next)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	p := *got
	if p == nil {
		t.Fatal("expected principal")
	}
	if p.UserID != id || p.Role != models.RoleAdmin || p.Method != MethodSession {
		t.Errorf("principal: got %+v", p)
	}
}

func TestAuthenticateSessionErrorFallsThrough(t *testing.T) {
	next, got, called := captureHandler()
	h := Authenticate(&fakeSessions{err: errors.New("valkey down")}, nil, nil)(next)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !*called || *got != nil {
		t.Errorf("expected anonymous pass-through, called=%v principal=%+v", *called, *got)
	}
}

func TestAuthenticateBearer(t *testing.T) {
	iss := auth.NewIssuer("secret", time.Hour)
	u := editorUser()
	token, err := iss.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	next, got, _ := captureHandler()
	h := Authenticate(&fakeSessions{}, iss, &fakeUsers{})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	p := *got
	if p == nil {
		t.Fatal("expected principal")
	}
	if p.UserID != u.ID || p.Email != u.Email || p.Role != models.RoleEditor || p.Method != MethodBearer {
		t.Errorf("principal: got %+v", p)
	}
}

func TestAuthenticateBadBearer(t *testing.T) {
	next, _, called := captureHandler()
	h := Authenticate(&fakeSessions{}, auth.NewIssuer("secret", time.Hour), nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if *called {
		t.Error("next handler should not run")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate header")
	}
}

func TestAuthenticateBasic(t *testing.T) {
	u := editorUser()

	tests := []struct {
		name       string
		user       *models.User
		password   string
		err        error
		wantStatus int
	}{
		{"valid", u, "pw", nil, http.StatusOK},
		{"wrong password", u, "bad", nil, http.StatusUnauthorized},
		{"totp enabled", &models.User{ID: u.ID, Email: u.Email, Role: u.Role, TOTPEnabled: true}, "pw", nil, http.StatusUnauthorized},
		{"store error", u, "pw", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, got, _ := captureHandler()
			users := &fakeUsers{user: tt.user, err: tt.err}
			h := Authenticate(&fakeSessions{}, nil, users)(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetBasicAuth(u.Email, tt.password)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && ((*got) == nil || (*got).Method != MethodBasic) {
				t.Errorf("expected basic principal, got %+v", *got)
			}
		})
	}
}

func TestAuthenticateSessionWinsOverHeader(t *testing.T) {
	users := &fakeUsers{}
	sessions := &fakeSessions{data: &session.Data{UserID: uuid.New(), Role: "editor"}}
	next, got, _ := captureHandler()
	h := Authenticate(sessions, nil, users)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("x@y.z", "pw")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if (*got).Method != MethodSession {
		t.Errorf("method: got %q, want session", (*got).Method)
	}
	if users.calls != 0 {
		t.Errorf("basic credentials should not be checked, got %d calls", users.calls)
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous gets 401", func(t *testing.T) {
		next, _, called := captureHandler()
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me/", nil))

		if *called {
			t.Error("next handler should not run")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Authentication credentials were not provided.") {
			t.Errorf("body: got %q", rr.Body.String())
		}
	})

	t.Run("authenticated passes", func(t *testing.T) {
		next, _, called := captureHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), &Principal{Role: models.RoleAuthor}))
		RequireAuth(next).ServeHTTP(httptest.NewRecorder(), req)

		if !*called {
			t.Error("next handler should run")
		}
	})
}

func TestRequireCatalogEditor(t *testing.T) {
	tests := []struct {
		name       string
		principal  *Principal
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"author", &Principal{Role: models.RoleAuthor}, http.StatusForbidden},
		{"editor", &Principal{Role: models.RoleEditor}, http.StatusOK},
		{"admin", &Principal{Role: models.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, _ := captureHandler()
			req := httptest.NewRequest(http.MethodPost, "/api/products/create/", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), tt.principal))
			}
			rr := httptest.NewRecorder()
			RequireCatalogEditor(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestPrincipalFromCtx(t *testing.T) {
	if PrincipalFromCtx(context.Background()) != nil {
		t.Error("expected nil principal")
	}
	ctx := context.WithValue(context.Background(), PrincipalKey, "not-a-principal")
	if PrincipalFromCtx(ctx) != nil {
		t.Error("expected nil for wrong type")
	}
}
