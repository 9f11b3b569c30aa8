package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalogcms/internal/catalog"
	"catalogcms/internal/middleware"
	"catalogcms/internal/models"
	"catalogcms/internal/session"
	"catalogcms/internal/store"
)

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) List(ctx context.Context, f store.ProductFilter) ([]models.ProductSummary, int, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]models.ProductSummary)
	return items, args.Int(1), args.Error(2)
}

func (m *mockProductStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.ProductAggregate, error) {
	args := m.Called(ctx, slug)
	agg, _ := args.Get(0).(*models.ProductAggregate)
	return agg, args.Error(1)
}

func (m *mockProductStore) FindByID(ctx context.Context, id int64) (*models.ProductAggregate, error) {
	args := m.Called(ctx, id)
	agg, _ := args.Get(0).(*models.ProductAggregate)
	return agg, args.Error(1)
}

func (m *mockProductStore) PublishedSpecModels(ctx context.Context, slug string) ([]models.ProductSpecModel, bool, error) {
	args := m.Called(ctx, slug)
	groups, _ := args.Get(0).([]models.ProductSpecModel)
	return groups, args.Bool(1), args.Error(2)
}

func (m *mockProductStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductStore) Create(ctx context.Context, agg *models.ProductAggregate) error {
	return m.Called(ctx, agg).Error(0)
}

type mockCategoryStore struct{ mock.Mock }

func (m *mockCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]models.Category)
	return cats, args.Error(1)
}

func (m *mockCategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockCategoryStore) ListRoots(ctx context.Context) ([]models.RootCategory, error) {
	args := m.Called(ctx)
	roots, _ := args.Get(0).([]models.RootCategory)
	return roots, args.Error(1)
}

func (m *mockCategoryStore) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	args := m.Called(ctx, ids)
	missing, _ := args.Get(0).([]int64)
	return missing, args.Error(1)
}

// memCache is an in-memory ResponseCache.
type memCache struct {
	entries     map[string][]byte
	invalidated int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	b, ok := c.entries[key]
	return b, ok
}

func (c *memCache) Set(_ context.Context, key string, body []byte) { c.entries[key] = body }

func (c *memCache) InvalidateAll(context.Context) {
	c.entries = map[string][]byte{}
	c.invalidated++
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) UploadFile(ctx context.Context, dir, filename, contentType string, body io.Reader, size int64) (string, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, dir, filename, contentType, string(data), size)
	return args.String(0), args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockBlogStore struct{ mock.Mock }

func (m *mockBlogStore) ListPublished(ctx context.Context, categorySlug string, limit, offset int) ([]models.Blog, int, error) {
	args := m.Called(ctx, categorySlug, limit, offset)
	posts, _ := args.Get(0).([]models.Blog)
	return posts, args.Int(1), args.Error(2)
}

func (m *mockBlogStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	args := m.Called(ctx, slug)
	b, _ := args.Get(0).(*models.Blog)
	return b, args.Error(1)
}

type mockContactStore struct{ mock.Mock }

func (m *mockContactStore) Create(ctx context.Context, msg *models.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockContactStore) Recent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	args := m.Called(ctx, limit)
	msgs, _ := args.Get(0).([]models.ContactMessage)
	return msgs, args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserStore) SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	return m.Called(ctx, userID, secret).Error(0)
}

func (m *mockUserStore) EnableTOTP(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// fakeSessions records created sessions without a Valkey server.
type fakeSessions struct {
	created   []*session.Data
	destroyed int
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	f.created = append(f.created, data)
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "sid", Path: "/"})
	return "sid", nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.destroyed++
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(u *models.User) (string, error) { return "token-" + u.Email, nil }
func (fakeIssuer) TTL() time.Duration                   { return time.Hour }

func testURLs() URLConfig {
	return URLConfig{Files: catalog.PrefixLocator("/media/")}
}

// newRequest builds a request with chi URL params.
func newRequest(method, target string, body io.Reader, params map[string]string) *http.Request {
	r := httptest.NewRequest(method, target, body)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	return r
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func withPrincipal(r *http.Request, u *models.User, method string) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), &middleware.Principal{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Method:      method,
	}))
}
