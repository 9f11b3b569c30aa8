package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalogcms/internal/models"
)

func TestBlogList(t *testing.T) {
	published := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	posts := new(mockBlogStore)
	posts.On("ListPublished", mock.Anything, "news", 12, 0).Return([]models.Blog{
		{ID: 1, Title: "Launch", Slug: "launch", Excerpt: "Short.", PublishedAt: &published,
			Categories: []models.BlogCategory{{ID: 2, Name: "News", Slug: "news"}}},
		{ID: 2, Title: "Update", Slug: "update", Body: "First   paragraph\nwraps.\n\nSecond paragraph.", PublishedAt: &published},
	}, 2, nil)

	h := NewBlog(posts, testURLs())
	rec := httptest.NewRecorder()
	h.List(rec, newRequest("GET", "/api/blog/?category=news", nil, nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body Page[blogListItem]
	decodeBody(t, rec, &body)
	assert.Equal(t, 2, body.Count)
	assert.Nil(t, body.Next)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "Short.", body.Results[0].Excerpt)
	assert.Equal(t, []blogCategoryRef{{ID: 2, Name: "News", Slug: "news"}}, body.Results[0].Categories)
	assert.Equal(t, "First paragraph wraps.", body.Results[1].Excerpt)
	assert.Empty(t, body.Results[1].Categories)
}

func TestBlogListInvalidPage(t *testing.T) {
	posts := new(mockBlogStore)
	posts.On("ListPublished", mock.Anything, "", 12, 24).Return([]models.Blog{}, 1, nil)

	h := NewBlog(posts, testURLs())
	rec := httptest.NewRecorder()
	h.List(rec, newRequest("GET", "/api/blog/?page=3", nil, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlogDetail(t *testing.T) {
	posts := new(mockBlogStore)
	posts.On("FindPublishedBySlug", mock.Anything, "launch").Return(&models.Blog{
		ID: 1, Title: "Launch", Slug: "launch", Body: "# Hello\n\nWe **launched**.",
	}, nil)
	posts.On("FindPublishedBySlug", mock.Anything, "draft").Return(nil, nil)

	h := NewBlog(posts, testURLs())

	rec := httptest.NewRecorder()
	h.Detail(rec, newRequest("GET", "/api/blog/launch/", nil, map[string]string{"slug": "launch"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body blogDetail
	decodeBody(t, rec, &body)
	assert.Equal(t, "# Hello\n\nWe **launched**.", body.Body)
	assert.Contains(t, body.BodyHTML, "<strong>launched</strong>")
	assert.Contains(t, body.BodyHTML, "<h1")
	assert.Equal(t, "# Hello", body.Excerpt)

	rec = httptest.NewRecorder()
	h.Detail(rec, newRequest("GET", "/api/blog/draft/", nil, map[string]string{"slug": "draft"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
