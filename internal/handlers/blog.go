// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"catalogcms/internal/markdown"
	"catalogcms/internal/models"
)

// excerptLength bounds generated excerpts.
const excerptLength = 240

// BlogStore is the post persistence used by Blog.
type BlogStore interface {
	ListPublished(ctx context.Context, categorySlug string, limit, offset int) ([]models.Blog, int, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Blog, error)
}

// Blog groups the public blog endpoints.
type Blog struct {
	posts BlogStore
	urls  URLConfig
}

// NewBlog creates the Blog handler group.
func NewBlog(posts BlogStore, urls URLConfig) *Blog {
	return &Blog{posts: posts, urls: urls}
}

type blogCategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type blogListItem struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Excerpt     string            `json:"excerpt"`
	Categories  []blogCategoryRef `json:"categories"`
	PublishedAt *time.Time        `json:"published_at"`
}

type blogDetail struct {
	blogListItem
	Body     string `json:"body"`
	BodyHTML string `json:"body_html"`
}

func blogItem(b *models.Blog) blogListItem {
	cats := make([]blogCategoryRef, 0, len(b.Categories))
	for _, c := range b.Categories {
		cats = append(cats, blogCategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	excerpt := b.Excerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = markdown.Excerpt(b.Body, excerptLength)
	}
	return blogListItem{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Excerpt:     excerpt,
		Categories:  cats,
		PublishedAt: b.PublishedAt,
	}
}

// List serves published posts newest first, optionally for one category.
func (h *Blog) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePage(q)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Invalid page.")
		return
	}

	posts, total, err := h.posts.ListPublished(r.Context(), strings.TrimSpace(q.Get("category")), page.Size, page.Offset())
	if err != nil {
		serverError(w, "list blog posts failed", err)
		return
	}

	items := make([]blogListItem, 0, len(posts))
	for i := range posts {
		items = append(items, blogItem(&posts[i]))
	}
	body, err := buildPage(r, requestOrigin(r, h.urls.PublicBaseURL), page, total, items)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Invalid page.")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// Detail serves one published post with its rendered body.
func (h *Blog) Detail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.posts.FindPublishedBySlug(r.Context(), slug)
	if err != nil {
		serverError(w, "load blog post failed", err, "slug", slug)
		return
	}
	if post == nil {
		notFound(w)
		return
	}

	html, err := markdown.ToHTML(post.Body)
	if err != nil {
		serverError(w, "render blog post failed", err, "slug", slug)
		return
	}
	writeJSON(w, http.StatusOK, blogDetail{blogListItem: blogItem(post), Body: post.Body, BodyHTML: html})
}
