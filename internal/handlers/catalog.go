// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"catalogcms/internal/cache"
	"catalogcms/internal/catalog"
	"catalogcms/internal/models"
	"catalogcms/internal/store"
)

// ProductStore is the product persistence used by Catalog.
type ProductStore interface {
	List(ctx context.Context, f store.ProductFilter) ([]models.ProductSummary, int, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.ProductAggregate, error)
	FindByID(ctx context.Context, id int64) (*models.ProductAggregate, error)
	PublishedSpecModels(ctx context.Context, slug string) ([]models.ProductSpecModel, bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, agg *models.ProductAggregate) error
}

// CategoryStore is the taxonomy persistence used by Catalog.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListRoots(ctx context.Context) ([]models.RootCategory, error)
	MissingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// ResponseCache stores encoded response bodies. Implementations must
// treat failures as misses.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	InvalidateAll(ctx context.Context)
}

// FileUploader stores uploaded files and returns their storage keys.
type FileUploader interface {
	UploadFile(ctx context.Context, dir, filename, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// Catalog groups the product and category endpoints.
type Catalog struct {
	products   ProductStore
	categories CategoryStore
	cache      ResponseCache
	uploader   FileUploader
	urls       URLConfig
	validate   *validator.Validate
}

// NewCatalog creates the Catalog handler group. uploader may be nil when
// object storage is not configured; multipart creates then fail with 503.
func NewCatalog(products ProductStore, categories CategoryStore, rc ResponseCache, uploader FileUploader, urls URLConfig) *Catalog {
	if rc == nil {
		rc = noCache{}
	}
	return &Catalog{
		products:   products,
		categories: categories,
		cache:      rc,
		uploader:   uploader,
		urls:       urls,
		validate:   newValidator(),
	}
}

// ListProducts serves the paginated, filterable product list.
func (c *Catalog) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePage(q)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Invalid page.")
		return
	}

	filter, errs := parseProductFilter(q)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	filter.Limit = page.Size
	filter.Offset = page.Offset()

	summaries, total, err := c.products.List(r.Context(), filter)
	if err != nil {
		serverError(w, "list products failed", err)
		return
	}

	urls := c.urls.builder(r)
	items := make([]catalog.ProductListItem, 0, len(summaries))
	for i := range summaries {
		items = append(items, catalog.AssembleListItem(&summaries[i], urls))
	}

	body, err := buildPage(r, urls.Origin, page, total, items)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Invalid page.")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// parseProductFilter reads the list query parameters.
func parseProductFilter(q map[string][]string) (store.ProductFilter, FieldErrors) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	f := store.ProductFilter{
		CategorySlug:     get("category"),
		RootCategorySlug: get("root_category"),
		Search:           get("search"),
	}
	errs := FieldErrors{}

	if raw := get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs.Add("category_id", "Enter a number.")
		} else {
			f.CategoryID = &id
		}
	}
	if raw := get("is_featured"); raw != "" {
		switch strings.ToLower(raw) {
		case "true", "1":
			v := true
			f.IsFeatured = &v
		case "false", "0":
			v := false
			f.IsFeatured = &v
		default:
			errs.Add("is_featured", "Select a valid choice.")
		}
	}
	if raw := get("ordering"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			if field = strings.TrimSpace(field); field != "" {
				f.Ordering = append(f.Ordering, field)
			}
		}
	}
	return f, errs
}

// ProductDetail serves the product page contract. Only published
// products are visible. Responses are cached per origin.
func (c *Catalog) ProductDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx := r.Context()
	urls := c.urls.builder(r)
	key := cache.ProductKey(urls.Origin, slug)

	if body, ok := c.cache.Get(ctx, key); ok {
		writeRaw(w, http.StatusOK, body)
		return
	}

	agg, err := c.products.FindPublishedBySlug(ctx, slug)
	if err != nil {
		serverError(w, "load product failed", err, "slug", slug)
		return
	}
	if agg == nil {
		notFound(w)
		return
	}

	body, err := encodeJSON(catalog.AssembleDetail(catalog.FromAggregate(agg), urls))
	if err != nil {
		serverError(w, "encode product failed", err, "slug", slug)
		return
	}
	c.cache.Set(ctx, key, body)
	writeRaw(w, http.StatusOK, body)
}

// SpecTable serves the variant-by-spec pivot of a published product.
func (c *Catalog) SpecTable(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	groups, found, err := c.products.PublishedSpecModels(r.Context(), slug)
	if err != nil {
		serverError(w, "load spec models failed", err, "slug", slug)
		return
	}
	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, catalog.PivotSpecTable(catalog.SpecCellsFromModels(groups)))
}

// ListCategories serves every category as a card.
func (c *Catalog) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.List(r.Context())
	if err != nil {
		serverError(w, "list categories failed", err)
		return
	}
	urls := c.urls.builder(r)
	out := make([]catalog.CategoryCard, 0, len(cats))
	for i := range cats {
		out = append(out, catalog.AssembleCategoryCard(&cats[i], urls))
	}
	writeJSON(w, http.StatusOK, out)
}

// CategoryDetail serves one category by slug.
func (c *Catalog) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	cat, err := c.categories.FindBySlug(r.Context(), slug)
	if err != nil {
		serverError(w, "load category failed", err, "slug", slug)
		return
	}
	if cat == nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, catalog.AssembleCategoryDetail(cat, c.urls.builder(r)))
}

// ListRootCategories serves the root taxonomy with nested categories.
func (c *Catalog) ListRootCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := cache.RootCategoriesKey(c.urls.builder(r).Origin)
	if body, ok := c.cache.Get(ctx, key); ok {
		writeRaw(w, http.StatusOK, body)
		return
	}

	roots, err := c.categories.ListRoots(ctx)
	if err != nil {
		serverError(w, "list root categories failed", err)
		return
	}
	out := make([]catalog.RootCategoryItem, 0, len(roots))
	for i := range roots {
		out = append(out, catalog.AssembleRootCategory(&roots[i]))
	}

	body, err := encodeJSON(out)
	if err != nil {
		serverError(w, "encode root categories failed", err)
		return
	}
	c.cache.Set(ctx, key, body)
	writeRaw(w, http.StatusOK, body)
}

// noCache is used when no response cache is configured.
type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noCache) Set(context.Context, string, []byte)        {}
func (noCache) InvalidateAll(context.Context)              {}
