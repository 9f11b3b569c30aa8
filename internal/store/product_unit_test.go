package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcms/internal/models"
)

// arrayConverter lets []int64 arguments through to the mock unchanged, the
// way the pgx driver accepts them as Postgres arrays.
type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if _, ok := v.([]int64); ok {
		return v, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(arrayConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var productCols = []string{
	"id", "title", "slug", "short_description", "description", "highlights",
	"applications", "technical_overview", "model_number", "brand", "warranty",
	"datasheet_url", "brochure_url", "demo_video_url", "price", "highlight",
	"highlight_html", "summary_html", "hero_title", "hero_tagline", "hero_english",
	"hero_alt", "hero_video_url", "hero_catalog_href", "hero_catalog_label",
	"cart_href", "spec_download_href", "meta_title", "meta_description",
	"is_featured", "status", "published_at", "created_at", "updated_at",
}

func productRow(id int64, title, slug string, price any) []driver.Value {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	row := []driver.Value{id, title, slug}
	for i := 0; i < 11; i++ {
		row = append(row, "")
	}
	row = append(row, price)
	for i := 0; i < 14; i++ {
		row = append(row, "")
	}
	return append(row, true, "published", now, now, now)
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, "p.published_at DESC, p.created_at DESC, p.id DESC"},
		{[]string{"title"}, "p.title ASC, p.id DESC"},
		{[]string{"-created_at", "title"}, "p.created_at DESC, p.title ASC, p.id DESC"},
		{[]string{"price", "-bogus"}, "p.published_at DESC, p.created_at DESC, p.id DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, orderClause(tt.in), "orderClause(%v)", tt.in)
	}
}

func TestProductFilterWhere(t *testing.T) {
	featured := true
	catID := int64(7)
	f := ProductFilter{
		CategorySlug: "Pumps", CategoryID: &catID, RootCategorySlug: "industry",
		IsFeatured: &featured, Search: "  valve ",
	}

	var args argList
	where := f.where(&args)

	assert.Contains(t, where, "p.status = 'published'")
	assert.Contains(t, where, "LOWER(c.slug) = LOWER($1)")
	assert.Contains(t, where, "pc.category_id = $2")
	assert.Contains(t, where, "LOWER(r.slug) = LOWER($3)")
	assert.Contains(t, where, "p.is_featured = $4")
	assert.Contains(t, where, "p.model_number ILIKE $5")
	assert.Equal(t, argList{"Pumps", int64(7), "industry", true, "%valve%"}, args)
}

func TestProductListEmpty(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p WHERE p.status = 'published'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := s.List(context.Background(), ProductFilter{Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductListBatchLoads(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM products p WHERE .* ORDER BY p.title ASC, p.id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(12, 12).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(productRow(1, "Alpha", "alpha", "10.50")...).
			AddRow(productRow(2, "Beta", "beta", nil)...))
	mock.ExpectQuery(`FROM product_categories pc`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"product_id", "id", "name", "slug", "image", "short_description", "description",
			"root_category_id", "created_at", "updated_at", "rid", "rname", "rslug",
		}).
			AddRow(1, 5, "Pumps", "pumps", "", "", "", 9, now, now, 9, "Industry", "industry").
			AddRow(2, 6, "Valves", "valves", "", "", "", nil, now, now, nil, nil, nil))
	mock.ExpectQuery(`FROM product_media WHERE product_id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "product_id", "media_type", "role", "title", "image", "file", "url",
			"alt_text", "is_primary", "sort_order", "created_at",
		}).AddRow(3, 1, "image", "", "", "a.png", "", "", "A", true, 0, now))

	items, total, err := s.List(context.Background(), ProductFilter{
		Ordering: []string{"title"}, Limit: 12, Offset: 12,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, total)

	alpha := items[0]
	assert.Equal(t, "alpha", alpha.Product.Slug)
	assert.True(t, alpha.Product.Price.Valid)
	assert.Equal(t, "10.5", alpha.Product.Price.Decimal.String())
	require.Len(t, alpha.Categories, 1)
	require.NotNil(t, alpha.Categories[0].RootCategory)
	assert.Equal(t, "industry", alpha.Categories[0].RootCategory.Slug)
	require.Len(t, alpha.Media, 1)
	assert.Equal(t, models.MediaImage, alpha.Media[0].MediaType)

	beta := items[1]
	assert.False(t, beta.Product.Price.Valid)
	require.Len(t, beta.Categories, 1)
	assert.Nil(t, beta.Categories[0].RootCategory)
	assert.Empty(t, beta.Media)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductFindPublishedBySlugNotFound(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)

	mock.ExpectQuery(`WHERE p.slug = \$1 AND p.status = 'published'`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(productCols))

	agg, err := s.FindPublishedBySlug(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, agg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCreateDuplicateSlugRollsBack(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})
	mock.ExpectRollback()

	agg := &models.ProductAggregate{Product: models.Product{Title: "Dup", Slug: "dup", Status: models.ProductDraft}}
	err := s.Create(context.Background(), agg)
	assert.True(t, errors.Is(err, ErrDuplicateSlug), "err = %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCreateFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))
	mock.ExpectExec(`INSERT INTO product_categories`).
		WithArgs(int64(10), int64(99)).
		WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	agg := &models.ProductAggregate{
		Product:    models.Product{Title: "X", Slug: "x", Status: models.ProductDraft},
		Categories: []models.Category{{ID: 99}},
	}
	err := s.Create(context.Background(), agg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link product category")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCreateLinksBlockMedia(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))
	mock.ExpectQuery(`INSERT INTO product_media`).
		WithArgs(int64(10), "video", "", "", "", "clip.mp4", "", "", false, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(20, now))
	mock.ExpectQuery(`INSERT INTO product_content_blocks`).
		WithArgs(int64(10), "video", "video", "", "", int64(20), 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(30))
	mock.ExpectCommit()

	agg := &models.ProductAggregate{
		Product: models.Product{Title: "X", Slug: "x", Status: models.ProductDraft},
		ContentBlocks: []models.ProductContentBlock{{
			Section: models.SectionVideo, BlockType: models.BlockVideo,
			Media: &models.ProductMedia{MediaType: models.MediaVideo, File: "clip.mp4"},
		}},
	}
	require.NoError(t, s.Create(context.Background(), agg))

	blk := agg.ContentBlocks[0]
	assert.Equal(t, int64(30), blk.ID)
	require.NotNil(t, blk.MediaID)
	assert.Equal(t, int64(20), *blk.MediaID)
	assert.Equal(t, int64(10), blk.Media.ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.Join(errors.New("wrapped"), &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("other")))
	assert.False(t, isUniqueViolation(nil))
}
