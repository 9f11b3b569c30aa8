// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"catalogcms/internal/models"
)

// ProductStore handles products and every collection a product owns.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `p.id, p.title, p.slug, p.short_description, p.description, p.highlights,
	p.applications, p.technical_overview, p.model_number, p.brand, p.warranty,
	p.datasheet_url, p.brochure_url, p.demo_video_url, p.price, p.highlight,
	p.highlight_html, p.summary_html, p.hero_title, p.hero_tagline, p.hero_english,
	p.hero_alt, p.hero_video_url, p.hero_catalog_href, p.hero_catalog_label,
	p.cart_href, p.spec_download_href, p.meta_title, p.meta_description,
	p.is_featured, p.status, p.published_at, p.created_at, p.updated_at`

func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.ShortDescription, &p.Description, &p.Highlights,
		&p.Applications, &p.TechnicalOverview, &p.ModelNumber, &p.Brand, &p.Warranty,
		&p.DatasheetURL, &p.BrochureURL, &p.DemoVideoURL, &p.Price, &p.Highlight,
		&p.HighlightHTML, &p.SummaryHTML, &p.HeroTitle, &p.HeroTagline, &p.HeroEnglish,
		&p.HeroAlt, &p.HeroVideoURL, &p.HeroCatalogHref, &p.HeroCatalogLabel,
		&p.CartHref, &p.SpecDownloadHref, &p.MetaTitle, &p.MetaDescription,
		&p.IsFeatured, &p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductFilter narrows the public product list. Zero values mean "no
// filter". Category and root category slugs match case-insensitively.
type ProductFilter struct {
	CategorySlug     string
	CategoryID       *int64
	RootCategorySlug string
	IsFeatured       *bool
	Search           string
	// Ordering holds field names, each optionally prefixed with "-" for
	// descending order. Unknown fields are ignored.
	Ordering []string
	Limit    int
	Offset   int
}

var productOrderColumns = map[string]string{
	"published_at": "p.published_at",
	"created_at":   "p.created_at",
	"title":        "p.title",
}

func (f ProductFilter) where(args *argList) string {
	conds := []string{"p.status = 'published'"}

	if f.CategorySlug != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM product_categories pc JOIN categories c ON c.id = pc.category_id
			WHERE pc.product_id = p.id AND LOWER(c.slug) = LOWER(`+args.add(f.CategorySlug)+`))`)
	}
	if f.CategoryID != nil {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM product_categories pc
			WHERE pc.product_id = p.id AND pc.category_id = `+args.add(*f.CategoryID)+`)`)
	}
	if f.RootCategorySlug != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM product_categories pc
			JOIN categories c ON c.id = pc.category_id
			JOIN root_categories r ON r.id = c.root_category_id
			WHERE pc.product_id = p.id AND LOWER(r.slug) = LOWER(`+args.add(f.RootCategorySlug)+`))`)
	}
	if f.IsFeatured != nil {
		conds = append(conds, "p.is_featured = "+args.add(*f.IsFeatured))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		ph := args.add("%" + term + "%")
		conds = append(conds, "(p.title ILIKE "+ph+" OR p.short_description ILIKE "+ph+
			" OR p.description ILIKE "+ph+" OR p.brand ILIKE "+ph+" OR p.model_number ILIKE "+ph+")")
	}
	return strings.Join(conds, " AND ")
}

// orderClause builds ORDER BY from the requested fields, falling back to
// newest first. The id is always the final tie-break.
func orderClause(fields []string) string {
	var parts []string
	for _, f := range fields {
		dir := "ASC"
		if strings.HasPrefix(f, "-") {
			dir = "DESC"
			f = f[1:]
		}
		if col, ok := productOrderColumns[f]; ok {
			parts = append(parts, col+" "+dir)
		}
	}
	if len(parts) == 0 {
		parts = []string{"p.published_at DESC", "p.created_at DESC"}
	}
	return strings.Join(append(parts, "p.id DESC"), ", ")
}

// List returns a page of published products with their categories and
// media, plus the total number of matches.
func (s *ProductStore) List(ctx context.Context, f ProductFilter) ([]models.ProductSummary, int, error) {
	var args argList
	where := f.where(&args)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products p WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	if total == 0 {
		return []models.ProductSummary{}, 0, nil
	}

	query := "SELECT " + productColumns + " FROM products p WHERE " + where + " ORDER BY " + orderClause(f.Ordering)
	if f.Limit > 0 {
		query += " LIMIT " + args.add(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + args.add(f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := []models.ProductSummary{}
	var ids []int64
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, models.ProductSummary{Product: *p})
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return items, total, nil
	}

	cats, err := s.categoriesFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	media, err := s.mediaFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		id := items[i].Product.ID
		items[i].Categories = cats[id]
		items[i].Media = media[id]
	}
	return items, total, nil
}

// FindPublishedBySlug loads the full aggregate of a published product.
// Returns nil if no published product has the slug.
func (s *ProductStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.ProductAggregate, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		WHERE p.slug = $1 AND p.status = 'published'
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return s.loadAggregate(ctx, p)
}

// FindByID loads the full aggregate of a product in any status. Returns nil
// if not found.
func (s *ProductStore) FindByID(ctx context.Context, id int64) (*models.ProductAggregate, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		WHERE p.id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return s.loadAggregate(ctx, p)
}

// PublishedSpecModels returns the spec models of a published product. found
// is false when no published product has the slug.
func (s *ProductStore) PublishedSpecModels(ctx context.Context, slug string) (groups []models.ProductSpecModel, found bool, err error) {
	var id int64
	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM products WHERE slug = $1 AND status = 'published'
	`, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find product id by slug: %w", err)
	}
	groups, err = s.specModels(ctx, id)
	if err != nil {
		return nil, true, err
	}
	return groups, true, nil
}

// SlugExists reports whether any product uses slug.
func (s *ProductStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product slug: %w", err)
	}
	return exists, nil
}

// SetStatus moves a product to status. Publishing stamps published_at
// unless it is already set. Returns false if the product does not exist.
func (s *ProductStore) SetStatus(ctx context.Context, slug string, status models.ProductStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET status = $1,
		    published_at = CASE WHEN $1 = 'published' THEN COALESCE(published_at, NOW()) ELSE published_at END,
		    updated_at = NOW()
		WHERE slug = $2
	`, string(status), slug)
	if err != nil {
		return false, fmt.Errorf("set product status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set product status: %w", err)
	}
	return n > 0, nil
}

// Delete removes a product and, by cascade, everything it owns.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (s *ProductStore) loadAggregate(ctx context.Context, p *models.Product) (*models.ProductAggregate, error) {
	agg := &models.ProductAggregate{Product: *p}
	ids := []int64{p.ID}

	cats, err := s.categoriesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	agg.Categories = cats[p.ID]

	media, err := s.mediaFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	agg.Media = media[p.ID]

	if agg.GalleryImages, err = queryAll(ctx, s.db, scanGalleryImage, `
		SELECT id, product_id, image, alt_text, sort_order, created_at
		FROM product_gallery_images WHERE product_id = $1 ORDER BY sort_order, id
	`, p.ID); err != nil {
		return nil, fmt.Errorf("load gallery images: %w", err)
	}
	if agg.Features, err = queryAll(ctx, s.db, scanFeature, `
		SELECT id, product_id, title, body, sort_order
		FROM product_features WHERE product_id = $1 ORDER BY sort_order, id
	`, p.ID); err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	if agg.Specifications, err = queryAll(ctx, s.db, scanSpecification, `
		SELECT id, product_id, name, value, unit, sort_order
		FROM product_specifications WHERE product_id = $1 ORDER BY sort_order, id
	`, p.ID); err != nil {
		return nil, fmt.Errorf("load specifications: %w", err)
	}
	if agg.NavItems, err = queryAll(ctx, s.db, scanNavItem, `
		SELECT id, product_id, anchor_id, label, href, sort_order
		FROM product_nav_items WHERE product_id = $1 ORDER BY sort_order, id
	`, p.ID); err != nil {
		return nil, fmt.Errorf("load nav items: %w", err)
	}
	if agg.FAQItems, err = queryAll(ctx, s.db, scanFaqItem, `
		SELECT id, product_id, question, answer_html, sort_order
		FROM product_faq_items WHERE product_id = $1 ORDER BY sort_order, id
	`, p.ID); err != nil {
		return nil, fmt.Errorf("load faq items: %w", err)
	}
	if agg.ContentBlocks, err = s.contentBlocks(ctx, p.ID, agg.Media); err != nil {
		return nil, err
	}
	if agg.SpecModels, err = s.specModels(ctx, p.ID); err != nil {
		return nil, err
	}
	return agg, nil
}

// categoriesFor batch-loads categories (with their root) for the given
// products, ordered by name so the first entry is the canonical one.
func (s *ProductStore) categoriesFor(ctx context.Context, ids []int64) (map[int64][]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pc.product_id, `+categoryColumns+`, r.id, r.name, r.slug
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		LEFT JOIN root_categories r ON r.id = c.root_category_id
		WHERE pc.product_id = ANY($1)
		ORDER BY c.name, c.id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("load product categories: %w", err)
	}
	defer rows.Close()

	out := map[int64][]models.Category{}
	for rows.Next() {
		var (
			productID int64
			c         models.Category
			rootID    *int64
			rootName  *string
			rootSlug  *string
		)
		if err := rows.Scan(
			&productID,
			&c.ID, &c.Name, &c.Slug, &c.Image, &c.ShortDescription, &c.Description,
			&c.RootCategoryID, &c.CreatedAt, &c.UpdatedAt,
			&rootID, &rootName, &rootSlug,
		); err != nil {
			return nil, fmt.Errorf("scan product category: %w", err)
		}
		if rootID != nil {
			c.RootCategory = &models.RootCategory{ID: *rootID, Name: deref(rootName), Slug: deref(rootSlug)}
		}
		out[productID] = append(out[productID], c)
	}
	return out, rows.Err()
}

const mediaColumns = `id, product_id, media_type, role, title, image, file, url, alt_text,
	is_primary, sort_order, created_at`

func scanMedia(row scanner) (models.ProductMedia, error) {
	var m models.ProductMedia
	err := row.Scan(
		&m.ID, &m.ProductID, &m.MediaType, &m.Role, &m.Title, &m.Image, &m.File, &m.URL,
		&m.AltText, &m.IsPrimary, &m.SortOrder, &m.CreatedAt,
	)
	return m, err
}

// mediaFor batch-loads media for the given products in (sort_order, id)
// order.
func (s *ProductStore) mediaFor(ctx context.Context, ids []int64) (map[int64][]models.ProductMedia, error) {
	media, err := queryAll(ctx, s.db, scanMedia, `
		SELECT `+mediaColumns+`
		FROM product_media WHERE product_id = ANY($1) ORDER BY sort_order, id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("load product media: %w", err)
	}
	out := map[int64][]models.ProductMedia{}
	for _, m := range media {
		out[m.ProductID] = append(out[m.ProductID], m)
	}
	return out, nil
}

// contentBlocks loads blocks with their items and linked media. Linked media
// normally belongs to the same product; anything else is fetched by id.
func (s *ProductStore) contentBlocks(ctx context.Context, productID int64, owned []models.ProductMedia) ([]models.ProductContentBlock, error) {
	blocks, err := queryAll(ctx, s.db, scanContentBlock, `
		SELECT id, product_id, section, block_type, title, body, media_id, sort_order
		FROM product_content_blocks WHERE product_id = $1 ORDER BY sort_order, id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("load content blocks: %w", err)
	}
	if len(blocks) == 0 {
		return blocks, nil
	}

	blockIDs := make([]int64, len(blocks))
	for i, b := range blocks {
		blockIDs[i] = b.ID
	}
	items, err := queryAll(ctx, s.db, scanBlockItem, `
		SELECT id, block_id, label, value, sort_order
		FROM product_content_block_items WHERE block_id = ANY($1) ORDER BY sort_order, id
	`, blockIDs)
	if err != nil {
		return nil, fmt.Errorf("load content block items: %w", err)
	}
	byBlock := map[int64][]models.ProductContentBlockItem{}
	for _, it := range items {
		byBlock[it.BlockID] = append(byBlock[it.BlockID], it)
	}

	mediaByID := map[int64]models.ProductMedia{}
	for _, m := range owned {
		mediaByID[m.ID] = m
	}
	var foreign []int64
	for _, b := range blocks {
		if b.MediaID != nil {
			if _, ok := mediaByID[*b.MediaID]; !ok {
				foreign = append(foreign, *b.MediaID)
			}
		}
	}
	if len(foreign) > 0 {
		extra, err := queryAll(ctx, s.db, scanMedia, `
			SELECT `+mediaColumns+` FROM product_media WHERE id = ANY($1)
		`, foreign)
		if err != nil {
			return nil, fmt.Errorf("load block media: %w", err)
		}
		for _, m := range extra {
			mediaByID[m.ID] = m
		}
	}

	for i := range blocks {
		blocks[i].Items = byBlock[blocks[i].ID]
		if id := blocks[i].MediaID; id != nil {
			if m, ok := mediaByID[*id]; ok {
				blocks[i].Media = &m
			}
		}
	}
	return blocks, nil
}

func (s *ProductStore) specModels(ctx context.Context, productID int64) ([]models.ProductSpecModel, error) {
	groups, err := queryAll(ctx, s.db, scanSpecModel, `
		SELECT id, product_id, title, sort_order
		FROM product_spec_models WHERE product_id = $1 ORDER BY sort_order, id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("load spec models: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	groupIDs := make([]int64, len(groups))
	for i, g := range groups {
		groupIDs[i] = g.ID
	}
	items, err := queryAll(ctx, s.db, scanSpecItem, `
		SELECT id, spec_model_id, name, value, unit, sort_order
		FROM product_spec_items WHERE spec_model_id = ANY($1) ORDER BY sort_order, id
	`, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("load spec items: %w", err)
	}
	byGroup := map[int64][]models.ProductSpecItem{}
	for _, it := range items {
		byGroup[it.SpecModelID] = append(byGroup[it.SpecModelID], it)
	}
	for i := range groups {
		groups[i].Items = byGroup[groups[i].ID]
	}
	return groups, nil
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, db *sql.DB, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanGalleryImage(row scanner) (models.ProductGalleryImage, error) {
	var g models.ProductGalleryImage
	err := row.Scan(&g.ID, &g.ProductID, &g.Image, &g.AltText, &g.SortOrder, &g.CreatedAt)
	return g, err
}

func scanFeature(row scanner) (models.ProductFeature, error) {
	var f models.ProductFeature
	err := row.Scan(&f.ID, &f.ProductID, &f.Title, &f.Body, &f.SortOrder)
	return f, err
}

func scanSpecification(row scanner) (models.ProductSpecification, error) {
	var sp models.ProductSpecification
	err := row.Scan(&sp.ID, &sp.ProductID, &sp.Name, &sp.Value, &sp.Unit, &sp.SortOrder)
	return sp, err
}

func scanNavItem(row scanner) (models.ProductNavItem, error) {
	var n models.ProductNavItem
	err := row.Scan(&n.ID, &n.ProductID, &n.AnchorID, &n.Label, &n.Href, &n.SortOrder)
	return n, err
}

func scanFaqItem(row scanner) (models.ProductFaqItem, error) {
	var f models.ProductFaqItem
	err := row.Scan(&f.ID, &f.ProductID, &f.Question, &f.AnswerHTML, &f.SortOrder)
	return f, err
}

func scanContentBlock(row scanner) (models.ProductContentBlock, error) {
	var b models.ProductContentBlock
	err := row.Scan(&b.ID, &b.ProductID, &b.Section, &b.BlockType, &b.Title, &b.Body, &b.MediaID, &b.SortOrder)
	return b, err
}

func scanBlockItem(row scanner) (models.ProductContentBlockItem, error) {
	var it models.ProductContentBlockItem
	err := row.Scan(&it.ID, &it.BlockID, &it.Label, &it.Value, &it.SortOrder)
	return it, err
}

func scanSpecModel(row scanner) (models.ProductSpecModel, error) {
	var g models.ProductSpecModel
	err := row.Scan(&g.ID, &g.ProductID, &g.Title, &g.SortOrder)
	return g, err
}

func scanSpecItem(row scanner) (models.ProductSpecItem, error) {
	var it models.ProductSpecItem
	err := row.Scan(&it.ID, &it.SpecModelID, &it.Name, &it.Value, &it.Unit, &it.SortOrder)
	return it, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
