// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"catalogcms/internal/models"
)

// Create inserts a product and every nested collection of agg in one
// transaction. Categories are linked by ID and must already exist. Content
// block media, when set on a block, is inserted as product media first and
// linked to the block. Generated IDs and timestamps are written back into
// agg. A slug collision returns ErrDuplicateSlug.
func (s *ProductStore) Create(ctx context.Context, agg *models.ProductAggregate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create product: %w", err)
	}
	defer tx.Rollback()

	p := &agg.Product
	err = tx.QueryRowContext(ctx, `
		INSERT INTO products (
			title, slug, short_description, description, highlights, applications,
			technical_overview, model_number, brand, warranty, datasheet_url, brochure_url,
			demo_video_url, price, highlight, highlight_html, summary_html, hero_title,
			hero_tagline, hero_english, hero_alt, hero_video_url, hero_catalog_href,
			hero_catalog_label, cart_href, spec_download_href, meta_title, meta_description,
			is_featured, status, published_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
		)
		RETURNING id, created_at, updated_at
	`,
		p.Title, p.Slug, p.ShortDescription, p.Description, p.Highlights, p.Applications,
		p.TechnicalOverview, p.ModelNumber, p.Brand, p.Warranty, p.DatasheetURL, p.BrochureURL,
		p.DemoVideoURL, p.Price, p.Highlight, p.HighlightHTML, p.SummaryHTML, p.HeroTitle,
		p.HeroTagline, p.HeroEnglish, p.HeroAlt, p.HeroVideoURL, p.HeroCatalogHref,
		p.HeroCatalogLabel, p.CartHref, p.SpecDownloadHref, p.MetaTitle, p.MetaDescription,
		p.IsFeatured, string(p.Status), p.PublishedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	for _, c := range agg.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, p.ID, c.ID); err != nil {
			return fmt.Errorf("link product category: %w", err)
		}
	}

	for i := range agg.Media {
		if err := insertMedia(ctx, tx, p.ID, &agg.Media[i]); err != nil {
			return err
		}
	}

	for i := range agg.GalleryImages {
		g := &agg.GalleryImages[i]
		g.ProductID = p.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO product_gallery_images (product_id, image, alt_text, sort_order)
			VALUES ($1, $2, $3, $4) RETURNING id, created_at
		`, p.ID, g.Image, g.AltText, g.SortOrder).Scan(&g.ID, &g.CreatedAt); err != nil {
			return fmt.Errorf("insert gallery image: %w", err)
		}
	}

	for i := range agg.Features {
		f := &agg.Features[i]
		f.ProductID = p.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO product_features (product_id, title, body, sort_order)
			VALUES ($1, $2, $3, $4) RETURNING id
		`, p.ID, f.Title, f.Body, f.SortOrder).Scan(&f.ID); err != nil {
			return fmt.Errorf("insert feature: %w", err)
		}
	}

	for i := range agg.Specifications {
		sp := &agg.Specifications[i]
		sp.ProductID = p.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO product_specifications (product_id, name, value, unit, sort_order)
			VALUES ($1, $2, $3, $4, $5) RETURNING id
		`, p.ID, sp.Name, sp.Value, sp.Unit, sp.SortOrder).Scan(&sp.ID); err != nil {
			return fmt.Errorf("insert specification: %w", err)
		}
	}

	for i := range agg.NavItems {
		n := &agg.NavItems[i]
		n.ProductID = p.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO product_nav_items (product_id, anchor_id, label, href, sort_order)
			VALUES ($1, $2, $3, $4, $5) RETURNING id
		`, p.ID, n.AnchorID, n.Label, n.Href, n.SortOrder).Scan(&n.ID); err != nil {
			return fmt.Errorf("insert nav item: %w", err)
		}
	}

	for i := range agg.ContentBlocks {
		if err := insertContentBlock(ctx, tx, p.ID, &agg.ContentBlocks[i]); err != nil {
			return err
		}
	}

	for i := range agg.SpecModels {
		g := &agg.SpecModels[i]
		g.ProductID = p.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO product_spec_models (product_id, title, sort_order)
			VALUES ($1, $2, $3) RETURNING id
		`, p.ID, g.Title, g.SortOrder).Scan(&g.ID); err != nil {
			return fmt.Errorf("insert spec model: %w", err)
		}
		for j := range g.Items {
			it := &g.Items[j]
			it.SpecModelID = g.ID
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO product_spec_items (spec_model_id, name, value, unit, sort_order)
				VALUES ($1, $2, $3, $4, $5) RETURNING id
			`, g.ID, it.Name, it.Value, it.Unit, it.SortOrder).Scan(&it.ID); err != nil {
				return fmt.Errorf("insert spec item: %w", err)
			}
		}
	}

	for i := range agg.FAQItems {
		f := &agg.FAQItems[i]
		f.ProductID = p.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO product_faq_items (product_id, question, answer_html, sort_order)
			VALUES ($1, $2, $3, $4) RETURNING id
		`, p.ID, f.Question, f.AnswerHTML, f.SortOrder).Scan(&f.ID); err != nil {
			return fmt.Errorf("insert faq item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create product: %w", err)
	}
	return nil
}

func insertMedia(ctx context.Context, tx *sql.Tx, productID int64, m *models.ProductMedia) error {
	m.ProductID = productID
	err := tx.QueryRowContext(ctx, `
		INSERT INTO product_media (product_id, media_type, role, title, image, file, url,
			alt_text, is_primary, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, productID, string(m.MediaType), string(m.Role), m.Title, m.Image, m.File, m.URL,
		m.AltText, m.IsPrimary, m.SortOrder).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product media: %w", err)
	}
	return nil
}

func insertContentBlock(ctx context.Context, tx *sql.Tx, productID int64, b *models.ProductContentBlock) error {
	b.ProductID = productID
	if b.Media != nil {
		if err := insertMedia(ctx, tx, productID, b.Media); err != nil {
			return err
		}
		b.MediaID = &b.Media.ID
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO product_content_blocks (product_id, section, block_type, title, body, media_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id
	`, productID, string(b.Section), string(b.BlockType), b.Title, b.Body, b.MediaID, b.SortOrder).Scan(&b.ID); err != nil {
		return fmt.Errorf("insert content block: %w", err)
	}

	for i := range b.Items {
		it := &b.Items[i]
		it.BlockID = b.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO product_content_block_items (block_id, label, value, sort_order)
			VALUES ($1, $2, $3, $4) RETURNING id
		`, b.ID, it.Label, it.Value, it.SortOrder).Scan(&it.ID); err != nil {
			return fmt.Errorf("insert content block item: %w", err)
		}
	}
	return nil
}
