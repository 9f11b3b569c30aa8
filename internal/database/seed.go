// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and, when the catalog is empty, a small sample catalog and
// one blog post. Each part is skipped when its table already has rows.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	if err := seedCatalog(db); err != nil {
		return err
	}
	return seedBlog(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// 2FA is optional and starts disabled.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@catalogcms.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@catalogcms.local",
		"password", "admin",
	)
	return nil
}

func seedCatalog(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("seed check products: %w", err)
	}
	if count > 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var rootID, catID, productID, mediaID, blockID, modelID int64

	steps := []struct {
		name string
		dest *int64
		sql  string
		args func() []any
	}{
		{"root category", &rootID,
			`INSERT INTO root_categories (name, slug) VALUES ('Industrial', 'industrial')
			 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name RETURNING id`,
			func() []any { return nil }},
		{"category", &catID,
			`INSERT INTO categories (name, slug, short_description, root_category_id)
			 VALUES ('Pumps', 'pumps', 'Centrifugal and submersible pumps', $1)
			 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name RETURNING id`,
			func() []any { return []any{rootID} }},
		{"product", &productID,
			`INSERT INTO products (title, slug, short_description, description, highlight,
			     hero_tagline, price, status, published_at, is_featured)
			 VALUES ('Sample Pump PX-200', 'sample-pump-px-200', 'A sample product',
			     'Seeded product used for local development.', 'Quiet and efficient',
			     'Built for continuous duty', 1250.00, 'published', NOW(), TRUE)
			 RETURNING id`,
			func() []any { return nil }},
		{"media", &mediaID,
			`INSERT INTO product_media (product_id, media_type, role, url, alt_text, is_primary, sort_order)
			 VALUES ($1, 'image', 'hero', 'https://placehold.co/1200x600.png', 'PX-200 pump', TRUE, 0)
			 RETURNING id`,
			func() []any { return []any{productID} }},
		{"content block", &blockID,
			`INSERT INTO product_content_blocks (product_id, section, block_type, body, sort_order)
			 VALUES ($1, 'moarefi', 'paragraph', 'The PX-200 moves water where it is needed.', 0)
			 RETURNING id`,
			func() []any { return []any{productID} }},
		{"spec model", &modelID,
			`INSERT INTO product_spec_models (product_id, title, sort_order)
			 VALUES ($1, 'PX-200', 0) RETURNING id`,
			func() []any { return []any{productID} }},
	}
	for _, s := range steps {
		if err := tx.QueryRowContext(ctx, s.sql, s.args()...).Scan(s.dest); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
	}

	execs := []struct {
		name string
		sql  string
		args []any
	}{
		{"product category", `INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)`,
			[]any{productID, catID}},
		{"spec items", `INSERT INTO product_spec_items (spec_model_id, name, value, unit, sort_order)
			VALUES ($1, 'Power', '2.2', 'kW', 0), ($1, 'Flow', '120', 'L/min', 1)`,
			[]any{modelID}},
		{"faq", `INSERT INTO product_faq_items (product_id, question, answer_html, sort_order)
			VALUES ($1, 'Is installation included?', '<p>Yes, within the city.</p>', 0)`,
			[]any{productID}},
		{"nav items", `INSERT INTO product_nav_items (product_id, anchor_id, label, sort_order)
			VALUES ($1, 'intro', 'Introduction', 0), ($1, 'specs', 'Specifications', 1)`,
			[]any{productID}},
	}
	for _, e := range execs {
		if _, err := tx.ExecContext(ctx, e.sql, e.args...); err != nil {
			return fmt.Errorf("seed %s: %w", e.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	slog.Info("database seeded with sample catalog", "product", "sample-pump-px-200")
	return nil
}

func seedBlog(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM blogs").Scan(&count); err != nil {
		return fmt.Errorf("seed check blogs: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO blogs (title, slug, excerpt, body, author_id, is_published, published_at)
		VALUES ($1, $2, $3, $4, (SELECT id FROM users ORDER BY created_at LIMIT 1), TRUE, NOW())
	`, "Welcome", "welcome", "First post.", "# Welcome\n\nThis post was created by the seed command.")
	if err != nil {
		return fmt.Errorf("seed insert blog: %w", err)
	}
	return nil
}
