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

// CategoryStore manages product categories and root categories.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `c.id, c.name, c.slug, c.image, c.short_description, c.description,
	c.root_category_id, c.created_at, c.updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Image, &c.ShortDescription, &c.Description,
		&c.RootCategoryID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		ORDER BY c.name, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		WHERE c.slug = $1
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// ListRoots returns every root category with its categories nested, both
// ordered by name. Categories without a root are not included.
func (s *CategoryStore) ListRoots(ctx context.Context) ([]models.RootCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, image, created_at, updated_at
		FROM root_categories
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list root categories: %w", err)
	}
	defer rows.Close()

	roots := []models.RootCategory{}
	index := map[int64]int{}
	for rows.Next() {
		var r models.RootCategory
		if err := rows.Scan(&r.ID, &r.Name, &r.Slug, &r.Image, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan root category: %w", err)
		}
		r.Categories = []models.Category{}
		index[r.ID] = len(roots)
		roots = append(roots, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return roots, nil
	}

	cats, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		WHERE c.root_category_id IS NOT NULL
		ORDER BY c.name, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list root children: %w", err)
	}
	defer cats.Close()

	for cats.Next() {
		c, err := scanCategory(cats)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if i, ok := index[*c.RootCategoryID]; ok {
			roots[i].Categories = append(roots[i].Categories, *c)
		}
	}
	return roots, cats.Err()
}

// MissingIDs returns the subset of ids that have no category row, in input
// order.
func (s *CategoryStore) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("check category ids: %w", err)
	}
	defer rows.Close()

	found := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CreateRoot inserts a root category.
func (s *CategoryStore) CreateRoot(ctx context.Context, r *models.RootCategory) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO root_categories (name, slug, image)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.Name, r.Slug, r.Image).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("create root category: %w", err)
	}
	return nil
}

// Create inserts a category.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, image, short_description, description, root_category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Slug, c.Image, c.ShortDescription, c.Description, c.RootCategoryID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Delete removes a category. Product links are removed by cascade.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// DeleteRoot removes a root category. Its categories keep existing with a
// null root.
func (s *CategoryStore) DeleteRoot(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM root_categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete root category: %w", err)
	}
	return nil
}
