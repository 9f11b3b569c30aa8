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

// BlogStore handles blog posts and their categories.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogColumns = `b.id, b.title, b.slug, b.excerpt, b.body, b.author_id, b.is_published,
	b.published_at, b.created_at, b.updated_at`

func scanBlog(row scanner) (*models.Blog, error) {
	var b models.Blog
	err := row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Body, &b.AuthorID, &b.IsPublished,
		&b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListPublished returns a page of published posts, newest first, optionally
// limited to one category slug, plus the total number of matches.
func (s *BlogStore) ListPublished(ctx context.Context, categorySlug string, limit, offset int) ([]models.Blog, int, error) {
	var args argList
	where := "b.is_published"
	if categorySlug != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM blog_post_categories bpc JOIN blog_categories c ON c.id = bpc.category_id
			WHERE bpc.blog_id = b.id AND c.slug = ` + args.add(categorySlug) + `)`
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blogs b WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}
	if total == 0 {
		return []models.Blog{}, 0, nil
	}

	query := "SELECT " + blogColumns + " FROM blogs b WHERE " + where +
		" ORDER BY b.published_at DESC, b.created_at DESC, b.id DESC"
	if limit > 0 {
		query += " LIMIT " + args.add(limit)
	}
	if offset > 0 {
		query += " OFFSET " + args.add(offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	posts := []models.Blog{}
	var ids []int64
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		posts = append(posts, *b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return posts, total, nil
	}

	cats, err := s.categoriesFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range posts {
		posts[i].Categories = cats[posts[i].ID]
	}
	return posts, total, nil
}

// FindPublishedBySlug retrieves a published post. Returns nil if not found.
func (s *BlogStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	b, err := scanBlog(s.db.QueryRowContext(ctx, `
		SELECT `+blogColumns+` FROM blogs b WHERE b.slug = $1 AND b.is_published
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by slug: %w", err)
	}
	cats, err := s.categoriesFor(ctx, []int64{b.ID})
	if err != nil {
		return nil, err
	}
	b.Categories = cats[b.ID]
	return b, nil
}

// Create inserts a post and links it to categoryIDs.
func (s *BlogStore) Create(ctx context.Context, b *models.Blog, categoryIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create blog: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO blogs (title, slug, excerpt, body, author_id, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, b.Title, b.Slug, b.Excerpt, b.Body, b.AuthorID, b.IsPublished, b.PublishedAt).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}

	for _, id := range categoryIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blog_post_categories (blog_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, b.ID, id); err != nil {
			return fmt.Errorf("link blog category: %w", err)
		}
	}
	return tx.Commit()
}

func (s *BlogStore) categoriesFor(ctx context.Context, ids []int64) (map[int64][]models.BlogCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bpc.blog_id, c.id, c.name, c.slug, c.root_category_id, c.created_at
		FROM blog_post_categories bpc
		JOIN blog_categories c ON c.id = bpc.category_id
		WHERE bpc.blog_id = ANY($1)
		ORDER BY c.name, c.id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("load blog categories: %w", err)
	}
	defer rows.Close()

	out := map[int64][]models.BlogCategory{}
	for rows.Next() {
		var blogID int64
		var c models.BlogCategory
		if err := rows.Scan(&blogID, &c.ID, &c.Name, &c.Slug, &c.RootCategoryID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blog category: %w", err)
		}
		out[blogID] = append(out[blogID], c)
	}
	return out, rows.Err()
}
