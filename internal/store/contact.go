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

// ContactStore persists contact form submissions.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a new ContactStore.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

// Create stores a message and fills in its ID and timestamp.
func (s *ContactStore) Create(ctx context.Context, m *models.ContactMessage) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.Name, m.Email, m.Phone, m.Subject, m.Message).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

// Recent returns the latest messages, newest first.
func (s *ContactStore) Recent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	out := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
