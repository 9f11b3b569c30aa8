// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// RootCategory is the top level of the product taxonomy.
type RootCategory struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated by CategoryStore.ListRoots.
	Categories []Category `json:"categories,omitempty"`
}

// Category groups products. It optionally hangs off one RootCategory; the
// back-reference is nulled when the root is deleted.
type Category struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Image            string    `json:"image"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	RootCategoryID   *int64    `json:"root_category_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Virtual field populated by store methods when the root is joined.
	RootCategory *RootCategory `json:"root_category,omitempty"`
}
