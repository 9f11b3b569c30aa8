// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"time"

	"catalogcms/internal/models"
)

// ImageRef is a list thumbnail.
type ImageRef struct {
	URL     *string `json:"url"`
	AltText string  `json:"alt_text"`
}

// RootRef identifies a root category.
type RootRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryRef is a category with its optional root.
type CategoryRef struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	RootCategory *RootRef `json:"root_category"`
}

// ProductListItem is the product shape used in paginated lists.
type ProductListItem struct {
	ID               int64         `json:"id"`
	Title            string        `json:"title"`
	Slug             string        `json:"slug"`
	ShortDescription string        `json:"short_description"`
	PrimaryImage     *ImageRef     `json:"primary_image"`
	Categories       []CategoryRef `json:"categories"`
	IsFeatured       bool          `json:"is_featured"`
	PublishedAt      *time.Time    `json:"published_at"`
}

// AssembleListItem shapes a product summary for list responses.
func AssembleListItem(s *models.ProductSummary, urls URLBuilder) ProductListItem {
	p := &s.Product
	item := ProductListItem{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		ShortDescription: p.ShortDescription,
		Categories:       CategoryRefs(s.Categories),
		IsFeatured:       p.IsFeatured,
		PublishedAt:      p.PublishedAt,
	}
	if m := ResolvePrimary(sortedMedia(s.Media)); m != nil {
		item.PrimaryImage = &ImageRef{URL: urls.MediaURL(m), AltText: m.AltText}
	}
	return item
}

// CategoryRefs shapes categories with their roots.
func CategoryRefs(cats []models.Category) []CategoryRef {
	out := make([]CategoryRef, 0, len(cats))
	for _, c := range cats {
		ref := CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
		if c.RootCategory != nil {
			ref.RootCategory = &RootRef{ID: c.RootCategory.ID, Name: c.RootCategory.Name, Slug: c.RootCategory.Slug}
		}
		out = append(out, ref)
	}
	return out
}

// CategoryCard is the category list shape.
type CategoryCard struct {
	Title string  `json:"title"`
	Image *string `json:"image"`
}

// CategoryDetail is the category page shape.
type CategoryDetail struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Slug             string  `json:"slug"`
	Image            *string `json:"image"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
}

// RootCategoryItem is a root category with its categories.
type RootCategoryItem struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Slug       string        `json:"slug"`
	Categories []CategoryRef `json:"categories"`
}

// AssembleCategoryCard shapes a category for the list endpoint.
func AssembleCategoryCard(c *models.Category, urls URLBuilder) CategoryCard {
	return CategoryCard{Title: c.Name, Image: urls.Build(c.Image)}
}

// AssembleCategoryDetail shapes a category for its detail endpoint.
func AssembleCategoryDetail(c *models.Category, urls URLBuilder) CategoryDetail {
	return CategoryDetail{
		ID:               c.ID,
		Title:            c.Name,
		Slug:             c.Slug,
		Image:            urls.Build(c.Image),
		ShortDescription: c.ShortDescription,
		Description:      c.Description,
	}
}

// AssembleRootCategory shapes a root with its categories. Each nested
// category references the root it is listed under.
func AssembleRootCategory(r *models.RootCategory) RootCategoryItem {
	root := &RootRef{ID: r.ID, Name: r.Name, Slug: r.Slug}
	cats := make([]CategoryRef, 0, len(r.Categories))
	for _, c := range r.Categories {
		cats = append(cats, CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug, RootCategory: root})
	}
	return RootCategoryItem{ID: r.ID, Name: r.Name, Slug: r.Slug, Categories: cats}
}
