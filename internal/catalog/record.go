// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog turns stored product records into the public JSON shapes
// served by the API. Every function here is pure and total: missing
// optional data degrades to null or an empty list, never to an error.
//
// Stored data comes in more than one shape. Older rows keep gallery images
// in their own table, flat specification rows instead of named spec
// models, and free text in place of content blocks. Each older shape has
// one adapter that converts it into the single Record consumed by the
// output functions.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"catalogcms/internal/models"
)

// Record is the canonical product representation the output functions
// work on. Collections are ordered by (sort_order, id) except Categories,
// which keep the store's name order so the first entry is canonical.
type Record struct {
	Product    models.Product
	Categories []models.Category
	Media      []models.ProductMedia
	NavItems   []models.ProductNavItem
	Blocks     []models.ProductContentBlock
	Specs      []SpecModel
	FAQs       []models.ProductFaqItem
}

// FromAggregate builds a Record from a fully loaded product, applying the
// adapters for older data shapes.
func FromAggregate(agg *models.ProductAggregate) *Record {
	rec := &Record{
		Product:    agg.Product,
		Categories: agg.Categories,
		Media:      sortedMedia(agg.Media),
		NavItems:   sortedNavItems(agg.NavItems),
		FAQs:       sortedFAQs(agg.FAQItems),
	}

	rec.Media = append(rec.Media, GalleryImagesAsMedia(agg.GalleryImages)...)

	rec.Blocks = append(slices.Clone(agg.ContentBlocks), LegacySectionBlocks(&agg.Product, agg.ContentBlocks)...)

	if len(agg.SpecModels) > 0 {
		rec.Specs = SpecModels(agg.SpecModels)
	} else {
		rec.Specs = FlatSpecGroups(agg.Specifications, false)
	}

	return rec
}

// GalleryImagesAsMedia converts legacy gallery rows into image media with
// the gallery role. They are never primary.
func GalleryImagesAsMedia(images []models.ProductGalleryImage) []models.ProductMedia {
	sorted := slices.Clone(images)
	slices.SortStableFunc(sorted, func(a, b models.ProductGalleryImage) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})

	out := make([]models.ProductMedia, 0, len(sorted))
	for _, img := range sorted {
		out = append(out, models.ProductMedia{
			ID:        img.ID,
			ProductID: img.ProductID,
			MediaType: models.MediaImage,
			Role:      models.RoleGallery,
			Image:     img.Image,
			AltText:   img.AltText,
			SortOrder: img.SortOrder,
			CreatedAt: img.CreatedAt,
		})
	}
	return out
}

// LegacySectionBlocks turns the flat applications and technical_overview
// text into one paragraph block each, but only for sections that have no
// real blocks.
func LegacySectionBlocks(p *models.Product, existing []models.ProductContentBlock) []models.ProductContentBlock {
	has := make(map[models.BlockSection]bool)
	for _, b := range existing {
		has[b.Section] = true
	}

	var out []models.ProductContentBlock
	legacy := []struct {
		section models.BlockSection
		text    string
	}{
		{models.SectionIntro, p.Applications},
		{models.SectionSpecification, p.TechnicalOverview},
	}
	for _, l := range legacy {
		if has[l.section] || strings.TrimSpace(l.text) == "" {
			continue
		}
		out = append(out, models.ProductContentBlock{
			ProductID: p.ID,
			Section:   l.section,
			BlockType: models.BlockParagraph,
			Body:      l.text,
		})
	}
	return out
}

// byOrder compares two (sort_order, id) keys.
func byOrder(aOrder int, aID int64, bOrder int, bID int64) int {
	if c := cmp.Compare(aOrder, bOrder); c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}

func sortedMedia(in []models.ProductMedia) []models.ProductMedia {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b models.ProductMedia) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})
	return out
}

func sortedNavItems(in []models.ProductNavItem) []models.ProductNavItem {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b models.ProductNavItem) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})
	return out
}

func sortedFAQs(in []models.ProductFaqItem) []models.ProductFaqItem {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b models.ProductFaqItem) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})
	return out
}
