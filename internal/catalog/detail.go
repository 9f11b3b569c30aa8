// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"strings"

	"catalogcms/internal/models"
)

// NavItem is one in-page navigation entry.
type NavItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ProductDetail is the product page contract consumed by the front end.
// Field names and nullability are fixed; optional values are null rather
// than omitted.
type ProductDetail struct {
	Slug              string         `json:"slug"`
	Title             string         `json:"title"`
	Image             *string        `json:"image"`
	Price             *string        `json:"price"`
	Description       *string        `json:"description"`
	Highlight         *string        `json:"highlight"`
	HighlightHTML     *string        `json:"highlightHtml"`
	SummaryHTML       *string        `json:"summaryHtml"`
	Category          *string        `json:"category"`
	CategoryHref      *string        `json:"categoryHref"`
	CartHref          *string        `json:"cartHref"`
	HeroImage         *string        `json:"heroImage"`
	HeroAlt           *string        `json:"heroAlt"`
	HeroEnglish       string         `json:"heroEnglish"`
	HeroTitle         string         `json:"heroTitle"`
	HeroTagline       *string        `json:"heroTagline"`
	HeroVideo         *string        `json:"heroVideo"`
	HeroCatalogHref   *string        `json:"heroCatalogHref"`
	HeroCatalogLabel  *string        `json:"heroCatalogLabel"`
	NavItems          []NavItem      `json:"navItems"`
	MoarefiBlocks     []ContentBlock `json:"moarefiBlocks"`
	MoshakhasatBlocks []ContentBlock `json:"moshakhasatBlocks"`
	VideoBlocks       []ContentBlock `json:"videoBlocks"`
	SpecModels        []SpecModel    `json:"specModels"`
	SpecDownloadHref  *string        `json:"specDownloadHref"`
	VideoGallery      []string       `json:"videoGallery"`
	FAQItems          []FAQ          `json:"faqItems"`
	Href              string         `json:"href"`
}

// ProductHref is the canonical detail path of a product.
func ProductHref(slug string) string {
	return "/products/" + slug
}

// CategoryHref is the canonical path of a category page.
func CategoryHref(slug string) string {
	return "/categories/" + slug
}

// AssembleDetail composes the detail contract from a record.
func AssembleDetail(rec *Record, urls URLBuilder) ProductDetail {
	p := &rec.Product
	hero := ResolveHero(rec.Media)
	primary := ResolvePrimary(rec.Media)
	sections := NormalizeBlocks(rec.Blocks, urls)

	d := ProductDetail{
		Slug:              p.Slug,
		Title:             p.Title,
		Image:             urls.MediaURL(primary),
		Price:             price(p),
		Description:       nullable(p.Description),
		Highlight:         Highlight(p),
		HighlightHTML:     HighlightHTML(p),
		SummaryHTML:       SummaryHTML(p),
		CartHref:          nullable(p.CartHref),
		HeroImage:         urls.MediaURL(hero),
		HeroAlt:           HeroAlt(p, hero),
		HeroEnglish:       HeroEnglish(p),
		HeroTitle:         HeroTitle(p),
		HeroTagline:       nullable(p.HeroTagline),
		HeroVideo:         urls.Build(HeroVideoPath(p)),
		HeroCatalogHref:   urls.Build(HeroCatalogPath(p)),
		HeroCatalogLabel:  HeroCatalogLabel(p),
		NavItems:          navItems(rec.NavItems),
		MoarefiBlocks:     sections.Intro,
		MoshakhasatBlocks: sections.Specification,
		VideoBlocks:       sections.Video,
		SpecModels:        rec.Specs,
		SpecDownloadHref:  urls.Build(SpecDownloadPath(p)),
		VideoGallery:      urls.GalleryVideos(rec.Media),
		FAQItems:          FAQs(rec.FAQs),
		Href:              ProductHref(p.Slug),
	}
	if d.SpecModels == nil {
		d.SpecModels = []SpecModel{}
	}

	if len(rec.Categories) > 0 {
		c := rec.Categories[0]
		d.Category = nullable(c.Name)
		d.CategoryHref = nullable(CategoryHref(c.Slug))
	}

	return d
}

func price(p *models.Product) *string {
	if !p.Price.Valid {
		return nil
	}
	s := p.Price.Decimal.StringFixed(2)
	return &s
}

// navItems uses the anchor id, else the href without its leading '#'.
func navItems(items []models.ProductNavItem) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, it := range items {
		id := it.AnchorID
		if id == "" && it.Href != "" {
			id = strings.TrimLeft(it.Href, "#")
		}
		out = append(out, NavItem{ID: id, Label: it.Label})
	}
	return out
}
