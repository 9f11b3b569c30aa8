// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "catalogcms/internal/models"

// DefaultCatalogLabel is shown next to a catalog link that has no label of
// its own.
const DefaultCatalogLabel = "Catalog"

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// nullable maps the empty string to nil.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Highlight prefers highlight over the legacy highlights text.
func Highlight(p *models.Product) *string {
	return nullable(firstNonEmpty(p.Highlight, p.Highlights))
}

// HighlightHTML prefers highlight_html over the legacy highlights text.
func HighlightHTML(p *models.Product) *string {
	return nullable(firstNonEmpty(p.HighlightHTML, p.Highlights))
}

// SummaryHTML prefers summary_html over the short description.
func SummaryHTML(p *models.Product) *string {
	return nullable(firstNonEmpty(p.SummaryHTML, p.ShortDescription))
}

// HeroVideoPath is the stored hero video, falling back to the demo video.
func HeroVideoPath(p *models.Product) string {
	return firstNonEmpty(p.HeroVideoURL, p.DemoVideoURL)
}

// HeroCatalogPath is the stored hero catalog, falling back to the brochure.
func HeroCatalogPath(p *models.Product) string {
	return firstNonEmpty(p.HeroCatalogHref, p.BrochureURL)
}

// HeroCatalogLabel is the stored label, "Catalog" when only a link
// exists, and nil when there is no link either.
func HeroCatalogLabel(p *models.Product) *string {
	if p.HeroCatalogLabel != "" {
		return nullable(p.HeroCatalogLabel)
	}
	if HeroCatalogPath(p) != "" {
		return nullable(DefaultCatalogLabel)
	}
	return nil
}

// SpecDownloadPath is the spec download file, falling back to the
// datasheet.
func SpecDownloadPath(p *models.Product) string {
	return firstNonEmpty(p.SpecDownloadHref, p.DatasheetURL)
}

// HeroAlt prefers the product's hero_alt over the hero media's alt text.
func HeroAlt(p *models.Product, hero *models.ProductMedia) *string {
	if p.HeroAlt != "" {
		return nullable(p.HeroAlt)
	}
	if hero != nil {
		return nullable(hero.AltText)
	}
	return nil
}

// HeroTitle falls back to the product title.
func HeroTitle(p *models.Product) string {
	return firstNonEmpty(p.HeroTitle, p.Title)
}

// HeroEnglish falls back to the product title.
func HeroEnglish(p *models.Product) string {
	return firstNonEmpty(p.HeroEnglish, p.Title)
}
