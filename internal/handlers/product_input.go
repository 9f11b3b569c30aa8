// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"catalogcms/internal/models"
)

// Price limits: at most 12 digits, 2 of them decimals.
const (
	priceMaxDigits   = 12
	priceMaxDecimals = 2
)

// productInput is the create payload. File-reference fields hold a
// storage key, an absolute URL or, in multipart requests, "@<part>".
type productInput struct {
	Title             string              `json:"title" validate:"required,max=220"`
	Slug              string              `json:"slug" validate:"omitempty,max=240,slug"`
	ShortDescription  string              `json:"short_description"`
	Description       string              `json:"description"`
	Highlights        string              `json:"highlights"`
	Applications      string              `json:"applications"`
	TechnicalOverview string              `json:"technical_overview"`
	ModelNumber       string              `json:"model_number" validate:"max=120"`
	Brand             string              `json:"brand" validate:"max=120"`
	Warranty          string              `json:"warranty" validate:"max=120"`
	DatasheetURL      string              `json:"datasheet_url"`
	BrochureURL       string              `json:"brochure_url"`
	DemoVideoURL      string              `json:"demo_video_url"`
	Price             *decimal.Decimal    `json:"price"`
	Highlight         string              `json:"highlight" validate:"max=240"`
	HighlightHTML     string              `json:"highlight_html"`
	SummaryHTML       string              `json:"summary_html"`
	HeroTitle         string              `json:"hero_title" validate:"max=220"`
	HeroTagline       string              `json:"hero_tagline" validate:"max=240"`
	HeroEnglish       string              `json:"hero_english" validate:"max=240"`
	HeroAlt           string              `json:"hero_alt" validate:"max=200"`
	HeroVideoURL      string              `json:"hero_video_url"`
	HeroCatalogHref   string              `json:"hero_catalog_href"`
	HeroCatalogLabel  string              `json:"hero_catalog_label" validate:"max=200"`
	CartHref          string              `json:"cart_href" validate:"omitempty,url"`
	SpecDownloadHref  string              `json:"spec_download_href"`
	MetaTitle         string              `json:"meta_title" validate:"max=200"`
	MetaDescription   string              `json:"meta_description"`
	IsFeatured        bool                `json:"is_featured"`
	Status            string              `json:"status" validate:"omitempty,oneof=draft published archived"`
	PublishedAt       *time.Time          `json:"published_at"`
	Categories        []int64             `json:"categories"`
	Media             []mediaInput        `json:"media" validate:"dive"`
	Features          []featureInput      `json:"features" validate:"dive"`
	Specifications    []specInput         `json:"specifications" validate:"dive"`
	NavItems          []navItemInput      `json:"nav_items" validate:"dive"`
	ContentBlocks     []contentBlockInput `json:"content_blocks" validate:"dive"`
	SpecModels        []specModelInput    `json:"spec_models" validate:"dive"`
	FAQItems          []faqItemInput      `json:"faq_items" validate:"dive"`
}

type mediaInput struct {
	MediaType string `json:"media_type" validate:"required,oneof=image video document"`
	Role      string `json:"role" validate:"omitempty,oneof=hero gallery document"`
	Title     string `json:"title" validate:"max=200"`
	Image     string `json:"image"`
	File      string `json:"file"`
	URL       string `json:"url" validate:"omitempty,url"`
	AltText   string `json:"alt_text" validate:"max=200"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

// validateMediaInput requires a source for the declared media type.
func validateMediaInput(sl validator.StructLevel) {
	m := sl.Current().Interface().(mediaInput)
	if m.URL != "" {
		return
	}
	switch m.MediaType {
	case string(models.MediaImage):
		if m.Image == "" {
			sl.ReportError(m.Image, "image", "Image", "required_for_type", m.MediaType)
		}
	case string(models.MediaVideo), string(models.MediaDocument):
		if m.File == "" {
			sl.ReportError(m.File, "file", "File", "required_for_type", m.MediaType)
		}
	}
}

type featureInput struct {
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

type specInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Value     string `json:"value" validate:"required,max=300"`
	Unit      string `json:"unit" validate:"max=50"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

type navItemInput struct {
	AnchorID  string `json:"anchor_id" validate:"max=120"`
	Label     string `json:"label" validate:"required,max=120"`
	Href      string `json:"href" validate:"max=300"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

type blockItemInput struct {
	Label     string `json:"label" validate:"max=200"`
	Value     string `json:"value" validate:"max=300"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

type contentBlockInput struct {
	Section   string           `json:"section" validate:"required,oneof=moarefi moshakhasat video"`
	BlockType string           `json:"block_type" validate:"required,oneof=heading paragraph list image video"`
	Title     string           `json:"title" validate:"max=200"`
	Body      string           `json:"body"`
	Media     *mediaInput      `json:"media" validate:"omitempty"`
	Items     []blockItemInput `json:"items" validate:"dive"`
	SortOrder int              `json:"sort_order" validate:"min=0"`
}

type specItemInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Value     string `json:"value" validate:"required,max=300"`
	Unit      string `json:"unit" validate:"max=50"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

type specModelInput struct {
	Title     string          `json:"title" validate:"required,max=200"`
	SpecItems []specItemInput `json:"spec_items" validate:"dive"`
	SortOrder int             `json:"sort_order" validate:"min=0"`
}

type faqItemInput struct {
	Question   string `json:"question" validate:"required,max=240"`
	AnswerHTML string `json:"answer_html" validate:"required"`
	SortOrder  int    `json:"sort_order" validate:"min=0"`
}

// validatePrice checks sign and precision; decimal has no struct tags.
func validatePrice(p *decimal.Decimal, errs FieldErrors) {
	if p == nil {
		return
	}
	if p.IsNegative() {
		errs.Add("price", "Ensure this value is greater than or equal to 0.")
	}
	if -p.Exponent() > priceMaxDecimals && !p.Equal(p.Round(priceMaxDecimals)) {
		errs.Add("price", fmt.Sprintf("Ensure that there are no more than %d decimal places.", priceMaxDecimals))
	}
	if digits := len(p.Abs().Truncate(0).String()); digits > priceMaxDigits-priceMaxDecimals {
		errs.Add("price", fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", priceMaxDigits-priceMaxDecimals))
	}
}

// fileRef is one file-reference field of the payload, addressed by path.
type fileRef struct {
	path  string
	dir   string
	value *string
}

// fileRefs lists every file-reference field so multipart parts can be
// resolved in place.
func (in *productInput) fileRefs() []fileRef {
	refs := []fileRef{
		{"datasheet_url", "products/files", &in.DatasheetURL},
		{"brochure_url", "products/files", &in.BrochureURL},
		{"demo_video_url", "products/videos", &in.DemoVideoURL},
		{"hero_video_url", "products/videos", &in.HeroVideoURL},
		{"hero_catalog_href", "products/files", &in.HeroCatalogHref},
		{"spec_download_href", "products/files", &in.SpecDownloadHref},
	}
	mediaRefs := func(prefix string, m *mediaInput) {
		refs = append(refs,
			fileRef{prefix + ".image", "products/media", &m.Image},
			fileRef{prefix + ".file", "products/media", &m.File},
		)
	}
	for i := range in.Media {
		mediaRefs("media["+strconv.Itoa(i)+"]", &in.Media[i])
	}
	for i := range in.ContentBlocks {
		if m := in.ContentBlocks[i].Media; m != nil {
			mediaRefs("content_blocks["+strconv.Itoa(i)+"].media", m)
		}
	}
	return refs
}

// partName returns the referenced multipart part for "@name" values.
func partName(v string) (string, bool) {
	if strings.HasPrefix(v, "@") && len(v) > 1 {
		return v[1:], true
	}
	return "", false
}

// aggregate converts the validated input into the store representation.
// Slug, status and published_at must already be settled.
func (in *productInput) aggregate() *models.ProductAggregate {
	p := models.Product{
		Title:             strings.TrimSpace(in.Title),
		Slug:              in.Slug,
		ShortDescription:  in.ShortDescription,
		Description:       in.Description,
		Highlights:        in.Highlights,
		Applications:      in.Applications,
		TechnicalOverview: in.TechnicalOverview,
		ModelNumber:       in.ModelNumber,
		Brand:             in.Brand,
		Warranty:          in.Warranty,
		DatasheetURL:      in.DatasheetURL,
		BrochureURL:       in.BrochureURL,
		DemoVideoURL:      in.DemoVideoURL,
		Highlight:         in.Highlight,
		HighlightHTML:     in.HighlightHTML,
		SummaryHTML:       in.SummaryHTML,
		HeroTitle:         in.HeroTitle,
		HeroTagline:       in.HeroTagline,
		HeroEnglish:       in.HeroEnglish,
		HeroAlt:           in.HeroAlt,
		HeroVideoURL:      in.HeroVideoURL,
		HeroCatalogHref:   in.HeroCatalogHref,
		HeroCatalogLabel:  in.HeroCatalogLabel,
		CartHref:          in.CartHref,
		SpecDownloadHref:  in.SpecDownloadHref,
		MetaTitle:         in.MetaTitle,
		MetaDescription:   in.MetaDescription,
		IsFeatured:        in.IsFeatured,
		Status:            models.ProductStatus(in.Status),
		PublishedAt:       in.PublishedAt,
	}
	if in.Price != nil {
		p.Price = decimal.NewNullDecimal(in.Price.Round(priceMaxDecimals))
	}

	agg := &models.ProductAggregate{Product: p}
	for _, id := range in.Categories {
		agg.Categories = append(agg.Categories, models.Category{ID: id})
	}
	for i := range in.Media {
		agg.Media = append(agg.Media, in.Media[i].model())
	}
	for _, f := range in.Features {
		agg.Features = append(agg.Features, models.ProductFeature{Title: f.Title, Body: f.Body, SortOrder: f.SortOrder})
	}
	for _, s := range in.Specifications {
		agg.Specifications = append(agg.Specifications, models.ProductSpecification{
			Name: s.Name, Value: s.Value, Unit: s.Unit, SortOrder: s.SortOrder,
		})
	}
	for _, n := range in.NavItems {
		agg.NavItems = append(agg.NavItems, models.ProductNavItem{
			AnchorID: n.AnchorID, Label: n.Label, Href: n.Href, SortOrder: n.SortOrder,
		})
	}
	for _, b := range in.ContentBlocks {
		blk := models.ProductContentBlock{
			Section:   models.BlockSection(b.Section),
			BlockType: models.BlockType(b.BlockType),
			Title:     b.Title,
			Body:      b.Body,
			SortOrder: b.SortOrder,
		}
		if b.Media != nil {
			m := b.Media.model()
			blk.Media = &m
		}
		for _, it := range b.Items {
			blk.Items = append(blk.Items, models.ProductContentBlockItem{
				Label: it.Label, Value: it.Value, SortOrder: it.SortOrder,
			})
		}
		agg.ContentBlocks = append(agg.ContentBlocks, blk)
	}
	for _, sm := range in.SpecModels {
		model := models.ProductSpecModel{Title: sm.Title, SortOrder: sm.SortOrder}
		for _, it := range sm.SpecItems {
			model.Items = append(model.Items, models.ProductSpecItem{
				Name: it.Name, Value: it.Value, Unit: it.Unit, SortOrder: it.SortOrder,
			})
		}
		agg.SpecModels = append(agg.SpecModels, model)
	}
	for _, f := range in.FAQItems {
		agg.FAQItems = append(agg.FAQItems, models.ProductFaqItem{
			Question: f.Question, AnswerHTML: f.AnswerHTML, SortOrder: f.SortOrder,
		})
	}
	return agg
}

func (m *mediaInput) model() models.ProductMedia {
	return models.ProductMedia{
		MediaType: models.MediaType(m.MediaType),
		Role:      models.MediaRole(m.Role),
		Title:     m.Title,
		Image:     m.Image,
		File:      m.File,
		URL:       m.URL,
		AltText:   m.AltText,
		IsPrimary: m.IsPrimary,
		SortOrder: m.SortOrder,
	}
}
