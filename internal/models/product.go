// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the lifecycle state of a product. Transitions are made
// by operators only.
type ProductStatus string

const (
	ProductDraft     ProductStatus = "draft"
	ProductPublished ProductStatus = "published"
	ProductArchived  ProductStatus = "archived"
)

// Valid reports whether s is one of the known states.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductDraft, ProductPublished, ProductArchived:
		return true
	}
	return false
}

// Product is a catalog entry. Several descriptive fields exist twice: a
// current structured field and an older flat one kept for existing rows
// (highlight/highlights, hero_catalog_href/brochure_url and so on).
// File-reference fields hold a storage key or an absolute URL and are
// empty when unset.
type Product struct {
	ID                int64               `json:"id"`
	Title             string              `json:"title"`
	Slug              string              `json:"slug"`
	ShortDescription  string              `json:"short_description"`
	Description       string              `json:"description"`
	Highlights        string              `json:"highlights"`
	Applications      string              `json:"applications"`
	TechnicalOverview string              `json:"technical_overview"`
	ModelNumber       string              `json:"model_number"`
	Brand             string              `json:"brand"`
	Warranty          string              `json:"warranty"`
	DatasheetURL      string              `json:"datasheet_url"`
	BrochureURL       string              `json:"brochure_url"`
	DemoVideoURL      string              `json:"demo_video_url"`
	Price             decimal.NullDecimal `json:"price"`
	Highlight         string              `json:"highlight"`
	HighlightHTML     string              `json:"highlight_html"`
	SummaryHTML       string              `json:"summary_html"`
	HeroTitle         string              `json:"hero_title"`
	HeroTagline       string              `json:"hero_tagline"`
	HeroEnglish       string              `json:"hero_english"`
	HeroAlt           string              `json:"hero_alt"`
	HeroVideoURL      string              `json:"hero_video_url"`
	HeroCatalogHref   string              `json:"hero_catalog_href"`
	HeroCatalogLabel  string              `json:"hero_catalog_label"`
	CartHref          string              `json:"cart_href"`
	SpecDownloadHref  string              `json:"spec_download_href"`
	MetaTitle         string              `json:"meta_title"`
	MetaDescription   string              `json:"meta_description"`
	IsFeatured        bool                `json:"is_featured"`
	Status            ProductStatus       `json:"status"`
	PublishedAt       *time.Time          `json:"published_at"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// IsPublic reports whether the product may appear on public endpoints.
func (p *Product) IsPublic() bool {
	return p.Status == ProductPublished
}

// MediaType distinguishes what a ProductMedia row stores.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// MediaRole says where a media item is displayed.
type MediaRole string

const (
	RoleNone     MediaRole = ""
	RoleHero     MediaRole = "hero"
	RoleGallery  MediaRole = "gallery"
	RoleDocument MediaRole = "document"
)

// ProductMedia is an image, video or document attached to a product. Image
// rows keep their upload in Image, video and document rows in File; URL
// holds an externally supplied address for either kind.
type ProductMedia struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	MediaType MediaType `json:"media_type"`
	Role      MediaRole `json:"role"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	File      string    `json:"file"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductGalleryImage is the older single-purpose gallery row. New data
// uses ProductMedia with role=gallery.
type ProductGalleryImage struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Image     string    `json:"image"`
	AltText   string    `json:"alt_text"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductFeature is a titled selling point.
type ProductFeature struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	SortOrder int    `json:"sort_order"`
}

// ProductSpecification is a flat name/value row.
type ProductSpecification struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	Unit      string `json:"unit"`
	SortOrder int    `json:"sort_order"`
}

// ProductNavItem is an in-page navigation entry. AnchorID wins over Href.
type ProductNavItem struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	AnchorID  string `json:"anchor_id"`
	Label     string `json:"label"`
	Href      string `json:"href"`
	SortOrder int    `json:"sort_order"`
}

// BlockSection is the page section a content block renders in.
type BlockSection string

const (
	SectionIntro         BlockSection = "moarefi"
	SectionSpecification BlockSection = "moshakhasat"
	SectionVideo         BlockSection = "video"
)

// Valid reports whether s is a known section.
func (s BlockSection) Valid() bool {
	switch s {
	case SectionIntro, SectionSpecification, SectionVideo:
		return true
	}
	return false
}

// BlockType is the stored type of a content block.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockImage     BlockType = "image"
	BlockVideo     BlockType = "video"
)

// ProductContentBlock is one typed unit of rich content in a section.
type ProductContentBlock struct {
	ID        int64        `json:"id"`
	ProductID int64        `json:"product_id"`
	Section   BlockSection `json:"section"`
	BlockType BlockType    `json:"block_type"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	MediaID   *int64       `json:"media_id"`
	SortOrder int          `json:"sort_order"`

	// Populated by ProductStore when the aggregate is loaded.
	Media *ProductMedia             `json:"media,omitempty"`
	Items []ProductContentBlockItem `json:"items,omitempty"`
}

// ProductContentBlockItem is one row of a list block.
type ProductContentBlockItem struct {
	ID        int64  `json:"id"`
	BlockID   int64  `json:"block_id"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	SortOrder int    `json:"sort_order"`
}

// ProductSpecModel is a named group of spec rows, typically one per
// product variant.
type ProductSpecModel struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`

	Items []ProductSpecItem `json:"spec_items,omitempty"`
}

// ProductSpecItem is one row inside a spec model.
type ProductSpecItem struct {
	ID          int64  `json:"id"`
	SpecModelID int64  `json:"spec_model_id"`
	Name        string `json:"name"`
	Value       string `json:"value"`
	Unit        string `json:"unit"`
	SortOrder   int    `json:"sort_order"`
}

// ProductFaqItem is a question with an HTML answer.
type ProductFaqItem struct {
	ID         int64  `json:"id"`
	ProductID  int64  `json:"product_id"`
	Question   string `json:"question"`
	AnswerHTML string `json:"answer_html"`
	SortOrder  int    `json:"sort_order"`
}

// ProductAggregate is a product with every owned collection loaded. All
// slices are ordered by (sort_order, id); Categories by name.
type ProductAggregate struct {
	Product        Product
	Categories     []Category
	Media          []ProductMedia
	GalleryImages  []ProductGalleryImage
	Features       []ProductFeature
	Specifications []ProductSpecification
	NavItems       []ProductNavItem
	ContentBlocks  []ProductContentBlock
	SpecModels     []ProductSpecModel
	FAQItems       []ProductFaqItem
}

// ProductSummary is the list-view projection: the product row with its
// categories and media only.
type ProductSummary struct {
	Product    Product
	Categories []Category
	Media      []ProductMedia
}
