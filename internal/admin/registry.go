// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package admin describes how each model is presented to back-office
// clients. The registry is built once at startup and is read-only.
package admin

import (
	"fmt"
	"slices"
)

// Inline is a child collection edited on its parent's form.
type Inline struct {
	Model    string   `json:"model"`
	Fields   []string `json:"fields"`
	Ordering []string `json:"ordering,omitempty"`
	Tabular  bool     `json:"tabular"`
}

// ModelAdmin is the presentation metadata of one model.
type ModelAdmin struct {
	App                string              `json:"app"`
	Model              string              `json:"model"`
	ListDisplay        []string            `json:"list_display"`
	ListFilter         []string            `json:"list_filter"`
	SearchFields       []string            `json:"search_fields"`
	PrepopulatedFields map[string][]string `json:"prepopulated_fields"`
	FilterHorizontal   []string            `json:"filter_horizontal"`
	RichTextFields     []string            `json:"rich_text_fields"`
	Ordering           []string            `json:"ordering"`
	Inlines            []Inline            `json:"inlines"`
}

// Key is "app.model".
func (m *ModelAdmin) Key() string {
	return m.App + "." + m.Model
}

// Registry is an ordered set of ModelAdmin entries.
type Registry struct {
	entries []ModelAdmin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds m. Registering the same app/model twice is an error.
func (r *Registry) Register(m ModelAdmin) error {
	if m.App == "" || m.Model == "" {
		return fmt.Errorf("register admin: app and model are required")
	}
	if r.Lookup(m.App, m.Model) != nil {
		return fmt.Errorf("register admin: %s already registered", m.Key())
	}
	r.entries = append(r.entries, normalize(m))
	return nil
}

// Lookup returns the entry for app/model, or nil.
func (r *Registry) Lookup(app, model string) *ModelAdmin {
	for i := range r.entries {
		if r.entries[i].App == app && r.entries[i].Model == model {
			return &r.entries[i]
		}
	}
	return nil
}

// Models returns a copy of every entry in registration order.
func (r *Registry) Models() []ModelAdmin {
	return slices.Clone(r.entries)
}

// normalize replaces nil collections so entries encode as [] and {}.
func normalize(m ModelAdmin) ModelAdmin {
	for _, s := range []*[]string{&m.ListDisplay, &m.ListFilter, &m.SearchFields, &m.FilterHorizontal, &m.RichTextFields, &m.Ordering} {
		if *s == nil {
			*s = []string{}
		}
	}
	if m.PrepopulatedFields == nil {
		m.PrepopulatedFields = map[string][]string{}
	}
	if m.Inlines == nil {
		m.Inlines = []Inline{}
	}
	return m
}

// Default builds the registry for the catalog, blog and contact models.
func Default() *Registry {
	r := NewRegistry()
	for _, m := range defaultModels() {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
	return r
}

func defaultModels() []ModelAdmin {
	slugFromName := map[string][]string{"slug": {"name"}}
	slugFromTitle := map[string][]string{"slug": {"title"}}

	return []ModelAdmin{
		{
			App:                "product",
			Model:              "rootcategory",
			ListDisplay:        []string{"name", "slug", "created_at", "updated_at"},
			SearchFields:       []string{"name", "slug"},
			PrepopulatedFields: slugFromName,
		},
		{
			App:                "product",
			Model:              "category",
			ListDisplay:        []string{"name", "slug", "root_category", "created_at", "updated_at"},
			ListFilter:         []string{"root_category"},
			SearchFields:       []string{"name", "slug", "root_category__name"},
			PrepopulatedFields: slugFromName,
			RichTextFields:     []string{"description"},
		},
		{
			App:                "product",
			Model:              "product",
			ListDisplay:        []string{"title", "status", "is_featured", "published_at", "created_at", "updated_at"},
			ListFilter:         []string{"status", "is_featured", "categories", "created_at"},
			SearchFields:       []string{"title", "slug", "short_description", "description"},
			PrepopulatedFields: slugFromTitle,
			FilterHorizontal:   []string{"categories"},
			RichTextFields:     []string{"description", "highlight_html", "summary_html"},
			Inlines: []Inline{
				{Model: "productmedia", Fields: []string{"media_type", "role", "title", "image", "file", "url", "alt_text", "is_primary", "sort_order"}, Ordering: []string{"sort_order", "id"}, Tabular: true},
				{Model: "productgalleryimage", Fields: []string{"image", "alt_text", "sort_order"}, Ordering: []string{"sort_order", "id"}, Tabular: true},
				{Model: "productfeature", Fields: []string{"title", "body", "sort_order"}, Ordering: []string{"sort_order", "id"}},
				{Model: "productspecification", Fields: []string{"name", "value", "unit", "sort_order"}, Ordering: []string{"sort_order", "id"}, Tabular: true},
				{Model: "productnavitem", Fields: []string{"anchor_id", "label", "href", "sort_order"}, Ordering: []string{"sort_order", "id"}, Tabular: true},
				{Model: "productcontentblock", Fields: []string{"section", "block_type", "title", "body", "media", "sort_order"}, Ordering: []string{"section", "sort_order", "id"}},
				{Model: "productspecmodel", Fields: []string{"title", "sort_order"}, Ordering: []string{"sort_order", "id"}},
				{Model: "productfaqitem", Fields: []string{"question", "answer_html", "sort_order"}, Ordering: []string{"sort_order", "id"}},
			},
		},
		{
			App:          "product",
			Model:        "productgalleryimage",
			ListDisplay:  []string{"product", "alt_text", "sort_order"},
			SearchFields: []string{"alt_text", "product__title"},
			Ordering:     []string{"product", "sort_order", "id"},
		},
		{
			App:                "blog",
			Model:              "rootcategory",
			ListDisplay:        []string{"name", "slug", "created_at"},
			SearchFields:       []string{"name", "slug"},
			PrepopulatedFields: slugFromName,
			Inlines: []Inline{
				{Model: "category", Fields: []string{"name", "slug"}, Tabular: true},
			},
		},
		{
			App:                "blog",
			Model:              "category",
			ListDisplay:        []string{"name", "slug", "root_category", "created_at"},
			ListFilter:         []string{"root_category"},
			SearchFields:       []string{"name", "slug", "root_category__name"},
			PrepopulatedFields: slugFromName,
		},
		{
			App:                "blog",
			Model:              "blog",
			ListDisplay:        []string{"title", "is_published", "published_at", "created_at"},
			ListFilter:         []string{"is_published", "categories", "categories__root_category"},
			SearchFields:       []string{"title", "slug", "categories__name", "categories__root_category__name"},
			PrepopulatedFields: slugFromTitle,
			FilterHorizontal:   []string{"categories"},
			RichTextFields:     []string{"body"},
		},
		{
			App:          "contact",
			Model:        "contactmessage",
			ListDisplay:  []string{"name", "email", "subject", "created_at"},
			ListFilter:   []string{"created_at"},
			SearchFields: []string{"name", "email", "subject", "message"},
			Ordering:     []string{"-created_at"},
		},
	}
}
