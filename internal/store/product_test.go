// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"catalogcms/internal/models"
)

// seedTaxonomy creates a root with two categories and returns them.
func seedTaxonomy(t *testing.T, cs *CategoryStore) (*models.RootCategory, *models.Category, *models.Category) {
	t.Helper()
	ctx := context.Background()

	root := &models.RootCategory{Name: "Store Test Root", Slug: "store-test-root"}
	if err := cs.CreateRoot(ctx, root); err != nil {
		t.Fatalf("CreateRoot: %v", err)
	}
	zeta := &models.Category{Name: "Store Test Zeta", Slug: "store-test-zeta", RootCategoryID: &root.ID}
	alpha := &models.Category{Name: "Store Test Alpha", Slug: "store-test-alpha"}
	for _, c := range []*models.Category{zeta, alpha} {
		if err := cs.Create(ctx, c); err != nil {
			t.Fatalf("Create category %s: %v", c.Slug, err)
		}
	}
	return root, zeta, alpha
}

func TestProductStoreCreateAndLoad(t *testing.T) {
	db := testDB(t)
	ps := NewProductStore(db)
	cs := NewCategoryStore(db)
	ctx := context.Background()

	t.Cleanup(func() {
		cleanProducts(t, db, "store-test-pump")
		cleanCategories(t, db, "store-test-zeta", "store-test-alpha", "store-test-root")
	})
	_, zeta, alpha := seedTaxonomy(t, cs)

	published := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	agg := &models.ProductAggregate{
		Product: models.Product{
			Title: "Store Test Pump", Slug: "store-test-pump", Status: models.ProductPublished,
			Price:       decimal.NewNullDecimal(decimal.RequireFromString("99.90")),
			PublishedAt: &published,
		},
		Categories: []models.Category{{ID: zeta.ID}, {ID: alpha.ID}},
		Media: []models.ProductMedia{
			{MediaType: models.MediaImage, Image: "b.png", SortOrder: 1},
			{MediaType: models.MediaImage, Image: "a.png", SortOrder: 0, IsPrimary: true},
		},
		NavItems: []models.ProductNavItem{{Label: "Intro", AnchorID: "intro"}},
		ContentBlocks: []models.ProductContentBlock{
			{Section: models.SectionIntro, BlockType: models.BlockList, SortOrder: 1,
				Items: []models.ProductContentBlockItem{{Label: "b", SortOrder: 1}, {Label: "a", SortOrder: 0}}},
			{Section: models.SectionVideo, BlockType: models.BlockVideo, SortOrder: 0,
				Media: &models.ProductMedia{MediaType: models.MediaVideo, URL: "https://videos.example/clip.mp4"}},
		},
		SpecModels: []models.ProductSpecModel{
			{Title: "B", SortOrder: 1, Items: []models.ProductSpecItem{{Name: "Power", Value: "3"}}},
			{Title: "A", SortOrder: 0, Items: []models.ProductSpecItem{{Name: "Power", Value: "2", Unit: "kW"}}},
		},
		FAQItems: []models.ProductFaqItem{{Question: "Q?", AnswerHTML: "<p>A</p>"}},
	}
	if err := ps.Create(ctx, agg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if agg.Product.ID == 0 {
		t.Fatal("expected product ID to be set")
	}

	got, err := ps.FindPublishedBySlug(ctx, "store-test-pump")
	if err != nil {
		t.Fatalf("FindPublishedBySlug: %v", err)
	}
	if got == nil {
		t.Fatal("expected product, got nil")
	}

	if got.Product.Price.Decimal.StringFixed(2) != "99.90" {
		t.Errorf("price = %s", got.Product.Price.Decimal.StringFixed(2))
	}
	if len(got.Categories) != 2 || got.Categories[0].Slug != "store-test-alpha" {
		t.Errorf("categories should be ordered by name, got %+v", got.Categories)
	}
	if got.Categories[1].RootCategory == nil || got.Categories[1].RootCategory.Slug != "store-test-root" {
		t.Errorf("expected root category joined on zeta")
	}
	// Two explicit media plus the block's video.
	if len(got.Media) != 3 || got.Media[0].Image != "a.png" {
		t.Errorf("media = %+v", got.Media)
	}
	if len(got.ContentBlocks) != 2 {
		t.Fatalf("content blocks = %d, want 2", len(got.ContentBlocks))
	}
	video := got.ContentBlocks[0]
	if video.Media == nil || video.Media.URL != "https://videos.example/clip.mp4" {
		t.Errorf("video block media = %+v", video.Media)
	}
	list := got.ContentBlocks[1]
	if len(list.Items) != 2 || list.Items[0].Label != "a" {
		t.Errorf("list items = %+v", list.Items)
	}
	if len(got.SpecModels) != 2 || got.SpecModels[0].Title != "A" || len(got.SpecModels[0].Items) != 1 {
		t.Errorf("spec models = %+v", got.SpecModels)
	}
	if len(got.FAQItems) != 1 || len(got.NavItems) != 1 {
		t.Errorf("faq = %d, nav = %d", len(got.FAQItems), len(got.NavItems))
	}

	groups, found, err := ps.PublishedSpecModels(ctx, "store-test-pump")
	if err != nil || !found || len(groups) != 2 {
		t.Errorf("PublishedSpecModels = %d groups, found=%v, err=%v", len(groups), found, err)
	}

	// Duplicate slug.
	dup := &models.ProductAggregate{Product: models.Product{Title: "Dup", Slug: "store-test-pump", Status: models.ProductDraft}}
	if err := ps.Create(ctx, dup); !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("duplicate Create error = %v, want ErrDuplicateSlug", err)
	}
}

func TestProductStoreVisibilityAndFilters(t *testing.T) {
	db := testDB(t)
	ps := NewProductStore(db)
	cs := NewCategoryStore(db)
	ctx := context.Background()

	slugs := []string{"store-test-visible", "store-test-draft", "store-test-older"}
	t.Cleanup(func() {
		cleanProducts(t, db, slugs...)
		cleanCategories(t, db, "store-test-zeta", "store-test-alpha", "store-test-root")
	})
	_, zeta, alpha := seedTaxonomy(t, cs)

	newer := time.Now().Add(-time.Minute)
	older := time.Now().Add(-48 * time.Hour)
	fixtures := []*models.ProductAggregate{
		{Product: models.Product{Title: "Store Visible Valve", Slug: "store-test-visible", Status: models.ProductPublished,
			PublishedAt: &newer, IsFeatured: true}, Categories: []models.Category{{ID: zeta.ID}}},
		{Product: models.Product{Title: "Store Draft", Slug: "store-test-draft", Status: models.ProductDraft},
			Categories: []models.Category{{ID: zeta.ID}}},
		{Product: models.Product{Title: "Store Older", Slug: "store-test-older", Status: models.ProductPublished,
			PublishedAt: &older, Brand: "StoreTestBrand"}, Categories: []models.Category{{ID: alpha.ID}}},
	}
	for _, f := range fixtures {
		if err := ps.Create(ctx, f); err != nil {
			t.Fatalf("Create %s: %v", f.Product.Slug, err)
		}
	}

	if got, _ := ps.FindPublishedBySlug(ctx, "store-test-draft"); got != nil {
		t.Error("draft product must not be found publicly")
	}

	slugsOf := func(items []models.ProductSummary) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Product.Slug)
		}
		return out
	}

	items, total, err := ps.List(ctx, ProductFilter{CategorySlug: "STORE-TEST-ZETA"})
	if err != nil {
		t.Fatalf("List by category: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Product.Slug != "store-test-visible" {
		t.Errorf("category filter = %v (total %d)", slugsOf(items), total)
	}

	items, _, err = ps.List(ctx, ProductFilter{RootCategorySlug: "store-test-root"})
	if err != nil {
		t.Fatalf("List by root: %v", err)
	}
	if len(items) != 1 || items[0].Product.Slug != "store-test-visible" {
		t.Errorf("root filter = %v", slugsOf(items))
	}

	items, _, err = ps.List(ctx, ProductFilter{Search: "storetestbrand"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if len(items) != 1 || items[0].Product.Slug != "store-test-older" {
		t.Errorf("search = %v", slugsOf(items))
	}

	items, _, err = ps.List(ctx, ProductFilter{Search: "Store", Ordering: []string{"-published_at"}})
	if err != nil {
		t.Fatalf("List ordered: %v", err)
	}
	got := slugsOf(items)
	if len(got) < 2 || got[0] != "store-test-visible" || got[1] != "store-test-older" {
		t.Errorf("ordering = %v, want visible before older", got)
	}

	// Status transitions.
	ok, err := ps.SetStatus(ctx, "store-test-draft", models.ProductPublished)
	if err != nil || !ok {
		t.Fatalf("SetStatus = %v, %v", ok, err)
	}
	pub, _ := ps.FindPublishedBySlug(ctx, "store-test-draft")
	if pub == nil || pub.Product.PublishedAt == nil {
		t.Error("publishing should stamp published_at")
	}
	if ok, _ := ps.SetStatus(ctx, "store-test-missing", models.ProductArchived); ok {
		t.Error("SetStatus on a missing slug should report false")
	}
}

func TestProductStoreDeleteCascades(t *testing.T) {
	db := testDB(t)
	ps := NewProductStore(db)
	ctx := context.Background()

	t.Cleanup(func() { cleanProducts(t, db, "store-test-delete") })

	agg := &models.ProductAggregate{
		Product:  models.Product{Title: "Delete Me", Slug: "store-test-delete", Status: models.ProductDraft},
		Media:    []models.ProductMedia{{MediaType: models.MediaImage, URL: "https://img.example/x.png"}},
		FAQItems: []models.ProductFaqItem{{Question: "Q"}},
	}
	if err := ps.Create(ctx, agg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ps.Delete(ctx, agg.Product.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM product_media WHERE product_id = $1", agg.Product.ID).Scan(&n)
	if n != 0 {
		t.Errorf("product_media rows = %d after delete, want 0", n)
	}
	if exists, _ := ps.SlugExists(ctx, "store-test-delete"); exists {
		t.Error("slug should be free after delete")
	}
}

func TestCategoryStore(t *testing.T) {
	db := testDB(t)
	cs := NewCategoryStore(db)
	ctx := context.Background()

	t.Cleanup(func() {
		cleanCategories(t, db, "store-test-zeta", "store-test-alpha", "store-test-root")
	})
	root, zeta, alpha := seedTaxonomy(t, cs)

	got, err := cs.FindBySlug(ctx, "store-test-alpha")
	if err != nil || got == nil || got.ID != alpha.ID {
		t.Fatalf("FindBySlug = %+v, %v", got, err)
	}
	if none, _ := cs.FindBySlug(ctx, "store-test-nope"); none != nil {
		t.Error("expected nil for unknown slug")
	}

	roots, err := cs.ListRoots(ctx)
	if err != nil {
		t.Fatalf("ListRoots: %v", err)
	}
	var mine *models.RootCategory
	for i := range roots {
		if roots[i].ID == root.ID {
			mine = &roots[i]
		}
	}
	if mine == nil || len(mine.Categories) != 1 || mine.Categories[0].ID != zeta.ID {
		t.Errorf("root categories = %+v", mine)
	}

	missing, err := cs.MissingIDs(ctx, []int64{alpha.ID, -1, zeta.ID})
	if err != nil {
		t.Fatalf("MissingIDs: %v", err)
	}
	if len(missing) != 1 || missing[0] != -1 {
		t.Errorf("MissingIDs = %v, want [-1]", missing)
	}

	// Deleting the root keeps the category with a null back-reference.
	if err := cs.DeleteRoot(ctx, root.ID); err != nil {
		t.Fatalf("DeleteRoot: %v", err)
	}
	z, _ := cs.FindBySlug(ctx, "store-test-zeta")
	if z == nil || z.RootCategoryID != nil {
		t.Errorf("zeta after root delete = %+v", z)
	}

	if err := cs.Create(ctx, &models.Category{Name: "Other", Slug: "store-test-alpha"}); !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("duplicate category error = %v", err)
	}
}
