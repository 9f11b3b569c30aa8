// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"catalogcms/internal/catalog"
	"catalogcms/internal/models"
	"catalogcms/internal/slug"
	"catalogcms/internal/store"
)

const (
	maxCreateBody      = 64 << 20
	multipartMemory    = 16 << 20
	multipartDataField = "data"
	maxSlugAttempts    = 100
)

// CreateProduct accepts a product with all nested collections, either as
// a JSON body or as multipart form data whose "data" part holds the JSON
// and whose file parts are referenced from it as "@<part>". Everything is
// stored in one transaction and the response is the detail contract.
func (c *Catalog) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)

	var in productInput
	var form *multipart.Form

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "", "application/json", "multipart/form-data":
	default:
		writeDetail(w, http.StatusUnsupportedMediaType, fmt.Sprintf("Unsupported media type %q in request.", mediaType))
		return
	}

	if mediaType == "multipart/form-data" {
		if c.uploader == nil {
			writeDetail(w, http.StatusServiceUnavailable, "File uploads are not available.")
			return
		}
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeDetail(w, http.StatusBadRequest, "Malformed multipart body.")
			return
		}
		defer r.MultipartForm.RemoveAll()
		form = r.MultipartForm

		raw := form.Value[multipartDataField]
		if len(raw) == 0 {
			writeJSON(w, http.StatusBadRequest, FieldErrors{multipartDataField: {"This field is required."}})
			return
		}
		if err := json.Unmarshal([]byte(raw[0]), &in); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}

	errs := validateStruct(c.validate, &in)
	if errs == nil {
		errs = FieldErrors{}
	}
	validatePrice(in.Price, errs)
	if form == nil {
		for _, ref := range in.fileRefs() {
			if _, ok := partName(*ref.value); ok {
				errs.Add(ref.path, "No file was submitted.")
			}
		}
	} else {
		for _, ref := range in.fileRefs() {
			if name, ok := partName(*ref.value); ok && len(form.File[name]) == 0 {
				errs.Add(ref.path, "No file was submitted.")
			}
		}
	}
	if err := c.checkCategories(ctx, in.Categories, errs); err != nil {
		serverError(w, "check categories failed", err)
		return
	}
	if err := c.settleSlug(ctx, &in, errs); err != nil {
		serverError(w, "check product slug failed", err)
		return
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	if in.Status == "" {
		in.Status = string(models.ProductDraft)
	}
	if in.Status == string(models.ProductPublished) && in.PublishedAt == nil {
		now := time.Now().UTC()
		in.PublishedAt = &now
	}

	var uploaded []string
	if form != nil {
		keys, err := c.uploadParts(ctx, &in, form)
		uploaded = keys
		if err != nil {
			c.discard(uploaded)
			serverError(w, "upload product files failed", err)
			return
		}
	}

	agg := in.aggregate()
	if err := c.products.Create(ctx, agg); err != nil {
		c.discard(uploaded)
		if errors.Is(err, store.ErrDuplicateSlug) {
			writeJSON(w, http.StatusBadRequest, FieldErrors{"slug": {"product with this slug already exists."}})
			return
		}
		serverError(w, "create product failed", err, "slug", in.Slug)
		return
	}
	c.cache.InvalidateAll(ctx)

	created, err := c.products.FindByID(ctx, agg.Product.ID)
	if err != nil || created == nil {
		serverError(w, "reload created product failed", err, "id", agg.Product.ID)
		return
	}
	slog.Info("product created", "id", created.Product.ID, "slug", created.Product.Slug)
	writeJSON(w, http.StatusCreated, catalog.AssembleDetail(catalog.FromAggregate(created), c.urls.builder(r)))
}

// checkCategories reports ids that do not exist.
func (c *Catalog) checkCategories(ctx context.Context, ids []int64, errs FieldErrors) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := c.categories.MissingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range missing {
		errs.Add("categories", fmt.Sprintf("Invalid pk %q - object does not exist.", strconv.FormatInt(id, 10)))
	}
	return nil
}

// settleSlug fills in a unique slug generated from the title, or checks
// that a supplied slug is free.
func (c *Catalog) settleSlug(ctx context.Context, in *productInput, errs FieldErrors) error {
	if in.Slug != "" {
		if _, bad := errs["slug"]; bad {
			return nil
		}
		exists, err := c.products.SlugExists(ctx, in.Slug)
		if err != nil {
			return err
		}
		if exists {
			errs.Add("slug", "product with this slug already exists.")
		}
		return nil
	}
	if _, bad := errs["title"]; bad {
		return nil
	}

	base := slug.Generate(in.Title)
	if base == "" {
		errs.Add("slug", "This field is required.")
		return nil
	}
	candidate := base
	for n := 2; n < maxSlugAttempts; n++ {
		exists, err := c.products.SlugExists(ctx, candidate)
		if err != nil {
			return err
		}
		if !exists {
			in.Slug = candidate
			return nil
		}
		candidate = slug.WithSuffix(base, n)
	}
	errs.Add("slug", "Could not generate a unique slug.")
	return nil
}

// uploadParts stores every referenced file part and rewrites the "@part"
// values to storage keys. A part referenced twice is uploaded once. The
// returned keys include those stored before a failure.
func (c *Catalog) uploadParts(ctx context.Context, in *productInput, form *multipart.Form) ([]string, error) {
	var keys []string
	byPart := map[string]string{}
	for _, ref := range in.fileRefs() {
		name, ok := partName(*ref.value)
		if !ok {
			continue
		}
		if key, done := byPart[name]; done {
			*ref.value = key
			continue
		}
		fh := form.File[name][0]
		key, err := c.uploadPart(ctx, ref.dir, fh)
		if err != nil {
			return keys, fmt.Errorf("upload %s: %w", ref.path, err)
		}
		keys = append(keys, key)
		byPart[name] = key
		*ref.value = key
	}
	return keys, nil
}

func (c *Catalog) uploadPart(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.uploader.UploadFile(ctx, dir, fh.Filename, contentType, f, fh.Size)
}

// discard removes uploads orphaned by a failed create.
func (c *Catalog) discard(keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := c.uploader.Delete(ctx, key); err != nil {
			slog.Warn("delete orphaned upload failed", "key", key, "error", err)
		}
	}
}
