// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"strings"

	"catalogcms/internal/models"
)

// FileLocator maps a stored file key to a public URL or root-relative
// path. storage.Client satisfies it for S3-backed uploads.
type FileLocator interface {
	FileURL(key string) string
}

// PrefixLocator serves keys under a fixed path prefix, e.g. "/media/".
type PrefixLocator string

// FileURL joins the prefix and the key with exactly one slash.
func (p PrefixLocator) FileURL(key string) string {
	return strings.TrimRight(string(p), "/") + "/" + strings.TrimLeft(key, "/")
}

// URLBuilder turns stored media values into URLs for one request.
// Origin is "scheme://host" of the current request, or empty when no
// request is available.
type URLBuilder struct {
	Origin string
	Files  FileLocator
}

// Build resolves a stored value. Absolute URLs are returned unchanged.
// Bare keys go through the file locator, and root-relative paths are
// prefixed with the origin when one is known. Empty input yields nil.
func (b URLBuilder) Build(stored string) *string {
	if stored == "" {
		return nil
	}
	if isAbsolute(stored) {
		return &stored
	}

	path := stored
	if !strings.HasPrefix(path, "/") && b.Files != nil {
		path = b.Files.FileURL(path)
	}
	if b.Origin != "" && strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") {
		path = strings.TrimRight(b.Origin, "/") + path
	}
	return &path
}

func isAbsolute(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "//")
}

// MediaURL returns the URL for a media item: the uploaded image for image
// media, the uploaded file for video and document media, and the external
// URL when nothing was uploaded. Nil media or media without any stored
// location yields nil.
func (b URLBuilder) MediaURL(m *models.ProductMedia) *string {
	if m == nil {
		return nil
	}
	switch m.MediaType {
	case models.MediaImage:
		if m.Image != "" {
			return b.Build(m.Image)
		}
	case models.MediaVideo, models.MediaDocument:
		if m.File != "" {
			return b.Build(m.File)
		}
	default:
		return nil
	}
	return b.Build(m.URL)
}

// ResolvePrimary returns the image flagged primary, else the first image,
// else nil. When several images carry the flag the first one in
// iteration order wins.
func ResolvePrimary(media []models.ProductMedia) *models.ProductMedia {
	var first *models.ProductMedia
	for i := range media {
		m := &media[i]
		if m.MediaType != models.MediaImage {
			continue
		}
		if m.IsPrimary {
			return m
		}
		if first == nil {
			first = m
		}
	}
	return first
}

// ResolveHero returns the first image with the hero role, falling back to
// ResolvePrimary.
func ResolveHero(media []models.ProductMedia) *models.ProductMedia {
	for i := range media {
		if media[i].MediaType == models.MediaImage && media[i].Role == models.RoleHero {
			return &media[i]
		}
	}
	return ResolvePrimary(media)
}

// GalleryVideos returns URLs of gallery-role videos in order, skipping
// items without a resolvable location.
func (b URLBuilder) GalleryVideos(media []models.ProductMedia) []string {
	out := []string{}
	for i := range media {
		m := &media[i]
		if m.MediaType != models.MediaVideo || m.Role != models.RoleGallery {
			continue
		}
		if u := b.MediaURL(m); u != nil {
			out = append(out, *u)
		}
	}
	return out
}
