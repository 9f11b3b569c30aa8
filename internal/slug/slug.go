// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
// Non-latin titles are transliterated so product and post names in any
// script still produce a usable slug.
package slug

import (
	"strconv"

	gslug "github.com/gosimple/slug"
)

// MaxLength is the longest slug stored for products and posts.
const MaxLength = 240

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	out := gslug.Make(s)
	if len(out) > MaxLength {
		out = gslug.Make(out[:MaxLength])
	}
	return out
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return len(s) <= MaxLength && gslug.IsSlug(s)
}

// WithSuffix returns base with a numeric suffix, used when base is taken.
// WithSuffix("pump", 2) → "pump-2".
func WithSuffix(base string, n int) string {
	suffix := "-" + strconv.Itoa(n)
	if len(base)+len(suffix) > MaxLength {
		base = base[:MaxLength-len(suffix)]
	}
	return base + suffix
}
