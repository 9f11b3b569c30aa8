// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API. Handlers are grouped by
// concern (Catalog, Blog, Contact, Auth, Admin) and receive their
// dependencies through constructors.
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"catalogcms/internal/catalog"
)

// FieldErrors maps a field path such as "media[1].image" to its messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// encodeJSON renders v without HTML escaping; bodies carry stored HTML.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := encodeJSON(v)
	if err != nil {
		slog.Error("encode response failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeRaw(w, status, body)
}

// writeRaw sends an already encoded JSON body.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeDetail sends {"detail": msg}.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func notFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, "Not found.")
}

// serverError logs err with the given attributes and answers 500.
func serverError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	slog.Error(msg, append([]any{"error", err}, attrs...)...)
	writeDetail(w, http.StatusInternalServerError, "Internal server error.")
}

// requestOrigin returns "scheme://host" for absolute URLs in responses. A
// configured public base URL wins over request headers.
func requestOrigin(r *http.Request, publicBase string) string {
	if publicBase != "" {
		return publicBase
	}
	if r == nil || r.Host == "" {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}

// URLConfig decides how stored media values become URLs.
type URLConfig struct {
	PublicBaseURL string
	Files         catalog.FileLocator
}

func (c URLConfig) builder(r *http.Request) catalog.URLBuilder {
	return catalog.URLBuilder{Origin: requestOrigin(r, c.PublicBaseURL), Files: c.Files}
}
