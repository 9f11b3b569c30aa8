// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"catalogcms/internal/admin"
)

const (
	defaultMessagesLimit = 50
	maxMessagesLimit     = 200
)

// Admin serves read-only back-office metadata.
type Admin struct {
	registry *admin.Registry
	messages ContactStore
}

// NewAdmin creates the Admin handler group.
func NewAdmin(registry *admin.Registry, messages ContactStore) *Admin {
	return &Admin{registry: registry, messages: messages}
}

// Models lists the registered model admins.
func (a *Admin) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.registry.Models())
}

// ContactMessages lists the latest contact form submissions.
func (a *Admin) ContactMessages(w http.ResponseWriter, r *http.Request) {
	limit := defaultMessagesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, FieldErrors{"limit": {"Enter a positive number."}})
			return
		}
		limit = min(n, maxMessagesLimit)
	}

	msgs, err := a.messages.Recent(r.Context(), limit)
	if err != nil {
		serverError(w, "list contact messages failed", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
