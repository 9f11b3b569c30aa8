// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"catalogcms/internal/models"
)

// ContactStore persists contact form submissions.
type ContactStore interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	Recent(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

// Contact handles the public contact form.
type Contact struct {
	messages ContactStore
	validate *validator.Validate
}

// NewContact creates the Contact handler.
func NewContact(messages ContactStore) *Contact {
	return &Contact{messages: messages, validate: newValidator()}
}

type contactInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=40"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Create validates and stores a message. It answers 201 with the saved
// record.
func (h *Contact) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var in contactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if errs := validateStruct(h.validate, &in); errs != nil {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	msg := &models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
	}
	if err := h.messages.Create(r.Context(), msg); err != nil {
		serverError(w, "store contact message failed", err)
		return
	}
	slog.Info("contact message received", "id", msg.ID)
	writeJSON(w, http.StatusCreated, msg)
}
