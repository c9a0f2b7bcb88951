package internal

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"item-tracker/internal/models"
	"item-tracker/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

const (
	msgServerError   = "Server error"
	msgNameRequired  = "Item name is required"
	msgInvalidBody   = "Invalid request body"
	msgItemRemoved   = "Item removed"
	msgItemNotFound  = "Item not found"
	msgInvalidItemID = "Invalid item ID format"
)

// GET /api/items: every item, most recent first.
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.Store.List(r.Context())
	s.Metrics.ObserveStoreOp("list", resultLabel(err))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list items")
		writeMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var in models.CreateItemRequest
	if err := decodeBody(r.Body, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		writeMessage(w, http.StatusBadRequest, msgNameRequired)
		return
	}

	it, err := s.Store.Create(r.Context(), *in.Name, in.Description)
	s.Metrics.ObserveStoreOp("create", resultLabel(err))
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			writeMessage(w, http.StatusBadRequest, msgNameRequired)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("create item")
		writeMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}

	hlog.FromRequest(r).Debug().Str("item_id", it.ID).Msg("item created")
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	_, err := s.Store.DeleteByID(r.Context(), id)
	s.Metrics.ObserveStoreOp("delete", resultLabel(err))
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, msgItemRemoved)
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, msgItemNotFound)
	case errors.Is(err, store.ErrInvalidID):
		writeMessage(w, http.StatusBadRequest, msgInvalidItemID)
	default:
		hlog.FromRequest(r).Error().Err(err).Str("item_id", id).Msg("delete item")
		writeMessage(w, http.StatusInternalServerError, msgServerError)
	}
}

// decodeBody reads exactly one JSON value. An empty body is the same as an
// object without a name; trailing data after the value is rejected.
func decodeBody(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, store.ErrValidation):
		return "validation"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, store.ErrInvalidID):
		return "invalid_id"
	default:
		return "error"
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.MessageResponse{Message: msg})
}
