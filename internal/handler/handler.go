// Package handler serves the JSON API and the editor websocket.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/menuboard/internal/category"
	"github.com/dukerupert/menuboard/internal/editor"
	"github.com/dukerupert/menuboard/internal/layout"
	"github.com/dukerupert/menuboard/internal/version"
	"github.com/dukerupert/menuboard/internal/websocket"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// menuParam returns the {menu} path value; menus are addressed by name.
func menuParam(r *http.Request) (string, bool) {
	menu := strings.TrimSpace(r.PathValue("menu"))
	return menu, menu != ""
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, category.ErrNameRequired),
		errors.Is(err, category.ErrInvalidColor),
		errors.Is(err, category.ErrInvalidDirection),
		errors.Is(err, version.ErrNameRequired),
		errors.Is(err, layout.ErrInvalid),
		errors.Is(err, editor.ErrUnknownField),
		errors.Is(err, editor.ErrInvalidValue),
		errors.Is(err, editor.ErrUnknownPreset):
		return http.StatusBadRequest
	case errors.Is(err, category.ErrNotFound),
		errors.Is(err, version.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, version.ErrForeignMenu):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err with the mapped status. Unexpected errors are logged and
// replaced by msg.
func fail(w http.ResponseWriter, logger *slog.Logger, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(msg, "error", err)
		writeError(w, status, msg)
		return
	}
	writeError(w, status, err.Error())
}

type broadcaster struct {
	hub *websocket.Hub
}

func (b broadcaster) broadcast(msg websocket.Message) {
	if b.hub != nil {
		b.hub.Broadcast(msg)
	}
}
