package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/menuboard/internal/category"
	"github.com/dukerupert/menuboard/internal/middleware"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/websocket"
)

type CategoryHandler struct {
	broadcaster
	categories *category.Service
	logger     *slog.Logger
}

func NewCategoryHandler(svc *category.Service, hub *websocket.Hub, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{broadcaster: broadcaster{hub}, categories: svc, logger: logger}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context(), middleware.BusinessID(r.Context()))
	if err != nil {
		fail(w, h.logger, err, "failed to list categories")
		return
	}
	if cats == nil {
		cats = []model.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cat, err := h.categories.Create(r.Context(), bid, req.Name, req.Description, req.Color, req.Icon)
	if err != nil {
		fail(w, h.logger, err, "failed to create category")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "category", "created", strconv.FormatInt(cat.ID, 10)))
	writeJSON(w, http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var patch model.CategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cat, err := h.categories.Update(r.Context(), bid, id, patch)
	if err != nil {
		fail(w, h.logger, err, "failed to update category")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "category", "updated", strconv.FormatInt(id, 10)))
	writeJSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.categories.Delete(r.Context(), bid, id); err != nil {
		fail(w, h.logger, err, "failed to delete category")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "category", "deleted", strconv.FormatInt(id, 10)))
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) Move(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	dir, err := category.ParseDirection(req.Direction)
	if err != nil {
		fail(w, h.logger, err, "invalid direction")
		return
	}

	cats, err := h.categories.Move(r.Context(), bid, id, dir)
	if err != nil {
		fail(w, h.logger, err, "failed to reorder categories")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "category", "moved", strconv.FormatInt(id, 10)).
		WithData(map[string]any{"direction": dir}))
	writeJSON(w, http.StatusOK, cats)
}
