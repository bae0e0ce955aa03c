package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/menuboard/internal/middleware"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/websocket"
)

type BusinessHandler struct {
	broadcaster
	businesses *store.BusinessStore
	logger     *slog.Logger
}

func NewBusinessHandler(bs *store.BusinessStore, hub *websocket.Hub, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{broadcaster: broadcaster{hub}, businesses: bs, logger: logger}
}

type businessRequest struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	LogoURL string `json:"logo_url"`
}

func (req *businessRequest) normalize() bool {
	req.Name = strings.TrimSpace(req.Name)
	req.Tagline = strings.TrimSpace(req.Tagline)
	req.LogoURL = strings.TrimSpace(req.LogoURL)
	return req.Name != ""
}

func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.businesses.List(r.Context())
	if err != nil {
		h.logger.Error("list businesses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list businesses")
		return
	}
	if businesses == nil {
		businesses = []model.Business{}
	}
	writeJSON(w, http.StatusOK, businesses)
}

func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req businessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !req.normalize() {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	b, err := h.businesses.Create(r.Context(), req.Name, req.Tagline, req.LogoURL)
	if err != nil {
		h.logger.Error("create business", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create business")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, _ := middleware.BusinessFrom(r.Context())
	writeJSON(w, http.StatusOK, b)
}

func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())

	var req businessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !req.normalize() {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	b, err := h.businesses.Update(r.Context(), bid, req.Name, req.Tagline, req.LogoURL)
	if err != nil {
		h.logger.Error("update business", "business_id", bid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update business")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "business", "updated", strconv.FormatInt(bid, 10)))
	writeJSON(w, http.StatusOK, b)
}
