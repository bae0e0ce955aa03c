package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/menuboard/internal/middleware"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/websocket"
)

type ItemHandler struct {
	broadcaster
	items      *store.ItemStore
	categories *store.CategoryStore
	logger     *slog.Logger
}

func NewItemHandler(is *store.ItemStore, cs *store.CategoryStore, hub *websocket.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{broadcaster: broadcaster{hub}, items: is, categories: cs, logger: logger}
}

type itemRequest struct {
	MenuName   string            `json:"menu_name"`
	CategoryID model.CategoryRef `json:"category_id"`
	IsActive   *bool             `json:"is_active"`
	Data       model.ItemData    `json:"data"`
}

// validate checks the payload and returns the item to persist, or a message
// for the client. A category reference must point at one of the business's
// categories when the item is written; it may go stale later.
func (h *ItemHandler) validate(ctx context.Context, bid int64, req itemRequest) (model.CatalogItem, string, error) {
	item := model.CatalogItem{
		MenuName:   strings.TrimSpace(req.MenuName),
		CategoryID: req.CategoryID,
		IsActive:   true,
		Data:       req.Data,
	}
	item.Data.Name = strings.TrimSpace(item.Data.Name)
	item.Data.Description = strings.TrimSpace(item.Data.Description)
	item.Data.ImageURL = strings.TrimSpace(item.Data.ImageURL)
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if item.MenuName == "" {
		return item, "menu_name is required", nil
	}
	if item.Data.Name == "" {
		return item, "name is required", nil
	}
	if item.Data.Price.IsNegative() {
		return item, "price must not be negative", nil
	}
	if id, ok := item.CategoryID.ID(); ok {
		cat, err := h.categories.GetCategory(ctx, bid, id)
		if err != nil {
			return item, "", err
		}
		if cat == nil {
			return item, "category_id does not reference a category of this business", nil
		}
	}
	return item, "", nil
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	items, err := h.items.ListItems(r.Context(), bid, strings.TrimSpace(r.URL.Query().Get("menu")))
	if err != nil {
		h.logger.Error("list items", "business_id", bid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.CatalogItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Menus(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	names, err := h.items.MenuNames(r.Context(), bid)
	if err != nil {
		h.logger.Error("list menus", "business_id", bid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list menus")
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	in, msg, err := h.validate(r.Context(), bid, req)
	if err != nil {
		h.logger.Error("validate item", "business_id", bid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.items.CreateItem(r.Context(), bid, in)
	if err != nil {
		h.logger.Error("create item", "business_id", bid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "item", "created", strconv.FormatInt(item.ID, 10)).WithMenu(item.MenuName))
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.items.GetItem(r.Context(), bid, id)
	if err != nil {
		h.logger.Error("get item", "item_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.IsActive == nil {
		req.IsActive = &existing.IsActive
	}
	in, msg, err := h.validate(r.Context(), bid, req)
	if err != nil {
		h.logger.Error("validate item", "item_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.items.UpdateItem(r.Context(), bid, id, in)
	if err != nil {
		h.logger.Error("update item", "item_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "item", "updated", strconv.FormatInt(id, 10)).WithMenu(item.MenuName))
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.items.GetItem(r.Context(), bid, id)
	if err != nil {
		h.logger.Error("get item", "item_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := h.items.DeleteItem(r.Context(), bid, id); err != nil {
		h.logger.Error("delete item", "item_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "item", "deleted", strconv.FormatInt(id, 10)).WithMenu(existing.MenuName))
	w.WriteHeader(http.StatusNoContent)
}
