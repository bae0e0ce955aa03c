package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dukerupert/menuboard/internal/layout"
	"github.com/dukerupert/menuboard/internal/middleware"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/theme"
	"github.com/dukerupert/menuboard/internal/websocket"
)

type LayoutHandler struct {
	broadcaster
	layouts *store.LayoutStore
	logger  *slog.Logger
}

func NewLayoutHandler(ls *store.LayoutStore, hub *websocket.Hub, logger *slog.Logger) *LayoutHandler {
	return &LayoutHandler{broadcaster: broadcaster{hub}, layouts: ls, logger: logger}
}

func (h *LayoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}

	cfg, err := h.layouts.LoadLayoutConfig(r.Context(), bid, menu)
	if err != nil {
		h.logger.Error("load layout", "business_id", bid, "menu", menu, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load layout")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// Put replaces the menu's layout config as sent. The theme is not propagated
// onto sections here; that only happens through ApplyTheme or an editor save.
func (h *LayoutHandler) Put(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}

	var cfg model.LayoutConfig
	if err := decodeJSON(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if cfg.SelectedMenu != "" && cfg.SelectedMenu != menu {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("selectedMenu %q does not match menu %q", cfg.SelectedMenu, menu))
		return
	}
	cfg = layout.Normalize(cfg, menu)
	if err := layout.Validate(cfg); err != nil {
		fail(w, h.logger, err, "invalid layout")
		return
	}

	if err := h.layouts.SaveLayoutConfig(r.Context(), bid, menu, cfg); err != nil {
		h.logger.Error("save layout", "business_id", bid, "menu", menu, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save layout")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "layout", "saved", "").WithMenu(menu))
	writeJSON(w, http.StatusOK, cfg)
}

type themeRequest struct {
	Preset string       `json:"preset"`
	Theme  *model.Theme `json:"theme"`
	Scope  string       `json:"scope"`
}

// ApplyTheme sets the menu's theme from a preset or explicit tokens and
// propagates it onto the sections selected by scope.
func (h *LayoutHandler) ApplyTheme(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}

	var req themeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	scope, ok := theme.ParseScope(req.Scope)
	if !ok {
		writeError(w, http.StatusBadRequest, "scope must be default, headers, colors or all")
		return
	}

	var t model.Theme
	switch {
	case req.Preset != "" && req.Theme != nil:
		writeError(w, http.StatusBadRequest, "send either preset or theme, not both")
		return
	case req.Preset != "":
		preset, ok := theme.ByName(req.Preset)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown preset %q", req.Preset))
			return
		}
		t = preset
	case req.Theme != nil:
		if err := theme.Validate(*req.Theme); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		t = *req.Theme
	default:
		writeError(w, http.StatusBadRequest, "preset or theme is required")
		return
	}

	cfg, err := h.layouts.LoadLayoutConfig(r.Context(), bid, menu)
	if err != nil {
		h.logger.Error("load layout", "business_id", bid, "menu", menu, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load layout")
		return
	}
	cfg = theme.ApplyToConfig(cfg, t, scope)
	if err := layout.Validate(cfg); err != nil {
		fail(w, h.logger, err, "invalid layout")
		return
	}
	if err := h.layouts.SaveLayoutConfig(r.Context(), bid, menu, cfg); err != nil {
		h.logger.Error("save layout", "business_id", bid, "menu", menu, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save layout")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "layout", "saved", "").WithMenu(menu))
	writeJSON(w, http.StatusOK, cfg)
}

type presetResponse struct {
	Name  string      `json:"name"`
	Theme model.Theme `json:"theme"`
}

func (h *LayoutHandler) Presets(w http.ResponseWriter, r *http.Request) {
	names := theme.PresetNames()
	out := make([]presetResponse, 0, len(names))
	for _, name := range names {
		t, _ := theme.ByName(name)
		out = append(out, presetResponse{Name: name, Theme: t})
	}
	writeJSON(w, http.StatusOK, out)
}
