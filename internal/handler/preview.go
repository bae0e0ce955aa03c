package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/dukerupert/menuboard/internal/middleware"
	"github.com/dukerupert/menuboard/internal/preview"
)

type PreviewHandler struct {
	loader *preview.Loader
	logger *slog.Logger
}

func NewPreviewHandler(loader *preview.Loader, logger *slog.Logger) *PreviewHandler {
	return &PreviewHandler{loader: loader, logger: logger}
}

// Get renders the saved layout of a menu as JSON, or as an HTML page with
// ?format=html. Responses carry an ETag derived from the render tree.
func (h *PreviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "html" {
		writeError(w, http.StatusBadRequest, "format must be json or html")
		return
	}

	in, err := h.loader.Load(r.Context(), bid, menu)
	if err != nil {
		h.logger.Error("load preview inputs", "business_id", bid, "menu", menu, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load preview")
		return
	}
	tree := in.Render()

	fp, err := preview.Fingerprint(tree)
	if err != nil {
		h.logger.Error("fingerprint preview", "business_id", bid, "menu", menu, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render preview")
		return
	}
	etag := `"` + fp + `"`
	if format == "html" {
		etag = `"` + fp + `-html"`
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if format != "html" {
		writeJSON(w, http.StatusOK, tree)
		return
	}

	var buf bytes.Buffer
	if err := preview.WriteHTML(&buf, tree); err != nil {
		h.logger.Error("render preview html", "business_id", bid, "menu", menu, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render preview")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
