package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/menuboard/internal/export"
	"github.com/dukerupert/menuboard/internal/middleware"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/version"
	"github.com/dukerupert/menuboard/internal/websocket"
)

type VersionHandler struct {
	broadcaster
	versions *version.Service
	layouts  *store.LayoutStore
	exports  *store.ExportStore
	archiver *export.Archiver
	logger   *slog.Logger
}

func NewVersionHandler(svc *version.Service, ls *store.LayoutStore, es *store.ExportStore, archiver *export.Archiver, hub *websocket.Hub, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{
		broadcaster: broadcaster{hub},
		versions:    svc,
		layouts:     ls,
		exports:     es,
		archiver:    archiver,
		logger:      logger,
	}
}

func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}

	versions, err := h.versions.List(r.Context(), bid, menu)
	if err != nil {
		fail(w, h.logger, err, "failed to list versions")
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *VersionHandler) Published(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}

	v, err := h.versions.Published(r.Context(), bid, menu)
	if err != nil {
		fail(w, h.logger, err, "failed to load published version")
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "no published version")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type saveVersionRequest struct {
	VersionName string `json:"version_name"`
	ChangeNotes string `json:"change_notes"`
	CreatedBy   string `json:"created_by"`
}

func (h *VersionHandler) Save(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}

	var req saveVersionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	v, err := h.versions.Save(r.Context(), bid, menu, req.VersionName, req.ChangeNotes, req.CreatedBy)
	if err != nil {
		fail(w, h.logger, err, "failed to save version")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "version", "created", v.ID).WithMenu(menu))
	writeJSON(w, http.StatusCreated, v)
}

func (h *VersionHandler) Publish(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}

	v, err := h.versions.Publish(r.Context(), bid, menu, r.PathValue("id"))
	if err != nil {
		fail(w, h.logger, err, "failed to publish version")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "version", "published", v.ID).WithMenu(menu))
	writeJSON(w, http.StatusOK, v)
}

// Revert returns the version's snapshot. With ?apply=true the snapshot's
// layout config also replaces the live one; items are never rewritten.
func (h *VersionHandler) Revert(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}
	id := r.PathValue("id")

	snap, err := h.versions.Revert(r.Context(), bid, menu, id)
	if err != nil {
		fail(w, h.logger, err, "failed to revert version")
		return
	}

	if r.URL.Query().Get("apply") == "true" {
		if err := h.layouts.SaveLayoutConfig(r.Context(), bid, menu, snap.Config); err != nil {
			h.logger.Error("apply reverted layout", "business_id", bid, "version_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to apply reverted layout")
			return
		}
		h.broadcast(websocket.NewMessage(bid, "layout", "reverted", id).WithMenu(menu))
	}
	writeJSON(w, http.StatusOK, snap)
}

// Export downloads the version as a standalone JSON document.
func (h *VersionHandler) Export(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}

	doc, err := h.versions.Export(r.Context(), bid, menu, r.PathValue("id"))
	if err != nil {
		fail(w, h.logger, err, "failed to export version")
		return
	}
	data, err := doc.Marshal()
	if err != nil {
		h.logger.Error("marshal export", "business_id", bid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export version")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Archive uploads the export document to object storage.
func (h *VersionHandler) Archive(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}
	if h.archiver == nil || !h.archiver.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "export storage is not configured")
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))

	doc, err := h.versions.Export(r.Context(), bid, menu, id)
	if err != nil {
		fail(w, h.logger, err, "failed to export version")
		return
	}
	record, err := h.archiver.Archive(r.Context(), bid, id, *doc)
	if err != nil {
		h.logger.Error("archive export", "business_id", bid, "version_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "failed to archive export")
		return
	}

	h.broadcast(websocket.NewMessage(bid, "export", "completed", id).WithMenu(menu).
		WithData(map[string]any{"export_id": record.ID, "key": record.S3Key}))
	writeJSON(w, http.StatusCreated, record)
}

// Exports lists the archive history of a version of the menu in the path.
func (h *VersionHandler) Exports(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	menu, ok := menuParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "menu is required")
		return
	}

	v, err := h.versions.Get(r.Context(), bid, menu, r.PathValue("id"))
	if err != nil {
		fail(w, h.logger, err, "failed to load version")
		return
	}

	records, err := h.exports.ListExports(r.Context(), bid, v.ID)
	if err != nil {
		h.logger.Error("list exports", "business_id", bid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list exports")
		return
	}
	if records == nil {
		records = []model.ExportRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Download streams an archived export back out of object storage.
func (h *VersionHandler) Download(w http.ResponseWriter, r *http.Request) {
	bid := middleware.BusinessID(r.Context())
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if h.archiver == nil || !h.archiver.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "export storage is not configured")
		return
	}

	record, err := h.exports.GetExport(r.Context(), bid, id)
	if err != nil {
		h.logger.Error("get export", "export_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get export")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "export not found")
		return
	}
	if record.Status != model.ExportStatusCompleted {
		writeError(w, http.StatusConflict, fmt.Sprintf("export is %s", record.Status))
		return
	}

	data, err := h.archiver.Fetch(r.Context(), *record)
	if err != nil {
		h.logger.Error("fetch export", "export_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch export")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
