package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/menuboard/internal/category"
	"github.com/dukerupert/menuboard/internal/export"
	"github.com/dukerupert/menuboard/internal/handler"
	"github.com/dukerupert/menuboard/internal/middleware"
	"github.com/dukerupert/menuboard/internal/preview"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/version"
	ws "github.com/dukerupert/menuboard/internal/websocket"
)

// Options carries the runtime settings the server needs beyond the database.
type Options struct {
	Debounce         time.Duration
	PreviewRateLimit int
	Export           export.S3Config
}

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	businessStore  *store.BusinessStore
	businessH      *handler.BusinessHandler
	categoryH      *handler.CategoryHandler
	itemH          *handler.ItemHandler
	layoutH        *handler.LayoutHandler
	previewH       *handler.PreviewHandler
	versionH       *handler.VersionHandler
	editorH        *handler.EditorHandler
	previewLimiter *middleware.RateLimiter
	archiver       *export.Archiver
	logger         *slog.Logger
}

func New(db *sql.DB, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	businessStore := store.NewBusinessStore(db)
	categoryStore := store.NewCategoryStore(db)
	itemStore := store.NewItemStore(db)
	layoutStore := store.NewLayoutStore(db)
	versionStore := store.NewVersionStore(db)
	exportStore := store.NewExportStore(db)

	categorySvc := category.NewService(categoryStore, logger.With("component", "category"))
	versionSvc := version.NewService(versionStore, layoutStore, itemStore, logger.With("component", "version"))
	loader := preview.NewLoader(layoutStore, itemStore, categoryStore, businessStore)

	archiver := export.NewArchiver(opts.Export, exportStore, func(s export.Status) {
		if s.BusinessID == 0 {
			return
		}
		hub.Broadcast(ws.Message{
			Type:       "export_status",
			Entity:     "export",
			Action:     string(s.State),
			BusinessID: s.BusinessID,
			Data: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	}, logger.With("component", "export"))

	return &Server{
		db:             db,
		hub:            hub,
		businessStore:  businessStore,
		businessH:      handler.NewBusinessHandler(businessStore, hub, logger.With("component", "business")),
		categoryH:      handler.NewCategoryHandler(categorySvc, hub, logger.With("component", "category")),
		itemH:          handler.NewItemHandler(itemStore, categoryStore, hub, logger.With("component", "item")),
		layoutH:        handler.NewLayoutHandler(layoutStore, hub, logger.With("component", "layout")),
		previewH:       handler.NewPreviewHandler(loader, logger.With("component", "preview")),
		versionH:       handler.NewVersionHandler(versionSvc, layoutStore, exportStore, archiver, hub, logger.With("component", "version")),
		editorH:        handler.NewEditorHandler(hub, layoutStore, loader, opts.Debounce, logger.With("component", "editor")),
		previewLimiter: middleware.NewRateLimiter(opts.PreviewRateLimit, time.Minute),
		archiver:       archiver,
		logger:         logger,
	}
}

// Hub returns the broadcast hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Archiver returns the export archiver.
func (s *Server) Archiver() *export.Archiver {
	return s.archiver
}

// Start runs background maintenance until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go s.previewLimiter.Run(ctx)
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
	mux.HandleFunc("GET /api/themes/presets", s.layoutH.Presets)
	mux.HandleFunc("GET /api/businesses", s.businessH.List)
	mux.HandleFunc("POST /api/businesses", s.businessH.Create)

	s.registerBusinessRoutes(mux)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"clients": s.hub.ClientCount(),
		"export":  s.archiver.Status(),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.previewLimiter, middleware.RealIP)(h)
}

// registerBusinessRoutes mounts everything under /api/businesses/{bid}.
// Each route resolves the business before the handler runs.
func (s *Server) registerBusinessRoutes(mux *http.ServeMux) {
	scoped := middleware.RequireBusiness(s.businessStore, s.logger.With("component", "http"))
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, scoped(h))
	}
	const base = "/api/businesses/{bid}"

	handle("GET "+base, http.HandlerFunc(s.businessH.Get))
	handle("PUT "+base, http.HandlerFunc(s.businessH.Update))

	// Categories
	handle("GET "+base+"/categories", http.HandlerFunc(s.categoryH.List))
	handle("POST "+base+"/categories", http.HandlerFunc(s.categoryH.Create))
	handle("PUT "+base+"/categories/{id}", http.HandlerFunc(s.categoryH.Update))
	handle("DELETE "+base+"/categories/{id}", http.HandlerFunc(s.categoryH.Delete))
	handle("POST "+base+"/categories/{id}/move", http.HandlerFunc(s.categoryH.Move))

	// Items
	handle("GET "+base+"/items", http.HandlerFunc(s.itemH.List))
	handle("POST "+base+"/items", http.HandlerFunc(s.itemH.Create))
	handle("PUT "+base+"/items/{id}", http.HandlerFunc(s.itemH.Update))
	handle("DELETE "+base+"/items/{id}", http.HandlerFunc(s.itemH.Delete))
	handle("GET "+base+"/menus", http.HandlerFunc(s.itemH.Menus))

	// Layout and theme
	handle("GET "+base+"/menus/{menu}/layout", http.HandlerFunc(s.layoutH.Get))
	handle("PUT "+base+"/menus/{menu}/layout", http.HandlerFunc(s.layoutH.Put))
	handle("POST "+base+"/menus/{menu}/layout/theme", http.HandlerFunc(s.layoutH.ApplyTheme))
	handle("GET "+base+"/themes/presets", http.HandlerFunc(s.layoutH.Presets))

	// Preview
	handle("GET "+base+"/menus/{menu}/preview", s.rateLimitedHandler(s.previewH.Get))

	// Versions
	handle("GET "+base+"/menus/{menu}/versions", http.HandlerFunc(s.versionH.List))
	handle("POST "+base+"/menus/{menu}/versions", http.HandlerFunc(s.versionH.Save))
	handle("GET "+base+"/menus/{menu}/versions/published", http.HandlerFunc(s.versionH.Published))
	handle("POST "+base+"/menus/{menu}/versions/{id}/publish", http.HandlerFunc(s.versionH.Publish))
	handle("POST "+base+"/menus/{menu}/versions/{id}/revert", http.HandlerFunc(s.versionH.Revert))
	handle("GET "+base+"/menus/{menu}/versions/{id}/export", http.HandlerFunc(s.versionH.Export))
	handle("POST "+base+"/menus/{menu}/versions/{id}/archive", http.HandlerFunc(s.versionH.Archive))
	handle("GET "+base+"/menus/{menu}/versions/{id}/exports", http.HandlerFunc(s.versionH.Exports))
	handle("GET "+base+"/exports/{id}", http.HandlerFunc(s.versionH.Download))

	// Live editing
	handle("GET "+base+"/menus/{menu}/editor", http.HandlerFunc(s.editorH.Serve))
}
