package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/menuboard/internal/editor"
	"github.com/dukerupert/menuboard/internal/middleware"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/preview"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/theme"
	"github.com/dukerupert/menuboard/internal/websocket"
)

// EditorHandler runs one editing session per websocket connection. Every
// committed change is answered with a fresh preview of the draft.
type EditorHandler struct {
	hub      *websocket.Hub
	layouts  *store.LayoutStore
	loader   *preview.Loader
	debounce time.Duration
	logger   *slog.Logger
}

func NewEditorHandler(hub *websocket.Hub, ls *store.LayoutStore, loader *preview.Loader, debounce time.Duration, logger *slog.Logger) *EditorHandler {
	return &EditorHandler{hub: hub, layouts: ls, loader: loader, debounce: debounce, logger: logger}
}

// editorCommand is an inbound frame. Value is a color string for set_color,
// an integer for set_value and a family name for set_font_family.
type editorCommand struct {
	Type   string              `json:"type"`
	Field  string              `json:"field,omitempty"`
	Value  json.RawMessage     `json:"value,omitempty"`
	Preset string              `json:"preset,omitempty"`
	Scope  string              `json:"scope,omitempty"`
	Config *model.LayoutConfig `json:"config,omitempty"`
}

type previewPayload struct {
	Config model.LayoutConfig `json:"config"`
	Tree   preview.Tree       `json:"tree"`
}

func (h *EditorHandler) Serve(w http.ResponseWriter, r *http.Request) {
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

	conn, err := websocket.Accept(w, r)
	if err != nil {
		h.logger.Warn("editor accept", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	logger := h.logger.With("business_id", bid, "menu", menu)

	var client *websocket.Client
	session := editor.New(bid, menu, cfg, h.layouts, h.debounce, func(draft model.LayoutConfig) {
		h.pushPreview(ctx, client, draft, logger)
	}, logger)
	defer session.Close()

	client = websocket.NewClient(h.hub, conn, bid, func(ctx context.Context, c *websocket.Client, data []byte) {
		h.handle(ctx, c, session, menu, data)
	})

	logger.Info("editor session opened")
	h.hub.Register(client)
	h.pushPreview(ctx, client, session.Draft(), logger)
	client.Run(ctx)
	logger.Info("editor session closed", "pending_discarded", session.Pending())
}

func (h *EditorHandler) handle(ctx context.Context, c *websocket.Client, session *editor.Editor, menu string, data []byte) {
	var cmd editorCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		sendError(c, "invalid JSON")
		return
	}

	var err error
	switch cmd.Type {
	case "set_color":
		var color string
		if err = decodeValue(cmd.Value, &color); err == nil {
			err = session.SetColor(cmd.Field, color)
		}
	case "set_value":
		var n int
		if err = decodeValue(cmd.Value, &n); err == nil {
			err = session.SetValue(cmd.Field, n)
		}
	case "set_font_family":
		var family string
		if err = decodeValue(cmd.Value, &family); err == nil {
			err = session.SetFontFamily(family)
		}
	case "select_preset":
		err = session.SelectPreset(cmd.Preset)
	case "set_layout":
		if cmd.Config == nil {
			err = fmt.Errorf("%w: config is required", editor.ErrInvalidValue)
			break
		}
		err = session.Replace(*cmd.Config)
	case "save":
		scope, ok := theme.ParseScope(cmd.Scope)
		if !ok {
			sendError(c, "scope must be default, headers, colors or all")
			return
		}
		saved, serr := session.Save(ctx, scope)
		if serr != nil {
			err = serr
			break
		}
		c.Send(websocket.Message{Type: "saved", BusinessID: c.BusinessID(), Menu: menu, Data: saved})
		h.hub.Broadcast(websocket.NewMessage(c.BusinessID(), "layout", "saved", "").WithMenu(menu))
		return
	default:
		sendError(c, "unknown message type "+cmd.Type)
		return
	}
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError && !errors.Is(err, editor.ErrClosed) {
			h.logger.Error("editor command", "type", cmd.Type, "error", err)
		} else {
			h.logger.Debug("editor command rejected", "type", cmd.Type, "error", err)
		}
		sendError(c, err.Error())
	}
}

func (h *EditorHandler) pushPreview(ctx context.Context, c *websocket.Client, draft model.LayoutConfig, logger *slog.Logger) {
	in, err := h.loader.LoadWith(ctx, c.BusinessID(), draft)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("load preview inputs", "error", err)
		}
		return
	}
	c.Send(websocket.Message{
		Type:       "preview",
		BusinessID: c.BusinessID(),
		Menu:       draft.SelectedMenu,
		Data:       previewPayload{Config: draft, Tree: in.Render()},
	})
}

func decodeValue(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", editor.ErrInvalidValue, err)
	}
	return nil
}

func sendError(c *websocket.Client, msg string) {
	c.Send(websocket.Message{Type: "error", BusinessID: c.BusinessID(), Data: map[string]string{"error": msg}})
}
