// Package editor holds the per-connection draft of a menu's layout while it
// is being customized.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/menuboard/internal/layout"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/theme"
)

var (
	ErrUnknownField  = errors.New("unknown theme field")
	ErrInvalidValue  = errors.New("invalid theme value")
	ErrUnknownPreset = errors.New("unknown theme preset")
	ErrClosed        = errors.New("editing session closed")
)

// Saver persists a finished draft.
type Saver interface {
	SaveLayoutConfig(ctx context.Context, businessID int64, menuName string, cfg model.LayoutConfig) error
}

// ChangeFunc receives a copy of the draft after every committed change.
type ChangeFunc func(model.LayoutConfig)

var colorFields = map[string]func(*model.Theme, string){
	"bg_color":      func(t *model.Theme, v string) { t.BgColor = v },
	"card_color":    func(t *model.Theme, v string) { t.CardColor = v },
	"text_color":    func(t *model.Theme, v string) { t.TextColor = v },
	"primary_color": func(t *model.Theme, v string) { t.PrimaryColor = v },
}

var valueFields = map[string]func(*model.Theme, int){
	"card_elevation": func(t *model.Theme, v int) { t.CardElevation = v },
	"border_radius":  func(t *model.Theme, v int) { t.BorderRadius = v },
	"font_size_base": func(t *model.Theme, v int) { t.FontSizeBase = v },
	"spacing_unit":   func(t *model.Theme, v int) { t.SpacingUnit = v },
}

// Editor is one editing session. Color edits are coalesced per field;
// everything else commits immediately. Close cancels any edit still waiting.
type Editor struct {
	businessID int64
	menuName   string
	saver      Saver
	onChange   ChangeFunc
	logger     *slog.Logger
	debounce   *theme.Debouncer

	mu     sync.Mutex
	draft  model.LayoutConfig
	closed bool
	// replaced counts Replace calls; Save uses it to tell whether the
	// sections it stamped are still the draft's sections.
	replaced uint64
	inflight sync.WaitGroup
}

func New(businessID int64, menuName string, cfg model.LayoutConfig, saver Saver, delay time.Duration, onChange ChangeFunc, logger *slog.Logger) *Editor {
	return &Editor{
		businessID: businessID,
		menuName:   menuName,
		saver:      saver,
		onChange:   onChange,
		logger:     logger,
		debounce:   theme.NewDebouncer(delay),
		draft:      layout.Normalize(cfg, menuName),
	}
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() model.LayoutConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// Pending reports how many color edits are waiting on their timer.
func (e *Editor) Pending() int {
	return e.debounce.Pending()
}

// SetColor schedules a color edit. A newer edit to the same field before the
// delay elapses replaces this one.
func (e *Editor) SetColor(field, value string) error {
	set, ok := colorFields[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if !theme.IsColor(value) {
		return fmt.Errorf("%w: %s %q is not a hex color", ErrInvalidValue, field, value)
	}
	if e.isClosed() {
		return ErrClosed
	}
	e.debounce.Do(field, func() {
		e.commit(func(t *model.Theme) error {
			set(t, value)
			return nil
		})
	})
	return nil
}

// SetValue commits a slider value.
func (e *Editor) SetValue(field string, value int) error {
	set, ok := valueFields[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return e.commit(func(t *model.Theme) error {
		next := *t
		set(&next, value)
		if err := theme.Validate(next); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		*t = next
		return nil
	})
}

func (e *Editor) SetFontFamily(family string) error {
	if family == "" {
		return fmt.Errorf("%w: font_family is empty", ErrInvalidValue)
	}
	return e.commit(func(t *model.Theme) error {
		t.FontFamily = family
		return nil
	})
}

// SelectPreset replaces the draft theme with a named preset. Color edits
// still waiting on their timer are dropped so they cannot overwrite it.
func (e *Editor) SelectPreset(name string) error {
	preset, ok := theme.ByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	for field := range colorFields {
		e.debounce.Cancel(field)
	}
	return e.commit(func(t *model.Theme) error {
		*t = preset
		return nil
	})
}

// Replace swaps in a whole new draft, e.g. after sections were rearranged.
func (e *Editor) Replace(cfg model.LayoutConfig) error {
	cfg = layout.Normalize(cfg, e.menuName)
	if err := layout.Validate(cfg); err != nil {
		return err
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.draft = cfg
	e.replaced++
	snapshot := e.draft.Clone()
	e.inflight.Add(1)
	e.mu.Unlock()

	e.notify(snapshot)
	return nil
}

// Save flushes pending color edits, stamps the theme onto the sections
// delegated by scope and persists the result. The draft is only updated
// when persistence succeeds, and then only its sections: theme edits that
// commit while the save is in flight stay in the draft for the next save.
func (e *Editor) Save(ctx context.Context, scope theme.Scope) (model.LayoutConfig, error) {
	e.debounce.Flush()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return model.LayoutConfig{}, ErrClosed
	}
	cfg := theme.ApplyToConfig(e.draft, e.draft.Theme, scope)
	replaced := e.replaced
	e.mu.Unlock()

	if err := layout.Validate(cfg); err != nil {
		return model.LayoutConfig{}, err
	}
	if err := e.saver.SaveLayoutConfig(ctx, e.businessID, e.menuName, cfg); err != nil {
		return model.LayoutConfig{}, fmt.Errorf("save theme with layout: %w", err)
	}

	e.mu.Lock()
	if e.replaced == replaced {
		e.draft.Sections = cfg.Clone().Sections
	}
	e.mu.Unlock()

	e.logger.Info("layout saved", "business_id", e.businessID, "menu", e.menuName)
	return cfg, nil
}

// Close ends the session. Pending edits are discarded, never committed, and
// no change is reported once Close returns.
func (e *Editor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.debounce.Stop()
	e.inflight.Wait()
}

func (e *Editor) commit(apply func(*model.Theme) error) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if err := apply(&e.draft.Theme); err != nil {
		e.mu.Unlock()
		return err
	}
	snapshot := e.draft.Clone()
	e.inflight.Add(1)
	e.mu.Unlock()

	e.notify(snapshot)
	return nil
}

func (e *Editor) notify(cfg model.LayoutConfig) {
	defer e.inflight.Done()
	if e.onChange != nil {
		e.onChange(cfg)
	}
}

func (e *Editor) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
