// Package category maintains a business's ordered categories. Positions are
// kept as a dense 0..N-1 sequence after every mutation because rendering
// order depends on them.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/theme"
)

var (
	ErrNameRequired     = errors.New("category name is required")
	ErrInvalidColor     = errors.New("category color must be a hex color")
	ErrNotFound         = errors.New("category not found")
	ErrInvalidDirection = errors.New("direction must be up or down")
)

// Direction is a reorder step.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	}
	return "", ErrInvalidDirection
}

// NewCategory is the payload handed to the persistence collaborator on create.
type NewCategory struct {
	Name        string
	Description string
	Color       string
	Icon        string
	Position    int
}

// Repository is the persistence collaborator. DeleteCategory must leave
// items that referenced the category with no category; it must never delete
// them.
type Repository interface {
	ListCategories(ctx context.Context, businessID int64) ([]model.Category, error)
	CreateCategory(ctx context.Context, businessID int64, in NewCategory) (*model.Category, error)
	UpdateCategory(ctx context.Context, businessID, id int64, patch model.CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, businessID, id int64) error
	SetPositions(ctx context.Context, businessID int64, orderedIDs []int64) error
}

// Service is the editing layer's view of the categories. It caches the
// ordered list per business; the cache changes only after the repository
// call succeeds, except Move, which reorders the cache first and rolls it
// back if persisting fails.
type Service struct {
	repo   Repository
	logger *slog.Logger

	mu    sync.Mutex
	cache map[int64][]model.Category
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		cache:  make(map[int64][]model.Category),
	}
}

// List reloads the categories from the repository, repairing any gaps in
// the stored positions, and returns them in position order.
func (s *Service) List(ctx context.Context, businessID int64) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return clone(cats), nil
}

func (s *Service) Create(ctx context.Context, businessID int64, name, description, color, icon string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	color = strings.TrimSpace(color)
	if color != "" && !theme.IsColor(color) {
		return nil, ErrInvalidColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cats, err := s.current(ctx, businessID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateCategory(ctx, businessID, NewCategory{
		Name:        name,
		Description: strings.TrimSpace(description),
		Color:       color,
		Icon:        strings.TrimSpace(icon),
		Position:    len(cats),
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.cache[businessID] = append(clone(cats), *created)
	return created, nil
}

func (s *Service) Update(ctx context.Context, businessID, id int64, patch model.CategoryPatch) (*model.Category, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		patch.Name = &name
	}
	if patch.Color != nil {
		color := strings.TrimSpace(*patch.Color)
		if color != "" && !theme.IsColor(color) {
			return nil, ErrInvalidColor
		}
		patch.Color = &color
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cats, err := s.current(ctx, businessID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(cats, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	updated, err := s.repo.UpdateCategory(ctx, businessID, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	next := clone(cats)
	next[idx] = *updated
	s.cache[businessID] = next
	return updated, nil
}

// Delete removes the category and renumbers the rest. Items that pointed at
// it keep existing with no category.
func (s *Service) Delete(ctx context.Context, businessID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats, err := s.current(ctx, businessID)
	if err != nil {
		return err
	}
	idx := indexOf(cats, id)
	if idx < 0 {
		return ErrNotFound
	}

	if err := s.repo.DeleteCategory(ctx, businessID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	remaining := make([]model.Category, 0, len(cats)-1)
	remaining = append(remaining, cats[:idx]...)
	remaining = append(remaining, cats[idx+1:]...)
	remaining = renumber(remaining)
	if err := s.repo.SetPositions(ctx, businessID, ids(remaining)); err != nil {
		// The delete went through; force a reload so the cache cannot drift.
		delete(s.cache, businessID)
		return fmt.Errorf("renumber categories: %w", err)
	}
	s.cache[businessID] = remaining
	return nil
}

// Move swaps the category with its neighbour in direction dir. Moving past
// either end is a no-op. The new order is visible immediately and restored
// if the repository rejects it.
func (s *Service) Move(ctx context.Context, businessID, id int64, dir Direction) ([]model.Category, error) {
	if dir != Up && dir != Down {
		return nil, ErrInvalidDirection
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cats, err := s.current(ctx, businessID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(cats, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	other := idx - 1
	if dir == Down {
		other = idx + 1
	}
	if other < 0 || other >= len(cats) {
		return clone(cats), nil
	}

	previous := cats
	next := clone(cats)
	next[idx], next[other] = next[other], next[idx]
	next = renumber(next)
	s.cache[businessID] = next

	if err := s.repo.SetPositions(ctx, businessID, ids(next)); err != nil {
		s.cache[businessID] = previous
		s.logger.Warn("reorder rolled back", "business_id", businessID, "category_id", id, "error", err)
		return nil, fmt.Errorf("reorder categories: %w", err)
	}
	return clone(next), nil
}

// Cached returns the cached ordering without touching the repository.
func (s *Service) Cached(businessID int64) ([]model.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats, ok := s.cache[businessID]
	return clone(cats), ok
}

func (s *Service) current(ctx context.Context, businessID int64) ([]model.Category, error) {
	if cats, ok := s.cache[businessID]; ok {
		return cats, nil
	}
	return s.load(ctx, businessID)
}

func (s *Service) load(ctx context.Context, businessID int64) ([]model.Category, error) {
	cats, err := s.repo.ListCategories(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	cats = clone(cats)
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Position != cats[j].Position {
			return cats[i].Position < cats[j].Position
		}
		return cats[i].ID < cats[j].ID
	})
	if !Dense(cats) {
		cats = renumber(cats)
		if err := s.repo.SetPositions(ctx, businessID, ids(cats)); err != nil {
			return nil, fmt.Errorf("repair category positions: %w", err)
		}
		s.logger.Info("repaired category positions", "business_id", businessID, "count", len(cats))
	}
	s.cache[businessID] = cats
	return cats, nil
}

// Dense reports whether the positions of cats, in slice order, are exactly
// 0..N-1.
func Dense(cats []model.Category) bool {
	for i, c := range cats {
		if c.Position != i {
			return false
		}
	}
	return true
}

func renumber(cats []model.Category) []model.Category {
	for i := range cats {
		cats[i].Position = i
	}
	return cats
}

func ids(cats []model.Category) []int64 {
	out := make([]int64, len(cats))
	for i, c := range cats {
		out[i] = c.ID
	}
	return out
}

func indexOf(cats []model.Category, id int64) int {
	for i, c := range cats {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func clone(cats []model.Category) []model.Category {
	if cats == nil {
		return []model.Category{}
	}
	out := make([]model.Category, len(cats))
	copy(out, cats)
	return out
}
