package category

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/dukerupert/menuboard/internal/model"
)

type memRepo struct {
	nextID       int64
	cats         map[int64]model.Category
	failPosition error
	positionSets int
}

func newMemRepo(cats ...model.Category) *memRepo {
	r := &memRepo{cats: make(map[int64]model.Category)}
	for _, c := range cats {
		r.cats[c.ID] = c
		r.nextID = max(r.nextID, c.ID)
	}
	return r
}

func (r *memRepo) ListCategories(_ context.Context, _ int64) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.cats))
	for _, c := range r.cats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) CreateCategory(_ context.Context, businessID int64, in NewCategory) (*model.Category, error) {
	r.nextID++
	c := model.Category{ID: r.nextID, BusinessID: businessID, Name: in.Name, Color: in.Color, Position: in.Position, IsActive: true}
	r.cats[c.ID] = c
	return &c, nil
}

func (r *memRepo) UpdateCategory(_ context.Context, _ int64, id int64, patch model.CategoryPatch) (*model.Category, error) {
	c := r.cats[id]
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	r.cats[id] = c
	return &c, nil
}

func (r *memRepo) DeleteCategory(_ context.Context, _ int64, id int64) error {
	delete(r.cats, id)
	return nil
}

func (r *memRepo) SetPositions(_ context.Context, _ int64, ids []int64) error {
	if r.failPosition != nil {
		return r.failPosition
	}
	r.positionSets++
	for i, id := range ids {
		c := r.cats[id]
		c.Position = i
		r.cats[id] = c
	}
	return nil
}

func (r *memRepo) stored() []model.Category {
	cats, _ := r.ListCategories(context.Background(), 1)
	sort.Slice(cats, func(i, j int) bool { return cats[i].Position < cats[j].Position })
	return cats
}

func testService(repo *memRepo) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func names(cats []model.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func seeded() *memRepo {
	return newMemRepo(
		model.Category{ID: 1, Name: "Appetizers", Position: 0},
		model.Category{ID: 2, Name: "Mains", Position: 1},
		model.Category{ID: 3, Name: "Desserts", Position: 2},
	)
}

func TestCreateAppendsDense(t *testing.T) {
	repo := seeded()
	svc := testService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, 1, "  Drinks ", "", "#00FF00", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Drinks" || c.Position != 3 {
		t.Errorf("created = %+v", c)
	}

	cats, _ := svc.List(ctx, 1)
	if !Dense(cats) {
		t.Errorf("positions not dense: %+v", cats)
	}
	if got := names(cats); !equal(got, []string{"Appetizers", "Mains", "Desserts", "Drinks"}) {
		t.Errorf("order = %v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := testService(seeded())
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "   ", "", "", ""); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank name: got %v", err)
	}
	if _, err := svc.Create(ctx, 1, "Drinks", "", "green", ""); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("bad color: got %v", err)
	}
}

func TestListRepairsGaps(t *testing.T) {
	repo := newMemRepo(
		model.Category{ID: 1, Name: "A", Position: 4},
		model.Category{ID: 2, Name: "B", Position: 9},
		model.Category{ID: 3, Name: "C", Position: 4},
	)
	svc := testService(repo)

	cats, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := names(cats); !equal(got, []string{"A", "C", "B"}) {
		t.Errorf("order = %v", got)
	}
	if !Dense(repo.stored()) {
		t.Error("repaired positions were not persisted")
	}
}

func TestDeleteRenumbers(t *testing.T) {
	repo := seeded()
	svc := testService(repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, 1, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	cats, _ := svc.Cached(1)
	if got := names(cats); !equal(got, []string{"Mains", "Desserts"}) {
		t.Errorf("order = %v", got)
	}
	if !Dense(cats) || !Dense(repo.stored()) {
		t.Error("positions not dense after delete")
	}

	if err := svc.Delete(ctx, 1, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		dir  Direction
		want []string
	}{
		{"down", 1, Down, []string{"Mains", "Appetizers", "Desserts"}},
		{"up", 3, Up, []string{"Appetizers", "Desserts", "Mains"}},
		{"first up", 1, Up, []string{"Appetizers", "Mains", "Desserts"}},
		{"last down", 3, Down, []string{"Appetizers", "Mains", "Desserts"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := seeded()
			svc := testService(repo)

			got, err := svc.Move(context.Background(), 1, tt.id, tt.dir)
			if err != nil {
				t.Fatalf("Move: %v", err)
			}
			if !equal(names(got), tt.want) {
				t.Errorf("order = %v, want %v", names(got), tt.want)
			}
			if !Dense(got) {
				t.Error("positions not dense")
			}
			if !equal(names(repo.stored()), tt.want) {
				t.Errorf("stored order = %v", names(repo.stored()))
			}
		})
	}
}

func TestMoveRollsBackOnFailure(t *testing.T) {
	repo := seeded()
	svc := testService(repo)
	ctx := context.Background()

	if _, err := svc.List(ctx, 1); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("disk full")
	repo.failPosition = boom

	if _, err := svc.Move(ctx, 1, 1, Down); !errors.Is(err, boom) {
		t.Fatalf("Move error = %v, want %v", err, boom)
	}
	cats, _ := svc.Cached(1)
	if got := names(cats); !equal(got, []string{"Appetizers", "Mains", "Desserts"}) {
		t.Errorf("cache not rolled back: %v", got)
	}
	if !Dense(cats) {
		t.Error("rolled back positions not dense")
	}
}

func TestMoveErrors(t *testing.T) {
	svc := testService(seeded())
	ctx := context.Background()

	if _, err := svc.Move(ctx, 1, 42, Up); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
	if _, err := svc.Move(ctx, 1, 1, Direction("sideways")); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("bad direction: got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	svc := testService(seeded())
	ctx := context.Background()

	name := " Starters "
	c, err := svc.Update(ctx, 1, 1, model.CategoryPatch{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if c.Name != "Starters" {
		t.Errorf("name = %q", c.Name)
	}
	cats, _ := svc.Cached(1)
	if cats[0].Name != "Starters" {
		t.Errorf("cache not updated: %v", names(cats))
	}

	blank := ""
	if _, err := svc.Update(ctx, 1, 1, model.CategoryPatch{Name: &blank}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank name: got %v", err)
	}
	if _, err := svc.Update(ctx, 1, 99, model.CategoryPatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection(" UP "); err != nil || d != Up {
		t.Errorf("ParseDirection(UP) = %q, %v", d, err)
	}
	if _, err := ParseDirection("left"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("ParseDirection(left) err = %v", err)
	}
}
