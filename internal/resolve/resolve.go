// Package resolve decides which category an item or section is effectively
// placed under.
//
// The rule, for any reference:
//
//  1. a concrete id matching a live category resolves to that category;
//  2. anything else (absent, "uncategorized", stale id) resolves to the first
//     live category in position order;
//  3. with no categories at all nothing resolves and callers use the
//     "Other Items" bucket.
package resolve

import (
	"sort"

	"github.com/dukerupert/menuboard/internal/model"
)

// OtherItemsLabel names the bucket for items that resolve to no category.
const OtherItemsLabel = "Other Items"

// Resolver is an immutable index over one business's categories.
type Resolver struct {
	ordered []model.Category
	byID    map[int64]int
}

// New indexes categories. The input order does not matter; position order
// (ties broken by id) is derived here.
func New(categories []model.Category) *Resolver {
	ordered := make([]model.Category, len(categories))
	copy(ordered, categories)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].ID < ordered[j].ID
	})
	byID := make(map[int64]int, len(ordered))
	for i, c := range ordered {
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = i
		}
	}
	return &Resolver{ordered: ordered, byID: byID}
}

// Ordered returns the categories in position order.
func (r *Resolver) Ordered() []model.Category {
	out := make([]model.Category, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// First returns the first category in position order.
func (r *Resolver) First() (model.Category, bool) {
	if len(r.ordered) == 0 {
		return model.Category{}, false
	}
	return r.ordered[0], true
}

// Resolve returns the effective category for ref. ok is false only when the
// business has no categories at all.
func (r *Resolver) Resolve(ref model.CategoryRef) (model.Category, bool) {
	switch ref.Kind() {
	case model.RefResolved:
		id, _ := ref.ID()
		if i, ok := r.byID[id]; ok {
			return r.ordered[i], true
		}
		return r.First()
	case model.RefSentinel, model.RefAbsent:
		return r.First()
	}
	return r.First()
}

// Item returns the effective category of item.
func (r *Resolver) Item(item model.CatalogItem) (model.Category, bool) {
	return r.Resolve(item.CategoryID)
}

// EffectiveID returns the effective category id of item, or nil for the
// "Other Items" bucket.
func (r *Resolver) EffectiveID(item model.CatalogItem) *int64 {
	c, ok := r.Item(item)
	if !ok {
		return nil
	}
	id := c.ID
	return &id
}

// Category is a one-shot form of New(categories).Resolve(ref).
func Category(ref model.CategoryRef, categories []model.Category) (model.Category, bool) {
	return New(categories).Resolve(ref)
}
