package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UncategorizedID is the sentinel category id used by sections and items that
// deliberately point at "whatever comes first".
const UncategorizedID = "uncategorized"

type Category struct {
	ID          int64     `json:"id"`
	BusinessID  int64     `json:"business_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Position    int       `json:"position"`
	IsActive    bool      `json:"is_active"`
	Color       string    `json:"color,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RefKind discriminates CategoryRef.
type RefKind uint8

const (
	RefAbsent RefKind = iota
	RefSentinel
	RefResolved
)

// CategoryRef is a reference from an item or section to a category. It is
// either absent, the "uncategorized" sentinel, or a concrete category id that
// may or may not still exist.
type CategoryRef struct {
	kind RefKind
	id   int64
}

func Absent() CategoryRef           { return CategoryRef{} }
func Sentinel() CategoryRef         { return CategoryRef{kind: RefSentinel} }
func Ref(id int64) CategoryRef      { return CategoryRef{kind: RefResolved, id: id} }
func (r CategoryRef) Kind() RefKind { return r.kind }

// ID returns the referenced id; ok is false unless the ref is RefResolved.
func (r CategoryRef) ID() (int64, bool) {
	return r.id, r.kind == RefResolved
}

func (r CategoryRef) IsAbsent() bool { return r.kind == RefAbsent }

func (r CategoryRef) String() string {
	switch r.kind {
	case RefSentinel:
		return UncategorizedID
	case RefResolved:
		return strconv.FormatInt(r.id, 10)
	default:
		return ""
	}
}

// RefFromPtr maps a nullable database column onto a CategoryRef.
func RefFromPtr(id *int64) CategoryRef {
	if id == nil {
		return Absent()
	}
	return Ref(*id)
}

// Ptr returns the id for storage. Absent and sentinel refs both store as NULL.
func (r CategoryRef) Ptr() *int64 {
	if r.kind != RefResolved {
		return nil
	}
	id := r.id
	return &id
}

func (r CategoryRef) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case RefSentinel:
		return []byte(`"` + UncategorizedID + `"`), nil
	case RefResolved:
		return []byte(strconv.FormatInt(r.id, 10)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, a number, a numeric string, "" and "uncategorized".
func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Absent()
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("category ref: %w", err)
		}
		parsed, err := ParseCategoryRef(s)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("category ref %s: not an integer id", data)
	}
	*r = Ref(id)
	return nil
}

// ParseCategoryRef parses the textual form used in query strings and JSON strings.
func ParseCategoryRef(s string) (CategoryRef, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "null", "undefined":
		return Absent(), nil
	case UncategorizedID:
		return Sentinel(), nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Absent(), fmt.Errorf("category ref %q: not an integer id", s)
	}
	return Ref(id), nil
}

// CategoryPatch is a partial update; nil fields are left unchanged.
// Position is not patchable: ordering changes go through reorder.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
