package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/menuboard/internal/model"
)

type stubBusinesses map[int64]model.Business

func (s stubBusinesses) GetBusiness(_ context.Context, id int64) (*model.Business, error) {
	if id == 500 {
		return nil, errors.New("db down")
	}
	b, ok := s[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func TestRequireBusiness(t *testing.T) {
	businesses := stubBusinesses{1: {ID: 1, Name: "Cafe"}}

	var seen int64
	mux := http.NewServeMux()
	mux.Handle("GET /b/{bid}", RequireBusiness(businesses, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = BusinessID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		path string
		want int
	}{
		{"/b/1", http.StatusNoContent},
		{"/b/2", http.StatusNotFound},
		{"/b/abc", http.StatusBadRequest},
		{"/b/500", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
	if seen != 1 {
		t.Errorf("business id in context = %d, want 1", seen)
	}
}

func TestBusinessIDOutsideScope(t *testing.T) {
	if id := BusinessID(context.Background()); id != 0 {
		t.Errorf("BusinessID = %d, want 0", id)
	}
}
