package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/menuboard/internal/model"
)

type businessKey struct{}

// BusinessGetter returns nil, nil for an unknown business.
type BusinessGetter interface {
	GetBusiness(ctx context.Context, id int64) (*model.Business, error)
}

// RequireBusiness resolves the {bid} path value to a business and stores it
// on the request context. Unknown businesses get 404. It must wrap a handler
// registered on a pattern that declares {bid}.
func RequireBusiness(businesses BusinessGetter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(r.PathValue("bid"), 10, 64)
			if err != nil || id <= 0 {
				writeError(w, http.StatusBadRequest, "invalid business id")
				return
			}
			b, err := businesses.GetBusiness(r.Context(), id)
			if err != nil {
				logger.Error("load business", "business_id", id, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to load business")
				return
			}
			if b == nil {
				writeError(w, http.StatusNotFound, "business not found")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithBusiness(r.Context(), *b)))
		})
	}
}

func WithBusiness(ctx context.Context, b model.Business) context.Context {
	return context.WithValue(ctx, businessKey{}, b)
}

func BusinessFrom(ctx context.Context) (model.Business, bool) {
	b, ok := ctx.Value(businessKey{}).(model.Business)
	return b, ok
}

// BusinessID returns the scoped business id, or 0 outside RequireBusiness.
func BusinessID(ctx context.Context) int64 {
	b, _ := BusinessFrom(ctx)
	return b.ID
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
