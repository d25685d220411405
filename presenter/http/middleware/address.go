package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omni/timeout-syncer/felt"
	"github.com/omni/timeout-syncer/presenter/http/render"
)

type ctxKey int

const (
	eventAddressCtxKey ctxKey = iota
)

// GetEventAddressMiddleware stores the address url parameter in the zero-padded lowercase form used by the events table.
func GetEventAddressMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		address := chi.URLParam(r, "address")

		normalized, err := felt.Felt(address).FixedHex()
		if err != nil {
			render.JSON(w, r, http.StatusBadRequest, fmt.Sprintf("invalid event address %s", address))
			return
		}

		ctx := context.WithValue(r.Context(), eventAddressCtxKey, normalized)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func EventAddress(ctx context.Context) string {
	if address, ok := ctx.Value(eventAddressCtxKey).(string); ok {
		return address
	}
	return ""
}
