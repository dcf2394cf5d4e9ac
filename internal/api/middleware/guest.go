package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/bullscows/internal/api/apierr"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/services/guest"
)

type contextKey string

const guestContextKey contextKey = "guest"

// GuestHeader carries the caller's guest id
const GuestHeader = "X-Guest-ID"

// Guest resolves the X-Guest-ID header into the request context.
// Requests without the header pass through; an unknown id is rejected.
func Guest(guestService guest.ServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(GuestHeader))
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			g, err := guestService.Get(r.Context(), model.GuestID(id))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), guestContextKey, g)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetGuest returns the guest resolved for the request, or nil
func GetGuest(ctx context.Context) *model.Guest {
	g, _ := ctx.Value(guestContextKey).(*model.Guest)
	return g
}

// Username returns explicit when set, otherwise the request's guest id
func Username(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if g := GetGuest(ctx); g != nil {
		return string(g.ID)
	}
	return ""
}
