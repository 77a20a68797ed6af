package middleware

import (
	"context"
	"net/http"
	"strconv"
)

type identityKey string

const (
	callerIDKey   identityKey = "callerID"
	privilegedKey identityKey = "privileged"
)

// Identity reads the caller identity headers written by the upstream
// auth collaborator. This service does not authenticate; it only surfaces
// who the gateway says is calling so the domain layer can check ownership.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if raw := r.Header.Get("X-Employee-ID"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				ctx = context.WithValue(ctx, callerIDKey, id)
			}
		}

		role := r.Header.Get("X-Employee-Role")
		if role == "manager" || role == "admin" {
			ctx = context.WithValue(ctx, privilegedKey, true)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func CallerID(ctx context.Context) int64 {
	if id, ok := ctx.Value(callerIDKey).(int64); ok {
		return id
	}
	return 0
}

func IsPrivileged(ctx context.Context) bool {
	if p, ok := ctx.Value(privilegedKey).(bool); ok {
		return p
	}
	return false
}
