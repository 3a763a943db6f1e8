package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/skycast/skycast-be/internal/models"
)

type contextKey string

const userContextKey = contextKey("user")

// UserResolver looks up a user by ID. Implemented by the user service.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// RequireUser creates a middleware that resolves the bearer token on a
// request to a user and stores it in the request context. Every failure mode
// (missing or malformed header, bad token, unparseable subject, unknown user)
// produces the same 401 response so the cause cannot be probed from outside.
func RequireUser(tokens *TokenService, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w)
				return
			}

			subject, err := tokens.Verify(parts[1])
			if err != nil {
				unauthorized(w)
				return
			}

			userID, err := uuid.Parse(subject)
			if err != nil {
				log.Debug().Str("subject", subject).Msg("token subject is not a user ID")
				unauthorized(w)
				return
			}

			user, err := users.GetByID(r.Context(), userID.String())
			if err != nil {
				log.Debug().Err(err).Str("user_id", userID.String()).Msg("token subject did not resolve to a user")
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user resolved by RequireUser, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
