package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hpnchanel/todoapi/internal/auth"
	"github.com/hpnchanel/todoapi/internal/model"
)

// AuthHeader carries the session token on requests and responses.
const AuthHeader = "x-auth"

// TokenResolver resolves a session token to the user owning it.
type TokenResolver interface {
	FindByToken(ctx context.Context, token string) (*model.User, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Resolver TokenResolver
	// ErrAuth is the resolver's error for rejected tokens. Any other
	// resolver error is logged as an internal failure.
	ErrAuth error
}

// Authenticate returns a middleware that requires a valid session token in
// the x-auth header. Rejected requests get 401 with an empty body; accepted
// ones carry the resolved user and raw token in their context.
func Authenticate(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AuthHeader)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := cfg.Resolver.FindByToken(r.Context(), token)
			if err != nil {
				if cfg.ErrAuth != nil && !errors.Is(err, cfg.ErrAuth) {
					cfg.Logger.Error("token resolution failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				} else {
					cfg.Logger.Warn("authentication failed",
						slog.String("reason", "invalid_token"),
						slog.String("ip", r.RemoteAddr),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("user_id", user.ID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithIdentity(r.Context(), &auth.Identity{User: user, Token: token})
			annotateUser(ctx, auth.UserIDFromContext(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
