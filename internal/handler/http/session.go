package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dukahub/storefront/internal/auth"
	"github.com/dukahub/storefront/pkg/logger"
)

// SessionHeader carries the signed session token on requests and responses.
// Clients echo it back on every call; a missing or invalid token silently
// starts a fresh session.
const SessionHeader = "X-Session-ID"

type sessionCtxKey struct{}

// SessionID returns the session id bound to the request context.
func SessionID(ctx context.Context) string {
	if sid, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return sid
	}
	return ""
}

// SessionMiddleware resolves or mints the storefront session for every
// request and echoes the signed token back in the response header.
type SessionMiddleware struct {
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewSessionMiddleware creates the session middleware.
func NewSessionMiddleware(tokens *auth.TokenManager, l *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, logger: l}
}

// Handler attaches the session id to the request context.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string

		if raw := r.Header.Get(SessionHeader); raw != "" {
			if claims, err := m.tokens.Parse(raw); err == nil {
				sessionID = claims.SessionID
				w.Header().Set(SessionHeader, raw)
			}
		}

		if sessionID == "" {
			sessionID = uuid.New().String()
			token, err := m.tokens.Issue(sessionID)
			if err != nil {
				m.logger.ErrorContext(r.Context(), "failed to issue session token",
					slog.String("error", err.Error()),
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			w.Header().Set(SessionHeader, token)
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sessionID)
		ctx = logger.WithSessionID(ctx, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
