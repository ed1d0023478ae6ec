package token

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tallybook/tallybook/internal/platform/httpx"
	"github.com/tallybook/tallybook/internal/shared"
)

// Middleware authenticates requests carrying a bearer session token.
type Middleware struct {
	logger  *slog.Logger
	service *Service
}

// NewMiddleware constructs a Middleware instance.
func NewMiddleware(logger *slog.Logger, service *Service) *Middleware {
	return &Middleware{logger: logger, service: service}
}

// RequireAccount validates the Authorization header and stores the account id
// in the request context. Expired and forged tokens are distinguished only in
// logs; the caller always receives the same unauthorized response.
func (m *Middleware) RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			httpx.RespondError(w, shared.ErrInvalidSignature)
			return
		}
		accountID, err := m.service.Validate(raw)
		if err != nil {
			if m.logger != nil {
				m.logger.Info("token rejected", slog.String("path", r.URL.Path), slog.Any("reason", err))
			}
			httpx.RespondError(w, err)
			return
		}
		ctx := shared.ContextWithAccountID(r.Context(), accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
