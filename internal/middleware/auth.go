package middleware

import (
	"net/http"

	"github.com/2beens/wellnesstracker/internal/telemetry/tracing"
	"github.com/2beens/wellnesstracker/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// EntryTokenHeader carries the shared secret of the entry forms.
const EntryTokenHeader = "X-Wellness-Token"

// AuthMiddlewareHandler lets every read through and guards the entry
// (write) endpoints with a bcrypt-hashed shared token.
type AuthMiddlewareHandler struct {
	entryTokenHash string
	protected      map[string]bool
}

func NewAuthMiddlewareHandler(entryTokenHash string, protectedPaths ...string) *AuthMiddlewareHandler {
	protected := make(map[string]bool, len(protectedPaths))
	for _, p := range protectedPaths {
		protected[p] = true
	}
	return &AuthMiddlewareHandler{
		entryTokenHash: entryTokenHash,
		protected:      protected,
	}
}

func (h *AuthMiddlewareHandler) needsToken(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		return false
	}
	return h.protected[r.URL.Path]
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if !h.needsToken(r) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if h.entryTokenHash == "" {
				log.Errorf("[auth middleware] entry token not configured, rejecting %s", r.URL.Path)
				http.Error(w, "entries disabled", http.StatusServiceUnavailable)
				span.SetStatus(codes.Error, "token-not-configured")
				return
			}

			token := r.Header.Get(EntryTokenHeader)
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			if !pkg.CheckSecretHash(token, h.entryTokenHash) {
				log.Warnf("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
