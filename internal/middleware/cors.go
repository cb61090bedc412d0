package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var DefaultAllowedOrigins = []string{
	"http://localhost:8080",
	"http://localhost:5173",
}

var allowedUserAgentPrefixes = []string{
	"curl/",
	"wellnessctl/",
	"test-agent",
}

// Cors allows the listed origins, plus requests with no Origin from known
// command line clients.
func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !allowed[origin] && !(origin == "" && knownAgent(r.Header.Get("User-Agent"))) {
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Headers",
				"Accept, Content-Type, Content-Length, Accept-Encoding, "+EntryTokenHeader,
			)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

			next.ServeHTTP(w, r)
		})
	}
}

func knownAgent(userAgent string) bool {
	for _, prefix := range allowedUserAgentPrefixes {
		if strings.HasPrefix(userAgent, prefix) {
			return true
		}
	}
	return false
}
