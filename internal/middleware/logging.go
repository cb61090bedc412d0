package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// LogRequest traces every request. Entry posts are logged at debug, since
// they are the only calls that change the sheets.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := log.WithFields(log.Fields{
				"route":  routeName(r),
				"method": r.Method,
				"query":  r.URL.RawQuery,
				"ua":     r.Header.Get("User-Agent"),
			})
			if r.Method == http.MethodPost {
				entry.Debugf(" ====> entry %s", r.URL.Path)
			} else {
				entry.Trace(" ====> request")
			}
			next.ServeHTTP(w, r)
		})
	}
}
