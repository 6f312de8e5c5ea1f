package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LoggingMiddleware logs every request with its method, path and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("Request handled")
	})
}
