package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
}

// CORS returns middleware that applies the storefront's allowed origin policy.
// The cart session header is both accepted and exposed so browsers can keep it.
func CORS(origins []string, sessionHeader string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	allowed := []string{"Accept", "Content-Type", "X-Request-Id", "X-Requested-With"}
	exposed := []string{"X-Request-Id"}
	if sessionHeader != "" {
		allowed = append(allowed, sessionHeader)
		exposed = append(exposed, sessionHeader)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   allowed,
		ExposedHeaders:   exposed,
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
