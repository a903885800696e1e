package app

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/internal/config"
	"github.com/thewell/wellcal/internal/rest"
	"github.com/thewell/wellcal/pkg/device"
)

const deviceCookieMaxAge = 365 * 24 * 60 * 60

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {
	r.Use(requestLogger)
	if deps.RateLimiter != nil {
		r.Use(rateLimit(deps))
	}
	r.Use(deviceIdentity)
}

// WithCORS wraps the router so browser front ends on the configured origins can call the API.
func WithCORS(handler http.Handler, cfg config.Application) http.Handler {
	origins := cfg.Frontend.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", device.HeaderName},
		AllowCredentials: true,
	}).Handler(handler)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request handled")
	})
}

// deviceIdentity puts the calling device into the context. The id comes from the
// X-Device-Id header, else the device cookie; without either a new id is issued as cookie.
func deviceIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(device.HeaderName)
		if id == "" {
			if cookie, err := r.Cookie(device.CookieName); err == nil {
				id = cookie.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     device.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   deviceCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			log.Debugf("issued new device id %s", id)
		}
		next.ServeHTTP(w, r.WithContext(device.WithId(r.Context(), id)))
	})
}

// rateLimit throttles mutating requests per remote host. Device ids are chosen by the
// client, so they do not key the limiter.
func rateLimit(deps *Dependencies) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			key := remoteHost(r)
			if !deps.RateLimiter.Allow(key) {
				log.Debugf("rate limit exceeded for %s", key)
				rest.WriteError(w, http.StatusTooManyRequests, "Too many requests", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
