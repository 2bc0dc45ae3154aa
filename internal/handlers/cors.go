package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

func (h *Handler) allowedOrigins() []string {
	if h.cfg != nil && len(h.cfg.CORS.AllowedOrigins) > 0 {
		return h.cfg.CORS.AllowedOrigins
	}
	return defaultAllowedOrigins
}

// corsMiddleware applies the single origin allow-list to every route.
func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     h.allowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// originAllowed reports whether a WebSocket handshake may proceed. Requests
// without an Origin header come from non-browser clients.
func (h *Handler) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.allowedOrigins() {
		if o == origin {
			return true
		}
	}
	return false
}
