package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"task_manager/internal/models"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserKey      = "user"
	ctxRequestIDKey = "request_id"
	requestIDHeader = "X-Request-ID"

	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Invalid token"
	msgUserNotFound = "User not found"
)

// authMiddleware resolves the bearer token to a stored user and puts it in
// the context under "user".
func (h *Handler) authMiddleware(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: msgNoToken})
		return
	}

	scheme, token, _ := strings.Cut(header, " ")
	if scheme != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: msgInvalidToken})
		return
	}
	token = strings.TrimSpace(token)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: msgNoToken})
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: msgInvalidToken})
		return
	}

	user, err := h.services.Users.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: msgUserNotFound})
			return
		}
		h.respondError(c, err, "auth_user_lookup_failed", "user_id", userID)
		return
	}

	c.Set(ctxUserKey, user)
	c.Next()
}

// tokenFromQuery copies ?token= into the Authorization header when the
// request carries none.
func (h *Handler) tokenFromQuery(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		if token := c.Query("token"); token != "" {
			c.Request.Header.Set("Authorization", "Bearer "+token)
		}
	}
	c.Next()
}

// currentUser returns the user stored by authMiddleware.
func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}

// requestLogger tags each request with an id and logs its outcome.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(ctxRequestIDKey, id)
	c.Header(requestIDHeader, id)

	c.Next()

	if h.log != nil {
		h.log.Infow("http_request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", id,
		)
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestIDKey)
}
