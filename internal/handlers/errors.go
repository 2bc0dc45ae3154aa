package handlers

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// messageResponse is the body of every error and of plain acknowledgements.
type messageResponse struct {
	Message string `json:"message" example:"Task not found"`
}

// statusFor maps a service error category to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", requestID(c)}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.AbortWithStatusJSON(httpCode, messageResponse{Message: userMsg})
}

// respondError writes err with the status of its category. Unclassified
// errors are store failures and surface as 500 with their message.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	h.logAndJSONError(c, statusFor(err), err.Error(), logKey, err, kv...)
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any, requiredMsg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, bindErrorMessage(err, requiredMsg), "bad_request_body", err)
		return false
	}
	return true
}

// bindErrorMessage turns missing required fields into requiredMsg and
// anything else (malformed JSON, wrong types) into a generic message.
func bindErrorMessage(err error, requiredMsg string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return requiredMsg
	}
	return "Invalid request body: " + err.Error()
}

// missingFields lists the JSON names of fields that failed validation.
func missingFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, lowerFirst(fe.Field()))
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func joinFields(fields []string) string {
	return strings.Join(fields, ", ")
}
