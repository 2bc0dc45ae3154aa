package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.UserSummary
// @Failure      500  {object}  messageResponse
// @Router       /api/users [get]
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "users_list_failed")
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  models.UserSummary
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	id := c.Param("id")
	u, err := h.services.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "users_get_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, u.Summary())
}
