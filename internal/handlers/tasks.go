package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	msgInvalidDueDate = "Invalid dueDate: use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'"
)

// taskRequest is the full task record accepted by create and update.
type taskRequest struct {
	Title       string `json:"title" binding:"required" example:"Write report"`
	Description string `json:"description" binding:"required" example:"Quarterly numbers"`
	DueDate     string `json:"dueDate" binding:"required" example:"2025-08-31T17:00:00Z"`
	Priority    string `json:"priority" binding:"required" example:"high" enums:"low,medium,high"`
	Status      string `json:"status" binding:"required" example:"todo"`
	AssignedTo  string `json:"assignedTo" binding:"required" example:"bob"`
	CreatedBy   string `json:"createdBy" binding:"required" example:"65f0c0ffee65f0c0ffee0001"`
}

// decodeTask binds and converts the body. On failure it returns the
// client-facing message along with the cause.
func decodeTask(c *gin.Context) (service.TaskInput, string, error) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := missingFields(err); len(fields) > 0 {
			return service.TaskInput{}, "All fields are required: " + joinFields(fields), err
		}
		return service.TaskInput{}, bindErrorMessage(err, ""), err
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return service.TaskInput{}, msgInvalidDueDate, err
	}
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Priority:    req.Priority,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   req.CreatedBy,
	}, "", nil
}

// parseDueDate accepts RFC3339, "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD",
// normalizing to UTC.
func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}

// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      taskRequest  true  "Task"
// @Success      201   {object}  models.TaskView
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/tasks [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	in, msg, err := decodeTask(c)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, msg, "task_bad_request_body", err)
		return
	}

	view, err := h.services.Tasks.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err, "task_create_failed", "created_by", in.CreatedBy)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   models.TaskView
// @Failure      401  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/tasks [get]
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	tasks, err := h.services.Tasks.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "task_list_failed")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get task
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  models.TaskView
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/tasks/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTask(c *gin.Context) {
	id := c.Param("id")
	view, err := h.services.Tasks.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "task_get_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Update task
// @Description  Replaces every field. A missing task is 404 whatever the body.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Task id"
// @Param        body  body      taskRequest  true  "Task"
// @Success      200   {object}  models.TaskView
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/tasks/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	in, msg, err := decodeTask(c)
	if err != nil {
		if _, getErr := h.services.Tasks.Get(ctx, id); getErr != nil {
			h.respondError(c, getErr, "task_update_failed", "id", id)
			return
		}
		h.logAndJSONError(c, http.StatusBadRequest, msg, "task_bad_request_body", err, "id", id)
		return
	}

	view, err := h.services.Tasks.Update(ctx, id, in)
	if err != nil {
		h.respondError(c, err, "task_update_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/tasks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Tasks.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "task_delete_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

// @Summary      User dashboard
// @Description  Tasks assigned to, created by and overdue for the caller.
// @Tags         tasks
// @Produce      json
// @Param        userId  path      string  true  "User id (must be the caller)"
// @Success      200     {object}  models.Dashboard
// @Failure      400     {object}  messageResponse
// @Failure      401     {object}  messageResponse
// @Failure      403     {object}  messageResponse
// @Failure      404     {object}  messageResponse
// @Router       /api/tasks/dashboard/{userId} [get]
// @Security     BearerAuth
func (h *Handler) dashboard(c *gin.Context) {
	caller, _ := currentUser(c)
	userID := c.Param("userId")

	d, err := h.services.Tasks.Dashboard(c.Request.Context(), caller.ID, userID)
	if err != nil {
		h.respondError(c, err, "task_dashboard_failed", "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, d)
}
