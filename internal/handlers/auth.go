package handlers

import (
	"net/http"

	"task_manager/internal/models"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

type registerResponse struct {
	Message string             `json:"message" example:"User registered successfully"`
	User    models.UserSummary `json:"user"`
}

type loginResponse struct {
	Message string             `json:"message" example:"Login successful"`
	Token   string             `json:"token"`
	User    models.UserSummary `json:"user"`
}

// @Summary      Register
// @Description  Creates an account. No token is issued.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/register [post]
// @Router       /api/users/register [post]
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if ok := h.bindJSONOrBadRequest(c, &req, "All fields are required"); !ok {
		return
	}

	u, err := h.services.Users.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err, "auth_register_failed", "email", req.Email)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User:    u.Summary(),
	})
}

// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/login [post]
// @Router       /api/users/login [post]
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if ok := h.bindJSONOrBadRequest(c, &req, "Please provide email and password"); !ok {
		return
	}

	token, u, err := h.services.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, "auth_login_failed", "email", req.Email)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User:    u.Summary(),
	})
}
