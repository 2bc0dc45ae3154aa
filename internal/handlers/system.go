package handlers

import (
	"net/http"

	"task_manager/internal/config"

	"github.com/gin-gonic/gin"
)

const (
	statusOK               = "ok"
	envStatusOK            = "OK"
	envStatusMissingValues = "Missing Variables"
)

type envCheckResponse struct {
	Status  string           `json:"status" example:"OK"`
	Details config.EnvStatus `json:"details"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Environment check
// @Description  Reports which required settings are present without revealing them.
// @Tags         system
// @Produce      json
// @Success      200  {object}  envCheckResponse
// @Router       /api/system/env-check [get]
func (h *Handler) envCheck(c *gin.Context) {
	var st config.EnvStatus
	if h.cfg != nil {
		st = h.cfg.EnvStatus()
	} else {
		st = (&config.Config{}).EnvStatus()
	}

	status := envStatusOK
	if !st.AllPresent {
		status = envStatusMissingValues
	}
	c.JSON(http.StatusOK, envCheckResponse{Status: status, Details: st})
}
