package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/yatube/internal/database"
)

type HealthHandler struct {
	db database.Service
}

// Check reports database health; a down database answers 503.
func (h *HealthHandler) Check(c *gin.Context) {
	stats := h.db.Health()
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}
