package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/telehotels/api/types"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Reports database connectivity and the number of active dialogues
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Failure      503  {object}  types.HealthResponse
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			Status:    types.StatusHealthy,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Database:  getDatabaseStatus(deps),
		}
		if deps != nil && deps.Sessions != nil {
			response.ActiveSessions = deps.Sessions.ActiveSessions()
		}

		status := http.StatusOK
		if response.Database.Status == types.StatusUnhealthy {
			response.Status = types.StatusUnhealthy
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) types.ComponentStatus {
	if deps == nil || deps.DB == nil {
		return types.ComponentStatus{Status: "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return types.ComponentStatus{Status: types.StatusUnhealthy, Error: err.Error()}
	}

	return types.ComponentStatus{Status: types.StatusHealthy}
}
