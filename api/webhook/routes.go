package webhook

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/telehotels/api/types"
)

// RegisterRoutes registers the Telegram webhook route
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.POST("/:secret", Post(deps))
}
