package version

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/telehotels/api/types"
)

// Name is reported by the root endpoint
const Name = "TeleHotels"

// Get handles version requests
// @Summary      Version
// @Description  Build information of the running bot
// @Tags         version
// @Produce      json
// @Success      200  {object}  types.VersionResponse
// @Router       / [get]
func Get(info types.VersionInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		version := info.Version
		if version == "" {
			version = "dev"
		}
		types.SendSuccess(c, types.VersionResponse{
			Name:      Name,
			Version:   version,
			GitCommit: info.GitCommit,
			BuildTime: info.BuildTime,
			Status:    "running",
		})
	}
}
