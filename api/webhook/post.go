package webhook

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/telehotels/api/types"
	apperrors "github.com/killallgit/telehotels/pkg/errors"
)

// Post receives an update pushed by Telegram
// @Summary      Telegram webhook
// @Description  Accepts a Telegram update. The path secret must match the configured webhook secret.
// @Tags         telegram
// @Accept       json
// @Produce      json
// @Param        secret  path  string  true  "Webhook secret"
// @Success      200  {object}  types.BaseResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /telegram/{secret} [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		// an unknown secret looks like any other missing route
		if !deps.WebhookEnabled() || !secretMatches(c.Param("secret"), deps.WebhookSecret) {
			types.SendNotFound(c, "The requested endpoint was not found")
			return
		}

		update, err := deps.Webhook.Parse(c.Request)
		if err != nil {
			slog.Warn("rejected webhook payload", "client_ip", c.ClientIP(), "error", err)
			types.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "invalid update payload"))
			return
		}

		deps.Updates.HandleUpdate(c.Request.Context(), *update)
		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK})
	}
}

func secretMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
