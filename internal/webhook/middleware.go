package webhook

import (
	"github.com/gin-gonic/gin"

	pkgLog "relay-bot/pkg/log"
	pkgResponse "relay-bot/pkg/response"
	pkgTelegram "relay-bot/pkg/telegram"
)

// Guard rejects webhook calls that fail the IP allow-list or carry the wrong secret token.
func (v *SecurityValidator) Guard(l pkgLog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// ClientIP honours forwarding headers only from the engine's trusted proxies.
		if err := v.ValidateIPAddress(c.ClientIP()); err != nil {
			l.Warnf(ctx, "webhook: rejected request: %v", err)
			pkgResponse.Forbidden(c)
			c.Abort()
			return
		}

		if err := v.ValidateSecretToken(c.GetHeader(pkgTelegram.SecretTokenHeader)); err != nil {
			l.Warnf(ctx, "webhook: rejected request from %s: %v", c.ClientIP(), err)
			pkgResponse.Unauthorized(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
