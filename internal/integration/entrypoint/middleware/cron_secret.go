package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// CronSecretHeader carries the shared secret of the report trigger.
const CronSecretHeader = "X-Cron-Secret"

// CronSecret guards the admin report trigger. The secret is taken from the
// X-Cron-Secret header or the secret query parameter. An empty configured
// secret rejects every request.
func CronSecret(secret string) gin.HandlerFunc {
	if secret == "" {
		slog.Warn("CRON_SECRET is not set, report trigger endpoints will reject all requests")
	}
	expected := []byte(secret)

	return func(c *gin.Context) {
		provided := c.GetHeader(CronSecretHeader)
		if provided == "" {
			provided = c.Query("secret")
		}

		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			slog.Warn("Rejected report trigger with invalid secret", "client_ip", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, dto.TriggerResponse{
				Success: false,
				Message: "Invalid or missing cron secret",
			})
			return
		}

		c.Next()
	}
}
