package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"invitation-backend/internal/shared/response"
)

// Recovery converts panics into the shared error envelope instead of
// letting gin's default handler drop the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Interface("error", err).
					Msg("panic recovered")

				response.ErrorResponse(c, http.StatusInternalServerError,
					"INTERNAL_SERVER_ERROR", "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
