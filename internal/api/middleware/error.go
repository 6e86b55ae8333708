package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"lithuania-bess/internal/api/models"
)

// ErrorHandler recovers from handler panics and replies with the standard
// error envelope instead of an empty 500.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("panic", fmt.Sprint(recovered)).
			Msg("recovered from handler panic")

		c.JSON(http.StatusInternalServerError,
			models.NewError("INTERNAL_ERROR", "An unexpected error occurred"))
		c.Abort()
	})
}
