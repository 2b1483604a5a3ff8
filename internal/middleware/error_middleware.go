package middleware

import (
	"net/http"

	"lumina-chat/internal/transport/httpdto"
	"lumina-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler is the last-resort funnel for errors attached to the gin
// context. Full detail is logged server side; the client only ever sees
// a fixed body. Unlike route-not-found, an unhandled error is a 500.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if l != nil {
			l.ErrorfCtx(c.Request.Context(), "request error: %s", err.Error())
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
		}
	}
}
