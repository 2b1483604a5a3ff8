package middleware

import (
	"net/http"
	"strings"

	"lumina-chat/internal/identity"
	"lumina-chat/internal/transport/httpdto"
	"lumina-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer credential and stashes the opaque
// user identifier in the request context. Protected routes never run
// without a verified identity.
func AuthMiddleware(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		userID, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthenticated", "UNAUTHORIZED"))
			c.Abort()
			return
		}

		ctx := identity.WithUserID(c.Request.Context(), userID)
		ctx = logger.WithUserID(ctx, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
