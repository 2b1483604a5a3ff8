package handler

import (
	"net/http"

	"lumina-chat/internal/services"
	"lumina-chat/internal/transport/httpdto"
	"lumina-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *services.UploadService
	logger  *logger.Logger
}

func NewUploadHandler(service *services.UploadService, l *logger.Logger) *UploadHandler {
	return &UploadHandler{service: service, logger: l}
}

// IssueCredentials hands out the CDN's signed upload parameters. The
// route is deliberately unauthenticated; the credentials expire on their
// own and grant upload only, never read.
func (h *UploadHandler) IssueCredentials(c *gin.Context) {
	creds, err := h.service.IssueCredentials(c.Request.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.ErrorfCtx(c.Request.Context(), "error issuing upload credentials: %s", err)
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("error issuing upload credentials", "INTERNAL_ERROR"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(creds))
}
