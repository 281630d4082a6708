package handlers

import (
	"log/slog"
	"mime"
	"net/http"

	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// attachmentHandler streams finalized attachments.
type attachmentHandler struct {
	attachmentService portssvc.AttachmentSvcFacade
}

func registerAttachmentRoutes(rg *gin.RouterGroup, attachmentService portssvc.AttachmentSvcFacade) {
	h := &attachmentHandler{attachmentService: attachmentService}

	attachments := rg.Group("/attachments")
	{
		attachments.GET("/download/:id", h.downloadAttachment)
	}
}

// downloadAttachment godoc
// @Summary Download an attachment
// @Description Streams the attachment file with its original file name
// @Tags attachments
// @Produce octet-stream
// @Param id path string true "Attachment ID"
// @Success 200 {file} file
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown attachment or missing file"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /attachments/download/{id} [get]
func (h *attachmentHandler) downloadAttachment(c *gin.Context) {
	attachment, rc, err := h.attachmentService.OpenAttachment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to download attachment")
		return
	}
	defer func() {
		if err := rc.Close(); err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to close attachment reader", slog.String("error", err.Error()))
		}
	}()

	contentType := attachment.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": attachment.FileName})
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{"Content-Disposition": disposition})
}
