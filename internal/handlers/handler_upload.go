package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/SscSPs/disbursement_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the room left for multipart headers on top of the file size limit.
const multipartOverhead = 1 << 20

type uploadHandler struct {
	uploadService portssvc.UploadSvcFacade
	maxBytes      int64
}

func registerUploadRoutes(rg *gin.RouterGroup, uploadService portssvc.UploadSvcFacade, maxBytes int64) {
	h := &uploadHandler{uploadService: uploadService, maxBytes: maxBytes}

	uploads := rg.Group("/uploads")
	{
		uploads.POST("", h.stageUpload)
		uploads.DELETE("/:folder", h.revertUpload)
	}
}

// stageUpload godoc
// @Summary Stage a file
// @Description Stores a file in temporary storage. The returned folder is passed in the attachments of a later submission.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "jpg, jpeg, png, pdf, docx, doc, xlsx or xls"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /uploads [post]
func (h *uploadHandler) stageUpload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Upload exceeds size limit", slog.Int64("limit", tooLarge.Limit))
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
				Error: dto.ErrorBody{Code: "too_large", Message: fmt.Sprintf("The file may not be greater than %d bytes.", h.maxBytes)},
			})
			return
		}
		respondError(c, apperrors.NewValidationError("file", "The file field is required."), "Invalid upload")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "Failed to read upload")
		return
	}
	defer f.Close()

	upload, err := h.uploadService.StageUpload(c.Request.Context(), fh.Filename, fh.Size, f)
	if err != nil {
		respondError(c, err, "Failed to stage upload")
		return
	}

	c.JSON(http.StatusCreated, dto.UploadResponse{Folder: upload.Folder, Filename: upload.Filename})
}

// revertUpload godoc
// @Summary Revert a staged file
// @Description Deletes a staged file and its staging record
// @Tags uploads
// @Param folder path string true "Folder returned by the upload"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /uploads/{folder} [delete]
func (h *uploadHandler) revertUpload(c *gin.Context) {
	if err := h.uploadService.RevertUpload(c.Request.Context(), c.Param("folder")); err != nil {
		respondError(c, err, "Failed to revert upload")
		return
	}
	c.Status(http.StatusNoContent)
}
