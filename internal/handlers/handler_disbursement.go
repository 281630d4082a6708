package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/SscSPs/disbursement_app/internal/middleware"
	"github.com/SscSPs/disbursement_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// disbursementHandler handles HTTP requests related to disbursements.
type disbursementHandler struct {
	disbursementService portssvc.DisbursementSvcFacade
}

// newDisbursementHandler creates a new disbursementHandler.
func newDisbursementHandler(ds portssvc.DisbursementSvcFacade) *disbursementHandler {
	return &disbursementHandler{disbursementService: ds}
}

// registerDisbursementRoutes registers routes related to disbursements.
func registerDisbursementRoutes(rg *gin.RouterGroup, disbursementService portssvc.DisbursementSvcFacade) {
	h := newDisbursementHandler(disbursementService)

	disbursements := rg.Group("/disbursements")
	{
		disbursements.GET("", h.listDisbursements)
		disbursements.POST("", h.submitDisbursement)
		disbursements.GET("/:id", h.getDisbursement)
		disbursements.GET("/:id/tracking", h.getTracking)
		disbursements.POST("/:id/approve", h.approveDisbursement)
		disbursements.POST("/:id/decline", h.declineDisbursement)
	}
}

// listDisbursements godoc
// @Summary List disbursements
// @Description Lists disbursements with search, date range, status and step filters, sorting and pagination. Statistics count every disbursement.
// @Tags disbursements
// @Produce json
// @Param search query string false "Matches control number, title or description"
// @Param date_from query string false "Created on or after (YYYY-MM-DD)"
// @Param date_to query string false "Created on or before (YYYY-MM-DD)"
// @Param status query string false "pending, approved or rejected"
// @Param step query int false "Current step (1-5)"
// @Param sort_by query string false "created_at, control_number, title, status or step"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size (max 100)" default(10)
// @Success 200 {object} dto.ListDisbursementsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disbursements [get]
func (h *disbursementHandler) listDisbursements(c *gin.Context) {
	var params dto.ListDisbursementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.disbursementService.ListDisbursements(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list disbursements")
		return
	}

	meta := pagination.NewMeta(params.Page, params.PerPage, page.Total, len(page.Disbursements))
	c.JSON(http.StatusOK, dto.ToListDisbursementsResponse(page, meta))
}

// getDisbursement godoc
// @Summary Get a disbursement
// @Description Retrieves a disbursement with its line items (and accounts), tracking history, attachments and total amount
// @Tags disbursements
// @Produce json
// @Param id path string true "Disbursement ID"
// @Success 200 {object} dto.DisbursementResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disbursements/{id} [get]
func (h *disbursementHandler) getDisbursement(c *gin.Context) {
	d, err := h.disbursementService.GetDisbursement(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve disbursement")
		return
	}
	c.JSON(http.StatusOK, dto.ToDisbursementResponse(d))
}

// getTracking godoc
// @Summary Get tracking history
// @Description Lists the tracking entries of a disbursement ordered by step
// @Tags disbursements
// @Produce json
// @Param id path string true "Disbursement ID"
// @Success 200 {object} dto.TrackingHistoryResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disbursements/{id}/tracking [get]
func (h *disbursementHandler) getTracking(c *gin.Context) {
	entries, err := h.disbursementService.GetTrackingHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve tracking history")
		return
	}
	c.JSON(http.StatusOK, dto.TrackingHistoryResponse{Data: dto.ToTrackingResponses(entries)})
}

// submitDisbursement godoc
// @Summary Submit a disbursement
// @Description Creates a disbursement with its line items and attachments. Submission counts as the assistant's approval, so the disbursement starts at step 2.
// @Description Accepts a JSON body or a form post in which accounts is a JSON-encoded array.
// @Tags disbursements
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param disbursement body dto.CreateDisbursementRequest true "Disbursement"
// @Success 201 {object} dto.SubmitDisbursementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disbursements [post]
func (h *disbursementHandler) submitDisbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	req, err := bindSubmission(c)
	if err != nil {
		respondBindError(c, err)
		return
	}

	logger.Info("Received request to submit disbursement",
		slog.String("title", req.Title), slog.Int("line_items", len(req.Accounts)), slog.Int("attachments", len(req.Attachments)))

	result, err := h.disbursementService.SubmitDisbursement(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to submit disbursement")
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubmitDisbursementResponse(result))
}

// bindSubmission reads a submission from a JSON body or a form post.
func bindSubmission(c *gin.Context) (dto.CreateDisbursementRequest, error) {
	var req dto.CreateDisbursementRequest
	if c.ContentType() == binding.MIMEJSON {
		err := c.ShouldBindJSON(&req)
		return req, err
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return req, err
	}
	req.Title = c.PostForm("title")
	req.Description = c.PostForm("description")
	req.Attachments = c.PostFormArray("attachments[]")
	if len(req.Attachments) == 0 {
		req.Attachments = c.PostFormArray("attachments")
	}
	if raw := strings.TrimSpace(c.PostForm("accounts")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Accounts); err != nil {
			return req, apperrors.NewValidationError("accounts", "The accounts field must be a JSON array of line items.")
		}
	}
	return req, binding.Validator.ValidateStruct(&req)
}

// approveDisbursement godoc
// @Summary Approve the current step
// @Description Approves the disbursement at its current step. The caller must hold the step's role.
// @Tags disbursements
// @Accept json
// @Produce json
// @Param id path string true "Disbursement ID"
// @Param transition body dto.TransitionRequest false "Optional remarks"
// @Success 200 {object} dto.DisbursementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Role does not match the current step"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Disbursement is no longer pending"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disbursements/{id}/approve [post]
func (h *disbursementHandler) approveDisbursement(c *gin.Context) {
	h.transition(c, h.disbursementService.ApproveDisbursement, "Failed to approve disbursement")
}

// declineDisbursement godoc
// @Summary Decline the current step
// @Description Rejects the disbursement at its current step. The caller must hold the step's role.
// @Tags disbursements
// @Accept json
// @Produce json
// @Param id path string true "Disbursement ID"
// @Param transition body dto.TransitionRequest false "Optional remarks"
// @Success 200 {object} dto.DisbursementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Role does not match the current step"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Disbursement is no longer pending"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /disbursements/{id}/decline [post]
func (h *disbursementHandler) declineDisbursement(c *gin.Context) {
	h.transition(c, h.disbursementService.DeclineDisbursement, "Failed to decline disbursement")
}

type transitionFunc func(ctx context.Context, disbursementID string, actor domain.Actor, remarks *string) (*domain.Disbursement, error)

func (h *disbursementHandler) transition(c *gin.Context, apply transitionFunc, failure string) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	d, err := apply(c.Request.Context(), c.Param("id"), actor, req.Remarks)
	if err != nil {
		respondError(c, err, failure)
		return
	}
	c.JSON(http.StatusOK, dto.ToDisbursementResponse(d))
}
