package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/SscSPs/disbursement_app/internal/middleware"
	"github.com/SscSPs/disbursement_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("", h.createAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.PATCH("/:id/status", h.toggleAccountStatus)
	}
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts with their line item counts. With all=true every active account is returned without pagination.
// @Tags accounts
// @Produce json
// @Param search query string false "Matches account name, code or description"
// @Param all query bool false "Return every active account"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size (max 100)" default(10)
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, total, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}

	res := dto.ListAccountsResponse{Data: dto.ToListAccountResponse(accounts)}
	if !params.All {
		meta := pagination.NewMeta(params.Page, params.PerPage, total, len(accounts))
		res.Meta = &meta
	}
	c.JSON(http.StatusOK, res)
}

// createAccount godoc
// @Summary Create an account
// @Description Registers a new active account. Name and code must be unique.
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or name/code already taken"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account. Accounts referenced by disbursement items cannot be deleted.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Account has associated disbursement items"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// toggleAccountStatus godoc
// @Summary Toggle account status
// @Description Switches the account between active and inactive.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Status changed concurrently"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id}/status [patch]
func (h *accountHandler) toggleAccountStatus(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	account, err := h.accountService.ToggleAccountStatus(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err, "Failed to update account status")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
