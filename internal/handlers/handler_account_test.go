package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestListAccounts_Paged() {
	accounts := []domain.Account{
		{AccountID: "acc-1", AccountName: "Cash in Bank", AccountCode: "1010", Status: domain.AccountActive, LineItemCount: 3},
		{AccountID: "acc-2", AccountName: "Rent Expense", AccountCode: "6100", Status: domain.AccountActive},
	}
	suite.mockAccountService.On("ListAccounts", mock.Anything, dto.ListAccountsParams{Search: "rent", Page: 2, PerPage: 2}).
		Return(accounts, 5, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts?search=rent&page=2&per_page=2", nil)
	w := suite.serve(req, "user-1")

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Data, 2)
	suite.Equal("1010", res.Data[0].AccountCode)
	suite.Equal(3, res.Data[0].DisbursementItemsCount)
	suite.Require().NotNil(res.Meta)
	suite.Equal(2, res.Meta.CurrentPage)
	suite.Equal(3, res.Meta.LastPage)
	suite.Equal(5, res.Meta.Total)
	suite.Equal(3, res.Meta.From)
	suite.Equal(4, res.Meta.To)
}

func (suite *HandlerTestSuite) TestListAccounts_AllOmitsMeta() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, dto.ListAccountsParams{All: true, Page: 1, PerPage: 10}).
		Return([]domain.Account{{AccountID: "acc-1", AccountCode: "1010"}}, 1, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts?all=true", nil)
	w := suite.serve(req, "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	var raw map[string]json.RawMessage
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &raw))
	suite.Contains(raw, "data")
	suite.NotContains(raw, "current_page")
	suite.NotContains(raw, "total")
}

func (suite *HandlerTestSuite) TestListAccounts_InvalidPerPage() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts?per_page=500", nil)
	w := suite.serve(req, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	body := suite.decodeError(w)
	suite.Equal("validation_failed", body.Code)
	suite.Contains(body.Fields, "per_page")
}

func (suite *HandlerTestSuite) TestListAccounts_InternalErrorIsHidden() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, mock.Anything).
		Return(nil, 0, errors.New("connection refused")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := suite.serve(req, "user-1")

	suite.Equal(http.StatusInternalServerError, w.Code)
	body := suite.decodeError(w)
	suite.Equal("internal", body.Code)
	suite.Equal("Failed to list accounts", body.Message)
	suite.NotContains(w.Body.String(), "connection refused")
}

func (suite *HandlerTestSuite) TestCreateAccount_Created() {
	expectedReq := dto.CreateAccountRequest{
		AccountName:       "Petty Cash",
		AccountCode:       "1010",
		AccountType:       "Asset",
		AccountNormalSide: "debit",
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, expectedReq, domain.NewActor("admin-1")).
		Return(&domain.Account{AccountID: "acc-9", AccountName: "Petty Cash", AccountCode: "1010", Status: domain.AccountActive}, nil).Once()

	body := `{"account_name":"Petty Cash","account_code":"1010","account_type":"Asset","account_normal_side":"debit"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req, "admin-1")

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("acc-9", res.ID)
	suite.Equal("active", res.Status)
}

func (suite *HandlerTestSuite) TestCreateAccount_InvalidNormalSide() {
	body := `{"account_name":"Petty Cash","account_code":"1010","account_type":"Asset","account_normal_side":"both"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req, "admin-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	errBody := suite.decodeError(w)
	suite.Equal("validation_failed", errBody.Code)
	suite.Contains(errBody.Fields, "account_normal_side")
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("account_code", "The account code has already been taken.")).Once()

	body := `{"account_name":"Cash","account_code":"1000","account_type":"Asset","account_normal_side":"debit"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req, "admin-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	errBody := suite.decodeError(w)
	suite.Equal("The account code has already been taken.", errBody.Fields["account_code"])
}

func (suite *HandlerTestSuite) TestDeleteAccount_NoContent() {
	suite.mockAccountService.On("DeleteAccount", mock.Anything, "acc-1", domain.NewActor("admin-1")).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/acc-1", nil)
	w := suite.serve(req, "admin-1")

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteAccount_ReferencedIsConflict() {
	refused := fmt.Errorf("%w: Cannot delete account as it has associated disbursement items.", apperrors.ErrConflict)
	suite.mockAccountService.On("DeleteAccount", mock.Anything, "acc-1", mock.Anything).Return(refused).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/acc-1", nil)
	w := suite.serve(req, "admin-1")

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("conflict", suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestToggleAccountStatus_OK() {
	suite.mockAccountService.On("ToggleAccountStatus", mock.Anything, "acc-1", domain.NewActor("admin-1")).
		Return(&domain.Account{AccountID: "acc-1", Status: domain.AccountInactive}, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/accounts/acc-1/status", nil)
	w := suite.serve(req, "admin-1")

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("inactive", res.Status)
}

func (suite *HandlerTestSuite) TestToggleAccountStatus_NotFound() {
	suite.mockAccountService.On("ToggleAccountStatus", mock.Anything, "missing", mock.Anything).
		Return(nil, fmt.Errorf("%w: account missing", apperrors.ErrNotFound)).Once()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/accounts/missing/status", nil)
	w := suite.serve(req, "admin-1")

	suite.Equal(http.StatusNotFound, w.Code)
}
