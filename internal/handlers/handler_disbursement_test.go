package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func sampleDisbursement(step int, status domain.Status) *domain.Disbursement {
	created := time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)
	return &domain.Disbursement{
		DisbursementID: "disb-1",
		ControlNumber:  "CV-20250303-AB12CD",
		Title:          "Office Rent",
		Description:    "March rent",
		Step:           step,
		Status:         status,
		AuditFields:    domain.AuditFields{CreatedBy: "user-1", CreatedAt: created, UpdatedAt: created},
		TotalAmount:    decimal.NewFromInt(100000),
	}
}

func remarksEqual(want string) interface{} {
	return mock.MatchedBy(func(r *string) bool { return r != nil && *r == want })
}

func (suite *HandlerTestSuite) TestSubmitDisbursement_JSON() {
	actor := domain.NewActor("user-1", domain.RoleAccountingAssistant)
	body := `{
		"title": "Office Rent",
		"description": "March rent",
		"accounts": [
			{"account_id": "acc-rent", "type": "debit", "amount": "100000.00", "order_number": 0},
			{"account_id": "acc-cash", "type": "credit", "amount": 100000, "order_number": 1}
		],
		"attachments": ["folder-1"]
	}`
	matchReq := mock.MatchedBy(func(req dto.CreateDisbursementRequest) bool {
		return req.Title == "Office Rent" &&
			len(req.Accounts) == 2 &&
			req.Accounts[0].Amount.Equal(decimal.NewFromInt(100000)) &&
			req.Accounts[1].Type == "credit" &&
			len(req.Attachments) == 1 && req.Attachments[0] == "folder-1"
	})
	suite.mockDisbursementService.On("SubmitDisbursement", mock.Anything, matchReq, actor).
		Return(&domain.SubmitResult{Disbursement: *sampleDisbursement(2, domain.StatusPending)}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req, "user-1", domain.RoleAccountingAssistant)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.SubmitDisbursementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("disb-1", res.Disbursement.ID)
	suite.Equal(2, res.Disbursement.Step)
	suite.Equal("pending", res.Disbursement.Status)
	suite.NotNil(res.SkippedAttachments)
	suite.Empty(res.SkippedAttachments)
}

func (suite *HandlerTestSuite) TestSubmitDisbursement_FormWithEncodedAccounts() {
	actor := domain.NewActor("user-1")
	form := url.Values{}
	form.Set("title", "Office Rent")
	form.Set("accounts", `[{"account_id":"acc-rent","type":"debit","amount":"50.25"},{"account_id":"acc-cash","type":"credit","amount":"50.25","order_number":1}]`)
	form.Add("attachments[]", "folder-1")
	form.Add("attachments[]", "folder-2")

	matchReq := mock.MatchedBy(func(req dto.CreateDisbursementRequest) bool {
		return req.Title == "Office Rent" &&
			len(req.Accounts) == 2 &&
			req.Accounts[1].Amount.Equal(decimal.RequireFromString("50.25")) &&
			len(req.Attachments) == 2
	})
	result := &domain.SubmitResult{Disbursement: *sampleDisbursement(2, domain.StatusPending), SkippedAttachments: []string{"folder-2"}}
	suite.mockDisbursementService.On("SubmitDisbursement", mock.Anything, matchReq, actor).Return(result, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := suite.serve(req, "user-1")

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.SubmitDisbursementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal([]string{"folder-2"}, res.SkippedAttachments)
}

func (suite *HandlerTestSuite) TestSubmitDisbursement_FormWithMalformedAccounts() {
	form := url.Values{"title": {"Office Rent"}, "accounts": {"not json"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := suite.serve(req, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decodeError(w).Fields, "accounts")
}

func (suite *HandlerTestSuite) TestSubmitDisbursement_BindingErrors() {
	body := `{"accounts": [{"account_id": "acc-rent", "type": "debit", "amount": "-5"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req, "user-1")

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	errBody := suite.decodeError(w)
	suite.Equal("validation_failed", errBody.Code)
	suite.Equal("The given data was invalid.", errBody.Message)
	suite.Equal("The title field is required.", errBody.Fields["title"])
	suite.Contains(errBody.Fields, "accounts.0.amount")
}

func (suite *HandlerTestSuite) TestSubmitDisbursement_ServiceValidation() {
	verr := apperrors.NewValidationError("accounts", "The total debits must equal the total credits.")
	suite.mockDisbursementService.On("SubmitDisbursement", mock.Anything, mock.Anything, mock.Anything).Return(nil, verr).Once()

	body := `{"title": "Rent", "accounts": [{"account_id": "a", "type": "debit", "amount": "10"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("The total debits must equal the total credits.", suite.decodeError(w).Fields["accounts"])
}

func (suite *HandlerTestSuite) TestApproveDisbursement() {
	actor := domain.NewActor("user-2", domain.RoleAccountingHead)
	suite.mockDisbursementService.On("ApproveDisbursement", mock.Anything, "disb-1", actor, remarksEqual("looks good")).
		Return(sampleDisbursement(3, domain.StatusPending), nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements/disb-1/approve", strings.NewReader(`{"remarks":"looks good"}`))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req, "user-2", domain.RoleAccountingHead)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.DisbursementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(3, res.Step)
	suite.Equal("pending", res.Status)
}

func (suite *HandlerTestSuite) TestApproveDisbursement_EmptyBody() {
	actor := domain.NewActor("user-2", domain.RoleAccountingHead)
	noRemarks := mock.MatchedBy(func(r *string) bool { return r == nil })
	suite.mockDisbursementService.On("ApproveDisbursement", mock.Anything, "disb-1", actor, noRemarks).
		Return(sampleDisbursement(3, domain.StatusPending), nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements/disb-1/approve", nil)
	w := suite.serve(req, "user-2", domain.RoleAccountingHead)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestApproveDisbursement_ErrorMapping() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"wrong role", fmt.Errorf("%w: step 3 requires auditor", apperrors.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"not pending", fmt.Errorf("%w: disbursement is already rejected", apperrors.ErrConflict), http.StatusConflict, "conflict"},
		{"unknown", fmt.Errorf("%w: disbursement disb-1", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockDisbursementService.On("ApproveDisbursement", mock.Anything, "disb-1", mock.Anything, mock.Anything).
				Return(nil, tt.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements/disb-1/approve", nil)
			w := suite.serve(req, "user-3", domain.RoleAccountingHead)

			suite.Equal(tt.wantStatus, w.Code)
			body := suite.decodeError(w)
			suite.Equal(tt.wantCode, body.Code)
			suite.Equal(tt.err.Error(), body.Message)
		})
	}
}

func (suite *HandlerTestSuite) TestDeclineDisbursement() {
	actor := domain.NewActor("user-4", domain.RoleAuditor)
	suite.mockDisbursementService.On("DeclineDisbursement", mock.Anything, "disb-1", actor, remarksEqual("missing receipt")).
		Return(sampleDisbursement(3, domain.StatusRejected), nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements/disb-1/decline", strings.NewReader(`{"remarks":"missing receipt"}`))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req, "user-4", domain.RoleAuditor)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.DisbursementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("rejected", res.Status)
	suite.Equal(3, res.Step)
}

func (suite *HandlerTestSuite) TestDeclineDisbursement_RemarksTooLong() {
	body := fmt.Sprintf(`{"remarks":%q}`, strings.Repeat("x", 1001))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/disbursements/disb-1/decline", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req, "user-4", domain.RoleAuditor)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decodeError(w).Fields, "remarks")
}

func (suite *HandlerTestSuite) TestListDisbursements() {
	step := 3
	params := dto.ListDisbursementsParams{
		Search:    "rent",
		Status:    "pending",
		Step:      &step,
		DateFrom:  "2025-03-01",
		DateTo:    "2025-03-31",
		SortBy:    "title",
		SortOrder: "asc",
		Page:      1,
		PerPage:   2,
	}
	page := &domain.DisbursementPage{
		Disbursements: []domain.Disbursement{*sampleDisbursement(3, domain.StatusPending)},
		Total:         1,
		Statistics:    domain.DisbursementStatistics{Total: 7, Pending: 4, Approved: 2, Rejected: 1},
	}
	suite.mockDisbursementService.On("ListDisbursements", mock.Anything, params).Return(page, nil).Once()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/disbursements?search=rent&status=pending&step=3&date_from=2025-03-01&date_to=2025-03-31&sort_by=title&sort_order=asc&per_page=2", nil)
	w := suite.serve(req, "user-1")

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.ListDisbursementsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Data, 1)
	suite.True(res.Data[0].TotalAmount.Equal(decimal.NewFromInt(100000)))
	suite.Equal(1, res.Total)
	suite.Equal(1, res.LastPage)
	suite.Equal(domain.DisbursementStatistics{Total: 7, Pending: 4, Approved: 2, Rejected: 1}, res.Statistics)
}

func (suite *HandlerTestSuite) TestListDisbursements_InvalidFilters() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/disbursements?status=archived&date_from=03-01-2025", nil)
	w := suite.serve(req, "user-1")

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := suite.decodeError(w)
	suite.Contains(body.Fields, "status")
	suite.Equal("The date from field must match the format YYYY-MM-DD.", body.Fields["date_from"])
}

func (suite *HandlerTestSuite) TestGetDisbursement() {
	d := sampleDisbursement(2, domain.StatusPending)
	d.Items = []domain.LineItem{
		{LineItemID: "li-1", AccountID: "acc-rent", Type: domain.Debit, Amount: decimal.NewFromInt(100000),
			Account: &domain.Account{AccountID: "acc-rent", AccountName: "Rent Expense", AccountCode: "6100"}},
	}
	d.Attachments = []domain.Attachment{{AttachmentID: "att-1", FileName: "receipt.pdf", FileType: "application/pdf"}}
	suite.mockDisbursementService.On("GetDisbursement", mock.Anything, "disb-1").Return(d, nil).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/disbursements/disb-1", nil), "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.DisbursementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().Len(res.Items, 1)
	suite.Require().NotNil(res.Items[0].Account)
	suite.Equal("6100", res.Items[0].Account.AccountCode)
	suite.Require().Len(res.Attachments, 1)
	suite.Equal("receipt.pdf", res.Attachments[0].FileName)
}

func (suite *HandlerTestSuite) TestGetTracking() {
	handler := "user-1"
	acted := time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)
	entries := []domain.TrackingEntry{
		{TrackingID: "t-1", Step: 1, Role: domain.RoleAccountingAssistant, Action: domain.ActionApproved, HandledBy: &handler, ActedAt: &acted},
		{TrackingID: "t-2", Step: 2, Role: domain.RoleAccountingHead, Action: domain.ActionRejected, HandledBy: &handler, ActedAt: &acted},
	}
	suite.mockDisbursementService.On("GetTrackingHistory", mock.Anything, "disb-1").Return(entries, nil).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/disbursements/disb-1/tracking", nil), "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.TrackingHistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().Len(res.Data, 2)
	suite.Equal(domain.RoleAccountingHead, res.Data[1].Role)
	suite.Equal("rejected", res.Data[1].Action)
}
