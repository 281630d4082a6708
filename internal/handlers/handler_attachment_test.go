package handlers_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestDownloadAttachment() {
	attachment := &domain.Attachment{AttachmentID: "att-1", FileName: "March receipt.pdf", FileType: "application/pdf"}
	suite.mockAttachmentService.On("OpenAttachment", mock.Anything, "att-1").
		Return(attachment, io.NopCloser(strings.NewReader("%PDF-1.4 test")), nil).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/attachments/download/att-1", nil), "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Equal(`attachment; filename="March receipt.pdf"`, w.Header().Get("Content-Disposition"))
	suite.Equal("%PDF-1.4 test", w.Body.String())
}

func (suite *HandlerTestSuite) TestDownloadAttachment_UnknownType() {
	attachment := &domain.Attachment{AttachmentID: "att-2", FileName: "notes"}
	suite.mockAttachmentService.On("OpenAttachment", mock.Anything, "att-2").
		Return(attachment, io.NopCloser(strings.NewReader("plain")), nil).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/attachments/download/att-2", nil), "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("application/octet-stream", w.Header().Get("Content-Type"))
}

func (suite *HandlerTestSuite) TestDownloadAttachment_Errors() {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown attachment", "missing", fmt.Errorf("%w: attachment missing", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"file gone", "att-3", fmt.Errorf("%w: attachments/2025/03/03/a.pdf", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"storage down", "att-4", fmt.Errorf("%w: bucket unreachable", apperrors.ErrStorage), http.StatusServiceUnavailable, "storage_unavailable"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockAttachmentService.On("OpenAttachment", mock.Anything, tt.id).Return(nil, nil, tt.err).Once()

			w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/attachments/download/"+tt.id, nil), "user-1")

			suite.Equal(tt.wantStatus, w.Code)
			suite.Equal(tt.wantCode, suite.decodeError(w).Code)
		})
	}
}
