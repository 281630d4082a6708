package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) multipartRequest(field, filename string, content []byte) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		suite.Require().NoError(err)
		_, err = part.Write(content)
		suite.Require().NoError(err)
	} else {
		suite.Require().NoError(mw.WriteField("note", "no file here"))
	}
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (suite *HandlerTestSuite) TestStageUpload() {
	content := []byte("%PDF-1.4 receipt")
	suite.mockUploadService.On("StageUpload", mock.Anything, "receipt.pdf", int64(len(content)), mock.Anything).
		Return(&domain.TemporaryUpload{Folder: "6f1c2a-1740988800", Filename: "receipt.pdf"}, nil).Once()

	w := suite.serve(suite.multipartRequest("file", "receipt.pdf", content), "user-1")

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.UploadResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("6f1c2a-1740988800", res.Folder)
	suite.Equal("receipt.pdf", res.Filename)
}

func (suite *HandlerTestSuite) TestStageUpload_MissingFile() {
	w := suite.serve(suite.multipartRequest("", "", nil), "user-1")

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal("The file field is required.", suite.decodeError(w).Fields["file"])
}

func (suite *HandlerTestSuite) TestStageUpload_Rejected() {
	verr := apperrors.NewValidationError("file", "The file must be a file of type: jpg, jpeg, png, pdf, docx, doc, xlsx, xls.")
	suite.mockUploadService.On("StageUpload", mock.Anything, "script.sh", mock.Anything, mock.Anything).Return(nil, verr).Once()

	w := suite.serve(suite.multipartRequest("file", "script.sh", []byte("#!/bin/sh")), "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decodeError(w).Fields["file"], "jpg")
}

func (suite *HandlerTestSuite) TestRevertUpload() {
	suite.mockUploadService.On("RevertUpload", mock.Anything, "6f1c2a-1740988800").Return(nil).Once()

	w := suite.serve(httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/6f1c2a-1740988800", nil), "user-1")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(w.Body.String())
}

func (suite *HandlerTestSuite) TestRevertUpload_Unknown() {
	suite.mockUploadService.On("RevertUpload", mock.Anything, "nope").
		Return(fmt.Errorf("%w: upload nope", apperrors.ErrNotFound)).Once()

	w := suite.serve(httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/nope", nil), "user-1")

	suite.Equal(http.StatusNotFound, w.Code)
}
