package local

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LocalStoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	fs    afero.Fs
	store *Store
}

func (s *LocalStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fs = afero.NewMemMapFs()
	s.store = New(s.fs)
}

func TestLocalStoreTestSuite(t *testing.T) {
	suite.Run(t, new(LocalStoreTestSuite))
}

func (s *LocalStoreTestSuite) TestPutOpenExists() {
	s.Require().NoError(s.store.Put(s.ctx, "attachments/tmp/f1/receipt.pdf", strings.NewReader("%PDF-1.4 body")))

	ok, err := s.store.Exists(s.ctx, "attachments/tmp/f1/receipt.pdf")
	s.Require().NoError(err)
	s.True(ok)

	// Directories are not blobs.
	ok, err = s.store.Exists(s.ctx, "attachments/tmp/f1")
	s.Require().NoError(err)
	s.False(ok)

	rc, err := s.store.Open(s.ctx, "attachments/tmp/f1/receipt.pdf")
	s.Require().NoError(err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	s.Require().NoError(err)
	s.Equal("%PDF-1.4 body", string(body))
}

func (s *LocalStoreTestSuite) TestMoveAndMimeType() {
	s.Require().NoError(s.store.Put(s.ctx, "attachments/tmp/f1/receipt.pdf", strings.NewReader("%PDF-1.4 body")))
	s.Require().NoError(s.store.Move(s.ctx, "attachments/tmp/f1/receipt.pdf", "attachments/2025/03/03/receipt.pdf"))

	ok, _ := s.store.Exists(s.ctx, "attachments/tmp/f1/receipt.pdf")
	s.False(ok)
	ok, _ = s.store.Exists(s.ctx, "attachments/2025/03/03/receipt.pdf")
	s.True(ok)

	mime, err := s.store.MimeType(s.ctx, "attachments/2025/03/03/receipt.pdf")
	s.Require().NoError(err)
	s.Equal("application/pdf", mime)
}

func (s *LocalStoreTestSuite) TestMoveMissingSource() {
	err := s.store.Move(s.ctx, "attachments/tmp/nope/a.pdf", "attachments/2025/01/01/a.pdf")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LocalStoreTestSuite) TestDeleteAndDeleteDirectory() {
	s.Require().NoError(s.store.Put(s.ctx, "attachments/tmp/f2/a.png", strings.NewReader("a")))
	s.Require().NoError(s.store.Put(s.ctx, "attachments/tmp/f2/b.png", strings.NewReader("b")))

	s.NoError(s.store.Delete(s.ctx, "attachments/tmp/f2/a.png"))
	s.NoError(s.store.Delete(s.ctx, "attachments/tmp/f2/a.png"), "deleting a missing blob is not an error")

	s.NoError(s.store.DeleteDirectory(s.ctx, "attachments/tmp/f2"))
	exists, err := afero.DirExists(s.fs, "attachments/tmp/f2")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *LocalStoreTestSuite) TestOpenMissing() {
	_, err := s.store.Open(s.ctx, "attachments/2025/01/01/missing.pdf")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestClean(t *testing.T) {
	p, err := clean("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", p)

	p, err = clean("/attachments//tmp/./x")
	require.NoError(t, err)
	assert.Equal(t, "attachments/tmp/x", p)

	_, err = clean("/")
	assert.Error(t, err)
}
