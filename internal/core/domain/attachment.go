package domain

import (
	"path"
	"time"
)

// Attachment is a finalized supporting document bound to a disbursement.
type Attachment struct {
	AttachmentID   string    `json:"attachmentID"`
	DisbursementID string    `json:"disbursementID"`
	FilePath       string    `json:"filePath"` // storage-relative
	FileName       string    `json:"fileName"`
	FileType       string    `json:"fileType"` // MIME type
	CreatedAt      time.Time `json:"createdAt"`
}

// TemporaryUpload is a staged file waiting to be finalized by a submission.
type TemporaryUpload struct {
	Folder    string    `json:"folder"` // opaque reference handed to the client
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	tempUploadRoot = "attachments/tmp"
	attachmentRoot = "attachments"
)

// TempUploadDir is the staging directory of folder.
func TempUploadDir(folder string) string {
	return path.Join(tempUploadRoot, folder)
}

// TempUploadPath is the staged location of filename in folder.
func TempUploadPath(folder, filename string) string {
	return path.Join(tempUploadRoot, folder, filename)
}

// AttachmentPath is the permanent location of filename finalized at t.
func AttachmentPath(t time.Time, filename string) string {
	return path.Join(attachmentRoot, t.Format("2006/01/02"), filename)
}
