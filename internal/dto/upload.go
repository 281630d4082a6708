package dto

// UploadResponse is returned when a file has been staged.
// Folder is the reference a client later passes in CreateDisbursementRequest.Attachments.
type UploadResponse struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
}

// PruneResult reports what a prune run removed.
type PruneResult struct {
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
}
