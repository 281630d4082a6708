package dto

// ErrorBody is the payload of a failure response.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse is the envelope of every failure response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
