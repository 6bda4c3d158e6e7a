// Package database provides the JSON API for browsing and editing tables.
package database

// Response messages for successful edits.
const (
	MsgUpdated = "Data updated successfully!"
	MsgDeleted = "Data deleted successfully!"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Table string `json:"table"`
	Query string `json:"query"`
}

// UpdateRequest is the body of POST /update/{table}/{column}.
type UpdateRequest struct {
	Value    any `json:"value"`
	NewValue any `json:"newValue"`
}

// DeleteRequest is the body of POST /delete/{table}/{column}.
type DeleteRequest struct {
	Value any `json:"value"`
}

// MessageResponse reports a successful edit.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries every failure, always with status 400.
type ErrorResponse struct {
	Error string `json:"error"`
}
