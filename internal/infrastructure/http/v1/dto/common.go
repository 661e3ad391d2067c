// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// IDResponse contains the ID of a created resource.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse indicates operation success.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
