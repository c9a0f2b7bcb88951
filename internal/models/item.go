package models

import "time"

type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

// CreateItemRequest is the body accepted by POST /api/items.
type CreateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description,omitempty"`
}

// MessageResponse is the body of confirmations and error replies.
type MessageResponse struct {
	Message string `json:"message"`
}
