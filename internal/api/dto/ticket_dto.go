package dto

import "time"

// CreateTicketRequest payload. CreatedAt defaults to the time of the request.
type CreateTicketRequest struct {
	Title            string     `json:"title"`
	Priority         string     `json:"priority"`
	AssignedTo       string     `json:"assigned_to"`
	Description      string     `json:"description"`
	CreatedAt        *time.Time `json:"created_at"`
	IsPayingCustomer bool       `json:"is_paying_customer"`
}

// CreateTicketResponse returns the store-assigned ticket id.
type CreateTicketResponse struct {
	ID int64 `json:"id"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	Username string `json:"username"`
}
