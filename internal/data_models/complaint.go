package dto

import model "complaint-desk.com/complaint-desk/internal/models"

// CreateComplaintRequest lists every field a client may set on creation.
// Server-managed fields are not representable here.
type CreateComplaintRequest struct {
	Title         string  `json:"title" validate:"required,min=5,max=100"`
	Description   string  `json:"description" validate:"required,min=20"`
	Category      string  `json:"category" validate:"required,category"`
	Priority      string  `json:"priority" validate:"required,priority"`
	CustomerName  string  `json:"customerName" validate:"required"`
	CustomerEmail string  `json:"customerEmail" validate:"required,basic_email"`
	Assignee      *string `json:"assignee,omitempty" validate:"omitempty,max=64"`
}

// UpdateComplaintRequest is the allow-list of client-mutable fields for a
// partial update. A nil pointer leaves the stored value untouched.
type UpdateComplaintRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Category      *string `json:"category,omitempty"`
	Priority      *string `json:"priority,omitempty"`
	CustomerName  *string `json:"customerName,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Assignee      *string `json:"assignee,omitempty"`
	Status        *string `json:"status,omitempty"`
	Resolution    *string `json:"resolution,omitempty"`
}

type UpdateStatusRequest struct {
	Status     string  `json:"status"`
	Resolution *string `json:"resolution,omitempty"`
}

type ListComplaintsQuery struct {
	Page           int
	Limit          int
	Status         string
	Category       string
	Priority       string
	Assignee       string
	Search         string
	Sort           string
	IncludeDeleted bool
}

type ComplaintPage struct {
	Items []model.Complaint `json:"items"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Pages int               `json:"pages"`
}

type DeleteComplaintResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}
