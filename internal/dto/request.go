package dto

import (
	"time"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRequestRequest defines the payload for creating a request.
type CreateRequestRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required,oneof=MWK USD"`
	ApproverID  string          `json:"approver_id" binding:"required,uuid"`
	Purpose     string          `json:"purpose" binding:"required"`
	Description *string         `json:"description"`
	RequiredOn  *string         `json:"required_on"`
}

// EditRequestRequest defines the payload for editing a pending request.
// All fields are optional; absent fields are left unchanged (partial update).
type EditRequestRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency" binding:"omitempty,oneof=MWK USD"`
	ApproverID  *string          `json:"approver_id" binding:"omitempty,uuid"`
	Purpose     *string          `json:"purpose"`
	Description *string          `json:"description"`
	RequiredOn  *string          `json:"required_on"`
}

// UpdateRequestStatusRequest defines the payload for an approver's decision.
type UpdateRequestStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Approved Rejected"`
}

// ListRequestsParams defines query parameters for listing requests.
type ListRequestsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Search string `form:"search"`
}

// RequestResponse is the wire shape of a single request, with the requester
// and approver expanded when those users still exist.
type RequestResponse struct {
	ID            string          `json:"id"`
	RequestNumber int             `json:"request_number"`
	RequestBy     string          `json:"request_by"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ApproverID    string          `json:"approver_id"`
	Purpose       string          `json:"purpose"`
	Description   string          `json:"description"`
	InitiatedOn   time.Time       `json:"initiated_on"`
	RequiredOn    string          `json:"required_on"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Approver      *UserResponse   `json:"approver"`
	RequestedBy   *UserResponse   `json:"requested_by"`
}

// ListRequestsResponse is the paginated list envelope.
type ListRequestsResponse struct {
	Page         int               `json:"page"`
	Limit        int               `json:"limit"`
	Total        int64             `json:"total"`
	TotalPages   int64             `json:"totalPages"`
	StatusCounts map[string]int64  `json:"statusCounts"`
	Data         []RequestResponse `json:"data"`
}

// ExportRow is one tabular row of the approved-requests export.
type ExportRow struct {
	RequesterName   string
	AmountFormatted string
	ApproverName    string
	Purpose         string
	Date            string
}

// ToRequestResponse converts a domain.Request to its wire shape. The users
// map supplies requester/approver details; missing entries yield nil.
func ToRequestResponse(req *domain.Request, users map[string]domain.User) RequestResponse {
	resp := RequestResponse{
		ID:            req.RequestID,
		RequestNumber: req.RequestNumber,
		RequestBy:     req.RequestedBy,
		Amount:        req.Amount,
		Currency:      string(req.Currency),
		ApproverID:    req.ApproverID,
		Purpose:       req.Purpose,
		Description:   req.Description,
		InitiatedOn:   req.InitiatedOn,
		RequiredOn:    req.RequiredOn,
		Status:        string(req.Status),
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
	if u, ok := users[req.RequestedBy]; ok {
		ur := ToUserResponse(&u)
		resp.RequestedBy = &ur
	}
	if u, ok := users[req.ApproverID]; ok {
		ur := ToUserResponse(&u)
		resp.Approver = &ur
	}
	return resp
}
