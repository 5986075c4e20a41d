package services

import (
	"context"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	"github.com/nyasatech/expense_request_app/internal/dto"
)

// RequestReaderSvc defines read operations over requests.
type RequestReaderSvc interface {
	// GetRequestByID retrieves a request the actor is allowed to view.
	GetRequestByID(ctx context.Context, actor domain.Actor, requestID string) (*domain.Request, error)

	// ListRequests builds the filtered, paginated, searched view plus the
	// status summary, respecting the actor's visibility.
	ListRequests(ctx context.Context, actor domain.Actor, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error)
}

// RequestWriterSvc defines the request lifecycle mutations.
type RequestWriterSvc interface {
	// CreateRequest creates a Pending request owned by the actor.
	CreateRequest(ctx context.Context, actor domain.Actor, req dto.CreateRequestRequest) (*domain.Request, error)

	// EditRequest merges the provided fields into a pending request owned by
	// the actor.
	EditRequest(ctx context.Context, actor domain.Actor, requestID string, req dto.EditRequestRequest) (*domain.Request, error)

	// UpdateRequestStatus records the designated approver's decision.
	UpdateRequestStatus(ctx context.Context, actor domain.Actor, requestID string, req dto.UpdateRequestStatusRequest) (*domain.Request, error)

	// DeleteRequest permanently removes a pending request owned by the actor.
	DeleteRequest(ctx context.Context, actor domain.Actor, requestID string) error
}

// RequestSvcFacade combines all request-related service interfaces.
type RequestSvcFacade interface {
	RequestReaderSvc
	RequestWriterSvc
}

// ExportSvcFacade renders the visible approved requests as tabular rows.
type ExportSvcFacade interface {
	ExportApprovedRequests(ctx context.Context, actor domain.Actor) ([]dto.ExportRow, error)
}
