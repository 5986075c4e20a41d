package repositories

import (
	"context"
	"time"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RequestSearch is a single search term expanded into its matchable parts.
// The branches are OR-ed: purpose substring, exact amount (only when the term
// parses as a number), or requester/approver among the name-matched user ids.
type RequestSearch struct {
	Term    string
	Amount  *decimal.Decimal
	UserIDs []string
}

// RequestFilter describes a filtered, paginated view over the request store.
// Visibility is always present; Status and Search narrow the set further.
type RequestFilter struct {
	Visibility domain.Visibility
	Status     *domain.RequestStatus
	Search     *RequestSearch
	Limit      int
	Offset     int
}

// RequestReader defines read operations for request data.
type RequestReader interface {
	// FindRequestByID retrieves a specific request by its ID.
	FindRequestByID(ctx context.Context, requestID string) (*domain.Request, error)

	// FindRequests retrieves the filter's page window, ordered by
	// updated_at descending.
	FindRequests(ctx context.Context, filter RequestFilter) ([]domain.Request, error)

	// CountRequests returns the size of the filtered set before pagination.
	CountRequests(ctx context.Context, filter RequestFilter) (int64, error)

	// CountRequestsByStatus tallies the visibility-filtered set per status.
	// Statuses with no matches are absent from the map.
	CountRequestsByStatus(ctx context.Context, visibility domain.Visibility) (map[domain.RequestStatus]int64, error)

	// ExistsByRequestNumber reports whether any request already holds the number.
	ExistsByRequestNumber(ctx context.Context, number int) (bool, error)

	// FindApprovedRequests retrieves the visibility-filtered approved set,
	// ordered by initiated_on descending, for export.
	FindApprovedRequests(ctx context.Context, visibility domain.Visibility) ([]domain.Request, error)
}

// RequestWriter defines write operations for request data.
type RequestWriter interface {
	// SaveRequest persists a new request. A request_number collision is
	// reported as apperrors.ErrDuplicate so the caller can redraw.
	SaveRequest(ctx context.Context, req domain.Request) error

	// UpdateRequestIfPending applies an edit conditionally on the row still
	// being Pending, so an edit cannot race past a concurrent decision.
	// Returns apperrors.ErrInvalidState when the row exists but is no longer
	// Pending, apperrors.ErrNotFound when it does not exist.
	UpdateRequestIfPending(ctx context.Context, req domain.Request) error

	// UpdateRequestStatus sets the status and bumps updated_at. No Pending
	// guard: the policy layer decides who may call this.
	UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus, updatedAt time.Time) error

	// DeleteRequestIfPending permanently removes the request, conditionally
	// on it still being Pending. Error semantics match UpdateRequestIfPending.
	DeleteRequestIfPending(ctx context.Context, requestID string) error
}

// RequestRepositoryFacade combines all request-related repository interfaces.
type RequestRepositoryFacade interface {
	RequestReader
	RequestWriter
}
