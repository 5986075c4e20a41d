package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyasatech/expense_request_app/internal/apperrors"
	"github.com/nyasatech/expense_request_app/internal/core/domain"
	portsrepo "github.com/nyasatech/expense_request_app/internal/core/ports/repositories"
	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/dto"
)

// Pagination bounds for ListRequests. The limit cap protects the store from
// unbounded page requests.
const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// maxNumberAttempts is the total draw budget for request number generation,
// spanning both the pre-check and write-time collision retries.
const maxNumberAttempts = 10

type requestService struct {
	BaseService
	requestRepo portsrepo.RequestRepositoryFacade
	userRepo    portsrepo.UserReader
}

// NewRequestService creates the request lifecycle service.
func NewRequestService(requestRepo portsrepo.RequestRepositoryFacade, userRepo portsrepo.UserReader) portssvc.RequestSvcFacade {
	return &requestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.RequestSvcFacade = (*requestService)(nil)

func (s *requestService) CreateRequest(ctx context.Context, actor domain.Actor, req dto.CreateRequestRequest) (*domain.Request, error) {
	currency := domain.Currency(req.Currency)
	if !currency.IsValid() {
		return nil, apperrors.NewValidation(fmt.Sprintf("Invalid currency %q", req.Currency))
	}
	if req.Amount.IsNegative() {
		return nil, apperrors.NewValidation("Amount must not be negative")
	}
	if strings.TrimSpace(req.Purpose) == "" {
		return nil, apperrors.NewValidation("Purpose is required")
	}

	now := time.Now()
	request := domain.Request{
		RequestID:   uuid.NewString(),
		RequestedBy: actor.ID,
		ApproverID:  req.ApproverID,
		Amount:      req.Amount,
		Currency:    currency,
		Purpose:     req.Purpose,
		Status:      domain.StatusPending,
		InitiatedOn: now,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.RequiredOn != nil {
		request.RequiredOn = *req.RequiredOn
	}

	// Draw a unique request number and persist. The store's uniqueness
	// constraint backstops the existence check against concurrent creations;
	// a write-time collision consumes an attempt like any other failed draw.
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := domain.RequestNumberMin + rand.Intn(domain.RequestNumberMax-domain.RequestNumberMin+1)

		taken, err := s.requestRepo.ExistsByRequestNumber(ctx, number)
		if err != nil {
			s.LogError(ctx, err, "Failed to check request number availability", slog.Int("number", number))
			return nil, fmt.Errorf("failed to check request number availability: %w", err)
		}
		if taken {
			continue
		}

		request.RequestNumber = number
		err = s.requestRepo.SaveRequest(ctx, request)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				s.LogWarn(ctx, "Request number collided at write time, redrawing", slog.Int("number", number))
				continue
			}
			s.LogError(ctx, err, "Failed to save request", slog.String("request_id", request.RequestID))
			return nil, err
		}

		s.LogInfo(ctx, "Request created",
			slog.String("request_id", request.RequestID),
			slog.Int("request_number", request.RequestNumber))
		return &request, nil
	}

	err := apperrors.NewResourceExhausted("Failed to generate a unique request number after multiple attempts.")
	s.LogError(ctx, err, "Request number budget exhausted")
	return nil, err
}

func (s *requestService) GetRequestByID(ctx context.Context, actor domain.Actor, requestID string) (*domain.Request, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find request", slog.String("request_id", requestID))
		}
		return nil, err
	}

	if err := domain.Decide(actor, *request, domain.OpView); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *requestService) EditRequest(ctx context.Context, actor domain.Actor, requestID string, req dto.EditRequestRequest) (*domain.Request, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find request for edit", slog.String("request_id", requestID))
		}
		return nil, err
	}

	if err := domain.Decide(actor, *request, domain.OpEdit); err != nil {
		return nil, err
	}

	// Merge provided fields; absent fields are left unchanged.
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, apperrors.NewValidation("Amount must not be negative")
		}
		request.Amount = *req.Amount
	}
	if req.Currency != nil {
		currency := domain.Currency(*req.Currency)
		if !currency.IsValid() {
			return nil, apperrors.NewValidation(fmt.Sprintf("Invalid currency %q", *req.Currency))
		}
		request.Currency = currency
	}
	if req.ApproverID != nil {
		request.ApproverID = *req.ApproverID
	}
	if req.Purpose != nil {
		if strings.TrimSpace(*req.Purpose) == "" {
			return nil, apperrors.NewValidation("Purpose is required")
		}
		request.Purpose = *req.Purpose
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.RequiredOn != nil {
		request.RequiredOn = *req.RequiredOn
	}
	request.UpdatedAt = time.Now()

	err = s.requestRepo.UpdateRequestIfPending(ctx, *request)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			// A concurrent decision landed between our read and the
			// conditional write. Report the current status.
			return nil, s.staleStateError(ctx, requestID, "edit", "edited")
		}
		s.LogError(ctx, err, "Failed to update request", slog.String("request_id", requestID))
		return nil, err
	}

	s.LogInfo(ctx, "Request edited", slog.String("request_id", requestID))
	return request, nil
}

func (s *requestService) UpdateRequestStatus(ctx context.Context, actor domain.Actor, requestID string, req dto.UpdateRequestStatusRequest) (*domain.Request, error) {
	newStatus := domain.RequestStatus(req.Status)
	if !newStatus.IsDecision() {
		return nil, apperrors.NewValidation(fmt.Sprintf("Invalid status %q", req.Status))
	}

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find request for status update", slog.String("request_id", requestID))
		}
		return nil, err
	}

	if err := domain.Decide(actor, *request, domain.OpChangeStatus); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.requestRepo.UpdateRequestStatus(ctx, requestID, newStatus, now); err != nil {
		s.LogError(ctx, err, "Failed to update request status", slog.String("request_id", requestID))
		return nil, err
	}

	request.Status = newStatus
	request.UpdatedAt = now
	s.LogInfo(ctx, "Request status updated",
		slog.String("request_id", requestID),
		slog.String("status", string(newStatus)))
	return request, nil
}

func (s *requestService) DeleteRequest(ctx context.Context, actor domain.Actor, requestID string) error {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find request for deletion", slog.String("request_id", requestID))
		}
		return err
	}

	if err := domain.Decide(actor, *request, domain.OpDelete); err != nil {
		return err
	}

	err = s.requestRepo.DeleteRequestIfPending(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return s.staleStateError(ctx, requestID, "delete", "deleted")
		}
		s.LogError(ctx, err, "Failed to delete request", slog.String("request_id", requestID))
		return err
	}

	s.LogInfo(ctx, "Request deleted", slog.String("request_id", requestID))
	return nil
}

func (s *requestService) ListRequests(ctx context.Context, actor domain.Actor, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error) {
	page := params.Page
	if page < 1 {
		page = defaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	visibility := domain.VisibilityFor(actor)
	filter := portsrepo.RequestFilter{
		Visibility: visibility,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	if params.Status != "" {
		status := domain.RequestStatus(params.Status)
		filter.Status = &status
	}

	if term := strings.TrimSpace(params.Search); term != "" {
		search := &portsrepo.RequestSearch{Term: term}
		if amount, err := decimal.NewFromString(term); err == nil {
			search.Amount = &amount
		}
		userIDs, err := s.userRepo.FindUserIDsByNameMatch(ctx, term)
		if err != nil {
			s.LogError(ctx, err, "Failed to match users by name", slog.String("term", term))
			return nil, fmt.Errorf("failed to match users by name: %w", err)
		}
		search.UserIDs = userIDs
		filter.Search = search
	}

	total, err := s.requestRepo.CountRequests(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to count requests")
		return nil, err
	}

	requests, err := s.requestRepo.FindRequests(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list requests")
		return nil, err
	}

	// Status summary is computed over the visibility-filtered set only,
	// independent of the status filter and search.
	counts, err := s.requestRepo.CountRequestsByStatus(ctx, visibility)
	if err != nil {
		s.LogError(ctx, err, "Failed to count requests by status")
		return nil, err
	}
	statusCounts := map[string]int64{
		string(domain.StatusPending):  0,
		string(domain.StatusApproved): 0,
		string(domain.StatusRejected): 0,
	}
	for status, count := range counts {
		statusCounts[string(status)] = count
	}

	users, err := s.relatedUsers(ctx, requests)
	if err != nil {
		return nil, err
	}

	data := make([]dto.RequestResponse, len(requests))
	for i := range requests {
		data[i] = dto.ToRequestResponse(&requests[i], users)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	return &dto.ListRequestsResponse{
		Page:         page,
		Limit:        limit,
		Total:        total,
		TotalPages:   totalPages,
		StatusCounts: statusCounts,
		Data:         data,
	}, nil
}

// relatedUsers fetches the requester and approver records referenced by the
// given requests in one round trip.
func (s *requestService) relatedUsers(ctx context.Context, requests []domain.Request) (map[string]domain.User, error) {
	idSet := make(map[string]struct{}, len(requests)*2)
	for i := range requests {
		idSet[requests[i].RequestedBy] = struct{}{}
		idSet[requests[i].ApproverID] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return map[string]domain.User{}, nil
	}

	users, err := s.userRepo.FindUsersByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load users for requests")
		return nil, fmt.Errorf("failed to load users for requests: %w", err)
	}
	return users, nil
}

// staleStateError re-reads the request after a conditional write found it no
// longer Pending, and reports the denial with the current status.
func (s *requestService) staleStateError(ctx context.Context, requestID, verb, pastVerb string) error {
	current, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		// The row may also have been deleted concurrently.
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return apperrors.NewInvalidState(fmt.Sprintf("Cannot %s non-pending request", verb))
	}
	return apperrors.NewInvalidState(fmt.Sprintf(
		"Cannot %s request with status %q. Only pending requests can be %s.", verb, current.Status, pastVerb))
}
