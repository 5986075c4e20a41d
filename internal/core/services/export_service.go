package services

import (
	"context"
	"log/slog"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	portsrepo "github.com/nyasatech/expense_request_app/internal/core/ports/repositories"
	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/dto"
	"github.com/nyasatech/expense_request_app/internal/utils"
)

const exportDateLayout = "2006-01-02"

type exportService struct {
	BaseService
	requestRepo portsrepo.RequestReader
	userRepo    portsrepo.UserReader
}

// NewExportService creates the approved-requests export service.
func NewExportService(requestRepo portsrepo.RequestReader, userRepo portsrepo.UserReader) portssvc.ExportSvcFacade {
	return &exportService{requestRepo: requestRepo, userRepo: userRepo}
}

var _ portssvc.ExportSvcFacade = (*exportService)(nil)

// ExportApprovedRequests builds the tabular export of approved requests the
// actor may see, newest first by initiation date. Requester and approver names
// fall back to "Unknown" when the user no longer exists.
func (s *exportService) ExportApprovedRequests(ctx context.Context, actor domain.Actor) ([]dto.ExportRow, error) {
	requests, err := s.requestRepo.FindApprovedRequests(ctx, domain.VisibilityFor(actor))
	if err != nil {
		s.LogError(ctx, err, "Failed to load approved requests for export")
		return nil, err
	}

	userIDs := make([]string, 0, len(requests)*2)
	seen := make(map[string]struct{}, len(requests)*2)
	for _, req := range requests {
		for _, id := range []string{req.RequestedBy, req.ApproverID} {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			userIDs = append(userIDs, id)
		}
	}

	users := map[string]domain.User{}
	if len(userIDs) > 0 {
		users, err = s.userRepo.FindUsersByIDs(ctx, userIDs)
		if err != nil {
			s.LogError(ctx, err, "Failed to load users for export")
			return nil, err
		}
	}

	rows := make([]dto.ExportRow, 0, len(requests))
	for _, req := range requests {
		rows = append(rows, dto.ExportRow{
			RequesterName:   userNameOrUnknown(users, req.RequestedBy),
			AmountFormatted: utils.FormatAmountWithCurrency(req.Currency, req.Amount),
			ApproverName:    userNameOrUnknown(users, req.ApproverID),
			Purpose:         req.Purpose,
			Date:            req.InitiatedOn.Format(exportDateLayout),
		})
	}

	s.LogInfo(ctx, "Export built", slog.Int("rows", len(rows)))
	return rows, nil
}

func userNameOrUnknown(users map[string]domain.User, userID string) string {
	if u, ok := users[userID]; ok {
		return u.FullName()
	}
	return "Unknown"
}
