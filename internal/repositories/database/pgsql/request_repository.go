package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nyasatech/expense_request_app/internal/apperrors"
	"github.com/nyasatech/expense_request_app/internal/core/domain"
	portsrepo "github.com/nyasatech/expense_request_app/internal/core/ports/repositories"
)

const pgUniqueViolation = "23505"

const requestColumns = `request_id, request_number, requested_by, approver_id, amount, currency, purpose, description, required_on, status, initiated_on, created_at, updated_at`

type PgxRequestRepository struct {
	db *pgxpool.Pool
}

func newPgxRequestRepository(db *pgxpool.Pool) portsrepo.RequestRepositoryFacade {
	return &PgxRequestRepository{db: db}
}

// Ensure PgxRequestRepository implements portsrepo.RequestRepositoryFacade
var _ portsrepo.RequestRepositoryFacade = (*PgxRequestRepository)(nil)

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var req domain.Request
	err := row.Scan(
		&req.RequestID,
		&req.RequestNumber,
		&req.RequestedBy,
		&req.ApproverID,
		&req.Amount,
		&req.Currency,
		&req.Purpose,
		&req.Description,
		&req.RequiredOn,
		&req.Status,
		&req.InitiatedOn,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// requestFilterClause renders the filter into a WHERE clause and its args,
// continuing from the given positional argument index.
func requestFilterClause(filter portsrepo.RequestFilter, args []any) (string, []any) {
	conds := []string{}

	if !filter.Visibility.All {
		args = append(args, filter.Visibility.RequestedBy)
		conds = append(conds, fmt.Sprintf("requested_by = $%d", len(args)))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if filter.Search != nil {
		ors := []string{}

		args = append(args, "%"+filter.Search.Term+"%")
		ors = append(ors, fmt.Sprintf("purpose ILIKE $%d", len(args)))

		if filter.Search.Amount != nil {
			args = append(args, *filter.Search.Amount)
			ors = append(ors, fmt.Sprintf("amount = $%d", len(args)))
		}

		if len(filter.Search.UserIDs) > 0 {
			args = append(args, filter.Search.UserIDs)
			ors = append(ors, fmt.Sprintf("requested_by = ANY($%d)", len(args)))
			args = append(args, filter.Search.UserIDs)
			ors = append(ors, fmt.Sprintf("approver_id = ANY($%d)", len(args)))
		}

		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PgxRequestRepository) SaveRequest(ctx context.Context, req domain.Request) error {
	query := `
        INSERT INTO requests (` + requestColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.db.Exec(ctx, query,
		req.RequestID,
		req.RequestNumber,
		req.RequestedBy,
		req.ApproverID,
		req.Amount,
		req.Currency,
		req.Purpose,
		req.Description,
		req.RequiredOn,
		req.Status,
		req.InitiatedOn,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// request_number collision; the caller redraws.
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

func (r *PgxRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE request_id = $1;`
	req, err := scanRequest(r.db.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find request by ID %s: %w", requestID, err)
	}
	return req, nil
}

func (r *PgxRequestRepository) FindRequests(ctx context.Context, filter portsrepo.RequestFilter) ([]domain.Request, error) {
	where, args := requestFilterClause(filter, nil)

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`SELECT `+requestColumns+` FROM requests%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d;`,
		where, limitPos, offsetPos)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, *req)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", rows.Err())
	}

	return requests, nil
}

func (r *PgxRequestRepository) CountRequests(ctx context.Context, filter portsrepo.RequestFilter) (int64, error) {
	where, args := requestFilterClause(filter, nil)

	var count int64
	query := `SELECT COUNT(*) FROM requests` + where + `;`
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return count, nil
}

func (r *PgxRequestRepository) CountRequestsByStatus(ctx context.Context, visibility domain.Visibility) (map[domain.RequestStatus]int64, error) {
	where, args := requestFilterClause(portsrepo.RequestFilter{Visibility: visibility}, nil)

	query := `SELECT status, COUNT(*) FROM requests` + where + ` GROUP BY status;`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}
	defer rows.Close()

	counts := map[domain.RequestStatus]int64{}
	for rows.Next() {
		var status domain.RequestStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count row: %w", err)
		}
		counts[status] = count
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating status count rows: %w", rows.Err())
	}

	return counts, nil
}

func (r *PgxRequestRepository) ExistsByRequestNumber(ctx context.Context, number int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM requests WHERE request_number = $1);`
	if err := r.db.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check request number %d: %w", number, err)
	}
	return exists, nil
}

func (r *PgxRequestRepository) FindApprovedRequests(ctx context.Context, visibility domain.Visibility) ([]domain.Request, error) {
	status := domain.StatusApproved
	where, args := requestFilterClause(portsrepo.RequestFilter{Visibility: visibility, Status: &status}, nil)

	query := `SELECT ` + requestColumns + ` FROM requests` + where + ` ORDER BY initiated_on DESC;`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, *req)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", rows.Err())
	}

	return requests, nil
}

func (r *PgxRequestRepository) UpdateRequestIfPending(ctx context.Context, req domain.Request) error {
	query := `
        UPDATE requests
        SET approver_id = $1, amount = $2, currency = $3, purpose = $4, description = $5, required_on = $6, updated_at = $7
        WHERE request_id = $8 AND status = $9;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		req.ApproverID,
		req.Amount,
		req.Currency,
		req.Purpose,
		req.Description,
		req.RequiredOn,
		req.UpdatedAt,
		req.RequestID,
		domain.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update request query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissedConditionalWrite(ctx, req.RequestID)
	}
	return nil
}

func (r *PgxRequestRepository) UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus, updatedAt time.Time) error {
	query := `
        UPDATE requests
        SET status = $1, updated_at = $2
        WHERE request_id = $3;
    `
	cmdTag, err := r.db.Exec(ctx, query, status, updatedAt, requestID)
	if err != nil {
		return fmt.Errorf("failed to execute update status query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRequestRepository) DeleteRequestIfPending(ctx context.Context, requestID string) error {
	query := `DELETE FROM requests WHERE request_id = $1 AND status = $2;`
	cmdTag, err := r.db.Exec(ctx, query, requestID, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to execute delete request query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissedConditionalWrite(ctx, requestID)
	}
	return nil
}

// classifyMissedConditionalWrite distinguishes "row gone" from "row no longer
// Pending" after a conditional write matched nothing.
func (r *PgxRequestRepository) classifyMissedConditionalWrite(ctx context.Context, requestID string) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM requests WHERE request_id = $1);`
	if err := r.db.QueryRow(ctx, query, requestID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check request %s: %w", requestID, err)
	}
	if exists {
		return apperrors.ErrInvalidState
	}
	return apperrors.ErrNotFound
}
