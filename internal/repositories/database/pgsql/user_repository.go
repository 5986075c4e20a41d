package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nyasatech/expense_request_app/internal/apperrors"
	"github.com/nyasatech/expense_request_app/internal/core/domain"
	portsrepo "github.com/nyasatech/expense_request_app/internal/core/ports/repositories"
)

const userColumns = `user_id, first_name, last_name, email, phone, role, password_hash, created_at, updated_at`

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.UserID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// duplicateUserError maps a unique violation onto the client-facing message
// for the column that collided.
func duplicateUserError(pgErr *pgconn.PgError) error {
	if strings.Contains(pgErr.ConstraintName, "phone") {
		return apperrors.NewDuplicate("Phone already taken")
	}
	return apperrors.NewDuplicate("Email already taken")
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		user.UserID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.Role,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return duplicateUserError(pgErr)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY first_name, last_name;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}

	return users, nil
}

func (r *PgxUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	if len(userIDs) == 0 {
		return map[string]domain.User{}, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by ids: %w", err)
	}
	defer rows.Close()

	users := make(map[string]domain.User, len(userIDs))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users[user.UserID] = *user
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}

	return users, nil
}

func (r *PgxUserRepository) FindUserIDsByNameMatch(ctx context.Context, term string) ([]string, error) {
	query := `SELECT user_id FROM users WHERE first_name ILIKE $1 OR last_name ILIKE $1;`
	rows, err := r.db.Query(ctx, query, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query users by name: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user id rows: %w", rows.Err())
	}

	return ids, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
        UPDATE users
        SET first_name = $1, last_name = $2, email = $3, updated_at = $4
        WHERE user_id = $5;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.UpdatedAt,
		user.UserID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return duplicateUserError(pgErr)
		}
		return fmt.Errorf("failed to execute update user query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE user_id = $2;`
	cmdTag, err := r.db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) DeleteUserCascade(ctx context.Context, userID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Requests the user created go with them. Requests where they were only
	// the approver keep their approver_id reference.
	if _, err := tx.Exec(ctx, `DELETE FROM requests WHERE requested_by = $1;`, userID); err != nil {
		return fmt.Errorf("failed to delete user's requests: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM users WHERE user_id = $1;`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFound("User not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
