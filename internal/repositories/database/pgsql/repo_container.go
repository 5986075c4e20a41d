package pgsql

import (
	portsrepo "github.com/nyasatech/expense_request_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RequestRepo: newPgxRequestRepository(dbPool),
		UserRepo:    newPgxUserRepository(dbPool),
	}
}
