package services

import (
	portsrepo "github.com/nyasatech/expense_request_app/internal/core/ports/repositories"
	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/platform/config"
)

// NewServiceContainer wires the repositories into the application services.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Request: NewRequestService(repos.RequestRepo, repos.UserRepo),
		Export:  NewExportService(repos.RequestRepo, repos.UserRepo),
		User:    NewUserService(repos.UserRepo),
		Token:   NewTokenService(cfg),
	}
}
