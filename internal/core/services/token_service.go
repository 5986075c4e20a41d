package services

import (
	"context"
	"fmt"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/platform/config"
	"github.com/nyasatech/expense_request_app/internal/utils"
)

type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates the access token issuer.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := utils.GenerateJWT(user, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}
