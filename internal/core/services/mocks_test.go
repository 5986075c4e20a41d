package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	portsrepo "github.com/nyasatech/expense_request_app/internal/core/ports/repositories"
)

// --- Mock RequestRepository ---

type MockRequestRepository struct {
	mock.Mock
}

var _ portsrepo.RequestRepositoryFacade = (*MockRequestRepository)(nil)

func (m *MockRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.Request, error) {
	args := m.Called(ctx, requestID)
	var req *domain.Request
	if args.Get(0) != nil {
		req = args.Get(0).(*domain.Request)
	}
	return req, args.Error(1)
}

func (m *MockRequestRepository) FindRequests(ctx context.Context, filter portsrepo.RequestFilter) ([]domain.Request, error) {
	args := m.Called(ctx, filter)
	var requests []domain.Request
	if args.Get(0) != nil {
		requests = args.Get(0).([]domain.Request)
	}
	return requests, args.Error(1)
}

func (m *MockRequestRepository) CountRequests(ctx context.Context, filter portsrepo.RequestFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRequestRepository) CountRequestsByStatus(ctx context.Context, visibility domain.Visibility) (map[domain.RequestStatus]int64, error) {
	args := m.Called(ctx, visibility)
	var counts map[domain.RequestStatus]int64
	if args.Get(0) != nil {
		counts = args.Get(0).(map[domain.RequestStatus]int64)
	}
	return counts, args.Error(1)
}

func (m *MockRequestRepository) ExistsByRequestNumber(ctx context.Context, number int) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) FindApprovedRequests(ctx context.Context, visibility domain.Visibility) ([]domain.Request, error) {
	args := m.Called(ctx, visibility)
	var requests []domain.Request
	if args.Get(0) != nil {
		requests = args.Get(0).([]domain.Request)
	}
	return requests, args.Error(1)
}

func (m *MockRequestRepository) SaveRequest(ctx context.Context, req domain.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateRequestIfPending(ctx context.Context, req domain.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus, updatedAt time.Time) error {
	args := m.Called(ctx, requestID, status, updatedAt)
	return args.Error(0)
}

func (m *MockRequestRepository) DeleteRequestIfPending(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	var users map[string]domain.User
	if args.Get(0) != nil {
		users = args.Get(0).(map[string]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) FindUserIDsByNameMatch(ctx context.Context, term string) ([]string, error) {
	args := m.Called(ctx, term)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUserCascade(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
