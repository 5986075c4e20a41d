package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nyasatech/expense_request_app/internal/apperrors"
	"github.com/nyasatech/expense_request_app/internal/core/domain"
	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/core/services"
	"github.com/nyasatech/expense_request_app/internal/dto"
	"github.com/nyasatech/expense_request_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

// --- CreateUser ---

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		FirstName: "Thoko",
		LastName:  "Banda",
		Email:     "thoko@example.com",
		Phone:     "+265991234567",
		Password:  "password123",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email &&
			u.Role == domain.RoleEmployee && // default role
			u.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, u.PasswordHash)
	})).Return(nil).Once()

	created, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.UserID)
	suite.Equal("Thoko Banda", created.FullName())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		FirstName: "Thoko",
		LastName:  "Banda",
		Email:     "taken@example.com",
		Phone:     "+265991234567",
		Password:  "password123",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Return(apperrors.NewDuplicate("Email already taken")).Once()

	created, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Equal("Email already taken", err.Error())
}

func (suite *UserServiceTestSuite) TestCreateUser_PartnerRole() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		FirstName: "Chimwemwe",
		LastName:  "Phiri",
		Email:     "partner@example.com",
		Phone:     "+265997654321",
		Role:      "Partner",
		Password:  "password123",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RolePartner
	})).Return(nil).Once()

	created, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.RolePartner, created.Role)
}

// --- AuthenticateUser ---

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("password123")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "thoko@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.Email, "password123")

	suite.Require().NoError(err)
	suite.Equal(user, got)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmail() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.AuthenticateUser(ctx, "nobody@example.com", "password123")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal("User not found", err.Error())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("password123")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "thoko@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.Email, "wrong-password")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Equal("Invalid credentials", err.Error())
}

// --- ListUsers ---

func (suite *UserServiceTestSuite) TestListUsers_RoleFilter() {
	ctx := context.Background()
	partners := []domain.User{{UserID: uuid.NewString(), Role: domain.RolePartner}}

	suite.mockUserRepo.On("FindUsers", ctx, mock.MatchedBy(func(role *domain.Role) bool {
		return role != nil && *role == domain.RolePartner
	})).Return(partners, nil).Once()

	got, err := suite.service.ListUsers(ctx, dto.ListUsersParams{Role: "Partner"})

	suite.Require().NoError(err)
	suite.Equal(partners, got)
}

func (suite *UserServiceTestSuite) TestListUsers_NoFilter() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUsers", ctx, (*domain.Role)(nil)).Return([]domain.User{}, nil).Once()

	got, err := suite.service.ListUsers(ctx, dto.ListUsersParams{})

	suite.Require().NoError(err)
	suite.NotNil(got)
	suite.Empty(got)
}

// --- UpdateUser ---

func (suite *UserServiceTestSuite) TestUpdateUser_MergesProvidedFields() {
	ctx := context.Background()
	user := &domain.User{
		UserID:    uuid.NewString(),
		FirstName: "Thoko",
		LastName:  "Banda",
		Email:     "thoko@example.com",
	}
	newFirst := "Thokozani"

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.FirstName == newFirst && u.LastName == "Banda" && u.Email == "thoko@example.com"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, user.UserID, dto.UpdateUserRequest{FirstName: &newFirst})

	suite.Require().NoError(err)
	suite.Equal(newFirst, updated.FirstName)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- UpdatePassword ---

func (suite *UserServiceTestSuite) TestUpdatePassword_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("old-password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdatePasswordHash", ctx, user.UserID, mock.MatchedBy(func(newHash string) bool {
		return utils.CheckPasswordHash("new-password", newHash)
	})).Return(nil).Once()

	err = suite.service.UpdatePassword(ctx, user.UserID, dto.UpdatePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdatePassword_IncorrectCurrent() {
	ctx := context.Background()
	hash, err := utils.HashPassword("old-password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	err = suite.service.UpdatePassword(ctx, user.UserID, dto.UpdatePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal("Incorrect current password.", err.Error())
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

// --- ResetPassword ---

func (suite *UserServiceTestSuite) TestResetPassword_Success() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "thoko@example.com"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdatePasswordHash", ctx, user.UserID, mock.MatchedBy(func(newHash string) bool {
		return utils.CheckPasswordHash("new-password", newHash)
	})).Return(nil).Once()

	err := suite.service.ResetPassword(ctx, dto.ResetPasswordRequest{
		Email:       user.Email,
		NewPassword: "new-password",
	})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestResetPassword_UnknownEmail() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.ResetPassword(ctx, dto.ResetPasswordRequest{
		Email:       "nobody@example.com",
		NewPassword: "new-password",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal("User not found", err.Error())
}

// --- DeleteUser ---

func (suite *UserServiceTestSuite) TestDeleteUser_Cascades() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("DeleteUserCascade", ctx, userID).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, userID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
