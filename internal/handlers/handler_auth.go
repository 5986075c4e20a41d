package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/dto"
	"github.com/nyasatech/expense_request_app/internal/middleware"
)

// authHandler handles login and signup.
type authHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
}

func newAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade) *authHandler {
	return &authHandler{userService: us, tokenService: ts}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.RouterGroup, us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade) {
	h := newAuthHandler(us, ts)

	rg.POST("/login", h.login)
	rg.POST("/signup", h.signup)
}

// login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "Failed to log in")
		return
	}

	token, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// signup godoc
// @Summary Register new user
// @Description Creates a new user account.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Router /users/signup [post]
func (h *authHandler) signup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for signup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create user")
		return
	}

	logger.Info("User signed up", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}
