package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/dto"
	"github.com/nyasatech/expense_request_app/internal/middleware"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade) *userHandler {
	return &userHandler{userService: us, tokenService: ts}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, tokenService portssvc.TokenSvcFacade) {
	h := newUserHandler(userService, tokenService)

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.PUT("/edit", h.updateProfile)
		users.PUT("/update-password", h.updatePassword)
		users.POST("/reset-password", h.resetPassword)
		users.GET("/:id", h.getUser)
		users.DELETE("/:id", h.deleteUser)
	}
}

// listUsers godoc
// @Summary List users
// @Description Retrieves users, optionally filtered by role (e.g. to pick an approver).
// @Tags users
// @Produce json
// @Param role query string false "Filter by role" Enums(Employee, Partner)
// @Success 200 {array} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve users")
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.ToUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateProfile godoc
// @Summary Update own profile
// @Description Updates the authenticated user's profile details and re-issues the access token, since its claims embed the profile fields.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.UpdateUserRequest true "Profile fields to update"
// @Success 200 {object} dto.UpdateUserResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/edit [put]
func (h *userHandler) updateProfile(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), actor.ID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update user")
		return
	}

	token, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.UpdateUserResponse{User: dto.ToUserResponse(user), Token: token})
}

// updatePassword godoc
// @Summary Change own password
// @Description Changes the authenticated user's password after verifying the current one.
// @Tags users
// @Accept json
// @Produce json
// @Param passwords body dto.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/update-password [put]
func (h *userHandler) updatePassword(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), actor.ID, req); err != nil {
		respondServiceError(c, err, "Failed to update password")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password updated successfully."})
}

// resetPassword godoc
// @Summary Reset a password by email
// @Tags users
// @Accept json
// @Produce json
// @Param reset body dto.ResetPasswordRequest true "Email and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/reset-password [post]
func (h *userHandler) resetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), req); err != nil {
		respondServiceError(c, err, "Failed to reset password")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password reset successfully"})
}

// deleteUser godoc
// @Summary Delete a user
// @Description Removes a user together with the requests they created.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err, "Failed to delete user")
		return
	}

	logger.Info("User deleted", slog.String("target_user_id", userID))
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully."})
}
