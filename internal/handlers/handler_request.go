package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/dto"
	"github.com/nyasatech/expense_request_app/internal/middleware"
)

// requestHandler handles HTTP requests for the request lifecycle.
type requestHandler struct {
	requestService portssvc.RequestSvcFacade
	userService    portssvc.UserReaderSvc
}

func newRequestHandler(rs portssvc.RequestSvcFacade, us portssvc.UserReaderSvc) *requestHandler {
	return &requestHandler{requestService: rs, userService: us}
}

// RegisterRequestRoutes registers all request lifecycle routes.
func RegisterRequestRoutes(rg *gin.RouterGroup, requestService portssvc.RequestSvcFacade, userService portssvc.UserReaderSvc) {
	h := newRequestHandler(requestService, userService)

	requests := rg.Group("/requests")
	{
		requests.GET("", h.listRequests)
		requests.POST("", h.createRequest)
		requests.GET("/:id", h.getRequest)
		requests.PUT("/:id", h.editRequest)
		requests.PATCH("/:id", h.updateRequestStatus)
		requests.DELETE("/:id", h.deleteRequest)
	}
}

// createRequest godoc
// @Summary Create a request
// @Description Creates a new pending request owned by the caller and assigns it a unique request number.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Request details"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests [post]
func (h *requestHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.requestService.CreateRequest(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create request")
		return
	}

	logger.Info("Request created",
		slog.String("request_id", created.RequestID),
		slog.Int("request_number", created.RequestNumber))
	c.JSON(http.StatusCreated, h.expand(c, created))
}

// listRequests godoc
// @Summary List requests
// @Description Retrieves the paginated requests visible to the caller, with status filter, search and per-status counts.
// @Tags requests
// @Produce json
// @Param status query string false "Filter by status" Enums(Pending, Approved, Rejected)
// @Param search query string false "Search by purpose, amount, or participant name"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListRequestsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests [get]
func (h *requestHandler) listRequests(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.requestService.ListRequests(c.Request.Context(), actor, params)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getRequest godoc
// @Summary Get a request by ID
// @Tags requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{id} [get]
func (h *requestHandler) getRequest(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	req, err := h.requestService.GetRequestByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve request")
		return
	}
	c.JSON(http.StatusOK, h.expand(c, req))
}

// editRequest godoc
// @Summary Edit a pending request
// @Description Applies a partial update to a pending request owned by the caller.
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.EditRequestRequest true "Fields to update"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{id} [put]
func (h *requestHandler) editRequest(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.EditRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.requestService.EditRequest(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update request")
		return
	}
	c.JSON(http.StatusOK, h.expand(c, updated))
}

// updateRequestStatus godoc
// @Summary Approve or reject a request
// @Description Records the designated approver's decision on a request.
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param status body dto.UpdateRequestStatusRequest true "Decision"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{id} [patch]
func (h *requestHandler) updateRequestStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.requestService.UpdateRequestStatus(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update request status")
		return
	}

	logger.Info("Request status updated",
		slog.String("request_id", updated.RequestID),
		slog.String("status", string(updated.Status)))
	c.JSON(http.StatusOK, h.expand(c, updated))
}

// deleteRequest godoc
// @Summary Delete a pending request
// @Tags requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/{id} [delete]
func (h *requestHandler) deleteRequest(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.requestService.DeleteRequest(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete request")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Request deleted successfully"})
}

// expand attaches the requester and approver details to a single request
// response. Lookup failures degrade to the bare request rather than failing
// the call.
func (h *requestHandler) expand(c *gin.Context, req *domain.Request) dto.RequestResponse {
	users := map[string]domain.User{}
	for _, id := range []string{req.RequestedBy, req.ApproverID} {
		if id == "" {
			continue
		}
		if _, ok := users[id]; ok {
			continue
		}
		if u, err := h.userService.GetUserByID(c.Request.Context(), id); err == nil {
			users[id] = *u
		}
	}
	return dto.ToRequestResponse(req, users)
}
