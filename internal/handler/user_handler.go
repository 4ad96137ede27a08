package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adminlte-api/internal/dto"
	"adminlte-api/internal/response"
	"adminlte-api/internal/service"
)

// UserHandler handles user-related requests
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{userService: userService, logger: logger}
}

// ListUsers godoc
// @Summary      List users
// @Description  Returns one page of live users, optionally filtered by name and sorted
// @Tags         users
// @Produce      json
// @Param        name     query string false "Name contains"
// @Param        page     query int    false "Page number (1-based)"
// @Param        size     query int    false "Page size (max 100)"
// @Param        sort     query string false "Sort key, '-' prefix for descending"
// @Param        include  query string false "Set to role to embed the role"
// @Success      200 {object} response.SuccessResponse{data=dto.UserListResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var filters dto.UserFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid query parameters")
		return
	}

	page, err := h.userService.ListUsers(c.Request.Context(), &filters)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, page)
}

// CountUsers godoc
// @Summary      Count users
// @Tags         users
// @Produce      json
// @Param        name query string false "Name contains"
// @Success      200 {object} response.SuccessResponse{data=dto.CountResponse}
// @Router       /users/count [get]
func (h *UserHandler) CountUsers(c *gin.Context) {
	n, err := h.userService.CountUsers(c.Request.Context(), c.Query("name"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, dto.CountResponse{Count: n})
}

// GetUser godoc
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id      path  int    true  "User ID"
// @Param        include query string false "Set to role to embed the role"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse}
// @Failure      400 {object} response.ErrorResponse "Invalid user ID"
// @Failure      404 {object} response.ErrorResponse "User not found"
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id, c.Query("include") == "role")
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, user)
}

// CreateUser godoc
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateUserRequest true "User"
// @Success      201 {object} response.SuccessResponse{data=dto.UserResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Constraint violation"
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, user)
}

// ReplaceUser godoc
// @Summary      Replace user
// @Description  Overwrites every editable field; creation fields are kept
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path int                     true "User ID"
// @Param        request body dto.ReplaceUserRequest true "User"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse}
// @Failure      404 {object} response.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) ReplaceUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReplaceUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	user, err := h.userService.ReplaceUser(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, user)
}

// PatchUser godoc
// @Summary      Update user fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path int                   true "User ID"
// @Param        request body dto.PatchUserRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse}
// @Failure      404 {object} response.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /users/{id} [patch]
func (h *UserHandler) PatchUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PatchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	user, err := h.userService.PatchUser(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, user)
}

// UpsertUser godoc
// @Summary      Insert or update user
// @Description  Inserts when the body carries no id, replaces the user otherwise
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.UpsertUserRequest true "User"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse} "Updated"
// @Success      201 {object} response.SuccessResponse{data=dto.UserResponse} "Created"
// @Failure      404 {object} response.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /users [put]
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req dto.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	user, created, err := h.userService.UpsertUser(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.SendSuccess(c, status, user)
}

// DeleteUser godoc
// @Summary      Delete user
// @Tags         users
// @Param        id path int true "User ID"
// @Success      204
// @Failure      404 {object} response.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
