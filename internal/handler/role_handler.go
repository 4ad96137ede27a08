package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adminlte-api/internal/dto"
	"adminlte-api/internal/response"
	"adminlte-api/internal/service"
)

// RoleHandler handles role-related requests
type RoleHandler struct {
	roleService service.RoleService
	logger      *zap.Logger
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService service.RoleService, logger *zap.Logger) *RoleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleHandler{roleService: roleService, logger: logger}
}

// ListRoles godoc
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.RoleResponse}
// @Router       /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, roles)
}

// GetRole godoc
// @Summary      Get role
// @Tags         roles
// @Produce      json
// @Param        id path int true "Role ID"
// @Success      200 {object} response.SuccessResponse{data=dto.RoleResponse}
// @Failure      404 {object} response.ErrorResponse "Role not found"
// @Router       /roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	role, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, role)
}

// CreateRole godoc
// @Summary      Create role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateRoleRequest true "Role"
// @Success      201 {object} response.SuccessResponse{data=dto.RoleResponse}
// @Failure      409 {object} response.ErrorResponse "Role name taken"
// @Security     BearerAuth
// @Router       /roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}
	role, err := h.roleService.CreateRole(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, role)
}

// DeleteRole godoc
// @Summary      Delete role
// @Tags         roles
// @Param        id path int true "Role ID"
// @Success      204
// @Failure      404 {object} response.ErrorResponse "Role not found"
// @Security     BearerAuth
// @Router       /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
