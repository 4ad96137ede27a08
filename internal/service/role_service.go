package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"adminlte-api/internal/domain"
	"adminlte-api/internal/dto"
	"adminlte-api/internal/repository"
	"adminlte-api/internal/response"
)

// RoleService defines the interface for role operations
type RoleService interface {
	ListRoles(ctx context.Context) ([]*dto.RoleResponse, error)
	GetRole(ctx context.Context, id int) (*dto.RoleResponse, error)
	CreateRole(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
	DeleteRole(ctx context.Context, id int) error
}

type roleServiceImpl struct {
	roles  repository.Repository[domain.Role]
	logger *zap.Logger
}

// NewRoleService creates a new instance of RoleService
func NewRoleService(roles repository.Repository[domain.Role], logger *zap.Logger) RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &roleServiceImpl{roles: roles, logger: logger}
}

func (s *roleServiceImpl) ListRoles(ctx context.Context) ([]*dto.RoleResponse, error) {
	roles, err := repository.Query(ctx, s.roles, func(c *repository.Cursor[domain.Role]) ([]*domain.Role, error) {
		return c.OrderBy("Name").List()
	})
	if err != nil {
		return nil, toAppError(err, "Role", "list")
	}
	out := make([]*dto.RoleResponse, len(roles))
	for i, r := range roles {
		out[i] = toRoleResponse(r)
	}
	return out, nil
}

func (s *roleServiceImpl) GetRole(ctx context.Context, id int) (*dto.RoleResponse, error) {
	role, err := s.roles.Get(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Role", "get")
	}
	return toRoleResponse(role), nil
}

// CreateRole inserts a role; a live role with the same name is a conflict
func (s *roleServiceImpl) CreateRole(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidationError("Name must not be blank", "")
	}

	existing, err := s.roles.FirstOrDefaultWhere(ctx, repository.Eq("Name", name))
	if err != nil {
		return nil, toAppError(err, "Role", "create")
	}
	if existing != nil {
		return nil, response.NewConflictError("Role already exists", name)
	}

	role := &domain.Role{Name: name}
	if err := role.SetPermissions(req.Permissions); err != nil {
		return nil, response.NewValidationError("Invalid permissions", err.Error())
	}

	created, err := s.roles.Insert(ctx, role)
	if err != nil {
		return nil, toAppError(err, "Role", "create")
	}

	s.logger.Info("Role created", zap.Int("role_id", created.ID), zap.String("name", created.Name))
	return toRoleResponse(created), nil
}

func (s *roleServiceImpl) DeleteRole(ctx context.Context, id int) error {
	if err := s.roles.DeleteByID(ctx, id); err != nil {
		return toAppError(err, "Role", "delete")
	}
	s.logger.Info("Role deleted", zap.Int("role_id", id))
	return nil
}

func toRoleResponse(r *domain.Role) *dto.RoleResponse {
	perms, err := r.PermissionList()
	if err != nil {
		// corrupt column: served as no permissions
		perms = []string{}
	}
	return &dto.RoleResponse{
		ID:           r.ID,
		Name:         r.Name,
		Permissions:  perms,
		CreationTime: r.CreationTime,
	}
}
