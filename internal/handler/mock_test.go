package handler

import (
	"context"

	"adminlte-api/internal/dto"
)

// MockUserService is a mock implementation of service.UserService
type MockUserService struct {
	ListUsersFunc   func(ctx context.Context, filters *dto.UserFilters) (*dto.UserListResponse, error)
	CountUsersFunc  func(ctx context.Context, name string) (int64, error)
	GetUserFunc     func(ctx context.Context, id int, includeRole bool) (*dto.UserResponse, error)
	CreateUserFunc  func(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	ReplaceUserFunc func(ctx context.Context, id int, req *dto.ReplaceUserRequest) (*dto.UserResponse, error)
	PatchUserFunc   func(ctx context.Context, id int, req *dto.PatchUserRequest) (*dto.UserResponse, error)
	UpsertUserFunc  func(ctx context.Context, req *dto.UpsertUserRequest) (*dto.UserResponse, bool, error)
	DeleteUserFunc  func(ctx context.Context, id int) error
}

func (m *MockUserService) ListUsers(ctx context.Context, filters *dto.UserFilters) (*dto.UserListResponse, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, filters)
	}
	return &dto.UserListResponse{Items: []*dto.UserResponse{}}, nil
}

func (m *MockUserService) CountUsers(ctx context.Context, name string) (int64, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx, name)
	}
	return 0, nil
}

func (m *MockUserService) GetUser(ctx context.Context, id int, includeRole bool) (*dto.UserResponse, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id, includeRole)
	}
	return nil, nil
}

func (m *MockUserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockUserService) ReplaceUser(ctx context.Context, id int, req *dto.ReplaceUserRequest) (*dto.UserResponse, error) {
	if m.ReplaceUserFunc != nil {
		return m.ReplaceUserFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockUserService) PatchUser(ctx context.Context, id int, req *dto.PatchUserRequest) (*dto.UserResponse, error) {
	if m.PatchUserFunc != nil {
		return m.PatchUserFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockUserService) UpsertUser(ctx context.Context, req *dto.UpsertUserRequest) (*dto.UserResponse, bool, error) {
	if m.UpsertUserFunc != nil {
		return m.UpsertUserFunc(ctx, req)
	}
	return nil, false, nil
}

func (m *MockUserService) DeleteUser(ctx context.Context, id int) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}

// MockRoleService is a mock implementation of service.RoleService
type MockRoleService struct {
	ListRolesFunc  func(ctx context.Context) ([]*dto.RoleResponse, error)
	GetRoleFunc    func(ctx context.Context, id int) (*dto.RoleResponse, error)
	CreateRoleFunc func(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
	DeleteRoleFunc func(ctx context.Context, id int) error
}

func (m *MockRoleService) ListRoles(ctx context.Context) ([]*dto.RoleResponse, error) {
	if m.ListRolesFunc != nil {
		return m.ListRolesFunc(ctx)
	}
	return []*dto.RoleResponse{}, nil
}

func (m *MockRoleService) GetRole(ctx context.Context, id int) (*dto.RoleResponse, error) {
	if m.GetRoleFunc != nil {
		return m.GetRoleFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRoleService) CreateRole(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	if m.CreateRoleFunc != nil {
		return m.CreateRoleFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockRoleService) DeleteRole(ctx context.Context, id int) error {
	if m.DeleteRoleFunc != nil {
		return m.DeleteRoleFunc(ctx, id)
	}
	return nil
}
