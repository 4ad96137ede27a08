package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"adminlte-api/internal/domain"
	"adminlte-api/internal/dto"
	"adminlte-api/internal/repository"
	"adminlte-api/internal/response"
)

// UserService defines the interface for user operations
type UserService interface {
	ListUsers(ctx context.Context, filters *dto.UserFilters) (*dto.UserListResponse, error)
	CountUsers(ctx context.Context, name string) (int64, error)
	GetUser(ctx context.Context, id int, includeRole bool) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	ReplaceUser(ctx context.Context, id int, req *dto.ReplaceUserRequest) (*dto.UserResponse, error)
	PatchUser(ctx context.Context, id int, req *dto.PatchUserRequest) (*dto.UserResponse, error)
	UpsertUser(ctx context.Context, req *dto.UpsertUserRequest) (*dto.UserResponse, bool, error)
	DeleteUser(ctx context.Context, id int) error
}

// userServiceImpl is the implementation of UserService
type userServiceImpl struct {
	users    repository.Repository[domain.User]
	roles    repository.Repository[domain.Role]
	logger   *zap.Logger
	overflow OverflowRecorder
}

// NewUserService creates a new instance of UserService
func NewUserService(
	users repository.Repository[domain.User],
	roles repository.Repository[domain.Role],
	logger *zap.Logger,
	overflow OverflowRecorder,
) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if overflow == nil {
		overflow = noopRecorder{}
	}
	return &userServiceImpl{
		users:    users,
		roles:    roles,
		logger:   logger,
		overflow: overflow,
	}
}

// sortColumns maps the public sort keys onto entity fields
var sortColumns = map[string]string{
	"id":           "ID",
	"name":         "Name",
	"email":        "Email",
	"creationTime": "CreationTime",
}

// nameFilter matches names containing name. LIKE wildcards in name are not escaped.
func nameFilter(name string) repository.Predicate {
	return repository.Like("Name", "%"+name+"%")
}

// ListUsers returns one page of users. The total is counted concurrently with the page read.
func (s *userServiceImpl) ListUsers(ctx context.Context, filters *dto.UserFilters) (*dto.UserListResponse, error) {
	if filters == nil {
		filters = &dto.UserFilters{}
	}
	filters.Normalize()

	cursor := s.users.GetAll(ctx)
	if filters.Name != "" {
		cursor = cursor.Where(nameFilter(filters.Name))
	}

	total := repository.Async(ctx, func(context.Context) (int64, error) {
		return cursor.LongCount()
	})

	page := cursor
	if filters.IncludeRole() {
		page = page.Include("Role")
	}
	page, err := applySort(page, filters.Sort)
	if err != nil {
		return nil, err
	}

	users, err := page.Skip(filters.Offset()).Take(filters.Size).List()
	if err != nil {
		return nil, toAppError(err, "User", "list")
	}
	count, err := total.Await(ctx)
	if err != nil {
		return nil, toAppError(err, "User", "count")
	}

	items := make([]*dto.UserResponse, len(users))
	for i, u := range users {
		items[i] = toUserResponse(u)
	}
	return &dto.UserListResponse{
		Items:      items,
		TotalCount: count,
		Page:       filters.Page,
		Size:       filters.Size,
	}, nil
}

// applySort accepts "field" or "-field"; ties are broken by id
func applySort(c *repository.Cursor[domain.User], sort string) (*repository.Cursor[domain.User], error) {
	if sort == "" {
		return c.OrderBy("ID"), nil
	}
	desc := strings.HasPrefix(sort, "-")
	field, ok := sortColumns[strings.TrimPrefix(sort, "-")]
	if !ok {
		return nil, response.NewValidationError("Invalid sort field: "+sort, "allowed: id, name, email, creationTime")
	}
	if desc {
		c = c.OrderByDesc(field)
	} else {
		c = c.OrderBy(field)
	}
	if field != "ID" {
		c = c.OrderBy("ID")
	}
	return c, nil
}

// CountUsers counts live users. A count beyond 32 bits is reported and retried as a long count.
func (s *userServiceImpl) CountUsers(ctx context.Context, name string) (int64, error) {
	var (
		n   int
		err error
	)
	if name == "" {
		n, err = s.users.Count(ctx)
	} else {
		n, err = s.users.CountWhere(ctx, nameFilter(name))
	}
	if err == nil {
		return int64(n), nil
	}
	if !errors.Is(err, repository.ErrCountOverflow) {
		return 0, toAppError(err, "User", "count")
	}

	s.overflow.IncrementCountOverflow()
	s.logger.Warn("User count exceeds 32-bit range, using long count", zap.String("name_filter", name))

	var long int64
	if name == "" {
		long, err = s.users.LongCount(ctx)
	} else {
		long, err = s.users.LongCountWhere(ctx, nameFilter(name))
	}
	if err != nil {
		return 0, toAppError(err, "User", "count")
	}
	return long, nil
}

// GetUser returns a single live user
func (s *userServiceImpl) GetUser(ctx context.Context, id int, includeRole bool) (*dto.UserResponse, error) {
	var (
		user *domain.User
		err  error
	)
	if includeRole {
		user, err = s.users.GetAllIncluding(ctx, "Role").Where(repository.Eq("ID", id)).First()
	} else {
		user, err = s.users.Get(ctx, id)
	}
	if err != nil {
		return nil, toAppError(err, "User", "get")
	}
	return toUserResponse(user), nil
}

// CreateUser inserts a new user
func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := &domain.User{
		Name:   strings.TrimSpace(req.Name),
		Email:  req.Email,
		RoleID: s.roleRef(req.RoleID),
	}
	if user.Name == "" {
		return nil, response.NewValidationError("Name must not be blank", "")
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, toAppError(err, "User", "create")
	}

	s.logger.Info("User created", zap.Int("user_id", created.ID))
	return toUserResponse(created), nil
}

// roleRef turns a role id into a foreign key without reading the role;
// the store rejects ids that do not exist
func (s *userServiceImpl) roleRef(roleID *int) *int {
	if roleID == nil {
		return nil
	}
	ref := s.roles.Load(*roleID)
	return &ref.ID
}

// ReplaceUser overwrites every mutable field of the user with id
func (s *userServiceImpl) ReplaceUser(ctx context.Context, id int, req *dto.ReplaceUserRequest) (*dto.UserResponse, error) {
	user := &domain.User{
		Name:   strings.TrimSpace(req.Name),
		Email:  req.Email,
		RoleID: s.roleRef(req.RoleID),
	}
	if user.Name == "" {
		return nil, response.NewValidationError("Name must not be blank", "")
	}
	user.ID = id

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, toAppError(err, "User", "update")
	}
	return toUserResponse(updated), nil
}

// PatchUser applies the non-nil fields of req in one read-modify-write
func (s *userServiceImpl) PatchUser(ctx context.Context, id int, req *dto.PatchUserRequest) (*dto.UserResponse, error) {
	updated, err := s.users.UpdateByID(ctx, id, func(u *domain.User) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return response.NewValidationError("Name must not be blank", "")
			}
			u.Name = name
		}
		if req.Email != nil {
			u.Email = req.Email
		}
		if req.ClearRole {
			u.RoleID = nil
		} else if req.RoleID != nil {
			u.RoleID = s.roleRef(req.RoleID)
		}
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "User", "update")
	}
	return toUserResponse(updated), nil
}

// UpsertUser inserts when req has no id and replaces the user otherwise.
// The boolean reports whether a row was created.
func (s *userServiceImpl) UpsertUser(ctx context.Context, req *dto.UpsertUserRequest) (*dto.UserResponse, bool, error) {
	user := &domain.User{
		Name:   strings.TrimSpace(req.Name),
		Email:  req.Email,
		RoleID: s.roleRef(req.RoleID),
	}
	if user.Name == "" {
		return nil, false, response.NewValidationError("Name must not be blank", "")
	}
	user.ID = req.ID
	created := user.IsTransient()

	saved, err := s.users.InsertOrUpdate(ctx, user)
	if err != nil {
		return nil, false, toAppError(err, "User", "save")
	}
	return toUserResponse(saved), created, nil
}

// DeleteUser soft-deletes the user with id
func (s *userServiceImpl) DeleteUser(ctx context.Context, id int) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return toAppError(err, "User", "delete")
	}
	s.logger.Info("User deleted", zap.Int("user_id", id))
	return nil
}

func toUserResponse(u *domain.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                u.Email,
		RoleID:               u.RoleID,
		CreationTime:         u.CreationTime,
		CreatorUserID:        u.CreatorUserID,
		LastModificationTime: u.LastModificationTime,
		LastModifierUserID:   u.LastModifierUserID,
	}
	if u.Role != nil {
		resp.Role = toRoleResponse(u.Role)
	}
	return resp
}
