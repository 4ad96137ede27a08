package dto

import "time"

// Defaults and bounds for list endpoints
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// UserResponse represents a user in API responses
type UserResponse struct {
	ID                   int           `json:"id"`
	Name                 string        `json:"name"`
	Email                *string       `json:"email,omitempty"`
	RoleID               *int          `json:"roleId,omitempty"`
	Role                 *RoleResponse `json:"role,omitempty"`
	CreationTime         time.Time     `json:"creationTime"`
	CreatorUserID        *int          `json:"creatorUserId,omitempty"`
	LastModificationTime *time.Time    `json:"lastModificationTime,omitempty"`
	LastModifierUserID   *int          `json:"lastModifierUserId,omitempty"`
}

// CreateUserRequest represents the request to create a user
type CreateUserRequest struct {
	Name   string  `json:"name" binding:"required,max=256"`
	Email  *string `json:"email" binding:"omitempty,email,max=256"`
	RoleID *int    `json:"roleId" binding:"omitempty,gt=0"`
}

// ReplaceUserRequest represents a whole-entity update; omitted optional fields are cleared
type ReplaceUserRequest struct {
	Name   string  `json:"name" binding:"required,max=256"`
	Email  *string `json:"email" binding:"omitempty,email,max=256"`
	RoleID *int    `json:"roleId" binding:"omitempty,gt=0"`
}

// PatchUserRequest represents a partial update; nil fields are left unchanged
type PatchUserRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=256"`
	Email     *string `json:"email" binding:"omitempty,email,max=256"`
	RoleID    *int    `json:"roleId" binding:"omitempty,gt=0"`
	ClearRole bool    `json:"clearRole"`
}

// UpsertUserRequest inserts when ID is zero and replaces the user with ID otherwise
type UpsertUserRequest struct {
	ID     int     `json:"id" binding:"omitempty,gte=0"`
	Name   string  `json:"name" binding:"required,max=256"`
	Email  *string `json:"email" binding:"omitempty,email,max=256"`
	RoleID *int    `json:"roleId" binding:"omitempty,gt=0"`
}

// UserFilters represents query parameters of the user list endpoint
type UserFilters struct {
	Name    string `form:"name"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	Size    int    `form:"size" binding:"omitempty,min=1,max=100"`
	Sort    string `form:"sort"`
	Include string `form:"include" binding:"omitempty,oneof=role"`
}

// Normalize fills in paging defaults
func (f *UserFilters) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Size < 1 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
}

// Offset returns the number of rows before the requested page
func (f *UserFilters) Offset() int {
	return (f.Page - 1) * f.Size
}

// IncludeRole reports whether the role relation was requested
func (f *UserFilters) IncludeRole() bool {
	return f.Include == "role"
}

// UserListResponse is one page of users
type UserListResponse struct {
	Items      []*UserResponse `json:"items"`
	TotalCount int64           `json:"totalCount"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
}

// CountResponse carries a row count
type CountResponse struct {
	Count int64 `json:"count"`
}
