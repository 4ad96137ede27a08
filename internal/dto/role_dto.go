package dto

import "time"

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Permissions  []string  `json:"permissions"`
	CreationTime time.Time `json:"creationTime"`
}

// CreateRoleRequest represents the request to create a role
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,max=64"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,required,max=128"`
}
