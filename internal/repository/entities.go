package repository

import (
	"gorm.io/gorm"

	"adminlte-api/internal/domain"
)

// NewUserRepository returns the repository for users
func NewUserRepository(db *gorm.DB) (Repository[domain.User], error) {
	return New[domain.User](db)
}

// NewRoleRepository returns the repository for roles
func NewRoleRepository(db *gorm.DB) (Repository[domain.Role], error) {
	return New[domain.Role](db)
}
