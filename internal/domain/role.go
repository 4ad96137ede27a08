package domain

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Role groups permissions assigned to users
type Role struct {
	AuditedEntity
	Name        string         `gorm:"type:varchar(64);not null;uniqueIndex:uq_roles_name" json:"name"`
	Permissions datatypes.JSON `json:"permissions"`
}

// TableName specifies the table name for Role
func (Role) TableName() string {
	return "roles"
}

// PermissionList decodes Permissions. An empty column yields an empty list.
func (r *Role) PermissionList() ([]string, error) {
	if len(r.Permissions) == 0 {
		return []string{}, nil
	}
	var perms []string
	if err := json.Unmarshal(r.Permissions, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// SetPermissions encodes perms into the Permissions column.
func (r *Role) SetPermissions(perms []string) error {
	if perms == nil {
		perms = []string{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	r.Permissions = datatypes.JSON(raw)
	return nil
}
