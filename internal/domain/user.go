package domain

// User represents an application user
type User struct {
	AuditedEntity
	Name   string  `gorm:"type:varchar(256);not null" json:"name"`
	Email  *string `gorm:"type:varchar(256);uniqueIndex:uq_users_email" json:"email,omitempty"`
	RoleID *int    `gorm:"index:idx_users_role_id" json:"roleId,omitempty"`
	Role   *Role   `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL" json:"role,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
