package domain

import (
	"time"
)

// Column names of the audited base fields.
const (
	ColumnID                   = "id"
	ColumnCreationTime         = "creation_time"
	ColumnIsDeleted            = "is_deleted"
	ColumnDeletionTime         = "deletion_time"
	ColumnDeleterUserID        = "deleter_user_id"
	ColumnLastModificationTime = "last_modification_time"
	ColumnLastModifierUserID   = "last_modifier_user_id"
)

// AuditedEntity contains the identity and audit fields every persisted record carries.
// Embed it by value; its pointer methods are promoted to the embedding struct.
type AuditedEntity struct {
	ID                   int        `gorm:"primaryKey;autoIncrement" json:"id"`
	CreationTime         time.Time  `gorm:"not null" json:"creationTime"`
	CreatorUserID        *int       `json:"creatorUserId,omitempty"`
	LastModificationTime *time.Time `json:"lastModificationTime,omitempty"`
	LastModifierUserID   *int       `json:"lastModifierUserId,omitempty"`
	IsDeleted            bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletionTime         *time.Time `json:"deletionTime,omitempty"`
	DeleterUserID        *int       `json:"deleterUserId,omitempty"`
}

// Entity is satisfied by a pointer to any struct embedding AuditedEntity.
type Entity interface {
	GetID() int
	SetID(id int)
	IsTransient() bool
	Audited() *AuditedEntity
}

// GetID returns the primary key.
func (e *AuditedEntity) GetID() int {
	return e.ID
}

// SetID sets the primary key.
func (e *AuditedEntity) SetID(id int) {
	e.ID = id
}

// IsTransient reports whether the store has not assigned an id yet.
func (e *AuditedEntity) IsTransient() bool {
	return e.ID == 0
}

// Audited returns the embedded audit fields.
func (e *AuditedEntity) Audited() *AuditedEntity {
	return e
}

// MarkCreated stamps creation fields. An already set CreationTime is kept.
func (e *AuditedEntity) MarkCreated(actor *int, at time.Time) {
	if e.CreationTime.IsZero() {
		e.CreationTime = at
	}
	if e.CreatorUserID == nil {
		e.CreatorUserID = actor
	}
}

// MarkModified stamps the last modification fields.
func (e *AuditedEntity) MarkModified(actor *int, at time.Time) {
	e.LastModificationTime = &at
	e.LastModifierUserID = actor
}

// MarkDeleted flips the soft-delete flag and stamps deletion fields.
func (e *AuditedEntity) MarkDeleted(actor *int, at time.Time) {
	e.IsDeleted = true
	e.DeletionTime = &at
	e.DeleterUserID = actor
}

// CarryCreation copies the fields that must never change after insert from stored.
func (e *AuditedEntity) CarryCreation(stored *AuditedEntity) {
	e.CreationTime = stored.CreationTime
	e.CreatorUserID = stored.CreatorUserID
	e.IsDeleted = stored.IsDeleted
	e.DeletionTime = stored.DeletionTime
	e.DeleterUserID = stored.DeleterUserID
}
