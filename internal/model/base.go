package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel audit columns embedded by every business model
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel audit columns plus soft delete
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel soft-deletable model with an optimistic lock column
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// SetCreator stamps both audit user columns.
func (m *BaseModel) SetCreator(userID string) {
	if userID == "" {
		return
	}
	m.CreatedBy = &userID
	m.UpdatedBy = &userID
}

// SetUpdater stamps the last-modified user column.
func (m *BaseModel) SetUpdater(userID string) {
	if userID == "" {
		return
	}
	m.UpdatedBy = &userID
}
