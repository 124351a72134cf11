package models

import (
	"time"

	"gorm.io/gorm"
)

// Business represents one product/business page a user analyzes.
// There is at most one row per (source URL, owner) pair.
type Business struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:200;not null" json:"name"`
	SourceURL string         `gorm:"size:500;not null;index:idx_businesses_url_owner" json:"source_url"`
	OwnerID   string         `gorm:"type:uuid;not null;index:idx_businesses_url_owner" json:"owner_id"`
	Address   string         `gorm:"size:500" json:"address,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner    *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Analyses []Analysis `gorm:"foreignKey:BusinessID" json:"analyses,omitempty"`
}
