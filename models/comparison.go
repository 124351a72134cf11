package models

import (
	"time"

	"gorm.io/gorm"
)

// ComparisonReport caches one computed comparison per canonical
// analysis id set. AnalysisIDs holds the sorted ids serialized as a
// JSON int array ("[1,2,3]"), so the same set always resolves to the
// same row regardless of request order. Only Name is ever updated in
// place; ResultJSON is immutable once written and is only overwritten
// wholesale when the stored payload fails to parse.
type ComparisonReport struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200" json:"name,omitempty"`
	AnalysisIDs string         `gorm:"size:200;not null;uniqueIndex" json:"analysis_ids"`
	ResultJSON  string         `gorm:"type:text;not null" json:"-"` // Serialized ComparisonResult
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
