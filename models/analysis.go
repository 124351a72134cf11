package models

import (
	"time"

	"gorm.io/gorm"
)

// Analysis records one pipeline run over a business's scraped reviews.
// It is created in processing state, mutated only by the analyzer and
// ends in completed or failed. Review rows written before a failure
// are kept; readers must check Status before trusting TotalReviews or
// OverallScore.
type Analysis struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	BusinessID   uint           `gorm:"not null;index" json:"business_id"`
	Status       AnalysisStatus `gorm:"size:20;not null;default:'pending';check:status IN ('pending', 'processing', 'completed', 'failed')" json:"status"`
	TotalReviews int            `json:"total_reviews"`
	OverallScore float64        `gorm:"type:decimal(3,1)" json:"overall_score"` // 1.0 to 5.0
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	SummaryJSON  string         `gorm:"type:text" json:"-"` // Serialized SummaryResult
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Reviews  []Review  `gorm:"foreignKey:AnalysisID" json:"reviews,omitempty"`
}

// Review stores one classified customer review within an analysis run.
type Review struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	AnalysisID uint          `gorm:"not null;index" json:"analysis_id"`
	AuthorName string        `gorm:"size:200" json:"author_name,omitempty"`
	Text       string        `gorm:"type:text;not null" json:"text"`
	ReviewDate time.Time     `json:"review_date"`
	Rating     int           `gorm:"not null" json:"rating"` // 1 to 5; classifier score when the scrape had none
	Sentiment  SentimentType `gorm:"size:20;not null;check:sentiment IN ('Positive', 'Negative', 'Neutral')" json:"sentiment"`
	Confidence float64       `gorm:"type:decimal(4,2)" json:"confidence"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Relationships
	Analysis      *Analysis      `gorm:"foreignKey:AnalysisID" json:"analysis,omitempty"`
	AspectResults []AspectResult `gorm:"foreignKey:ReviewID" json:"aspect_results,omitempty"`
}

// AspectResult is the topic the classifier assigned to a review.
// A review carries zero or one of these.
type AspectResult struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	ReviewID   uint          `gorm:"not null;index" json:"review_id"`
	Aspect     AspectType    `gorm:"size:30;not null" json:"aspect"`
	Sentiment  SentimentType `gorm:"size:20;not null" json:"sentiment"`
	Confidence float64       `gorm:"type:decimal(4,2)" json:"confidence"`
	CreatedAt  time.Time     `json:"created_at"`

	// Relationships
	Review *Review `gorm:"foreignKey:ReviewID" json:"review,omitempty"`
}
