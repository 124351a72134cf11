package services

import (
	"testing"
	"time"

	"github.com/sentimenthub/backend/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildReviewScrapedRatingWins(t *testing.T) {
	scraped := ScrapedReview{
		Author: "Jane",
		Text:   "Great product",
		Rating: 5,
		Date:   "2024-03-01",
	}
	classification := ReviewClassification{
		Category:  models.AspectProductQuality,
		Sentiment: models.SentimentPositive,
		Score:     4,
	}

	review := buildReview(7, scraped, classification)

	assert.Equal(t, uint(7), review.AnalysisID)
	assert.Equal(t, "Jane", review.AuthorName)
	assert.Equal(t, 5, review.Rating, "scraped star rating wins over classifier score")
	assert.Equal(t, models.SentimentPositive, review.Sentiment)
	assert.Equal(t, 1.0, review.Confidence)
}

func TestBuildReviewClassifierScoreFallback(t *testing.T) {
	scraped := ScrapedReview{Text: "Meh", Rating: 0}
	classification := ReviewClassification{
		Category:  models.AspectGeneralSatisfaction,
		Sentiment: models.SentimentNeutral,
		Score:     3,
	}

	review := buildReview(1, scraped, classification)

	assert.Equal(t, 3, review.Rating, "classifier score stands in when no star rating was scraped")
}

func TestBuildReviewAspectResult(t *testing.T) {
	classification := ReviewClassification{
		Category:  models.AspectDelivery,
		Sentiment: models.SentimentNegative,
		Score:     2,
	}

	review := buildReview(1, ScrapedReview{Text: "Late"}, classification)

	assert.Len(t, review.AspectResults, 1)
	assert.Equal(t, models.AspectDelivery, review.AspectResults[0].Aspect)
	assert.Equal(t, models.SentimentNegative, review.AspectResults[0].Sentiment)
	assert.Equal(t, 0.95, review.AspectResults[0].Confidence)
}

func TestParseReviewDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "RFC3339",
			raw:  "2024-03-01T15:04:05Z",
			want: time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC),
		},
		{
			name: "datetime without zone",
			raw:  "2024-03-01 15:04:05",
			want: time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC),
		},
		{
			name: "date only",
			raw:  "2024-03-01",
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, parseReviewDate(tt.raw).Equal(tt.want))
		})
	}
}

func TestParseReviewDateGarbageUsesNow(t *testing.T) {
	before := time.Now().UTC().Add(-time.Minute)

	got := parseReviewDate("last tuesday")

	assert.True(t, got.After(before))
}

func TestEnhanceSummaryFallbackLists(t *testing.T) {
	summary := enhanceSummary(models.SummaryResult{
		CategoryScores: models.CategoryScores{
			ProductQuality:   3,
			PricePerformance: 3,
			Shipping:         3,
			Seller:           3,
			UsageExperience:  3,
		},
	})

	assert.Len(t, summary.Strengths, 3)
	assert.Len(t, summary.Weaknesses, 3)
	assert.Len(t, summary.Recommendations, 3, "one recommendation per weakness")
}

func TestEnhanceSummaryKeepsProvidedLists(t *testing.T) {
	summary := enhanceSummary(models.SummaryResult{
		Strengths:  []string{"Sturdy build"},
		Weaknesses: []string{"Slow delivery", "High price"},
	})

	assert.Equal(t, []string{"Sturdy build"}, summary.Strengths)
	assert.Equal(t, []string{"Slow delivery", "High price"}, summary.Weaknesses)
	assert.Len(t, summary.Recommendations, 2)
}

func TestEnhanceSummaryRecomputesOverallScore(t *testing.T) {
	summary := enhanceSummary(models.SummaryResult{
		// The model's own headline number is ignored.
		OverallScore: 1.0,
		Strengths:    []string{"x"},
		Weaknesses:   []string{"y"},
		CategoryScores: models.CategoryScores{
			ProductQuality:   4.2,
			PricePerformance: 4.8,
			Shipping:         3.5,
			Seller:           4.0,
			UsageExperience:  4.6,
		},
	})

	assert.Equal(t, 4.2, summary.OverallScore)
}
