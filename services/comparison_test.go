package services

import (
	"testing"

	"github.com/sentimenthub/backend/models"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		name string
		ids  []uint
		want string
	}{
		{
			name: "sorted input",
			ids:  []uint{1, 2, 3},
			want: "[1,2,3]",
		},
		{
			name: "unsorted input yields same key",
			ids:  []uint{3, 1, 2},
			want: "[1,2,3]",
		},
		{
			name: "duplicates collapse",
			ids:  []uint{2, 1, 2, 1},
			want: "[1,2]",
		},
		{
			name: "empty set",
			ids:  nil,
			want: "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalKey(tt.ids))
		})
	}
}

func TestResolveRejectsBadSetSizes(t *testing.T) {
	s := NewComparisonService(nil)

	_, _, err := s.Resolve(t.Context(), "owner", []uint{1}, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = s.Resolve(t.Context(), "owner", []uint{1, 2, 3, 4}, "")
	assert.ErrorIs(t, err, ErrValidation)

	// Duplicates shrink the set below the minimum.
	_, _, err = s.Resolve(t.Context(), "owner", []uint{5, 5}, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSentimentRates(t *testing.T) {
	reviews := []models.Review{
		{Sentiment: models.SentimentPositive},
		{Sentiment: models.SentimentPositive},
		{Sentiment: models.SentimentNegative},
		{Sentiment: models.SentimentNeutral},
	}

	pos, neg := sentimentRates(reviews)

	assert.Equal(t, 50.0, pos)
	assert.Equal(t, 25.0, neg)
}

func TestSentimentRatesEmpty(t *testing.T) {
	pos, neg := sentimentRates(nil)

	assert.Equal(t, 0.0, pos)
	assert.Equal(t, 0.0, neg)
}

func product(id uint, name string, scores models.CategoryScores, posRate float64) models.ComparedProduct {
	return models.ComparedProduct{
		AnalysisID:     id,
		Name:           name,
		OverallScore:   scores.Average(),
		PositiveRate:   posRate,
		CategoryScores: scores,
	}
}

func TestGenerateComparisonDistinctiveFeatures(t *testing.T) {
	// A leads in quality by 1.5 and shipping by 1.0; B leads in
	// price/performance by 1.2. The other categories stay under the
	// threshold.
	a := product(1, "Product A", models.CategoryScores{
		ProductQuality:   4.5,
		PricePerformance: 3.0,
		Shipping:         4.0,
		Seller:           3.5,
		UsageExperience:  3.8,
	}, 70)
	b := product(2, "Product B", models.CategoryScores{
		ProductQuality:   3.0,
		PricePerformance: 4.2,
		Shipping:         3.0,
		Seller:           3.2,
		UsageExperience:  3.5,
	}, 60)

	result := GenerateComparison([]models.ComparedProduct{a, b})

	assert.Equal(t, []string{
		"Product A shows a clear advantage over Product B in Product Quality and Shipping Speed.",
		"Product B shows a clear advantage over Product A in Price/Performance.",
	}, result.DistinctiveFeatures)
}

func TestGenerateComparisonDistinctiveOneDirection(t *testing.T) {
	a := product(1, "Product A", models.CategoryScores{ProductQuality: 4.5}, 0)
	b := product(2, "Product B", models.CategoryScores{ProductQuality: 3.0}, 0)

	result := GenerateComparison([]models.ComparedProduct{a, b})

	// Only A qualifies in the A-over-B direction.
	assert.Equal(t, []string{
		"Product A shows a clear advantage over Product B in Product Quality.",
	}, result.DistinctiveFeatures)
}

func TestGenerateComparisonPreferenceReasons(t *testing.T) {
	a := product(1, "Product A", models.CategoryScores{}, 80)
	b := product(2, "Product B", models.CategoryScores{}, 60)

	result := GenerateComparison([]models.ComparedProduct{a, b})

	assert.Equal(t, []string{
		"Product A is a strong choice over Product B thanks to a 20.0 point higher customer satisfaction rate.",
	}, result.PreferenceReasons)
}

func TestGenerateComparisonPreferenceBelowThreshold(t *testing.T) {
	a := product(1, "Product A", models.CategoryScores{}, 70)
	b := product(2, "Product B", models.CategoryScores{}, 60)

	result := GenerateComparison([]models.ComparedProduct{a, b})

	assert.Empty(t, result.PreferenceReasons)
}

func TestGenerateComparisonUserProfiles(t *testing.T) {
	a := product(1, "Product A", models.CategoryScores{
		ProductQuality:   4.8,
		PricePerformance: 3.0,
		Shipping:         3.0,
	}, 0)
	b := product(2, "Product B", models.CategoryScores{
		ProductQuality:   3.0,
		PricePerformance: 4.5,
		Shipping:         4.2,
	}, 0)

	result := GenerateComparison([]models.ComparedProduct{a, b})

	assert.Equal(t, "Product A", result.UserProfiles["Quality-Focused User"])
	assert.Equal(t, "Product B", result.UserProfiles["Price/Performance-Focused User"])
	assert.Equal(t, "Product B", result.UserProfiles["Speed & Delivery-Focused User"])
}

func TestGenerateComparisonProfileTiesKeepFirst(t *testing.T) {
	scores := models.CategoryScores{ProductQuality: 4.0, PricePerformance: 4.0, Shipping: 4.0}
	a := product(1, "Product A", scores, 0)
	b := product(2, "Product B", scores, 0)

	result := GenerateComparison([]models.ComparedProduct{a, b})

	assert.Equal(t, "Product A", result.UserProfiles["Quality-Focused User"])
	assert.Equal(t, "Product A", result.UserProfiles["Price/Performance-Focused User"])
	assert.Equal(t, "Product A", result.UserProfiles["Speed & Delivery-Focused User"])
}

func TestGenerateComparisonDecisionSupportCombined(t *testing.T) {
	// The same product wins quality and price/performance.
	a := product(1, "Product A", models.CategoryScores{
		ProductQuality:   4.5,
		PricePerformance: 4.5,
		Shipping:         4.5,
		Seller:           4.5,
		UsageExperience:  4.5,
	}, 0)
	b := product(2, "Product B", models.CategoryScores{
		ProductQuality:   3.0,
		PricePerformance: 3.0,
		Shipping:         3.0,
		Seller:           3.0,
		UsageExperience:  3.0,
	}, 0)

	result := GenerateComparison([]models.ComparedProduct{a, b})

	assert.Equal(t,
		"Overall, Product A stands out with the highest score (4.5). "+
			"For users looking for both quality and price/performance, Product A is an ideal option.",
		result.DecisionSupport)
}

func TestGenerateComparisonDecisionSupportSplit(t *testing.T) {
	a := product(1, "Product A", models.CategoryScores{
		ProductQuality:   4.8,
		PricePerformance: 3.0,
		Shipping:         4.0,
		Seller:           4.0,
		UsageExperience:  4.0,
	}, 0)
	b := product(2, "Product B", models.CategoryScores{
		ProductQuality:   3.0,
		PricePerformance: 4.6,
		Shipping:         3.0,
		Seller:           3.0,
		UsageExperience:  3.0,
	}, 0)

	result := GenerateComparison([]models.ComparedProduct{a, b})

	assert.Contains(t, result.DecisionSupport, "Overall, Product A stands out with the highest score (4.0).")
	assert.Contains(t, result.DecisionSupport,
		"Product A is recommended when quality comes first, while Product B is the budget-friendly choice.")
}

func TestGenerateComparisonEmptyInput(t *testing.T) {
	result := GenerateComparison(nil)

	assert.Empty(t, result.Products)
	assert.Empty(t, result.DistinctiveFeatures)
	assert.Empty(t, result.PreferenceReasons)
	assert.Empty(t, result.UserProfiles)
	assert.Empty(t, result.DecisionSupport)
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "Product Quality", joinList([]string{"Product Quality"}))
	assert.Equal(t, "Product Quality and Shipping Speed",
		joinList([]string{"Product Quality", "Shipping Speed"}))
	assert.Equal(t, "Product Quality, Shipping Speed and Seller Attention",
		joinList([]string{"Product Quality", "Shipping Speed", "Seller Attention"}))
}

func TestBuildComparedProducts(t *testing.T) {
	analyses := []models.Analysis{
		{
			ID:          1,
			SummaryJSON: `{"overallScore":4.0,"strengths":["Good"],"weaknesses":["Slow shipping"],"categoryScores":{"productQuality":4.2,"pricePerformance":4.8,"shipping":3.5,"seller":4.0,"usageExperience":4.6}}`,
			Business:    &models.Business{Name: "Widget Store", SourceURL: "https://example.com/widgets"},
			Reviews: []models.Review{
				{Sentiment: models.SentimentPositive},
				{Sentiment: models.SentimentNegative},
			},
		},
		{
			ID: 2,
		},
	}

	products := buildComparedProducts(analyses)

	assert.Len(t, products, 2)

	assert.Equal(t, "Widget Store", products[0].Name)
	assert.Equal(t, "https://example.com/widgets", products[0].URL)
	// [4.2 4.8 3.5 4.0 4.6] averages to 4.22, rounded to 4.2.
	assert.Equal(t, 4.2, products[0].OverallScore)
	assert.Equal(t, 50.0, products[0].PositiveRate)
	assert.Equal(t, 50.0, products[0].NegativeRate)
	assert.Len(t, products[0].Recommendations, 1)

	assert.Equal(t, "Unknown Product", products[1].Name)
	assert.Equal(t, 0.0, products[1].PositiveRate)
}
