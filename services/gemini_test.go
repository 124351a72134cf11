package services

import (
	"testing"

	"github.com/sentimenthub/backend/models"
	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON untouched",
			input: `{"score": 5}`,
			want:  `{"score": 5}`,
		},
		{
			name:  "json fence removed",
			input: "```json\n{\"score\": 5}\n```",
			want:  `{"score": 5}`,
		},
		{
			name:  "bare fence removed",
			input: "```\n{\"score\": 5}\n```",
			want:  `{"score": 5}`,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  {\"score\": 5}  \n",
			want:  `{"score": 5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.input))
		})
	}
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ReviewClassification
	}{
		{
			name: "valid payload",
			raw:  `{"category": "Delivery", "sentiment": "Negative", "score": 2}`,
			want: ReviewClassification{
				Category:  models.AspectDelivery,
				Sentiment: models.SentimentNegative,
				Score:     2,
			},
		},
		{
			name: "fenced payload",
			raw:  "```json\n{\"category\": \"ProductQuality\", \"sentiment\": \"Positive\", \"score\": 5}\n```",
			want: ReviewClassification{
				Category:  models.AspectProductQuality,
				Sentiment: models.SentimentPositive,
				Score:     5,
			},
		},
		{
			name: "unknown category falls back alone",
			raw:  `{"category": "SomethingElse", "sentiment": "Positive", "score": 4}`,
			want: ReviewClassification{
				Category:  models.AspectGeneralSatisfaction,
				Sentiment: models.SentimentPositive,
				Score:     4,
			},
		},
		{
			name: "unknown sentiment falls back alone",
			raw:  `{"category": "Delivery", "sentiment": "Mixed", "score": 4}`,
			want: ReviewClassification{
				Category:  models.AspectDelivery,
				Sentiment: models.SentimentNeutral,
				Score:     4,
			},
		},
		{
			name: "score above range clamps to 3",
			raw:  `{"category": "Delivery", "sentiment": "Positive", "score": 9}`,
			want: ReviewClassification{
				Category:  models.AspectDelivery,
				Sentiment: models.SentimentPositive,
				Score:     3,
			},
		},
		{
			name: "missing score defaults to 3",
			raw:  `{"category": "Delivery", "sentiment": "Positive"}`,
			want: ReviewClassification{
				Category:  models.AspectDelivery,
				Sentiment: models.SentimentPositive,
				Score:     3,
			},
		},
		{
			name: "non-JSON reply uses full defaults",
			raw:  "I could not analyze that review.",
			want: defaultClassification(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseClassification(tt.raw))
		})
	}
}

func TestDefaultClassification(t *testing.T) {
	got := defaultClassification()

	assert.Equal(t, models.AspectGeneralSatisfaction, got.Category)
	assert.Equal(t, models.SentimentNeutral, got.Sentiment)
	assert.Equal(t, 3, got.Score)
}

func TestParseSummary(t *testing.T) {
	raw := `{
		"overallScore": 4.3,
		"strengths": ["Solid build"],
		"weaknesses": ["Slow shipping"],
		"categoryScores": {
			"productQuality": 4.2,
			"pricePerformance": 4.8,
			"shipping": 3.5,
			"seller": 4.0,
			"usageExperience": 4.6
		}
	}`

	got := parseSummary(raw)

	assert.Equal(t, 4.3, got.OverallScore)
	assert.Equal(t, []string{"Solid build"}, got.Strengths)
	assert.Equal(t, []string{"Slow shipping"}, got.Weaknesses)
	assert.Equal(t, 4.2, got.CategoryScores.ProductQuality)
	assert.Equal(t, 4.6, got.CategoryScores.UsageExperience)
}

func TestParseSummaryGarbageUsesDefault(t *testing.T) {
	got := parseSummary("not json at all")

	assert.Equal(t, defaultSummary(), got)
	assert.Equal(t, 3.0, got.OverallScore)
	assert.NotEmpty(t, got.Strengths)
	assert.Empty(t, got.Weaknesses)
}
