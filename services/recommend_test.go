package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRecommendationsLength(t *testing.T) {
	weaknesses := []string{
		"Shipping takes too long",
		"The product feels expensive for what it offers",
		"Completely unrelated complaint about the moon phase",
	}

	recommendations := GenerateRecommendations(weaknesses)

	assert.Len(t, recommendations, len(weaknesses), "one recommendation per weakness")
}

func TestGenerateRecommendationsEmpty(t *testing.T) {
	assert.Empty(t, GenerateRecommendations(nil))
	assert.Empty(t, GenerateRecommendations([]string{}))
}

func TestGenerateRecommendationsDeterministic(t *testing.T) {
	weaknesses := []string{"Late delivery", "Poor quality material"}

	first := GenerateRecommendations(weaknesses)
	second := GenerateRecommendations(weaknesses)

	assert.Equal(t, first, second)
}

func TestRecommendForKeywordRouting(t *testing.T) {
	tests := []struct {
		name     string
		weakness string
		want     string
	}{
		{
			name:     "delivery keyword",
			weakness: "Customers complain the delivery was slow",
			want:     recommendationRules[0].advice,
		},
		{
			name:     "case insensitive match",
			weakness: "SHIPPING is unreliable",
			want:     recommendationRules[0].advice,
		},
		{
			name:     "price keyword",
			weakness: "Too expensive compared to alternatives",
			want:     recommendationRules[1].advice,
		},
		{
			name:     "quality keyword",
			weakness: "Arrived broken out of the box",
			want:     recommendationRules[2].advice,
		},
		{
			name:     "partial durability stem",
			weakness: "Questionable durability over time",
			want:     recommendationRules[2].advice,
		},
		{
			name:     "support keyword",
			weakness: "Seller support never replied",
			want:     recommendationRules[3].advice,
		},
		{
			name:     "sizing keyword",
			weakness: "Runs too small for most buyers",
			want:     recommendationRules[4].advice,
		},
		{
			name:     "return keyword",
			weakness: "Refund process is painful",
			want:     recommendationRules[5].advice,
		},
		{
			name:     "packaging keyword",
			weakness: "Careless packaging damaged the item",
			want:     recommendationRules[6].advice,
		},
		{
			name:     "wrong item keyword",
			weakness: "Received the wrong color",
			want:     recommendationRules[7].advice,
		},
		{
			name:     "no keyword falls back",
			weakness: "Unspecified general dissatisfaction",
			want:     fallbackRecommendation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recommendFor(tt.weakness))
		})
	}
}

func TestRecommendForFirstMatchWins(t *testing.T) {
	// Mentions both delivery and price; the delivery rule is declared
	// first and must win.
	got := recommendFor("Delivery is slow and the price is high")
	assert.Equal(t, recommendationRules[0].advice, got)
}
