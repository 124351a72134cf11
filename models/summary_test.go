package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.22, 4.2},
		{4.25, 4.3},
		{3.96, 4.0},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round1(tt.in))
	}
}

func TestCategoryScoresAverage(t *testing.T) {
	scores := CategoryScores{
		ProductQuality:   4.2,
		PricePerformance: 4.8,
		Shipping:         3.5,
		Seller:           4.0,
		UsageExperience:  4.6,
	}

	// (4.2+4.8+3.5+4.0+4.6)/5 = 4.22, rounded to one decimal.
	assert.Equal(t, 4.2, scores.Average())
}

func TestCategoryScoresAverageZero(t *testing.T) {
	assert.Equal(t, 0.0, CategoryScores{}.Average())
}
