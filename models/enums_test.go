package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		token string
		want  SentimentType
	}{
		{"Positive", SentimentPositive},
		{"Negative", SentimentNegative},
		{"Neutral", SentimentNeutral},
		{"positive", SentimentNeutral}, // tokens are case sensitive
		{"Mixed", SentimentNeutral},
		{"", SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSentiment(tt.token))
		})
	}
}

func TestParseAspect(t *testing.T) {
	tests := []struct {
		token string
		want  AspectType
	}{
		{"ProductQuality", AspectProductQuality},
		{"PricePerformance", AspectPricePerformance},
		{"Delivery", AspectDelivery},
		{"PackagingSeller", AspectPackagingSeller},
		{"GeneralSatisfaction", AspectGeneralSatisfaction},
		{"Shipping", AspectGeneralSatisfaction},
		{"", AspectGeneralSatisfaction},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAspect(tt.token))
		})
	}
}
