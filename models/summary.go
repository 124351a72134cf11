package models

import "math"

// CategoryScores holds the five fixed dimensions a summary scores a
// product along, each nominally in [1.0, 5.0].
type CategoryScores struct {
	ProductQuality   float64 `json:"productQuality"`
	PricePerformance float64 `json:"pricePerformance"`
	Shipping         float64 `json:"shipping"`
	Seller           float64 `json:"seller"`
	UsageExperience  float64 `json:"usageExperience"`
}

// Values returns the scores in their fixed order.
func (c CategoryScores) Values() [5]float64 {
	return [5]float64{c.ProductQuality, c.PricePerformance, c.Shipping, c.Seller, c.UsageExperience}
}

// Average is the arithmetic mean of the five scores rounded to one
// decimal. Every displayed overall score derives from this so the
// headline number always matches the category breakdown.
func (c CategoryScores) Average() float64 {
	var sum float64
	for _, v := range c.Values() {
		sum += v
	}
	return Round1(sum / 5)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SummaryResult is the strategic summary synthesized over an
// analysis's review batch, stored serialized on the Analysis row.
type SummaryResult struct {
	OverallScore    float64        `json:"overallScore"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Recommendations []string       `json:"recommendations"`
	CategoryScores  CategoryScores `json:"categoryScores"`
}

// ComparisonResult is the derived payload of one multi-analysis
// comparison, stored serialized on the ComparisonReport row.
type ComparisonResult struct {
	Products            []ComparedProduct `json:"products"`
	DistinctiveFeatures []string          `json:"distinctiveFeatures"`
	PreferenceReasons   []string          `json:"preferenceReasons"`
	UserProfiles        map[string]string `json:"userProfiles"` // profile label -> winning product name
	DecisionSupport     string            `json:"decisionSupport"`
}

// ComparedProduct is one analysis's aggregate view inside a
// comparison.
type ComparedProduct struct {
	AnalysisID      uint           `json:"analysisId"`
	Name            string         `json:"name"`
	URL             string         `json:"url"`
	OverallScore    float64        `json:"overallScore"`
	PositiveRate    float64        `json:"positiveRate"`
	NegativeRate    float64        `json:"negativeRate"`
	CategoryScores  CategoryScores `json:"categoryScores"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Recommendations []string       `json:"recommendations"`
}
