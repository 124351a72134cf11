package models

// AnalysisStatus tracks the lifecycle of an analysis run. Status only
// advances forward; Completed and Failed are terminal.
type AnalysisStatus string

const (
	StatusPending    AnalysisStatus = "pending"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

type SentimentType string

const (
	SentimentPositive SentimentType = "Positive"
	SentimentNegative SentimentType = "Negative"
	SentimentNeutral  SentimentType = "Neutral"
)

// AspectType is one of the five fixed review topics a classified
// review can be tagged with.
type AspectType string

const (
	AspectProductQuality      AspectType = "ProductQuality"
	AspectPricePerformance    AspectType = "PricePerformance"
	AspectDelivery            AspectType = "Delivery"
	AspectPackagingSeller     AspectType = "PackagingSeller"
	AspectGeneralSatisfaction AspectType = "GeneralSatisfaction"
)

// ParseSentiment maps a classifier token to a SentimentType. Unknown
// tokens fall back to Neutral rather than failing the whole result.
func ParseSentiment(token string) SentimentType {
	switch SentimentType(token) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return SentimentType(token)
	default:
		return SentimentNeutral
	}
}

// ParseAspect maps a classifier category token to an AspectType.
// Unknown tokens fall back to GeneralSatisfaction.
func ParseAspect(token string) AspectType {
	switch AspectType(token) {
	case AspectProductQuality, AspectPricePerformance, AspectDelivery,
		AspectPackagingSeller, AspectGeneralSatisfaction:
		return AspectType(token)
	default:
		return AspectGeneralSatisfaction
	}
}
