package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sentimenthub/backend/models"

	"google.golang.org/genai"
)

const (
	ModelName = "gemini-2.5-flash"

	// MaxSummaryReviews caps how many review texts are sent to the
	// summary call regardless of how many were scraped.
	MaxSummaryReviews = 50
)

// GeminiService handles all Gemini AI operations: per-review
// classification and batch summary synthesis. Both degrade to fixed
// defaults on any transport or parse failure; a classifier hiccup must
// never abort an analysis run.
type GeminiService struct {
	genaiClient *genai.Client
}

// ReviewClassification is the classifier's verdict for one review.
type ReviewClassification struct {
	Category  models.AspectType
	Sentiment models.SentimentType
	Score     int // 1 to 5
}

func NewGeminiService(apiKey string) *GeminiService {
	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		slog.Error("Failed to create genai client", "error", err)
		return nil
	}

	return &GeminiService{genaiClient: genaiClient}
}

// ClassifyReview categorizes a single review and scores its sentiment.
// Always returns a usable result: transport errors, non-JSON replies
// and unknown tokens all fall back to the neutral default.
func (g *GeminiService) ClassifyReview(ctx context.Context, reviewText string) ReviewClassification {
	if g == nil || g.genaiClient == nil {
		return defaultClassification()
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are a helpful assistant. Always respond with JSON only.",
			genai.RoleUser,
		),
	}

	result, err := g.genaiClient.Models.GenerateContent(
		ctx,
		ModelName,
		genai.Text(buildClassifyPrompt(reviewText)),
		config,
	)
	if err != nil {
		slog.Error("Review classification call failed", "error", err)
		return defaultClassification()
	}

	return parseClassification(result.Text())
}

// GenerateSummary synthesizes a strategic summary over a review batch.
// Input is capped to the first MaxSummaryReviews texts. Failures yield
// the neutral default summary instead of an error.
func (g *GeminiService) GenerateSummary(ctx context.Context, reviewTexts []string) models.SummaryResult {
	if g == nil || g.genaiClient == nil {
		return defaultSummary()
	}

	if len(reviewTexts) > MaxSummaryReviews {
		reviewTexts = reviewTexts[:MaxSummaryReviews]
	}

	reviewsJSON, err := json.Marshal(reviewTexts)
	if err != nil {
		slog.Error("Failed to marshal review texts", "error", err)
		return defaultSummary()
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are an AI assistant that outputs JSON. Return JSON only.",
			genai.RoleUser,
		),
	}

	result, err := g.genaiClient.Models.GenerateContent(
		ctx,
		ModelName,
		genai.Text(buildSummaryPrompt(string(reviewsJSON))),
		config,
	)
	if err != nil {
		slog.Error("Summary generation call failed", "error", err)
		return defaultSummary()
	}

	return parseSummary(result.Text())
}

func buildClassifyPrompt(reviewText string) string {
	return fmt.Sprintf(`You are an AI that analyzes e-commerce product reviews.
Analyze the review below and respond ONLY with JSON, no extra commentary.

CATEGORIES (pick exactly one):
1. ProductQuality
2. PricePerformance
3. Delivery
4. PackagingSeller
5. GeneralSatisfaction (when none of the others apply, or the review is general)

Rules:
- sentiment: must be 'Positive', 'Negative' or 'Neutral'.
- score: integer between 1 and 5.
- category: use the category name exactly as listed (e.g. 'ProductQuality').

Expected JSON format:
{
  "category": "ProductQuality",
  "sentiment": "Positive",
  "score": 5
}

Review: "%s"`, reviewText)
}

func buildSummaryPrompt(reviewsJSON string) string {
	return fmt.Sprintf(`You are an expert product review analyst. Analyze the customer reviews below and produce a summary report.

SCORING RULES (MANDATORY):
1. 'overallScore' MUST be a number between 1.0 and 5.0 (decimals allowed, e.g. 4.3).
2. Category scores (categoryScores) MUST be decimals between 1.0 and 5.0 (e.g. 3.8, 4.2).
3. Scoring logic:
   - Mostly positive reviews -> 4.0 to 5.0
   - Mixed/balanced reviews -> 2.5 to 3.9
   - Mostly negative reviews -> 1.0 to 2.4

CATEGORIES:
- productQuality: product quality
- pricePerformance: price / performance
- shipping: shipping and packaging
- seller: seller communication
- usageExperience: usage experience

OUTPUT FORMAT (JSON ONLY):
{
  "overallScore": 4.3,
  "strengths": ["Strength 1", "Strength 2"],
  "weaknesses": ["Weakness 1", "Weakness 2"],
  "categoryScores": {
    "productQuality": 4.2,
    "pricePerformance": 4.8,
    "shipping": 3.5,
    "seller": 4.0,
    "usageExperience": 4.6
  }
}

Reviews:
%s`, reviewsJSON)
}

// stripCodeFences removes markdown code-fence wrappers some models put
// around JSON payloads.
func stripCodeFences(text string) string {
	if !strings.Contains(text, "```") {
		return strings.TrimSpace(text)
	}
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// parseClassification extracts a classification from raw model output.
// A bad field falls back on its own; one unknown token never rejects
// the whole result.
func parseClassification(raw string) ReviewClassification {
	var payload struct {
		Category  string `json:"category"`
		Sentiment string `json:"sentiment"`
		Score     int    `json:"score"`
	}

	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &payload); err != nil {
		slog.Warn("Unparsable classification payload, using defaults", "error", err)
		return defaultClassification()
	}

	score := payload.Score
	if score < 1 || score > 5 {
		score = 3
	}

	return ReviewClassification{
		Category:  models.ParseAspect(payload.Category),
		Sentiment: models.ParseSentiment(payload.Sentiment),
		Score:     score,
	}
}

func parseSummary(raw string) models.SummaryResult {
	var summary models.SummaryResult
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &summary); err != nil {
		slog.Warn("Unparsable summary payload, using defaults", "error", err)
		return defaultSummary()
	}
	return summary
}

func defaultClassification() ReviewClassification {
	return ReviewClassification{
		Category:  models.AspectGeneralSatisfaction,
		Sentiment: models.SentimentNeutral,
		Score:     3,
	}
}

func defaultSummary() models.SummaryResult {
	return models.SummaryResult{
		OverallScore: 3.0,
		Strengths:    []string{"The review data could not be analyzed."},
		Weaknesses:   []string{},
		CategoryScores: models.CategoryScores{
			ProductQuality:   3,
			PricePerformance: 3,
			Shipping:         3,
			Seller:           3,
			UsageExperience:  3,
		},
	}
}
