package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sentimenthub/backend/models"
	"github.com/sentimenthub/backend/repository"
	ws "github.com/sentimenthub/backend/websocket"
)

// reviewScraper fetches raw reviews from a product/business page.
type reviewScraper interface {
	Scrape(ctx context.Context, pageURL string, limit int) (*ScrapeResult, error)
}

// reviewAnalyzer classifies single reviews and synthesizes batch
// summaries. Both calls degrade internally and never fail.
type reviewAnalyzer interface {
	ClassifyReview(ctx context.Context, reviewText string) ReviewClassification
	GenerateSummary(ctx context.Context, reviewTexts []string) models.SummaryResult
}

// AnalysisService drives the full pipeline: scrape, classify each
// review sequentially, synthesize and enhance the summary, and record
// the terminal state on the analysis row.
type AnalysisService struct {
	repo    *repository.GORMRepository
	scraper reviewScraper
	ai      reviewAnalyzer
	hub     *ws.Hub
}

func NewAnalysisService(repo *repository.GORMRepository, scraper reviewScraper, ai reviewAnalyzer, hub *ws.Hub) *AnalysisService {
	return &AnalysisService{
		repo:    repo,
		scraper: scraper,
		ai:      ai,
		hub:     hub,
	}
}

// Run creates an analysis for the given page URL and processes it to a
// terminal state. Pipeline errors do not propagate: the analysis is
// returned in failed state with the error text recorded, and any
// reviews persisted before the failure point are kept.
func (s *AnalysisService) Run(ctx context.Context, ownerID, pageURL, title string, limit int) (*models.Analysis, error) {
	if pageURL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrValidation)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrValidation)
	}

	business, err := s.ensureBusiness(ctx, ownerID, pageURL, title)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve business: %w", err)
	}

	analysis := &models.Analysis{
		BusinessID: business.ID,
		Status:     models.StatusProcessing,
	}
	if err := s.repo.CreateAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to create analysis: %w", err)
	}
	s.publishStatus(analysis)

	if err := s.process(ctx, analysis, business, pageURL, title, limit); err != nil {
		analysis.Status = models.StatusFailed
		analysis.ErrorMessage = err.Error()
		if updateErr := s.repo.UpdateAnalysis(ctx, analysis); updateErr != nil {
			slog.Error("Failed to record analysis failure", "error", updateErr, "analysis_id", analysis.ID)
		}
		s.publishStatus(analysis)
		slog.Error("Analysis failed", "analysis_id", analysis.ID, "error", err)
		return analysis, nil
	}

	s.publishStatus(analysis)
	slog.Info("Analysis completed",
		"analysis_id", analysis.ID,
		"total_reviews", analysis.TotalReviews,
		"overall_score", analysis.OverallScore)
	return analysis, nil
}

// process runs the scrape-classify-summarize pipeline. Reviews are
// classified one at a time in scraped order to bound the load on the
// classifier service and keep the persisted ordering reproducible.
func (s *AnalysisService) process(ctx context.Context, analysis *models.Analysis, business *models.Business, pageURL, title string, limit int) error {
	result, err := s.scraper.Scrape(ctx, pageURL, limit)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	// The scrape may know the page's real name; keep it unless the
	// caller named the business explicitly.
	if result.BusinessName != "" && title == "" && business.Name != result.BusinessName {
		business.Name = result.BusinessName
		if err := s.repo.UpdateBusiness(ctx, business); err != nil {
			return fmt.Errorf("failed to update business name: %w", err)
		}
	}

	analysis.TotalReviews = len(result.Reviews)

	for i, scraped := range result.Reviews {
		classification := s.ai.ClassifyReview(ctx, scraped.Text)
		review := buildReview(analysis.ID, scraped, classification)
		if err := s.repo.CreateReview(ctx, &review); err != nil {
			return fmt.Errorf("failed to persist review: %w", err)
		}
		s.publishProgress(analysis.ID, i+1, len(result.Reviews))
	}

	reviewTexts := make([]string, 0, len(result.Reviews))
	for _, scraped := range result.Reviews {
		reviewTexts = append(reviewTexts, scraped.Text)
	}

	summary := enhanceSummary(s.ai.GenerateSummary(ctx, reviewTexts))

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	analysis.Status = models.StatusCompleted
	analysis.OverallScore = summary.OverallScore
	analysis.SummaryJSON = string(summaryJSON)
	if err := s.repo.UpdateAnalysis(ctx, analysis); err != nil {
		return fmt.Errorf("failed to complete analysis: %w", err)
	}
	return nil
}

// buildReview turns one scraped review plus its classification into a
// persistable record. The scraped star rating wins when it is a
// positive integer; otherwise the classifier's score stands in.
func buildReview(analysisID uint, scraped ScrapedReview, classification ReviewClassification) models.Review {
	rating := scraped.Rating
	if rating <= 0 {
		rating = classification.Score
	}

	review := models.Review{
		AnalysisID: analysisID,
		AuthorName: scraped.Author,
		Text:       scraped.Text,
		ReviewDate: parseReviewDate(scraped.Date),
		Rating:     rating,
		Sentiment:  classification.Sentiment,
		// The classifier carries no usable confidence channel, so the
		// stored values are fixed placeholders.
		Confidence: 1.0,
		AspectResults: []models.AspectResult{
			{
				Aspect:     classification.Category,
				Sentiment:  classification.Sentiment,
				Confidence: 0.95,
			},
		},
	}
	return review
}

var reviewDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseReviewDate(raw string) time.Time {
	for _, layout := range reviewDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

// enhanceSummary applies the deterministic post-call fixups,
// regardless of whether the synthesizer call succeeded:
// fallback strength/weakness lists, an overall score recomputed from
// the category breakdown, and one recommendation per weakness.
func enhanceSummary(summary models.SummaryResult) models.SummaryResult {
	if len(summary.Strengths) == 0 {
		summary.Strengths = []string{
			"Reviews about the product are broadly positive.",
			"According to user feedback the price/performance balance is reasonable.",
			"Users note that the product fulfils its basic functions.",
		}
	}
	if len(summary.Weaknesses) == 0 {
		summary.Weaknesses = []string{
			"Some users mention that delivery times could be improved.",
			"More detailed product descriptions would be helpful.",
			"There is occasional criticism of the packaging standards.",
		}
	}

	// The averaged category score overrides whatever overall score the
	// model proposed, keeping the headline number consistent with the
	// breakdown.
	summary.OverallScore = summary.CategoryScores.Average()

	summary.Recommendations = GenerateRecommendations(summary.Weaknesses)
	return summary
}

func (s *AnalysisService) ensureBusiness(ctx context.Context, ownerID, pageURL, title string) (*models.Business, error) {
	business, err := s.repo.GetBusinessByURL(ctx, pageURL, ownerID)
	if err != nil {
		return nil, err
	}

	if business == nil {
		name := title
		if name == "" {
			name = "New Business (" + time.Now().Format("2006-01-02") + ")"
		}
		business = &models.Business{
			Name:      name,
			SourceURL: pageURL,
			OwnerID:   ownerID,
		}
		if err := s.repo.CreateBusiness(ctx, business); err != nil {
			return nil, err
		}
		return business, nil
	}

	if title != "" && business.Name != title {
		business.Name = title
		if err := s.repo.UpdateBusiness(ctx, business); err != nil {
			return nil, err
		}
	}
	return business, nil
}

func (s *AnalysisService) publishStatus(analysis *models.Analysis) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(analysis.ID, ws.Event{
		Type:       ws.EventStatus,
		AnalysisID: analysis.ID,
		Status:     string(analysis.Status),
		Error:      analysis.ErrorMessage,
	})
}

func (s *AnalysisService) publishProgress(analysisID uint, processed, total int) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(analysisID, ws.Event{
		Type:       ws.EventProgress,
		AnalysisID: analysisID,
		Processed:  processed,
		Total:      total,
	})
}
