package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sentimenthub/backend/models"
	"github.com/sentimenthub/backend/repository"
	"golang.org/x/sync/singleflight"
)

const (
	// comparisonCacheSize bounds the in-process cache of parsed
	// comparison payloads sitting in front of the DB cache.
	comparisonCacheSize = 128

	// comparisonHistoryWindow is how many recent reports are scanned
	// when building a user's comparison history.
	comparisonHistoryWindow = 50
)

// distinctiveThreshold is the category score gap that counts as a
// distinctive feature; preferenceThreshold is the positive-rate gap
// (percentage points) that counts as a preference reason.
const (
	distinctiveThreshold = 1.0
	preferenceThreshold  = 15.0
)

// ComparisonService canonicalizes analysis id sets, caches computed
// comparisons and derives the comparison insights. A canonical id set
// owns at most one stored payload; concurrent first-time requests are
// collapsed by singleflight and resolved insert-or-fetch on conflict.
type ComparisonService struct {
	repo  *repository.GORMRepository
	cache *lru.Cache[string, cachedComparison]
	group singleflight.Group
}

type cachedComparison struct {
	ReportID uint
	Result   models.ComparisonResult
}

func NewComparisonService(repo *repository.GORMRepository) *ComparisonService {
	cache, err := lru.New[string, cachedComparison](comparisonCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &ComparisonService{
		repo:  repo,
		cache: cache,
	}
}

// CanonicalKey serializes an id set into its canonical cache key:
// unique ids sorted ascending as a JSON int array, e.g. "[1,2,3]".
// The same set always yields the same key regardless of input order.
func CanonicalKey(analysisIDs []uint) string {
	unique := make([]uint, 0, len(analysisIDs))
	seen := make(map[uint]bool, len(analysisIDs))
	for _, id := range analysisIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	key, _ := json.Marshal(unique)
	return string(key)
}

// Resolve returns the comparison for the given analysis id set,
// computing and persisting it on first request and serving the cached
// payload afterwards. A non-empty name renames the stored report.
func (s *ComparisonService) Resolve(ctx context.Context, ownerID string, analysisIDs []uint, name string) (*models.ComparisonResult, uint, error) {
	key := CanonicalKey(analysisIDs)

	var ids []uint
	if err := json.Unmarshal([]byte(key), &ids); err != nil {
		return nil, 0, fmt.Errorf("failed to parse canonical key: %w", err)
	}
	if len(ids) < 2 || len(ids) > 3 {
		return nil, 0, fmt.Errorf("%w: select at least 2 and at most 3 analyses", ErrValidation)
	}

	// Collapse concurrent first-time requests for the same set. The
	// flight is scoped per owner so one user's ownership check can
	// never satisfy another's.
	type resolved struct {
		result   models.ComparisonResult
		reportID uint
	}
	value, err, _ := s.group.Do(ownerID+"|"+key, func() (interface{}, error) {
		result, reportID, err := s.resolveLocked(ctx, ownerID, ids, key)
		if err != nil {
			return nil, err
		}
		return resolved{result: *result, reportID: reportID}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	res := value.(resolved)
	if name != "" {
		if err := s.repo.UpdateComparisonReportName(ctx, res.reportID, name); err != nil {
			slog.Warn("Failed to rename comparison report", "error", err, "report_id", res.reportID)
		}
	}
	return &res.result, res.reportID, nil
}

func (s *ComparisonService) resolveLocked(ctx context.Context, ownerID string, ids []uint, key string) (*models.ComparisonResult, uint, error) {
	if cached, ok := s.cache.Get(ownerID + "|" + key); ok {
		return &cached.Result, cached.ReportID, nil
	}

	// The LRU is keyed per owner but the DB row is global, so verify
	// the caller can see these analyses before serving the stored
	// payload.
	analyses, err := s.repo.GetCompletedAnalyses(ctx, ids, ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load analyses: %w", err)
	}
	if len(analyses) < 2 {
		return nil, 0, fmt.Errorf("%w: comparison requires at least 2 completed analyses", ErrNotFound)
	}

	report, err := s.repo.GetComparisonReportByKey(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to look up comparison cache: %w", err)
	}

	if report != nil {
		var result models.ComparisonResult
		if err := json.Unmarshal([]byte(report.ResultJSON), &result); err == nil {
			s.cache.Add(ownerID+"|"+key, cachedComparison{ReportID: report.ID, Result: result})
			slog.Info("Comparison served from cache", "report_id", report.ID, "ids_key", key)
			return &result, report.ID, nil
		}
		// Corrupt payload: regenerate silently and overwrite.
		slog.Warn("Corrupt comparison payload, regenerating", "report_id", report.ID, "ids_key", key)
		result = GenerateComparison(buildComparedProducts(analyses))
		resultJSON, err := json.Marshal(result)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to serialize comparison: %w", err)
		}
		if err := s.repo.UpdateComparisonReportResult(ctx, report.ID, string(resultJSON)); err != nil {
			return nil, 0, fmt.Errorf("failed to overwrite comparison: %w", err)
		}
		s.cache.Add(ownerID+"|"+key, cachedComparison{ReportID: report.ID, Result: result})
		return &result, report.ID, nil
	}

	result := GenerateComparison(buildComparedProducts(analyses))
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to serialize comparison: %w", err)
	}

	stored, err := s.repo.CreateComparisonReport(ctx, &models.ComparisonReport{
		AnalysisIDs: key,
		ResultJSON:  string(resultJSON),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to store comparison: %w", err)
	}

	s.cache.Add(ownerID+"|"+key, cachedComparison{ReportID: stored.ID, Result: result})
	return &result, stored.ID, nil
}

// Rename updates a stored report's display name and nothing else.
func (s *ComparisonService) Rename(ctx context.Context, reportID uint, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	report, err := s.repo.GetComparisonReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("%w: comparison report %d", ErrNotFound, reportID)
	}
	return s.repo.UpdateComparisonReportName(ctx, reportID, name)
}

// Load returns a stored report with its parsed payload. Reports are
// only visible to owners of at least one of the compared analyses.
func (s *ComparisonService) Load(ctx context.Context, ownerID string, reportID uint) (*models.ComparisonResult, *models.ComparisonReport, error) {
	report, err := s.repo.GetComparisonReportByID(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	if report == nil {
		return nil, nil, fmt.Errorf("%w: comparison report %d", ErrNotFound, reportID)
	}

	var ids []uint
	if err := json.Unmarshal([]byte(report.AnalysisIDs), &ids); err != nil {
		return nil, nil, fmt.Errorf("%w: comparison report %d is unreadable", ErrNotFound, reportID)
	}
	analyses, err := s.repo.GetCompletedAnalyses(ctx, ids, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if len(analyses) == 0 {
		return nil, nil, fmt.Errorf("%w: comparison report %d", ErrNotFound, reportID)
	}

	var result models.ComparisonResult
	if err := json.Unmarshal([]byte(report.ResultJSON), &result); err != nil {
		return nil, nil, fmt.Errorf("%w: comparison report %d is unreadable", ErrNotFound, reportID)
	}
	return &result, report, nil
}

// History lists recent reports that touch at least one of the caller's
// analyses.
func (s *ComparisonService) History(ctx context.Context, ownerID string) ([]models.ComparisonReport, error) {
	analyses, err := s.repo.GetAnalysesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	owned := make(map[uint]bool, len(analyses))
	for _, a := range analyses {
		owned[a.ID] = true
	}

	recent, err := s.repo.GetRecentComparisonReports(ctx, comparisonHistoryWindow)
	if err != nil {
		return nil, err
	}

	var history []models.ComparisonReport
	for _, report := range recent {
		var ids []uint
		if err := json.Unmarshal([]byte(report.AnalysisIDs), &ids); err != nil {
			continue
		}
		for _, id := range ids {
			if owned[id] {
				history = append(history, report)
				break
			}
		}
	}
	return history, nil
}

// buildComparedProducts derives per-product aggregates from completed
// analyses: the 1-decimal overall score, sentiment rates and one
// recommendation per weakness.
func buildComparedProducts(analyses []models.Analysis) []models.ComparedProduct {
	products := make([]models.ComparedProduct, 0, len(analyses))
	for _, analysis := range analyses {
		var summary models.SummaryResult
		if analysis.SummaryJSON != "" {
			if err := json.Unmarshal([]byte(analysis.SummaryJSON), &summary); err != nil {
				slog.Warn("Unreadable analysis summary, comparing with empty summary", "analysis_id", analysis.ID)
			}
		}

		product := models.ComparedProduct{
			AnalysisID:     analysis.ID,
			Name:           "Unknown Product",
			CategoryScores: summary.CategoryScores,
			Strengths:      summary.Strengths,
			Weaknesses:     summary.Weaknesses,
			OverallScore:   summary.CategoryScores.Average(),
		}
		if analysis.Business != nil {
			product.Name = analysis.Business.Name
			product.URL = analysis.Business.SourceURL
		}

		product.PositiveRate, product.NegativeRate = sentimentRates(analysis.Reviews)
		product.Recommendations = GenerateRecommendations(product.Weaknesses)

		products = append(products, product)
	}
	return products
}

// sentimentRates returns the positive and negative percentages of a
// review set, rounded to one decimal. Both are 0 for an empty set.
func sentimentRates(reviews []models.Review) (positive, negative float64) {
	if len(reviews) == 0 {
		return 0, 0
	}
	var pos, neg int
	for _, review := range reviews {
		switch review.Sentiment {
		case models.SentimentPositive:
			pos++
		case models.SentimentNegative:
			neg++
		}
	}
	total := float64(len(reviews))
	return models.Round1(float64(pos) / total * 100), models.Round1(float64(neg) / total * 100)
}

var comparisonCategories = []struct {
	label string
	score func(models.CategoryScores) float64
}{
	{"Product Quality", func(c models.CategoryScores) float64 { return c.ProductQuality }},
	{"Price/Performance", func(c models.CategoryScores) float64 { return c.PricePerformance }},
	{"Shipping Speed", func(c models.CategoryScores) float64 { return c.Shipping }},
	{"Seller Attention", func(c models.CategoryScores) float64 { return c.Seller }},
	{"Usage Experience", func(c models.CategoryScores) float64 { return c.UsageExperience }},
}

// GenerateComparison derives the engine-level insights over the
// prepared products: distinctive features, preference reasons, user
// profile winners and the decision-support narrative. Pure function of
// its input; product order decides all tie-breaks.
func GenerateComparison(products []models.ComparedProduct) models.ComparisonResult {
	result := models.ComparisonResult{
		Products:            products,
		DistinctiveFeatures: []string{},
		PreferenceReasons:   []string{},
		UserProfiles:        make(map[string]string),
	}
	if len(products) == 0 {
		return result
	}

	for i := 0; i < len(products); i++ {
		for j := i + 1; j < len(products); j++ {
			p1, p2 := products[i], products[j]

			// Both directions are checked independently; a pair can
			// produce zero, one or two statements.
			if feature := distinctiveFeature(p1, p2); feature != "" {
				result.DistinctiveFeatures = append(result.DistinctiveFeatures, feature)
			}
			if feature := distinctiveFeature(p2, p1); feature != "" {
				result.DistinctiveFeatures = append(result.DistinctiveFeatures, feature)
			}

			diff := p1.PositiveRate - p2.PositiveRate
			if diff >= preferenceThreshold {
				result.PreferenceReasons = append(result.PreferenceReasons, preferenceReason(p1, p2, diff))
			} else if diff <= -preferenceThreshold {
				result.PreferenceReasons = append(result.PreferenceReasons, preferenceReason(p2, p1, -diff))
			}
		}
	}

	qualityWinner := maxBy(products, func(p models.ComparedProduct) float64 { return p.CategoryScores.ProductQuality })
	priceWinner := maxBy(products, func(p models.ComparedProduct) float64 { return p.CategoryScores.PricePerformance })
	speedWinner := maxBy(products, func(p models.ComparedProduct) float64 { return p.CategoryScores.Shipping })

	result.UserProfiles["Quality-Focused User"] = qualityWinner.Name
	result.UserProfiles["Price/Performance-Focused User"] = priceWinner.Name
	result.UserProfiles["Speed & Delivery-Focused User"] = speedWinner.Name

	overallWinner := maxBy(products, func(p models.ComparedProduct) float64 { return p.OverallScore })
	decision := fmt.Sprintf("Overall, %s stands out with the highest score (%.1f). ",
		overallWinner.Name, overallWinner.OverallScore)
	if qualityWinner.AnalysisID == priceWinner.AnalysisID {
		decision += fmt.Sprintf("For users looking for both quality and price/performance, %s is an ideal option.",
			qualityWinner.Name)
	} else {
		decision += fmt.Sprintf("%s is recommended when quality comes first, while %s is the budget-friendly choice.",
			qualityWinner.Name, priceWinner.Name)
	}
	result.DecisionSupport = decision

	return result
}

// distinctiveFeature emits one sentence naming every category where
// main exceeds other by the distinctive threshold, or "" when none do.
func distinctiveFeature(main, other models.ComparedProduct) string {
	var categories []string
	for _, category := range comparisonCategories {
		if category.score(main.CategoryScores)-category.score(other.CategoryScores) >= distinctiveThreshold {
			categories = append(categories, category.label)
		}
	}
	if len(categories) == 0 {
		return ""
	}
	return fmt.Sprintf("%s shows a clear advantage over %s in %s.",
		main.Name, other.Name, joinList(categories))
}

func preferenceReason(stronger, weaker models.ComparedProduct, gap float64) string {
	return fmt.Sprintf("%s is a strong choice over %s thanks to a %.1f point higher customer satisfaction rate.",
		stronger.Name, weaker.Name, gap)
}

// maxBy is a stable argmax: ties keep the earliest product.
func maxBy(products []models.ComparedProduct, score func(models.ComparedProduct) float64) models.ComparedProduct {
	best := products[0]
	for _, p := range products[1:] {
		if score(p) > score(best) {
			best = p
		}
	}
	return best
}

func joinList(items []string) string {
	if len(items) == 1 {
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
