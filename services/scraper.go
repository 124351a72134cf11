package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ScraperService talks to the external review scraping service.
// Unlike the classifier, a scrape failure is fatal to an analysis run,
// so errors propagate to the caller.
type ScraperService struct {
	baseURL string
	client  *http.Client
}

type ScrapeRequest struct {
	URL   string `json:"url"`
	Limit int    `json:"limit"`
}

type ScrapedReview struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
	Date   string `json:"date"`
}

type ScrapeResult struct {
	Reviews      []ScrapedReview `json:"reviews"`
	TotalReviews int             `json:"total_reviews"`
	BusinessName string          `json:"business_name,omitempty"`
}

func NewScraperService(baseURL string) *ScraperService {
	return &ScraperService{
		baseURL: baseURL,
		client: &http.Client{
			// Scraping a large review page can take a long time.
			Timeout: time.Hour,
		},
	}
}

// Scrape fetches up to limit reviews from the given page URL.
func (s *ScraperService) Scrape(ctx context.Context, pageURL string, limit int) (*ScrapeResult, error) {
	request := ScrapeRequest{URL: pageURL, Limit: limit}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := s.baseURL + "/analyze"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scraper API error: %d - %s", resp.StatusCode, string(body))
	}

	var result ScrapeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode scrape response: %w", err)
	}

	slog.Info("Scraped reviews", "count", len(result.Reviews), "business_name", result.BusinessName)
	return &result, nil
}
