package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sentimenthub/backend/models"
	"github.com/sentimenthub/backend/repository"
)

const defaultReviewLimit = 50

type AnalysisEndpoints struct {
	repo            *repository.GORMRepository
	analysisService *AnalysisService
}

func NewAnalysisEndpoints(repo *repository.GORMRepository, analysisService *AnalysisService) *AnalysisEndpoints {
	return &AnalysisEndpoints{
		repo:            repo,
		analysisService: analysisService,
	}
}

type CreateAnalysisRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type GetAnalysesResponse struct {
	Analyses []models.Analysis `json:"analyses"`
	Count    int               `json:"count"`
}

type AnalysisDetailResponse struct {
	models.Analysis
	Summary *models.SummaryResult `json:"summary,omitempty"`
}

func (e *AnalysisEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/analyses", func(r chi.Router) {
		r.Post("/", e.CreateAnalysisHandler)
		r.Get("/", e.GetAnalysesHandler)
		r.Get("/{id}", e.GetAnalysisHandler)
		r.Delete("/{id}", e.DeleteAnalysisHandler)
	})
}

func (e *AnalysisEndpoints) CreateAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultReviewLimit
	}

	analysis, err := e.analysisService.Run(r.Context(), user.ID, req.URL, req.Title, req.Limit)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Failed to run analysis", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to run analysis", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(analysis)
}

func (e *AnalysisEndpoints) GetAnalysesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	analyses, err := e.repo.GetAnalysesByOwner(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get analyses", http.StatusInternalServerError)
		return
	}

	response := GetAnalysesResponse{
		Analyses: analyses,
		Count:    len(analyses),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (e *AnalysisEndpoints) GetAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	analysisID, err := parseUintParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid analysis id", http.StatusBadRequest)
		return
	}

	analysis, err := e.repo.GetAnalysisWithDetails(r.Context(), analysisID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get analysis", http.StatusInternalServerError)
		return
	}
	if analysis == nil {
		http.Error(w, "Analysis not found", http.StatusNotFound)
		return
	}

	response := AnalysisDetailResponse{Analysis: *analysis}
	if analysis.SummaryJSON != "" {
		var summary models.SummaryResult
		if err := json.Unmarshal([]byte(analysis.SummaryJSON), &summary); err == nil {
			response.Summary = &summary
		} else {
			slog.Warn("Stored summary is unreadable", "error", err, "analysis_id", analysis.ID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DeleteAnalysisHandler removes an analysis; when it was the
// business's last one the business row goes with it.
func (e *AnalysisEndpoints) DeleteAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	analysisID, err := parseUintParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid analysis id", http.StatusBadRequest)
		return
	}

	analysis, err := e.repo.GetAnalysisWithDetails(r.Context(), analysisID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get analysis", http.StatusInternalServerError)
		return
	}
	if analysis == nil {
		http.Error(w, "Analysis not found", http.StatusNotFound)
		return
	}

	if err := e.repo.DeleteAnalysis(r.Context(), analysis.ID); err != nil {
		http.Error(w, "Failed to delete analysis", http.StatusInternalServerError)
		return
	}

	remaining, err := e.repo.CountAnalysesForBusiness(r.Context(), analysis.BusinessID)
	if err == nil && remaining == 0 {
		if err := e.repo.DeleteBusiness(r.Context(), analysis.BusinessID); err != nil {
			slog.Warn("Failed to delete orphaned business", "error", err, "business_id", analysis.BusinessID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Analysis deleted"})

	slog.Info("Analysis deleted via API", "analysis_id", analysisID, "user_id", user.ID)
}

func parseUintParam(r *http.Request, name string) (uint, error) {
	value, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}
