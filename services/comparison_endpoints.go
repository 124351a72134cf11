package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sentimenthub/backend/models"
)

type ComparisonEndpoints struct {
	comparisonService *ComparisonService
}

func NewComparisonEndpoints(comparisonService *ComparisonService) *ComparisonEndpoints {
	return &ComparisonEndpoints{comparisonService: comparisonService}
}

type CreateComparisonRequest struct {
	AnalysisIDs []uint `json:"analysis_ids"`
	Name        string `json:"name,omitempty"`
}

type RenameComparisonRequest struct {
	Name string `json:"name"`
}

type ComparisonResponse struct {
	ReportID uint                     `json:"report_id"`
	Result   *models.ComparisonResult `json:"result"`
}

func (e *ComparisonEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/comparisons", func(r chi.Router) {
		r.Post("/", e.CreateComparisonHandler)
		r.Get("/", e.GetComparisonsHandler)
		r.Get("/{id}", e.GetComparisonHandler)
		r.Patch("/{id}", e.RenameComparisonHandler)
	})
}

func (e *ComparisonEndpoints) CreateComparisonHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, reportID, err := e.comparisonService.Resolve(r.Context(), user.ID, req.AnalysisIDs, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrNotFound):
			http.Error(w, "Analyses not found or not completed", http.StatusNotFound)
		default:
			slog.Error("Failed to resolve comparison", "error", err, "user_id", user.ID)
			http.Error(w, "Failed to resolve comparison", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ComparisonResponse{ReportID: reportID, Result: result})
}

func (e *ComparisonEndpoints) GetComparisonsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	reports, err := e.comparisonService.History(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get comparisons", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"comparisons": reports,
		"count":       len(reports),
	})
}

func (e *ComparisonEndpoints) GetComparisonHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	reportID, err := parseUintParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid comparison id", http.StatusBadRequest)
		return
	}

	result, report, err := e.comparisonService.Load(r.Context(), user.ID, reportID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Comparison not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load comparison", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"report": report,
		"result": result,
	})
}

func (e *ComparisonEndpoints) RenameComparisonHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	reportID, err := parseUintParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid comparison id", http.StatusBadRequest)
		return
	}

	var req RenameComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, _, err := e.comparisonService.Load(r.Context(), user.ID, reportID); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Comparison not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load comparison", http.StatusInternalServerError)
		return
	}

	if err := e.comparisonService.Rename(r.Context(), reportID, req.Name); err != nil {
		http.Error(w, "Failed to rename comparison", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Comparison renamed"})
}
