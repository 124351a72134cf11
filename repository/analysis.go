package repository

import (
	"context"
	"log/slog"

	"github.com/sentimenthub/backend/models"
	"gorm.io/gorm"
)

// Analysis queries with relations preloaded.

func (r *GORMRepository) GetAnalysesByOwner(ctx context.Context, ownerID string) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.WithContext(ctx).
		Joins("JOIN businesses ON businesses.id = analyses.business_id").
		Where("businesses.owner_id = ?", ownerID).
		Preload("Business").
		Order("analyses.created_at DESC").
		Find(&analyses).Error
	if err != nil {
		slog.Error("Failed to get analyses by owner", "error", err, "owner_id", ownerID)
		return nil, err
	}
	return analyses, nil
}

func (r *GORMRepository) GetAnalysisWithDetails(ctx context.Context, analysisID uint, ownerID string) (*models.Analysis, error) {
	var analysis models.Analysis
	err := r.db.WithContext(ctx).
		Joins("JOIN businesses ON businesses.id = analyses.business_id").
		Where("analyses.id = ? AND businesses.owner_id = ?", analysisID, ownerID).
		Preload("Business").
		Preload("Reviews").
		Preload("Reviews.AspectResults").
		First(&analysis).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get analysis with details", "error", err, "analysis_id", analysisID, "owner_id", ownerID)
		return nil, err
	}
	return &analysis, nil
}

// GetCompletedAnalyses loads the caller's completed analyses for the
// given id set, with reviews and business preloaded for insight
// generation.
func (r *GORMRepository) GetCompletedAnalyses(ctx context.Context, analysisIDs []uint, ownerID string) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.WithContext(ctx).
		Joins("JOIN businesses ON businesses.id = analyses.business_id").
		Where("analyses.id IN ? AND businesses.owner_id = ? AND analyses.status = ?",
			analysisIDs, ownerID, models.StatusCompleted).
		Preload("Business").
		Preload("Reviews").
		Find(&analyses).Error
	if err != nil {
		slog.Error("Failed to get completed analyses", "error", err, "owner_id", ownerID)
		return nil, err
	}
	return analyses, nil
}

func (r *GORMRepository) CountAnalysesForBusiness(ctx context.Context, businessID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Analysis{}).
		Where("business_id = ?", businessID).Count(&count).Error
	if err != nil {
		slog.Error("Failed to count analyses for business", "error", err, "business_id", businessID)
		return 0, err
	}
	return count, nil
}

// DeleteAnalysis removes an analysis with its reviews and aspect rows.
// Ownership must be checked by the caller first.
func (r *GORMRepository) DeleteAnalysis(ctx context.Context, analysisID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reviewIDs []uint
		if err := tx.Model(&models.Review{}).Where("analysis_id = ?", analysisID).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.AspectResult{}).Error; err != nil {
				return err
			}
			if err := tx.Where("analysis_id = ?", analysisID).Delete(&models.Review{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Analysis{}, analysisID).Error
	})
	if err != nil {
		slog.Error("Failed to delete analysis", "error", err, "analysis_id", analysisID)
		return err
	}
	slog.Info("Analysis deleted", "analysis_id", analysisID)
	return nil
}
