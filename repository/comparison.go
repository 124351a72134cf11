package repository

import (
	"context"
	"log/slog"

	"github.com/sentimenthub/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Comparison report operations. The analysis_ids column carries a
// unique index; CreateComparisonReport resolves the first-request
// race with insert-or-fetch-existing semantics.

func (r *GORMRepository) GetComparisonReportByKey(ctx context.Context, idsKey string) (*models.ComparisonReport, error) {
	var report models.ComparisonReport
	err := r.db.WithContext(ctx).Where("analysis_ids = ?", idsKey).First(&report).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get comparison report by key", "error", err, "ids_key", idsKey)
		return nil, err
	}
	return &report, nil
}

func (r *GORMRepository) GetComparisonReportByID(ctx context.Context, reportID uint) (*models.ComparisonReport, error) {
	var report models.ComparisonReport
	err := r.db.WithContext(ctx).First(&report, reportID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get comparison report", "error", err, "report_id", reportID)
		return nil, err
	}
	return &report, nil
}

// CreateComparisonReport inserts the report unless a row with the same
// canonical key already exists, in which case the existing row is
// returned unchanged. At most one stored payload per id set.
func (r *GORMRepository) CreateComparisonReport(ctx context.Context, report *models.ComparisonReport) (*models.ComparisonReport, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "analysis_ids"}},
			DoNothing: true,
		}).
		Create(report)
	if result.Error != nil {
		slog.Error("Failed to create comparison report", "error", result.Error, "ids_key", report.AnalysisIDs)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the insert race; fetch the winner's row.
		return r.GetComparisonReportByKey(ctx, report.AnalysisIDs)
	}
	slog.Info("Comparison report created", "report_id", report.ID, "ids_key", report.AnalysisIDs)
	return report, nil
}

func (r *GORMRepository) UpdateComparisonReportName(ctx context.Context, reportID uint, name string) error {
	err := r.db.WithContext(ctx).Model(&models.ComparisonReport{}).
		Where("id = ?", reportID).Update("name", name).Error
	if err != nil {
		slog.Error("Failed to update comparison report name", "error", err, "report_id", reportID)
		return err
	}
	slog.Info("Comparison report renamed", "report_id", reportID, "name", name)
	return nil
}

// UpdateComparisonReportResult overwrites a stored payload. Only used
// when the cached payload failed to parse and was regenerated.
func (r *GORMRepository) UpdateComparisonReportResult(ctx context.Context, reportID uint, resultJSON string) error {
	err := r.db.WithContext(ctx).Model(&models.ComparisonReport{}).
		Where("id = ?", reportID).Update("result_json", resultJSON).Error
	if err != nil {
		slog.Error("Failed to update comparison report result", "error", err, "report_id", reportID)
		return err
	}
	return nil
}

func (r *GORMRepository) GetRecentComparisonReports(ctx context.Context, limit int) ([]models.ComparisonReport, error) {
	var reports []models.ComparisonReport
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&reports).Error
	if err != nil {
		slog.Error("Failed to get recent comparison reports", "error", err)
		return nil, err
	}
	return reports, nil
}
