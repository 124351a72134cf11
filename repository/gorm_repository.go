package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/sentimenthub/backend/models"
	"gorm.io/gorm"
)

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Business{},
		&models.Analysis{},
		&models.Review{},
		&models.AspectResult{},
		&models.ComparisonReport{},
	)
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// Token operations
func (r *GORMRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ? AND expires_at > ?", token, time.Now()).First(&refreshToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get refresh token", "error", err)
		return nil, err
	}
	return &refreshToken, nil
}

func (r *GORMRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) DeleteAllUserTokens(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete user refresh tokens", "error", err, "user_id", userID)
		return err
	}
	return nil
}

// Business operations
func (r *GORMRepository) GetBusinessByURL(ctx context.Context, url, ownerID string) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).Where("source_url = ? AND owner_id = ?", url, ownerID).First(&business).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get business by URL", "error", err, "owner_id", ownerID)
		return nil, err
	}
	return &business, nil
}

func (r *GORMRepository) CreateBusiness(ctx context.Context, business *models.Business) error {
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		slog.Error("Failed to create business", "error", err)
		return err
	}
	slog.Info("Business created", "business_id", business.ID, "name", business.Name)
	return nil
}

func (r *GORMRepository) UpdateBusiness(ctx context.Context, business *models.Business) error {
	if err := r.db.WithContext(ctx).Save(business).Error; err != nil {
		slog.Error("Failed to update business", "error", err, "business_id", business.ID)
		return err
	}
	return nil
}

func (r *GORMRepository) DeleteBusiness(ctx context.Context, businessID uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Business{}, businessID).Error; err != nil {
		slog.Error("Failed to delete business", "error", err, "business_id", businessID)
		return err
	}
	slog.Info("Business deleted", "business_id", businessID)
	return nil
}

// Analysis operations
func (r *GORMRepository) CreateAnalysis(ctx context.Context, analysis *models.Analysis) error {
	if err := r.db.WithContext(ctx).Create(analysis).Error; err != nil {
		slog.Error("Failed to create analysis", "error", err)
		return err
	}
	slog.Info("Analysis created", "analysis_id", analysis.ID, "business_id", analysis.BusinessID)
	return nil
}

func (r *GORMRepository) UpdateAnalysis(ctx context.Context, analysis *models.Analysis) error {
	if err := r.db.WithContext(ctx).Save(analysis).Error; err != nil {
		slog.Error("Failed to update analysis", "error", err, "analysis_id", analysis.ID)
		return err
	}
	return nil
}

// CreateReview commits one classified review with its aspect rows.
// Each review is persisted independently so work done before a later
// pipeline failure is never lost.
func (r *GORMRepository) CreateReview(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		slog.Error("Failed to create review", "error", err, "analysis_id", review.AnalysisID)
		return err
	}
	return nil
}
