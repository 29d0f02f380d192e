package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"river-portfolio/internal/entity"
)

// RecommendationRepository defines the interface for recommendation and
// recommendation-change operations.
type RecommendationRepository interface {
	GetLatestByStockID(ctx context.Context, stockID uint) (*entity.Recommendation, error)
	GetHistoryByStockID(ctx context.Context, stockID uint, limit int) ([]entity.Recommendation, error)
	Create(ctx context.Context, rec *entity.Recommendation) error
	// CreateWithChange inserts the recommendation and its change row in a
	// single transaction so the history never shows a change without the
	// recommendation that caused it.
	CreateWithChange(ctx context.Context, rec *entity.Recommendation, change *entity.RecommendationChange) error
	GetChangesSince(ctx context.Context, since time.Time, limit int) ([]entity.RecommendationChange, error)
	GetChangesByStockID(ctx context.Context, stockID uint) ([]entity.RecommendationChange, error)
}

type recommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new instance of RecommendationRepository.
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) GetLatestByStockID(ctx context.Context, stockID uint) (*entity.Recommendation, error) {
	var rec entity.Recommendation
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at desc").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepository) GetHistoryByStockID(ctx context.Context, stockID uint, limit int) ([]entity.Recommendation, error) {
	var recs []entity.Recommendation
	q := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *recommendationRepository) Create(ctx context.Context, rec *entity.Recommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recommendationRepository) CreateWithChange(ctx context.Context, rec *entity.Recommendation, change *entity.RecommendationChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		if change != nil {
			if err := tx.Create(change).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *recommendationRepository) GetChangesSince(ctx context.Context, since time.Time, limit int) ([]entity.RecommendationChange, error) {
	var changes []entity.RecommendationChange
	q := r.db.WithContext(ctx).
		Preload("Stock").
		Where("created_at >= ?", since).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

func (r *recommendationRepository) GetChangesByStockID(ctx context.Context, stockID uint) ([]entity.RecommendationChange, error) {
	var changes []entity.RecommendationChange
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at asc").
		Find(&changes).Error
	if err != nil {
		return nil, err
	}
	return changes, nil
}
