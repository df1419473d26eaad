package repository

import (
	"context"

	"github.com/varlik-app/varlik/internal/model"
	"gorm.io/gorm"
)

// WatchlistRepository manages (user, asset_key) watchlist pairs.
type WatchlistRepository interface {
	List(ctx context.Context, userID string) ([]model.WatchlistItem, error)
	Add(ctx context.Context, item *model.WatchlistItem) error
	Contains(ctx context.Context, userID, assetKey string) (bool, error)
	Remove(ctx context.Context, userID, assetKey string) (bool, error)
}

type gormWatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &gormWatchlistRepository{db: db}
}

func (r *gormWatchlistRepository) List(ctx context.Context, userID string) ([]model.WatchlistItem, error) {
	var items []model.WatchlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *gormWatchlistRepository) Add(ctx context.Context, item *model.WatchlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormWatchlistRepository) Contains(ctx context.Context, userID, assetKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WatchlistItem{}).
		Where("user_id = ? AND asset_key = ?", userID, assetKey).
		Count(&count).Error
	return count > 0, err
}

func (r *gormWatchlistRepository) Remove(ctx context.Context, userID, assetKey string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND asset_key = ?", userID, assetKey).
		Delete(&model.WatchlistItem{})
	return result.RowsAffected > 0, result.Error
}
