package repository

import (
	"context"
	"errors"
	"time"

	"github.com/varlik-app/varlik/internal/model"
	"gorm.io/gorm"
)

// HistoryStore persists market price history points. Implementations
// must keep at most one point per (asset_key, bucket) inside a bucket
// window; the service enforces this through LatestWithin.
type HistoryStore interface {
	// LatestWithin returns the most recent point for (assetKey, bucket)
	// with a timestamp at or after since, or nil when none exists.
	LatestWithin(ctx context.Context, assetKey, bucket string, since time.Time) (*model.PriceHistory, error)

	// Insert stores a new history point.
	Insert(ctx context.Context, point *model.PriceHistory) error

	// Range returns all points for (assetKey, bucket) from the cutoff
	// onward, oldest first.
	Range(ctx context.Context, assetKey, bucket string, from time.Time) ([]model.PriceHistory, error)

	// PurgeOlderThan deletes points of one bucket strictly older than
	// cutoff and returns the number of rows removed.
	PurgeOlderThan(ctx context.Context, bucket string, cutoff time.Time) (int64, error)
}

// AssetStore is the refresh cycle's view of the assets table.
type AssetStore interface {
	// ListUnsold returns every asset not marked sold, across all users.
	ListUnsold(ctx context.Context) ([]model.Asset, error)

	// UpdatePrice writes a freshly resolved price onto one asset row.
	UpdatePrice(ctx context.Context, id uint, price float64, at time.Time) error
}

// AlertStore is the refresh cycle's view of price alerts.
type AlertStore interface {
	// ListActive returns alerts that are active and not yet triggered.
	ListActive(ctx context.Context) ([]model.PriceAlert, error)

	// MarkTriggered flips one alert into the triggered state.
	MarkTriggered(ctx context.Context, id uint, at time.Time) error
}

type gormMarketRepository struct {
	db *gorm.DB
}

// NewMarketRepository returns gorm-backed implementations of the
// history, asset and alert stores sharing one connection.
func NewMarketRepository(db *gorm.DB) (HistoryStore, AssetStore, AlertStore) {
	repo := &gormMarketRepository{db: db}
	return repo, repo, repo
}

func (r *gormMarketRepository) LatestWithin(ctx context.Context, assetKey, bucket string, since time.Time) (*model.PriceHistory, error) {
	var point model.PriceHistory
	err := r.db.WithContext(ctx).
		Where("asset_key = ? AND interval_bucket = ? AND timestamp >= ?", assetKey, bucket, since).
		Order("timestamp DESC").
		First(&point).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *gormMarketRepository) Insert(ctx context.Context, point *model.PriceHistory) error {
	return r.db.WithContext(ctx).Create(point).Error
}

func (r *gormMarketRepository) Range(ctx context.Context, assetKey, bucket string, from time.Time) ([]model.PriceHistory, error) {
	var points []model.PriceHistory
	err := r.db.WithContext(ctx).
		Where("asset_key = ? AND interval_bucket = ? AND timestamp >= ?", assetKey, bucket, from).
		Order("timestamp ASC").
		Find(&points).Error
	return points, err
}

func (r *gormMarketRepository) PurgeOlderThan(ctx context.Context, bucket string, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("interval_bucket = ? AND timestamp < ?", bucket, cutoff).
		Delete(&model.PriceHistory{})
	return result.RowsAffected, result.Error
}

func (r *gormMarketRepository) ListUnsold(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	err := r.db.WithContext(ctx).
		Where("is_sold IS NULL OR is_sold = ?", false).
		Find(&assets).Error
	return assets, err
}

func (r *gormMarketRepository) UpdatePrice(ctx context.Context, id uint, price float64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ?", id).
		Updates(map[string]any{"current_price": price, "updated_at": at}).Error
}

func (r *gormMarketRepository) ListActive(ctx context.Context) ([]model.PriceAlert, error) {
	var alerts []model.PriceAlert
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND (is_triggered IS NULL OR is_triggered = ?)", true, false).
		Find(&alerts).Error
	return alerts, err
}

func (r *gormMarketRepository) MarkTriggered(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.PriceAlert{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_triggered": true, "triggered_at": at}).Error
}
