package repository

import (
	"context"
	"errors"

	"github.com/varlik-app/varlik/internal/model"
	"gorm.io/gorm"
)

// PositionStore is the portfolio service's view of positions.
type PositionStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.PortfolioPosition, error)
}

// SettingsStore resolves per-user preferences needed outside the
// generic CRUD surface.
type SettingsStore interface {
	// BaseCurrency returns the user's display currency, or "TRY" when
	// the user has no settings row.
	BaseCurrency(ctx context.Context, userID string) (string, error)
}

type gormPortfolioRepository struct {
	db *gorm.DB
}

// NewPortfolioRepository returns gorm-backed position and settings
// stores sharing one connection.
func NewPortfolioRepository(db *gorm.DB) (PositionStore, SettingsStore) {
	repo := &gormPortfolioRepository{db: db}
	return repo, repo
}

func (r *gormPortfolioRepository) ListByUser(ctx context.Context, userID string) ([]model.PortfolioPosition, error) {
	var positions []model.PortfolioPosition
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&positions).Error
	return positions, err
}

func (r *gormPortfolioRepository) BaseCurrency(ctx context.Context, userID string) (string, error) {
	var setting model.UserSetting
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "TRY", nil
	}
	if err != nil {
		return "", err
	}
	if setting.BaseCurrency == "" {
		return "TRY", nil
	}
	return setting.BaseCurrency, nil
}
