// Package repository contains the persistence layer. All user-owned
// entities share one generic gorm-backed repository; market history and
// refresh-cycle access live behind small interfaces so services can be
// tested against in-memory fakes.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ListParams controls pagination, filtering and ordering of entity
// listings. Filters and Sort reference database column names and must
// already be validated against the entity's allowed column set.
type ListParams struct {
	Skip    int
	Limit   int
	Filters map[string]any
	Sort    string
}

// Scoped is a generic repository for user-owned rows. Every query is
// filtered by user_id so cross-user reads and writes are unreachable.
type Scoped[T any] struct {
	db *gorm.DB
}

// NewScoped creates a repository for entity type T.
func NewScoped[T any](db *gorm.DB) *Scoped[T] {
	return &Scoped[T]{db: db}
}

// Create inserts a new row. The caller has already stamped the owning
// user id onto the entity.
func (r *Scoped[T]) Create(ctx context.Context, obj *T) error {
	return r.db.WithContext(ctx).Create(obj).Error
}

// GetByID fetches one row owned by userID. Returns (nil, nil) when no
// such row exists.
func (r *Scoped[T]) GetByID(ctx context.Context, userID string, id uint) (*T, error) {
	var obj T
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&obj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// List returns a page of the user's rows plus the total count.
func (r *Scoped[T]) List(ctx context.Context, userID string, params ListParams) ([]T, int64, error) {
	if params.Limit <= 0 {
		params.Limit = 20
	}

	query := r.db.WithContext(ctx).Model(new(T)).Where("user_id = ?", userID)
	for column, value := range params.Filters {
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(params.Sort))

	var items []T
	if err := query.Offset(params.Skip).Limit(params.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update applies a partial update to a row owned by userID and returns
// the updated entity, or (nil, nil) when the row does not exist. The
// user_id column is never updatable.
func (r *Scoped[T]) Update(ctx context.Context, userID string, id uint, updates map[string]any) (*T, error) {
	existing, err := r.GetByID(ctx, userID, id)
	if err != nil || existing == nil {
		return nil, err
	}
	delete(updates, "user_id")
	if len(updates) > 0 {
		err = r.db.WithContext(ctx).Model(new(T)).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, userID, id)
}

// Delete removes a row owned by userID. Reports whether a row was
// actually deleted.
func (r *Scoped[T]) Delete(ctx context.Context, userID string, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(new(T))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// orderClause turns a "-column"/"column" sort value into an ORDER BY
// clause, defaulting to newest-first by id.
func orderClause(sort string) string {
	if sort == "" {
		return "id DESC"
	}
	if strings.HasPrefix(sort, "-") {
		return sort[1:] + " DESC"
	}
	return sort + " ASC"
}
