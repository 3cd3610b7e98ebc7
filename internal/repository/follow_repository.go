package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/yatube/internal/models"
)

type FollowRepository interface {
	// GetOrCreate is idempotent; created reports whether a new edge was written.
	GetOrCreate(ctx context.Context, userID, authorID int) (created bool, err error)
	// Delete removes the edge if present. A missing edge is not an error.
	Delete(ctx context.Context, userID, authorID int) error
	Exists(ctx context.Context, userID, authorID int) (bool, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) GetOrCreate(ctx context.Context, userID, authorID int) (bool, error) {
	f := &models.Follow{UserID: userID, AuthorID: authorID}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, userID, authorID int) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID int) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
