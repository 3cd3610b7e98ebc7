package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/yatube/internal/models"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID int) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

// ListByPost returns comments oldest first with their authors loaded.
func (r *commentRepository) ListByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}
