package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/yatube/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// Save writes the author-editable fields (text, group, image) only.
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	// GetByIDAndAuthor finds a post only when it was written by username.
	GetByIDAndAuthor(ctx context.Context, id int, username string) (*models.Post, error)
	Count(ctx context.Context) (int64, error)

	FindAll(ctx context.Context, page int) (*Page[models.Post], error)
	FindByGroup(ctx context.Context, groupID int, page int) (*Page[models.Post], error)
	FindByAuthor(ctx context.Context, authorID int, page int) (*Page[models.Post], error)
	// FindFeedForFollower lists posts by the authors userID follows, excluding userID's own.
	FindFeedForFollower(ctx context.Context, userID int, page int) (*Page[models.Post], error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

// newestFirst preloads what the feed templates render and orders by recency.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Group").Order("pub_date DESC").Order("id DESC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

func (r *postRepository) Save(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *postRepository) GetByIDAndAuthor(ctx context.Context, id int, username string) (*models.Post, error) {
	authors := r.db.Model(&models.User{}).Select("id").Where("username = ?", username)

	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("id = ? AND author_id IN (?)", id, authors).
		First(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) FindAll(ctx context.Context, page int) (*Page[models.Post], error) {
	return Paginate[models.Post](ctx, r.db.Model(&models.Post{}), page, PageSize, newestFirst)
}

func (r *postRepository) FindByGroup(ctx context.Context, groupID int, page int) (*Page[models.Post], error) {
	q := r.db.Model(&models.Post{}).Where("group_id = ?", groupID)
	return Paginate[models.Post](ctx, q, page, PageSize, newestFirst)
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID int, page int) (*Page[models.Post], error) {
	q := r.db.Model(&models.Post{}).Where("author_id = ?", authorID)
	return Paginate[models.Post](ctx, q, page, PageSize, newestFirst)
}

func (r *postRepository) FindFeedForFollower(ctx context.Context, userID int, page int) (*Page[models.Post], error) {
	followed := r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID)
	q := r.db.Model(&models.Post{}).
		Where("author_id IN (?)", followed).
		Where("author_id <> ?", userID)
	return Paginate[models.Post](ctx, q, page, PageSize, newestFirst)
}
