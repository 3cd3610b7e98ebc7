package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/yatube/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	CountPosts(ctx context.Context, id int) (int64, error)
	CountFollowers(ctx context.Context, id int) (int64, error)
	CountFollowing(ctx context.Context, id int) (int64, error)
	SetRole(ctx context.Context, id int, role string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ExistsByUsernameOrEmail ignores an empty email, which many accounts share.
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if email != "" {
		q = q.Where("username = ? OR email = ?", username, email)
	} else {
		q = q.Where("username = ?", username)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *userRepository) CountPosts(ctx context.Context, id int) (int64, error) {
	return r.count(ctx, &models.Post{}, "author_id = ?", id)
}

func (r *userRepository) CountFollowers(ctx context.Context, id int) (int64, error) {
	return r.count(ctx, &models.Follow{}, "author_id = ?", id)
}

func (r *userRepository) CountFollowing(ctx context.Context, id int) (int64, error) {
	return r.count(ctx, &models.Follow{}, "user_id = ?", id)
}

func (r *userRepository) count(ctx context.Context, model any, cond string, args ...any) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(model).Where(cond, args...).Count(&cnt).Error
	return cnt, err
}

func (r *userRepository) SetRole(ctx context.Context, id int, role string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
