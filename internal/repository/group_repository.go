package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/yatube/internal/models"
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id int) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository { return &groupRepository{db: db} }

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return translate(r.db.WithContext(ctx).Create(group).Error)
}

func (r *groupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).Order("title").Find(&groups).Error
	return groups, err
}
