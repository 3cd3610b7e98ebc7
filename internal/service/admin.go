package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/emilythestrangee/yatube/internal/cache"
	"github.com/emilythestrangee/yatube/internal/logger"
	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/repository"
	"github.com/emilythestrangee/yatube/internal/storage"
)

type GroupForm struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Slug        string `form:"slug" json:"slug" validate:"required,max=100,slug"`
	Description string `form:"description" json:"description"`
}

// AdminService backs the admin API and the manage command.
type AdminService struct {
	repos  *repository.Repositories
	images storage.ImageStore
	pages  cache.Cache
}

func NewAdminService(repos *repository.Repositories, images storage.ImageStore, pages cache.Cache) *AdminService {
	return &AdminService{repos: repos, images: images, pages: pages}
}

func (s *AdminService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.repos.Groups.List(ctx)
}

func (s *AdminService) CreateGroup(ctx context.Context, form GroupForm) (*models.Group, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Slug = strings.TrimSpace(form.Slug)
	if errs := validateForm(form); len(errs) > 0 {
		return nil, errs
	}
	group := &models.Group{Title: form.Title, Slug: form.Slug, Description: form.Description}
	if err := s.repos.Groups.Create(ctx, group); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, FormErrors{"slug": {"Group with this slug already exists."}}
		}
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

// DeletePost removes a post, its comments and its image file.
func (s *AdminService) DeletePost(ctx context.Context, id int) error {
	post, err := s.repos.Posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repos.Posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if post.Image != "" && s.images != nil {
		if err := s.images.Remove(post.Image); err != nil {
			logger.Warn("remove image", zap.String("image", post.Image), zap.Error(err))
		}
	}
	return nil
}

// PromoteAdmin gives an existing user the admin role.
func (s *AdminService) PromoteAdmin(ctx context.Context, username string) error {
	user, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repos.Users.SetRole(ctx, user.ID, models.RoleAdmin)
}

// ClearPageCache drops every cached page. Nothing else invalidates them.
func (s *AdminService) ClearPageCache(ctx context.Context) error {
	if s.pages == nil {
		return nil
	}
	if err := s.pages.Clear(ctx); err != nil {
		return fmt.Errorf("clear page cache: %w", err)
	}
	return nil
}
