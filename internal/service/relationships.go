package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/emilythestrangee/yatube/internal/logger"
	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/repository"
)

type RelationshipService struct {
	repos *repository.Repositories
}

func NewRelationshipService(repos *repository.Repositories) *RelationshipService {
	return &RelationshipService{repos: repos}
}

// Follow makes viewer a follower of username. Repeating it is harmless.
// Following yourself is rejected before any lookup.
func (s *RelationshipService) Follow(ctx context.Context, viewer *models.User, username string) error {
	if viewer.Username == username {
		return ErrFollowSelf
	}
	author, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	created, err := s.repos.Follows.GetOrCreate(ctx, viewer.ID, author.ID)
	if err != nil {
		return fmt.Errorf("follow %q: %w", username, err)
	}
	if created {
		logger.Debug("follow created", zap.Int("user_id", viewer.ID), zap.Int("author_id", author.ID))
	}
	return nil
}

func (s *RelationshipService) Unfollow(ctx context.Context, viewer *models.User, username string) error {
	author, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repos.Follows.Delete(ctx, viewer.ID, author.ID); err != nil {
		return fmt.Errorf("unfollow %q: %w", username, err)
	}
	return nil
}

func (s *RelationshipService) IsFollowing(ctx context.Context, viewer *models.User, authorID int) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	ok, err := s.repos.Follows.Exists(ctx, viewer.ID, authorID)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return ok, nil
}
