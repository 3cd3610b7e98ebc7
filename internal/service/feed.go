package service

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/repository"
)

type PostPage = repository.Page[models.Post]

type GroupFeed struct {
	Group *models.Group
	Page  *PostPage
}

// AuthorStats is the sidebar shown on profile and post pages.
type AuthorStats struct {
	Author         *models.User
	PostCount      int64
	FollowerCount  int64
	FollowingCount int64
	// Following is nil for anonymous viewers and for authors viewing themselves.
	Following *bool
}

type ProfileFeed struct {
	AuthorStats
	Page *PostPage
}

type PostDetail struct {
	AuthorStats
	Post     *models.Post
	Comments []models.Comment
}

type FeedService struct {
	repos *repository.Repositories
	rel   *RelationshipService
}

func NewFeedService(repos *repository.Repositories, rel *RelationshipService) *FeedService {
	return &FeedService{repos: repos, rel: rel}
}

func (s *FeedService) Index(ctx context.Context, page int) (*PostPage, error) {
	return s.repos.Posts.FindAll(ctx, page)
}

func (s *FeedService) Group(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := s.repos.Groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	posts, err := s.repos.Posts.FindByGroup(ctx, group.ID, page)
	if err != nil {
		return nil, fmt.Errorf("group feed %q: %w", slug, err)
	}
	return &GroupFeed{Group: group, Page: posts}, nil
}

func (s *FeedService) Profile(ctx context.Context, username string, viewer *models.User, page int) (*ProfileFeed, error) {
	author, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, author, viewer)
	if err != nil {
		return nil, err
	}
	posts, err := s.repos.Posts.FindByAuthor(ctx, author.ID, page)
	if err != nil {
		return nil, fmt.Errorf("profile feed %q: %w", username, err)
	}
	return &ProfileFeed{AuthorStats: *stats, Page: posts}, nil
}

// PostDetail finds the post only under its own author's username; any other
// username is a miss.
func (s *FeedService) PostDetail(ctx context.Context, username string, postID int, viewer *models.User) (*PostDetail, error) {
	post, err := s.repos.Posts.GetByIDAndAuthor(ctx, postID, username)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("comments for post %d: %w", post.ID, err)
	}
	stats, err := s.stats(ctx, &post.Author, viewer)
	if err != nil {
		return nil, err
	}
	return &PostDetail{AuthorStats: *stats, Post: post, Comments: comments}, nil
}

// Follow is the personalized feed: posts by authors the viewer follows.
func (s *FeedService) Follow(ctx context.Context, viewer *models.User, page int) (*PostPage, error) {
	return s.repos.Posts.FindFeedForFollower(ctx, viewer.ID, page)
}

func (s *FeedService) stats(ctx context.Context, author, viewer *models.User) (*AuthorStats, error) {
	st := &AuthorStats{Author: author}
	var err error
	if st.PostCount, err = s.repos.Users.CountPosts(ctx, author.ID); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	if st.FollowerCount, err = s.repos.Users.CountFollowers(ctx, author.ID); err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	if st.FollowingCount, err = s.repos.Users.CountFollowing(ctx, author.ID); err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	if viewer != nil && viewer.ID != author.ID {
		following, err := s.rel.IsFollowing(ctx, viewer, author.ID)
		if err != nil {
			return nil, err
		}
		st.Following = &following
	}
	return st, nil
}
