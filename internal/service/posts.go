package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/emilythestrangee/yatube/internal/logger"
	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/repository"
	"github.com/emilythestrangee/yatube/internal/storage"
)

const (
	msgInvalidGroup = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgImageTooBig  = "The uploaded image is too large."
)

// PostForm is the new/edit post form. Group holds the raw select value; an
// empty string means no group. Image is set by the handler when a file was uploaded.
type PostForm struct {
	Text  string    `form:"text" validate:"required"`
	Group string    `form:"group"`
	Image io.Reader `form:"-"`
}

type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

type PostService struct {
	repos  *repository.Repositories
	images storage.ImageStore
}

func NewPostService(repos *repository.Repositories, images storage.ImageStore) *PostService {
	return &PostService{repos: repos, images: images}
}

// Groups lists the choices for the group select.
func (s *PostService) Groups(ctx context.Context) ([]models.Group, error) {
	return s.repos.Groups.List(ctx)
}

func (s *PostService) Create(ctx context.Context, author *models.User, form PostForm) (*models.Post, error) {
	group, err := s.clean(ctx, &form)
	if err != nil {
		return nil, err
	}
	image, err := s.saveImage(form.Image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{Text: form.Text, AuthorID: author.ID, Image: image}
	if group != nil {
		post.GroupID = &group.ID
	}
	if err := s.repos.Posts.Create(ctx, post); err != nil {
		s.discard(image)
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = *author
	post.Group = group
	return post, nil
}

// Editable loads the post at /<username>/<id>/ and checks that editor wrote it.
func (s *PostService) Editable(ctx context.Context, editor *models.User, username string, id int) (*models.Post, error) {
	post, err := s.repos.Posts.GetByIDAndAuthor(ctx, id, username)
	if err != nil {
		return nil, err
	}
	if editor == nil || editor.ID != post.AuthorID {
		return post, ErrNotAuthor
	}
	return post, nil
}

// Update rewrites text, group and image in place. The authorship check runs
// before anything is validated or written. Without a new upload the current
// image is kept.
func (s *PostService) Update(ctx context.Context, editor *models.User, post *models.Post, form PostForm) error {
	if editor == nil || editor.ID != post.AuthorID {
		return ErrNotAuthor
	}
	group, err := s.clean(ctx, &form)
	if err != nil {
		return err
	}
	image, err := s.saveImage(form.Image)
	if err != nil {
		return err
	}

	old := post.Image
	post.Text = form.Text
	post.Group = group
	post.GroupID = nil
	if group != nil {
		post.GroupID = &group.ID
	}
	if image != "" {
		post.Image = image
	}
	if err := s.repos.Posts.Save(ctx, post); err != nil {
		s.discard(image)
		return fmt.Errorf("update post %d: %w", post.ID, err)
	}
	if image != "" && old != "" {
		s.discard(old)
	}
	return nil
}

func (s *PostService) AddComment(ctx context.Context, author *models.User, post *models.Post, form CommentForm) (*models.Comment, error) {
	form.Text = strings.TrimSpace(form.Text)
	if errs := validateForm(form); len(errs) > 0 {
		return nil, errs
	}
	comment := &models.Comment{Text: form.Text, AuthorID: author.ID, PostID: post.ID}
	if err := s.repos.Comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment to post %d: %w", post.ID, err)
	}
	comment.Author = *author
	return comment, nil
}

// clean validates form and resolves its group choice.
func (s *PostService) clean(ctx context.Context, form *PostForm) (*models.Group, error) {
	form.Text = strings.TrimSpace(form.Text)
	errs := validateForm(*form)

	var group *models.Group
	if raw := strings.TrimSpace(form.Group); raw != "" {
		id, err := strconv.Atoi(raw)
		if err == nil {
			group, err = s.repos.Groups.GetByID(ctx, id)
		}
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrNotFound), errors.Is(err, strconv.ErrSyntax), errors.Is(err, strconv.ErrRange):
			errs.Add("group", msgInvalidGroup)
		default:
			return nil, fmt.Errorf("load group: %w", err)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return group, nil
}

func (s *PostService) saveImage(r io.Reader) (string, error) {
	if r == nil || s.images == nil {
		return "", nil
	}
	name, err := s.images.Save(r)
	switch {
	case err == nil:
		return name, nil
	case errors.Is(err, storage.ErrNotImage):
		return "", FormErrors{"image": {msgInvalidImage}}
	case errors.Is(err, storage.ErrTooLarge):
		return "", FormErrors{"image": {msgImageTooBig}}
	}
	return "", fmt.Errorf("save image: %w", err)
}

func (s *PostService) discard(name string) {
	if name == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(name); err != nil {
		logger.Warn("remove image", zap.String("image", name), zap.Error(err))
	}
}
