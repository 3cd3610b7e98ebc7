package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emilythestrangee/yatube/internal/auth"
	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/repository"
)

type SignupForm struct {
	FirstName       string `form:"first_name" validate:"max=150"`
	LastName        string `form:"last_name" validate:"max=150"`
	Username        string `form:"username" validate:"required,max=150,alphanum"`
	Email           string `form:"email" validate:"omitempty,email,max=254"`
	Password        string `form:"password1" validate:"required,min=8"`
	PasswordConfirm string `form:"password2" validate:"required,eqfield=Password"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type AccountService struct {
	repos  *repository.Repositories
	tokens *auth.Tokens
}

func NewAccountService(repos *repository.Repositories, tokens *auth.Tokens) *AccountService {
	return &AccountService{repos: repos, tokens: tokens}
}

func (s *AccountService) Signup(ctx context.Context, form SignupForm) (*models.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if errs := validateForm(form); len(errs) > 0 {
		return nil, errs
	}
	user := &models.User{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Role:      models.RoleUser,
	}
	err := s.create(ctx, user, form.Password)
	if errors.Is(err, auth.ErrUserExists) {
		return nil, FormErrors{"username": {"A user with that username or email already exists."}}
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSuperuser registers an administrator account.
func (s *AccountService) CreateSuperuser(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	user := &models.User{Username: username, Email: email, Role: models.RoleAdmin}
	if err := s.create(ctx, user, password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) create(ctx context.Context, user *models.User, password string) error {
	exists, err := s.repos.Users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists {
		return auth.ErrUserExists
	}

	if user.Password, err = auth.HashPassword(password); err != nil {
		return err
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return auth.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login checks the credentials and returns the user with a fresh token.
func (s *AccountService) Login(ctx context.Context, form LoginForm) (*models.User, string, error) {
	form.Username = strings.TrimSpace(form.Username)
	if errs := validateForm(form); len(errs) > 0 {
		return nil, "", errs
	}
	user, err := s.repos.Users.GetByUsername(ctx, form.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(user.Password, form.Password) {
		return nil, "", auth.ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Identify resolves a token to its user. Tokens for deleted users are invalid.
func (s *AccountService) Identify(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) TokenTTL() int { return int(s.tokens.TTL().Seconds()) }
