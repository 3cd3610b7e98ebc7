package handlers

import (
	"github.com/emilythestrangee/yatube/internal/database"
	"github.com/emilythestrangee/yatube/internal/service"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler
	About   *AboutHandler
	Admin   *AdminHandler
	Health  *HealthHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(svc *service.Services, db database.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Accounts),
		Post:    NewPostHandler(svc.Feed, svc.Posts),
		Comment: NewCommentHandler(svc.Feed, svc.Posts),
		User:    NewUserHandler(svc.Feed, svc.Relationships),
		About:   &AboutHandler{},
		Admin:   NewAdminHandler(svc.Admin),
		Health:  &HealthHandler{db: db},
	}
}
