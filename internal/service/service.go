// Package service holds the rules that sit between HTTP handlers and the
// repositories: feed composition, submissions and the follow relationship.
package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/emilythestrangee/yatube/internal/auth"
	"github.com/emilythestrangee/yatube/internal/cache"
	"github.com/emilythestrangee/yatube/internal/repository"
	"github.com/emilythestrangee/yatube/internal/storage"
)

var (
	// ErrNotFound is the repository sentinel, re-exported so handlers only import this package.
	ErrNotFound   = repository.ErrNotFound
	ErrFollowSelf = errors.New("cannot follow yourself")
	ErrNotAuthor  = errors.New("only the author may edit this post")
)

// FormErrors maps a form field to its messages. The empty key holds
// errors that belong to the whole form.
type FormErrors map[string][]string

func (e FormErrors) Add(field, msg string) { e[field] = append(e[field], msg) }

func (e FormErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		name := f
		if name == "" {
			name = "form"
		}
		parts = append(parts, name+": "+strings.Join(e[f], " "))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// AsFormErrors returns the field errors carried by err, if any.
func AsFormErrors(err error) (FormErrors, bool) {
	var fe FormErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Services is everything the handlers need.
type Services struct {
	Feed          *FeedService
	Posts         *PostService
	Relationships *RelationshipService
	Accounts      *AccountService
	Admin         *AdminService
}

func New(repos *repository.Repositories, images storage.ImageStore, pages cache.Cache, tokens *auth.Tokens) *Services {
	rel := NewRelationshipService(repos)
	return &Services{
		Feed:          NewFeedService(repos, rel),
		Posts:         NewPostService(repos, images),
		Relationships: rel,
		Accounts:      NewAccountService(repos, tokens),
		Admin:         NewAdminService(repos, images, pages),
	}
}
