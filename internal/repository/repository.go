package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/emilythestrangee/yatube/internal/database"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Repositories bundles one repository per entity over a shared connection.
type Repositories struct {
	Users    UserRepository
	Groups   GroupRepository
	Posts    PostRepository
	Comments CommentRepository
	Follows  FollowRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Groups:   NewGroupRepository(db),
		Posts:    NewPostRepository(db),
		Comments: NewCommentRepository(db),
		Follows:  NewFollowRepository(db),
	}
}

// translate maps driver level errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case database.IsUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}
