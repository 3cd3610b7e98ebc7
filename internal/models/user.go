package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"size:150;unique;not null" json:"username"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Email     string `gorm:"size:254" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"size:50;not null;default:'user';index" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) String() string {
	return u.Username
}

// FullName falls back to the username when no name was given at signup.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
