package models

import "time"

// Follow is a subscription edge: UserID follows AuthorID.
// The pair is unique, so following twice cannot create a second row.
type Follow struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	AuthorID  int       `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
