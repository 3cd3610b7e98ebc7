package models

import "time"

type Comment struct {
	ID       int       `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	AuthorID int       `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	PostID   int       `gorm:"not null;index" json:"post_id"`
	Created  time.Time `gorm:"autoCreateTime" json:"created"`
}

func (c Comment) String() string {
	return c.Text
}
