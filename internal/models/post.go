package models

import "time"

type Post struct {
	ID       int       `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"index;autoCreateTime" json:"pub_date"`
	AuthorID int       `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID  *int      `gorm:"index" json:"group_id,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Image    string    `gorm:"size:255" json:"image,omitempty"`

	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (p Post) String() string {
	return truncate(p.Text, 15)
}
