package models

// Group is a topic community posts may be filed under.
type Group struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:100;unique;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (g Group) String() string {
	return truncate(g.Title, 15)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
