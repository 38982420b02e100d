package models

import "time"

// Post is a user-authored entry, optionally filed under a group and
// optionally carrying one attached image. The author is fixed at creation;
// edits may touch text, group and image only. CreatedAt is the publication
// date and drives the descending feed order.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Image     string    `gorm:"size:1024" json:"image"` // public URL under /static/uploads
	CreatedAt time.Time `json:"pub_date"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE;" json:"group"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
}
