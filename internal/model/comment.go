package model

import "time"

// Comment belongs to a Post. AuthorID is nil when the commenter was anonymous.
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     uint      `json:"postId" gorm:"not null;index"`
	AuthorID   *uint     `json:"authorId"`
	AuthorName string    `json:"authorName" gorm:"size:255;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"createdAt"`

	// Relations
	Post   Post  `json:"-" gorm:"foreignKey:PostID"`
	Author *User `json:"-" gorm:"foreignKey:AuthorID"`
}
