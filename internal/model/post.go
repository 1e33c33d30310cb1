package model

import "time"

// Post is owned by exactly one User, its author.
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Body        string    `json:"body" gorm:"type:text;not null"`
	AuthorID    uint      `json:"authorId" gorm:"not null;index"`
	CreatedDate time.Time `json:"createdDate" gorm:"index"`

	// Username of the author, filled by joined reads only.
	Username string `json:"username,omitempty" gorm:"->;-:migration"`

	// Relations
	Author User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
}
