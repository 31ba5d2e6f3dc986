package models

import "time"

// Shout is one entry in the rolling shoutbox feed.
type Shout struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UID     uint      `gorm:"column:uid;not null;index" json:"uid"`
	Message string    `gorm:"type:text;not null" json:"message"`
	Time    time.Time `gorm:"autoCreateTime" json:"time"`
}

// ShoutView is a shout joined with its author's current display fields.
// The author identity is denormalized at read time, not snapshotted.
type ShoutView struct {
	ID          uint      `json:"id"`
	Message     string    `json:"message"`
	Time        time.Time `json:"time"`
	UID         uint      `gorm:"column:uid" json:"uid"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	AvatarURL   string    `gorm:"column:avatar_url" json:"avatarUrl"`
	AvatarColor string    `json:"avatarColor"`
}
