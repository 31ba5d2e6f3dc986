// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Role values stored in users.role. The tier is a coarse privilege level;
// fine-grained moderation abilities live in the per-user permission flags.
const (
	RoleUser      = "User"
	RoleModerator = "Moderator"
	RoleAdmin     = "Admin"
	RoleBanned    = "Banned"
)

// User represents a registered member of the board.
type User struct {
	UID              uint      `gorm:"primaryKey;column:uid" json:"uid"`
	Username         string    `gorm:"unique;not null" json:"username"`
	Email            string    `gorm:"unique;not null" json:"email"`
	PasswordHash     string    `gorm:"not null" json:"-"`
	Role             string    `gorm:"not null;default:User" json:"role"`
	RegistrationDate time.Time `gorm:"autoCreateTime" json:"registrationDate"`
	AvatarURL        string    `gorm:"column:avatar_url" json:"avatarUrl"`
	AvatarColor      string    `json:"avatarColor"`
	Location         string    `json:"location"`
	Website          string    `json:"website"`
	About            string    `gorm:"type:text" json:"about"`
	DobDay           int       `json:"dobDay"`
	DobMonth         int       `json:"dobMonth"`
	DobYear          int       `json:"dobYear"`
	ShowDobDate      bool      `json:"showDobDate"`
	ShowDobYear      bool      `json:"showDobYear"`
	ReceiveEmails    bool      `gorm:"default:true" json:"receiveEmails"`
	IsBanned         bool      `json:"isBanned"`
	IsMuted          bool      `json:"isMuted"`
	BanReason        string    `json:"banReason"`
	CanMute          bool      `json:"-"`
	CanBan           bool      `json:"-"`
	CanDeleteShouts  bool      `json:"-"`
	PostCount        int       `gorm:"not null;default:0" json:"postCount"`
}

// UserPermissions is the effective moderation ability set for a user.
// Admin implies everything, Moderator implies mute and shout deletion,
// and the stored flags grant abilities to plain users individually.
type UserPermissions struct {
	CanMute         bool `json:"canMute"`
	CanBan          bool `json:"canBan"`
	CanDeleteShouts bool `json:"canDeleteShouts"`
}

// PublicUser is the wire projection of a user: everything a client may
// see, with the computed permission set and without the password hash.
type PublicUser struct {
	User
	Permissions UserPermissions `json:"permissions"`
}

// Banned is the single normalized ban check. The boolean flag is
// authoritative, but legacy rows carrying the Banned role stay locked out.
func (u *User) Banned() bool {
	return u.IsBanned || u.Role == RoleBanned
}

// IsStaff reports whether the user holds the admin or moderator tier.
func (u *User) IsStaff() bool {
	role := strings.ToLower(u.Role)
	return role == "admin" || role == "moderator"
}

// IsAdmin reports whether the user holds the admin tier (case-insensitive).
func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// EffectivePermissions computes the permission set implied by role tier
// plus the stored per-action flags.
func (u *User) EffectivePermissions() UserPermissions {
	admin := u.IsAdmin()
	moderator := strings.EqualFold(u.Role, RoleModerator)
	return UserPermissions{
		CanMute:         admin || moderator || u.CanMute,
		CanBan:          admin || u.CanBan,
		CanDeleteShouts: admin || moderator || u.CanDeleteShouts,
	}
}

// Public maps the user row to its wire projection.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{User: *u, Permissions: u.EffectivePermissions()}
}

// AdminUser is the management-oriented projection used by the admin
// console listing: identity, tier and moderation state including the
// ban reason, without profile fields.
type AdminUser struct {
	UID              uint      `json:"uid"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	RegistrationDate time.Time `json:"registrationDate"`
	AvatarURL        string    `json:"avatarUrl"`
	IsBanned         bool      `json:"isBanned"`
	IsMuted          bool      `json:"isMuted"`
	BanReason        string    `json:"banReason"`
}

// AdminView maps the user row to the management projection.
func (u *User) AdminView() AdminUser {
	return AdminUser{
		UID:              u.UID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role,
		RegistrationDate: u.RegistrationDate,
		AvatarURL:        u.AvatarURL,
		IsBanned:         u.IsBanned,
		IsMuted:          u.IsMuted,
		BanReason:        u.BanReason,
	}
}
