package models

import "time"

// Forum is a named container of threads grouped under a category. The
// thread/post counters and the last-post pointer are denormalized and
// maintained incrementally by the thread/reply write transactions.
type Forum struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Category     string `json:"category"`
	Title        string `gorm:"not null" json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
	ThreadCount  int    `gorm:"not null;default:0" json:"thread_count"`
	PostCount    int    `gorm:"not null;default:0" json:"post_count"`
	LastPostID   *uint  `json:"last_post_id"`
}

// Thread is a titled discussion opened by one post and extended by replies.
type Thread struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ForumID      uint      `gorm:"not null;index" json:"forum_id"`
	Title        string    `gorm:"not null" json:"title"`
	AuthorUID    uint      `gorm:"column:author_uid;not null" json:"author_uid"`
	IsPinned     bool      `json:"is_pinned"`
	IsLocked     bool      `json:"is_locked"`
	ViewCount    int       `gorm:"not null;default:0" json:"view_count"`
	ReplyCount   int       `gorm:"not null;default:0" json:"reply_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastPostTime time.Time `json:"last_post_time"`
	LastPostUID  uint      `gorm:"column:last_post_uid" json:"last_post_uid"`
}

// Post is a single message inside a thread. Posts are never edited or
// deleted in the current scope.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"not null;index" json:"thread_id"`
	UID       uint      `gorm:"column:uid;not null;index" json:"uid"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ForumSummary is a forum row joined with its last-post pointer resolved
// to post time, thread identity and poster identity.
type ForumSummary struct {
	Forum `gorm:"embedded"`
	LastPostThreadID    *uint      `json:"last_post_thread_id"`
	LastPostThreadTitle *string    `json:"last_post_thread_title"`
	LastPostTime        *time.Time `json:"last_post_time"`
	LastPostUserUID     *uint      `gorm:"column:last_post_user_uid" json:"last_post_user_uid"`
	LastPostUsername    *string    `json:"last_post_username"`
	LastPostUserRole    *string    `json:"last_post_user_role"`
}

// ForumCategory groups the forums that share a category label.
type ForumCategory struct {
	Category string         `json:"category"`
	Forums   []ForumSummary `json:"forums"`
}

// ThreadSummary is a thread row joined with author and last-poster identity.
type ThreadSummary struct {
	Thread `gorm:"embedded"`
	AuthorUsername    string `json:"author_username"`
	AuthorRole        string `json:"author_role"`
	AuthorAvatarURL   string `gorm:"column:author_avatar_url" json:"author_avatar_url"`
	AuthorAvatarColor string `json:"author_avatar_color"`
	LastPostUsername  string `json:"last_post_username"`
	LastPostRole      string `json:"last_post_role"`
}

// PostView is a post joined with its poster's identity and the poster's
// total post count across the whole board.
type PostView struct {
	Post `gorm:"embedded"`
	Username         string    `json:"username"`
	Role             string    `json:"role"`
	AvatarURL        string    `gorm:"column:avatar_url" json:"avatarUrl"`
	AvatarColor      string    `json:"avatarColor"`
	RegistrationDate time.Time `json:"registrationDate"`
	PosterPostCount  int       `gorm:"column:poster_post_count" json:"post_count"`
}
