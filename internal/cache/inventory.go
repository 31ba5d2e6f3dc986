package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
	ShoutFeedKey  = "shouts:latest"
	ForumListKey  = "forums:all"
)

const (
	UserTTL      = 5 * time.Minute
	ShoutFeedTTL = 30 * time.Second
	ForumListTTL = 1 * time.Minute
)

func UserKey(uid uint) string {
	return fmt.Sprintf(UserKeyPrefix, uid)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, uid uint) {
	Invalidate(ctx, UserKey(uid))
}

func InvalidateShoutFeed(ctx context.Context) {
	Invalidate(ctx, ShoutFeedKey)
}

func InvalidateForumList(ctx context.Context) {
	Invalidate(ctx, ForumListKey)
}
