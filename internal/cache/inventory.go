package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix    = "user:%d"
	postKeyPrefix    = "post:%d"
	statsKeyPrefix   = "stats:%d"
	foldersKeyPrefix = "folders:%d"
)

const (
	UserTTL    = 5 * time.Minute
	PostTTL    = 30 * time.Minute
	StatsTTL   = 10 * time.Minute
	FoldersTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// StatsKey caches the full stats aggregate for a user.
func StatsKey(userID uint) string {
	return fmt.Sprintf(statsKeyPrefix, userID)
}

// FoldersKey caches a user's folder list with item counts.
func FoldersKey(userID uint) string {
	return fmt.Sprintf(foldersKeyPrefix, userID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client == nil {
		return
	}
	for _, key := range keys {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the post entry and the owner's derived views,
// which all change with the post.
func InvalidatePost(ctx context.Context, postID, ownerID uint) {
	Invalidate(ctx, PostKey(postID), StatsKey(ownerID), FoldersKey(ownerID))
}
