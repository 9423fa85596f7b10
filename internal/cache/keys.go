package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	FeedKeyPrefix       = "posts:feed:%s"
	OwnerPostsKeyPrefix = "posts:owner:%s"
)

const (
	FeedTTL       = 30 * time.Second
	OwnerPostsTTL = time.Minute
)

// FeedKey returns the feed key for a category; "" selects the unfiltered feed.
func FeedKey(category string) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf(FeedKeyPrefix, category)
}

func OwnerPostsKey(ownerID string) string {
	return fmt.Sprintf(OwnerPostsKeyPrefix, ownerID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidatePostLists drops every cached list a post appears in.
func InvalidatePostLists(ctx context.Context, category, ownerID string) {
	Invalidate(ctx, FeedKey(""), FeedKey(category), OwnerPostsKey(ownerID))
}

// InvalidateAll drops every cached post list. Used after bulk resets.
func InvalidateAll(ctx context.Context) error {
	if client == nil {
		return nil
	}
	iter := client.Scan(ctx, 0, "posts:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	Invalidate(ctx, keys...)
	return nil
}
