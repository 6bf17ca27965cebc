package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	ThreadKeyPrefix      = "thread:%s"
	CategoriesKey        = "categories:all"
	ThreadListPrefix     = "threads:%s:%s:p%d:v%d"
	ThreadListVersionKey = "threads:version"
	AdvertisementsKey    = "ads:active"
)

const (
	UserTTL       = 5 * time.Minute
	ThreadTTL     = 5 * time.Minute
	CategoriesTTL = 10 * time.Minute
	ListTTL       = 1 * time.Minute
	AdsTTL        = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ThreadKey(slug string) string {
	return fmt.Sprintf(ThreadKeyPrefix, slug)
}

// ThreadListKey builds a versioned key for a page of a category thread
// listing. Bumping the version invalidates every cached page at once.
func ThreadListKey(ctx context.Context, categorySlug, sort string, page int) string {
	return fmt.Sprintf(ThreadListPrefix, categorySlug, sort, page, listVersion(ctx))
}

func listVersion(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, ThreadListVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

// BumpThreadListVersion invalidates all cached thread list pages.
func BumpThreadListVersion(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, ThreadListVersionKey)
	}
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateThread(ctx context.Context, slug string) {
	Invalidate(ctx, ThreadKey(slug))
	BumpThreadListVersion(ctx)
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesKey)
}

func InvalidateAdvertisements(ctx context.Context) {
	Invalidate(ctx, AdvertisementsKey)
}
