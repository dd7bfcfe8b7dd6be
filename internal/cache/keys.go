package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix    = "user:%d"
	shelterKeyPrefix = "shelter:%d"
)

const (
	// UserTTL bounds role-check staleness from the cache path.
	UserTTL    = 5 * time.Minute
	ShelterTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func ShelterKey(shelterID uint) string {
	return fmt.Sprintf(shelterKeyPrefix, shelterID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, ShelterKey(userID))
}
