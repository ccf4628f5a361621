package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	DB "Backend-FlowForge/src/database"
	"Backend-FlowForge/src/models"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()

// flowCacheTTL bounds how long a published flow is served without a reread.
const flowCacheTTL = 5 * time.Minute

// ensureClient returns the shared Redis client managed by the database
// package. It is nil when Redis is unavailable; callers treat that as a
// cache miss or a skipped write.
func ensureClient() *redis.Client {
	return DB.RedisClient
}

// --- published flow cache ---

// CacheFlow stores a published flow under its hex id.
func CacheFlow(flow *models.Flow) {
	client := ensureClient()
	if client == nil {
		return
	}

	data, err := json.Marshal(flow)
	if err != nil {
		log.Println("failed to marshal flow for cache:", err)
		return
	}
	key := fmt.Sprintf("flow:%s", flow.ID.Hex())
	if err := client.Set(Ctx, key, data, flowCacheTTL).Err(); err != nil {
		log.Println("failed to cache flow:", err)
	}
}

// GetCachedFlow returns a cached flow, or ok=false on miss or when Redis is
// down.
func GetCachedFlow(flowID string) (*models.Flow, bool) {
	client := ensureClient()
	if client == nil {
		return nil, false
	}

	key := fmt.Sprintf("flow:%s", flowID)
	data, err := client.Get(Ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var flow models.Flow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, false
	}
	return &flow, true
}

// InvalidateFlowCache drops the cached copy after any write to the flow.
func InvalidateFlowCache(flowID string) {
	client := ensureClient()
	if client == nil {
		return
	}
	key := fmt.Sprintf("flow:%s", flowID)
	if err := client.Del(Ctx, key).Err(); err != nil {
		log.Println("failed to invalidate flow cache:", err)
	}
}

// --- refresh tokens ---

// StoreRefreshToken keeps a refresh token in Redis with an expiration.
// Returns nil if Redis is not available (development mode).
func StoreRefreshToken(userID, refreshToken string, expiresIn time.Duration) error {
	client := ensureClient()
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("refresh_token:%s", userID)
	if err := client.Set(Ctx, key, refreshToken, expiresIn).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %v", err)
	}
	return nil
}

// ValidateRefreshToken checks a presented refresh token against the stored
// one. Returns true if Redis is not available (development mode).
func ValidateRefreshToken(userID, refreshToken string) (bool, error) {
	client := ensureClient()
	if client == nil {
		return true, nil
	}

	key := fmt.Sprintf("refresh_token:%s", userID)
	storedToken, err := client.Get(Ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get refresh token: %v", err)
	}

	return storedToken == refreshToken, nil
}

// DeleteRefreshToken removes a refresh token on logout.
func DeleteRefreshToken(userID string) error {
	client := ensureClient()
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("refresh_token:%s", userID)
	if err := client.Del(Ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %v", err)
	}
	return nil
}
