package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheConfig holds configuration for the cache middleware
type CacheConfig struct {
	Enabled         bool
	DefaultDuration time.Duration
	PrefixKey       string
}

// bodyCaptureWriter duplicates the response body so it can be cached
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// RedisCache creates middleware for caching successful GET responses in
// Redis. Quote and history reads dominate dashboard traffic and tolerate
// the configured staleness window, so a short TTL takes most of that load
// off Postgres.
func RedisCache(redisClient *redis.Client, config CacheConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		cacheKey := generateCacheKey(c, config.PrefixKey)
		ctx := context.Background()

		cached, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil {
			logger.Debug("Cache hit",
				zap.String("path", c.Request.URL.Path),
				zap.String("cache_key", cacheKey))

			c.Writer.Header().Set("Content-Type", "application/json")
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(http.StatusOK)
			c.Writer.Write(cached)
			c.Abort()
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Writer.Header().Set("X-Cache", "MISS")

		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}

		if err := redisClient.Set(ctx, cacheKey, writer.body.Bytes(), config.DefaultDuration).Err(); err != nil {
			logger.Warn("Failed to store response in cache",
				zap.Error(err),
				zap.String("cache_key", cacheKey))
		}
	}
}

func generateCacheKey(c *gin.Context, prefix string) string {
	raw := c.Request.URL.Path + "?" + c.Request.URL.RawQuery
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}
