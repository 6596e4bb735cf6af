package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

// CachedClassifier memoizes analysis results in Redis so identical complaints
// do not trigger repeat provider calls. Cache failures degrade to the wrapped
// classifier; they never surface to the caller.
type CachedClassifier struct {
	inner  Classifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClassifier wraps the classifier with a Redis cache.
func NewCachedClassifier(inner Classifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	return &CachedClassifier{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Classify returns a cached analysis when available, else delegates and
// stores the outcome.
func (c *CachedClassifier) Classify(ctx context.Context, subject, description, orderID string) domain.AIAnalysisResult {
	key := cacheKey(subject, description, orderID)

	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached domain.AIAnalysisResult
		if jsonErr := json.Unmarshal(payload, &cached); jsonErr == nil && validResult(cached) {
			return cached
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("classification cache read failed", zap.Error(err))
	}

	result := c.inner.Classify(ctx, subject, description, orderID)

	if payload, err := json.Marshal(result); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("classification cache write failed", zap.Error(err))
		}
	}
	return result
}

func cacheKey(subject, description, orderID string) string {
	digest := sha256.Sum256([]byte(subject + "\x00" + description + "\x00" + orderID))
	return "classify:" + hex.EncodeToString(digest[:])
}
