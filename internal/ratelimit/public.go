package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/gestios/internal/config"
)

const keyPublicProposal = "public:proposal:%s"

// PublicLimiter throttles per client IP. A nil limiter (no redis
// configured) allows everything, so single-node dev setups work without
// redis.
type PublicLimiter struct {
	bucket *TokenBucket
	holder *config.ProposalConfigHolder
}

func NewPublicLimiter(cfg config.Config, holder *config.ProposalConfigHolder) *PublicLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &PublicLimiter{
		bucket: NewTokenBucket(client),
		holder: holder,
	}
}

func (l *PublicLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *PublicLimiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}

	limit := l.holder.Get().PublicRateLimit
	if limit.PerSecond <= 0 || limit.Burst <= 0 {
		return true, nil
	}

	return l.bucket.Allow(ctx, fmt.Sprintf(keyPublicProposal, strings.TrimSpace(clientIP)), limit.PerSecond, limit.Burst)
}
