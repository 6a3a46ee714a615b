package bots

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SlowDownText is sent instead of an answer when a channel is over its limit.
const SlowDownText = "You're sending messages faster than I can keep up. Please slow down and try again in a moment."

// limiterIdleTTL is how long a channel's bucket is kept without traffic. A
// bucket refills completely within a minute, so an evicted channel starts
// over with the same budget it would have had.
const limiterIdleTTL = 2 * time.Minute

type channelBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// channelLimiter keeps one token bucket per platform channel.
type channelLimiter struct {
	mu        sync.Mutex
	perMin    int
	limiters  map[string]*channelBucket
	lastSweep time.Time
	now       func() time.Time
}

func newChannelLimiter(perMinute int) *channelLimiter {
	return &channelLimiter{
		perMin:   perMinute,
		limiters: make(map[string]*channelBucket),
		now:      time.Now,
	}
}

func (c *channelLimiter) allow(key string) bool {
	now := c.now()

	c.mu.Lock()
	if now.Sub(c.lastSweep) >= limiterIdleTTL {
		c.evictIdleLocked(now)
		c.lastSweep = now
	}
	b, ok := c.limiters[key]
	if !ok {
		b = &channelBucket{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(c.perMin)), c.perMin),
		}
		c.limiters[key] = b
	}
	b.lastSeen = now
	c.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

func (c *channelLimiter) evictIdleLocked(now time.Time) {
	for key, b := range c.limiters {
		if now.Sub(b.lastSeen) >= limiterIdleTTL {
			delete(c.limiters, key)
		}
	}
}

func (c *channelLimiter) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.limiters)
}
