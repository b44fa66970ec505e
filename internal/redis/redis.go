package redis

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/zeebo/blake3"
)

// Cache stores rendered chord sheets keyed by a digest of their source.
type Cache struct {
	client *redisClient.Client
	ttl    time.Duration
}

// NewCache connects to Redis. url is either a full redis:// or rediss://
// URL, or a bare host:port reached over TLS with password.
func NewCache(url, password string, ttl time.Duration) (*Cache, error) {
	var (
		opt *redisClient.Options
		err error
	)
	if strings.Contains(url, "://") {
		opt, err = redisClient.ParseURL(url)
		if err == nil && password != "" {
			opt.Password = password
		}
	} else {
		opt, err = redisClient.ParseURL(fmt.Sprintf("rediss://default:%s@%s", password, url))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return &Cache{client: redisClient.NewClient(opt), ttl: ttl}, nil
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get returns the cached value for key and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key for the cache TTL.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// RenderKey is the cache key of source rendered with sectionBreaks blank
// lines between sections.
func RenderKey(source string, sectionBreaks int) string {
	h := blake3.New()
	h.Write([]byte(strconv.Itoa(sectionBreaks)))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return "render:" + hex.EncodeToString(h.Sum(nil))
}
