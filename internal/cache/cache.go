package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	HeaderCache = "X-Cache"
	scanCount   = 100
)

// ScopeFunc returns the tenant segment of a cache key, e.g. "org:7".
// Responses that differ per caller must never share a scope.
type ScopeFunc func(c *gin.Context) string

type entry struct {
	Status      int    `msgpack:"s"`
	ContentType string `msgpack:"c"`
	Body        []byte `msgpack:"b"`
}

// ResponseCache caches GET responses in Redis. A nil client disables it.
type ResponseCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(client *redis.Client, prefix string, ttl time.Duration) *ResponseCache {
	return &ResponseCache{client: client, prefix: prefix, ttl: ttl}
}

// Disabled returns a cache whose middleware passes through and whose
// invalidation calls are no-ops.
func Disabled() *ResponseCache {
	return &ResponseCache{}
}

func (rc *ResponseCache) enabled() bool {
	return rc != nil && rc.client != nil && rc.ttl > 0
}

// Key builds "<prefix>:<scope>:<request uri>".
func (rc *ResponseCache) Key(scope, requestURI string) string {
	return fmt.Sprintf("%s:%s:%s", rc.prefix, scope, requestURI)
}

// Middleware replays cached 2xx GET responses and stores fresh ones.
// Redis failures are logged and never fail the request.
func (rc *ResponseCache) Middleware(scope ScopeFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rc.enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rc.Key(scope(c), c.Request.URL.RequestURI())

		cached, err := rc.get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "cache read failed", "error", err, "key", key)
		}
		if cached != nil {
			c.Header(HeaderCache, "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		c.Header(HeaderCache, "MISS")
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		if err := rc.set(ctx, key, entry{
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		}); err != nil {
			slog.WarnContext(ctx, "cache write failed", "error", err, "key", key)
		}
	}
}

func (rc *ResponseCache) get(ctx context.Context, key string) (*entry, error) {
	raw, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var e entry
	if err := msgpack.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	return &e, nil
}

func (rc *ResponseCache) set(ctx context.Context, key string, e entry) error {
	raw, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	if err := rc.client.Set(ctx, key, raw, rc.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// InvalidatePattern deletes every key matching a glob pattern, using SCAN
// so large keyspaces do not block Redis.
func (rc *ResponseCache) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	if !rc.enabled() {
		return 0, nil
	}

	deleted := 0
	iter := rc.client.Scan(ctx, 0, pattern, scanCount).Iterator()
	batch := make([]string, 0, scanCount)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := rc.client.Del(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("del: %w", err)
		}
		deleted += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanCount {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scan %s: %w", pattern, err)
	}
	if err := flush(); err != nil {
		return deleted, err
	}
	return deleted, nil
}

// ClearOrganization drops everything cached for one tenant, including its school listings.
func (rc *ResponseCache) ClearOrganization(ctx context.Context, orgID int64) {
	rc.invalidateAll(ctx,
		fmt.Sprintf("org:%d:*", orgID),
		rc.Key(OrganizationScope(orgID), "*"),
		fmt.Sprintf("%s:*/organizations/%d*", rc.prefix, orgID),
	)
}

func (rc *ResponseCache) ClearSchool(ctx context.Context, schoolID int64) {
	rc.invalidateAll(ctx,
		fmt.Sprintf("school:%d:*", schoolID),
		fmt.Sprintf("%s:*/schools/%d*", rc.prefix, schoolID),
	)
}

func (rc *ResponseCache) invalidateAll(ctx context.Context, patterns ...string) {
	for _, pattern := range patterns {
		if _, err := rc.InvalidatePattern(ctx, pattern); err != nil {
			slog.WarnContext(ctx, "cache invalidation failed", "error", err, "pattern", pattern)
		}
	}
}

// OrganizationScope is the key scope for responses visible to one organization.
func OrganizationScope(orgID int64) string {
	return fmt.Sprintf("org:%d", orgID)
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}
