package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/config"
)

// Client wraps go-redis for the token blacklist, login rate limiting,
// per-user session state and the unit tree cache.
type Client struct {
	rdb        *goredis.Client
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewClient connects and pings Redis.
func NewClient(cfg *config.RedisConfig, sessionTTL time.Duration, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &Client{rdb: rdb, sessionTTL: sessionTTL, logger: logger}, nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken revokes a JWT id until the token would have expired anyway.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports a revoked JWT id.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── rate limit ──

// CheckRateLimit sliding-window limiter on a sorted set: at most limit hits
// per window for key.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	floor := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", floor)
	count := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() < int64(limit), nil
}

// ── session ──

const (
	actingUnitPrefix  = "session:acting_unit:"
	rosterDraftPrefix = "session:roster_draft:"
)

// GetActingUnit returns "" when the user never chose one or it expired.
func (c *Client) GetActingUnit(ctx context.Context, userID string) (string, error) {
	v, err := c.rdb.Get(ctx, actingUnitPrefix+userID).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return v, err
}

// SetActingUnit stores the acting unit for the session TTL.
func (c *Client) SetActingUnit(ctx context.Context, userID, unitID string) error {
	return c.rdb.Set(ctx, actingUnitPrefix+userID, unitID, c.sessionTTL).Err()
}

// SaveDraft stores v as the user's in-progress roster builder state.
func (c *Client) SaveDraft(ctx context.Context, userID string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return c.rdb.Set(ctx, rosterDraftPrefix+userID, b, c.sessionTTL).Err()
}

// LoadDraft decodes the stored draft into v. It reports false when none exists.
func (c *Client) LoadDraft(ctx context.Context, userID string, v any) (bool, error) {
	b, err := c.rdb.Get(ctx, rosterDraftPrefix+userID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode draft: %w", err)
	}
	return true, nil
}

// ClearDraft removes the user's draft.
func (c *Client) ClearDraft(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, rosterDraftPrefix+userID).Err()
}

// ── unit tree cache ──

// Entries are keyed by a generation counter; bumping it orphans every
// cached list at once and the TTL reclaims them.
const (
	treeGenerationKey  = "scope:tree:generation"
	descendantsPattern = "scope:tree:%d:descendants:%s"
)

func (c *Client) generation(ctx context.Context) (int64, error) {
	g, err := c.rdb.Get(ctx, treeGenerationKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return g, err
}

// GetDescendants returns the cached descendant ids of unitID together with
// the generation it looked under. A miss still reports the generation so the
// caller can write back under it.
func (c *Client) GetDescendants(ctx context.Context, unitID string) ([]string, int64, bool, error) {
	g, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	b, err := c.rdb.Get(ctx, fmt.Sprintf(descendantsPattern, g, unitID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, g, false, nil
	}
	if err != nil {
		return nil, g, false, err
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, g, false, err
	}
	return ids, g, true, nil
}

// SetDescendants caches the descendant ids of unitID under generation g.
// A write for a generation that has since been bumped lands in an orphaned
// key and is never read.
func (c *Client) SetDescendants(ctx context.Context, g int64, unitID string, ids []string, ttl time.Duration) error {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, fmt.Sprintf(descendantsPattern, g, unitID), b, ttl).Err()
}

// InvalidateUnitTree bumps the generation counter.
func (c *Client) InvalidateUnitTree(ctx context.Context) error {
	return c.rdb.Incr(ctx, treeGenerationKey).Err()
}
