package cache

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	planningKeyPrefix     = "planning:"
	planningLastRunKey    = planningKeyPrefix + "last_run"
	planningScanBatchSize = 100

	defaultRedisHost   = "127.0.0.1"
	defaultRedisPort   = "6379"
	defaultSnapshotTTL = time.Hour
	pingTimeout        = 5 * time.Second
)

// RunSnapshot is the summary of the latest planning run kept for readers
// that should not hit the database.
type RunSnapshot struct {
	RunID             string    `json:"run_id"`
	Status            string    `json:"status"`
	ItemsTotal        int       `json:"items_total"`
	ItemsProcessed    int       `json:"items_processed"`
	ItemsSkipped      int       `json:"items_skipped"`
	ScenarioCount     int       `json:"scenario_count"`
	DataQualityIssues int       `json:"data_quality_issues"`
	CompletedAt       time.Time `json:"completed_at"`
}

type PlanningCache interface {
	// InvalidateAll drops every cached planning read model.
	InvalidateAll(ctx context.Context) error
	SetLastRun(ctx context.Context, snapshot RunSnapshot) error
	GetLastRun(ctx context.Context) (*RunSnapshot, bool, error)
}

type redisPlanningCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanningCache struct{}

func NewPlanningCache(cfg config.CacheConfig) (PlanningCache, error) {
	if !cfg.Enabled {
		return &noopPlanningCache{}, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("planning cache: ping %s: %w", opts.Addr, err)
	}

	return &redisPlanningCache{
		client: client,
		ttl:    snapshotTTL(cfg),
	}, nil
}

// redisOptions prefers REDIS_URL and otherwise dials host:port.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("planning cache: parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(cmp.Or(cfg.RedisHost, defaultRedisHost), cmp.Or(cfg.RedisPort, defaultRedisPort)),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func snapshotTTL(cfg config.CacheConfig) time.Duration {
	if cfg.TTLSeconds <= 0 {
		return defaultSnapshotTTL
	}
	return time.Duration(cfg.TTLSeconds) * time.Second
}

func NewNoopPlanningCache() PlanningCache {
	return &noopPlanningCache{}
}

// InvalidateAll unlinks planning keys in batches as SCAN yields them.
func (c *redisPlanningCache) InvalidateAll(ctx context.Context) error {
	batch := make([]string, 0, planningScanBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("planning cache: unlink %d keys: %w", len(batch), err)
		}
		batch = batch[:0]
		return nil
	}

	iter := c.client.Scan(ctx, 0, planningKeyPrefix+"*", planningScanBatchSize).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == planningScanBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("planning cache: scan %s*: %w", planningKeyPrefix, err)
	}
	return flush()
}

func (c *redisPlanningCache) SetLastRun(ctx context.Context, snapshot RunSnapshot) error {
	payload, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, planningLastRunKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPlanningCache) GetLastRun(ctx context.Context) (*RunSnapshot, bool, error) {
	payload, err := c.client.Get(ctx, planningLastRunKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	snapshot, err := decodeSnapshot(payload)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

func (n *noopPlanningCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func (n *noopPlanningCache) SetLastRun(ctx context.Context, snapshot RunSnapshot) error {
	return nil
}

func (n *noopPlanningCache) GetLastRun(ctx context.Context) (*RunSnapshot, bool, error) {
	return nil, false, nil
}

func encodeSnapshot(snapshot RunSnapshot) ([]byte, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode planning run cache: %w", err)
	}
	return payload, nil
}

func decodeSnapshot(payload []byte) (*RunSnapshot, error) {
	var snapshot RunSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode planning run cache: %w", err)
	}
	return &snapshot, nil
}
