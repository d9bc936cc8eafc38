// Package cache
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

type Adapter string

const (
	RedisAdapter Adapter = "redis"
)

type Config struct {
	Adapter Adapter
	URL     string
	DB      int
	IsFlush bool

	DefaultExpiredTime time.Duration

	Logger *zap.Logger
}

type Client interface {
	ProposalDetail(ctx context.Context, id uint64) (*types.Proposal, error)
	UpdateProposalDetail(ctx context.Context, proposal *types.Proposal) error
	InvalidateProposal(ctx context.Context, id uint64) error

	TreasuryState(ctx context.Context) (*types.TreasuryState, error)
	UpdateTreasuryState(ctx context.Context, state *types.TreasuryState) error

	// PublishEvent pushes the committed event to the latest-events list and
	// the pub/sub channel.
	PublishEvent(ctx context.Context, event *types.Event) error
	LatestEvents(ctx context.Context, limit int64) ([]*types.Event, error)
}

func New(cfg Config) (Client, error) {
	switch cfg.Adapter {
	case RedisAdapter:
		return newRedis(cfg)
	}
	return nil, errors.New("invalid cache config")
}

func newRedis(cfg Config) (Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.URL,
		DB:   cfg.DB,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	if cfg.IsFlush {
		msg, err := redisClient.FlushAll(context.Background()).Result()
		if err != nil || msg != "OK" {
			return nil, err
		}
	}

	logger := cfg.Logger.With(zap.String("cache", "redis"))
	client := &Redis{
		cfg:    cfg,
		client: redisClient,
		logger: logger,
	}
	return client, nil
}
