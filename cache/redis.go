// Package cache
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

const (
	KeyProposal      = "#proposal#%d"
	KeyTreasuryState = "#treasury#state"
	KeyLatestEvents  = "#events#latest" // List

	ChannelEvents = "#events#channel"

	latestEventsCap = 100
)

type Redis struct {
	cfg    Config
	client *redis.Client
	logger *zap.Logger
}

func (c *Redis) ProposalDetail(ctx context.Context, id uint64) (*types.Proposal, error) {
	result, err := c.client.Get(ctx, fmt.Sprintf(KeyProposal, id)).Result()
	if err != nil {
		return nil, err
	}
	var proposal *types.Proposal
	if err := json.Unmarshal([]byte(result), &proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (c *Redis) UpdateProposalDetail(ctx context.Context, proposal *types.Proposal) error {
	data, err := json.Marshal(proposal)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(KeyProposal, proposal.ID)
	if err := c.client.Set(ctx, key, string(data), c.cfg.DefaultExpiredTime).Err(); err != nil {
		return err
	}
	return nil
}

func (c *Redis) InvalidateProposal(ctx context.Context, id uint64) error {
	return c.client.Del(ctx, fmt.Sprintf(KeyProposal, id)).Err()
}

func (c *Redis) TreasuryState(ctx context.Context) (*types.TreasuryState, error) {
	result, err := c.client.Get(ctx, KeyTreasuryState).Result()
	if err != nil {
		return nil, err
	}
	var state *types.TreasuryState
	if err := json.Unmarshal([]byte(result), &state); err != nil {
		return nil, err
	}
	return state, nil
}

func (c *Redis) UpdateTreasuryState(ctx context.Context, state *types.TreasuryState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KeyTreasuryState, string(data), c.cfg.DefaultExpiredTime).Err()
}

func (c *Redis) PublishEvent(ctx context.Context, event *types.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := c.client.LPush(ctx, KeyLatestEvents, string(data)).Err(); err != nil {
		return err
	}
	if err := c.client.LTrim(ctx, KeyLatestEvents, 0, latestEventsCap-1).Err(); err != nil {
		c.logger.Warn("Cannot trim latest events", zap.Error(err))
	}
	return c.client.Publish(ctx, ChannelEvents, string(data)).Err()
}

func (c *Redis) LatestEvents(ctx context.Context, limit int64) ([]*types.Event, error) {
	if limit <= 0 || limit > latestEventsCap {
		limit = latestEventsCap
	}
	raw, err := c.client.LRange(ctx, KeyLatestEvents, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	var events []*types.Event
	for _, item := range raw {
		event := &types.Event{}
		if err := json.Unmarshal([]byte(item), event); err != nil {
			c.logger.Warn("Cannot unmarshal cached event", zap.Error(err))
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
