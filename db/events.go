// Package db
package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

func (m *mongoDB) InsertEvent(ctx context.Context, event *types.Event) error {
	if _, err := m.wrapper.C(cEvents).Insert(event); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) ListEvents(ctx context.Context, eventType string, proposalID uint64, pagination *types.Pagination) ([]*types.Event, uint64, error) {
	var (
		opts = []*options.FindOptions{
			options.Find().SetSort(bson.M{"timestamp": -1}),
		}
		events []*types.Event
	)
	if pagination != nil {
		opts = append(opts, options.Find().SetSkip(int64(pagination.Skip)))
		opts = append(opts, options.Find().SetLimit(int64(pagination.Limit)))
	}
	filter := bson.M{}
	if eventType != "" {
		filter["type"] = eventType
	}
	if proposalID != 0 {
		filter["proposalId"] = proposalID
	}
	cursor, err := m.wrapper.C(cEvents).Find(filter, opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get events: %v", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Error when close cursor", zap.Error(err))
		}
	}()
	for cursor.Next(ctx) {
		event := &types.Event{}
		if err := cursor.Decode(event); err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	total, err := m.wrapper.C(cEvents).Count(filter)
	if err != nil {
		return nil, 0, err
	}
	return events, uint64(total), nil
}
