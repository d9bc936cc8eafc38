// Package db
package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

func (m *mongoDB) NextTimelockID(ctx context.Context) (uint64, error) {
	return m.nextSequence(ctx, "timelock")
}

func (m *mongoDB) InsertTimelock(ctx context.Context, entry *types.TimelockEntry) error {
	if _, err := m.wrapper.C(cTimelocks).Insert(entry); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) TimelockByID(ctx context.Context, id uint64) (*types.TimelockEntry, error) {
	var entry *types.TimelockEntry
	err := m.wrapper.C(cTimelocks).FindOne(bson.M{"id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrTimelockNotFound
		}
		return nil, err
	}
	return entry, nil
}

// MarkTimelockExecuted is a conditional update on executed=false, so two
// racing executors cannot both succeed.
func (m *mongoDB) MarkTimelockExecuted(ctx context.Context, id uint64, executedTime int64) error {
	result, err := m.wrapper.C(cTimelocks).Update(
		bson.M{"id": id, "executed": false},
		bson.M{"$set": bson.M{"executed": true, "executedTime": executedTime}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if _, err := m.TimelockByID(ctx, id); err != nil {
			return err
		}
		return types.ErrAlreadyExecuted
	}
	return nil
}

func (m *mongoDB) DueTimelocks(ctx context.Context, now int64) ([]*types.TimelockEntry, error) {
	var entries []*types.TimelockEntry
	cursor, err := m.wrapper.C(cTimelocks).Find(
		bson.M{"executed": false, "eta": bson.M{"$lte": now}},
		options.Find().SetSort(bson.M{"eta": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get due timelocks: %v", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Error when close cursor", zap.Error(err))
		}
	}()
	for cursor.Next(ctx) {
		entry := &types.TimelockEntry{}
		if err := cursor.Decode(entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *mongoDB) ListTimelocks(ctx context.Context, pagination *types.Pagination) ([]*types.TimelockEntry, uint64, error) {
	var (
		opts = []*options.FindOptions{
			options.Find().SetSort(bson.M{"id": -1}),
		}
		entries []*types.TimelockEntry
	)
	if pagination != nil {
		opts = append(opts, options.Find().SetSkip(int64(pagination.Skip)))
		opts = append(opts, options.Find().SetLimit(int64(pagination.Limit)))
	}
	cursor, err := m.wrapper.C(cTimelocks).Find(bson.M{}, opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get timelocks: %v", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Error when close cursor", zap.Error(err))
		}
	}()
	for cursor.Next(ctx) {
		entry := &types.TimelockEntry{}
		if err := cursor.Decode(entry); err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	total, err := m.wrapper.C(cTimelocks).Count(bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return entries, uint64(total), nil
}
