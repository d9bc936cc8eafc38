// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicfund/quadfund-backend/types"
)

func (m *mongoDB) ReputationRecord(ctx context.Context, voter string) (*types.ReputationRecord, error) {
	var record *types.ReputationRecord
	err := m.wrapper.C(cReputation).FindOne(bson.M{"voter": voter}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (m *mongoDB) UpsertReputationRecord(ctx context.Context, record *types.ReputationRecord) error {
	if _, err := m.wrapper.C(cReputation).Upsert(bson.M{"voter": record.Voter}, record); err != nil {
		return err
	}
	return nil
}
