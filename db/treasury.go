// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicfund/quadfund-backend/types"
)

// TreasuryState reads the singleton accounting document, creating it with
// the default mint rate on first use.
func (m *mongoDB) TreasuryState(ctx context.Context, defaultMintRate uint64) (*types.TreasuryState, error) {
	var state *types.TreasuryState
	err := m.wrapper.C(cTreasury).FindOne(bson.M{}).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			state = &types.TreasuryState{MintRate: defaultMintRate}
			if _, err := m.wrapper.C(cTreasury).Insert(state); err != nil {
				return nil, err
			}
			return state, nil
		}
		return nil, err
	}
	return state, nil
}

func (m *mongoDB) UpdateTreasuryState(ctx context.Context, state *types.TreasuryState) error {
	if _, err := m.wrapper.C(cTreasury).Upsert(bson.M{}, state); err != nil {
		return err
	}
	return nil
}
