// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicfund/quadfund-backend/types"
)

type balanceDoc struct {
	Address string `bson:"address"`
	Amount  uint64 `bson:"amount"`
}

func (m *mongoDB) Balance(ctx context.Context, address string) (uint64, error) {
	var doc balanceDoc
	err := m.wrapper.C(cBalances).FindOne(bson.M{"address": address}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return doc.Amount, nil
}

func (m *mongoDB) AddBalance(ctx context.Context, address string, amount uint64) error {
	_, err := m.wrapper.C(cBalances).Update(
		bson.M{"address": address},
		bson.M{"$inc": bson.M{"amount": int64(amount)}},
		options.Update().SetUpsert(true),
	)
	return err
}

// SubBalance decrements only when the balance covers the amount, in one
// conditional update.
func (m *mongoDB) SubBalance(ctx context.Context, address string, amount uint64) error {
	result, err := m.wrapper.C(cBalances).Update(
		bson.M{"address": address, "amount": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"amount": -int64(amount)}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return types.ErrInsufficientCredits
	}
	return nil
}
