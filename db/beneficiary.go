// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicfund/quadfund-backend/types"
)

func (m *mongoDB) Beneficiary(ctx context.Context, address string) (*types.Beneficiary, error) {
	var beneficiary *types.Beneficiary
	err := m.wrapper.C(cBeneficiary).FindOne(bson.M{"address": address}).Decode(&beneficiary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return beneficiary, nil
}

func (m *mongoDB) UpsertBeneficiary(ctx context.Context, b *types.Beneficiary) error {
	if _, err := m.wrapper.C(cBeneficiary).Upsert(bson.M{"address": b.Address}, b); err != nil {
		return err
	}
	return nil
}
