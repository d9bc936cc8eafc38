// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicfund/quadfund-backend/types"
)

func (m *mongoDB) VoteLedgerEntry(ctx context.Context, voter string, proposalID uint64) (*types.VoteLedgerEntry, error) {
	var entry *types.VoteLedgerEntry
	err := m.wrapper.C(cVoteLedger).FindOne(bson.M{"voter": voter, "proposalId": proposalID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (m *mongoDB) UpsertVoteLedgerEntry(ctx context.Context, entry *types.VoteLedgerEntry) error {
	filter := bson.M{"voter": entry.Voter, "proposalId": entry.ProposalID}
	if _, err := m.wrapper.C(cVoteLedger).Upsert(filter, entry); err != nil {
		return err
	}
	return nil
}
