/*
 *  Copyright 2026 CivicFund
 *  This file is part of the quadfund-backend library.
 *
 *  The quadfund-backend library is free software: you can redistribute it
 *  and/or modify it under the terms of the GNU Lesser General Public License
 *  as published by the Free Software Foundation, either version 3 of the
 *  License, or (at your option) any later version.
 *
 *  The quadfund-backend library is distributed in the hope that it will be
 *  useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 *  GNU Lesser General Public License for more details.
 *
 *  You should have received a copy of the GNU Lesser General Public License
 *  along with the quadfund-backend library. If not, see
 *  <http://www.gnu.org/licenses/>.
 */
// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	cProposals   = "Proposals"
	cVoteLedger  = "VoteLedgerEntries"
	cReputation  = "ReputationRecords"
	cTimelocks   = "TimelockEntries"
	cBeneficiary = "BeneficiaryAllowlist"
	cProofs      = "ProofSubmissions"
	cBalances    = "Balances"
	cTreasury    = "Treasury"
	cEvents      = "Events"
	cCounters    = "Counters"
)

type mongoDB struct {
	logger  *zap.Logger
	wrapper *QfMgo
}

func newMongoDB(cfg Config) (*mongoDB, error) {
	ctx := context.Background()
	dbClient := &mongoDB{
		logger:  cfg.Logger,
		wrapper: &QfMgo{},
	}
	mgoOptions := options.Client()
	mgoOptions.ApplyURI(cfg.URL)
	mgoOptions.SetMinPoolSize(uint64(cfg.MinConn))
	mgoOptions.SetMaxPoolSize(uint64(cfg.MaxConn))
	mgoClient, err := mongo.NewClient(mgoOptions)
	if err != nil {
		return nil, err
	}

	if err := mgoClient.Connect(ctx); err != nil {
		return nil, err
	}

	dbClient.wrapper.Database(mgoClient.Database(cfg.DbName))

	if cfg.FlushDB {
		cfg.Logger.Info("Start flush database")
		if err := mgoClient.Database(cfg.DbName).Drop(ctx); err != nil {
			return nil, err
		}
	}
	_ = createIndexes(dbClient)

	return dbClient, nil
}

func createIndexes(dbClient *mongoDB) error {
	type CIndex struct {
		c     string
		model []mongo.IndexModel
	}

	indexes := []CIndex{
		{c: cProposals, model: []mongo.IndexModel{{Keys: bson.M{"id": -1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cProposals, model: []mongo.IndexModel{{Keys: bson.D{{Key: "valid", Value: 1}, {Key: "id", Value: 1}}, Options: options.Index().SetSparse(true)}}},
		{c: cProposals, model: []mongo.IndexModel{{Keys: bson.M{"beneficiary": 1}, Options: options.Index().SetSparse(true)}}},
		// one ledger row per (voter, proposal)
		{c: cVoteLedger, model: []mongo.IndexModel{{Keys: bson.D{{Key: "voter", Value: 1}, {Key: "proposalId", Value: 1}}, Options: options.Index().SetUnique(true)}}},
		{c: cReputation, model: []mongo.IndexModel{{Keys: bson.M{"voter": 1}, Options: options.Index().SetUnique(true)}}},
		{c: cTimelocks, model: []mongo.IndexModel{{Keys: bson.M{"id": -1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cTimelocks, model: []mongo.IndexModel{{Keys: bson.D{{Key: "executed", Value: 1}, {Key: "eta", Value: 1}}}}},
		{c: cBeneficiary, model: []mongo.IndexModel{{Keys: bson.M{"address": 1}, Options: options.Index().SetUnique(true)}}},
		{c: cProofs, model: []mongo.IndexModel{{Keys: bson.M{"id": -1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cProofs, model: []mongo.IndexModel{{Keys: bson.D{{Key: "proposalId", Value: 1}, {Key: "milestoneIndex", Value: 1}, {Key: "status", Value: 1}}}}},
		{c: cBalances, model: []mongo.IndexModel{{Keys: bson.M{"address": 1}, Options: options.Index().SetUnique(true)}}},
		{c: cEvents, model: []mongo.IndexModel{{Keys: bson.M{"timestamp": -1}, Options: options.Index().SetSparse(true)}}},
		{c: cEvents, model: []mongo.IndexModel{{Keys: bson.D{{Key: "type", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetSparse(true)}}},
		{c: cEvents, model: []mongo.IndexModel{{Keys: bson.D{{Key: "proposalId", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetSparse(true)}}},
	}
	for _, cIdx := range indexes {
		if err := dbClient.wrapper.C(cIdx.c).EnsureIndex(cIdx.model); err != nil {
			return err
		}
	}
	return nil
}

func (m *mongoDB) ping() error {
	return nil
}

func (m *mongoDB) dropDatabase(ctx context.Context) error {
	return m.wrapper.DropDatabase(ctx)
}

// nextSequence returns a monotonically increasing id for the named counter,
// starting at 1.
func (m *mongoDB) nextSequence(ctx context.Context, name string) (uint64, error) {
	var counter struct {
		Name string `bson:"name"`
		Seq  uint64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.wrapper.C(cCounters).FindOneAndUpdate(
		bson.M{"name": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
