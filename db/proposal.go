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

func (m *mongoDB) NextProposalID(ctx context.Context) (uint64, error) {
	return m.nextSequence(ctx, "proposal")
}

func (m *mongoDB) InsertProposal(ctx context.Context, p *types.Proposal) error {
	if _, err := m.wrapper.C(cProposals).Insert(p); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) ProposalByID(ctx context.Context, id uint64) (*types.Proposal, error) {
	var proposal *types.Proposal
	err := m.wrapper.C(cProposals).FindOne(bson.M{"id": id}).Decode(&proposal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrProposalNotFound
		}
		return nil, err
	}
	return proposal, nil
}

// UpdateProposal replaces the whole document. Milestones are embedded, so
// milestone progress and the tally land in one write.
func (m *mongoDB) UpdateProposal(ctx context.Context, p *types.Proposal) error {
	if _, err := m.wrapper.C(cProposals).Upsert(bson.M{"id": p.ID}, p); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) ActiveProposals(ctx context.Context, pagination *types.Pagination) ([]*types.Proposal, uint64, error) {
	var (
		opts = []*options.FindOptions{
			options.Find().SetSort(bson.M{"id": 1}),
		}
		proposals []*types.Proposal
	)
	if pagination != nil {
		opts = append(opts, options.Find().SetSkip(int64(pagination.Skip)))
		opts = append(opts, options.Find().SetLimit(int64(pagination.Limit)))
	}
	filter := bson.M{"valid": true}
	cursor, err := m.wrapper.C(cProposals).Find(filter, opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get active proposals: %v", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Error when close cursor", zap.Error(err))
		}
	}()
	for cursor.Next(ctx) {
		proposal := &types.Proposal{}
		if err := cursor.Decode(proposal); err != nil {
			return nil, 0, err
		}
		proposals = append(proposals, proposal)
	}
	total, err := m.wrapper.C(cProposals).Count(filter)
	if err != nil {
		return nil, 0, err
	}
	return proposals, uint64(total), nil
}
