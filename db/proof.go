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

func (m *mongoDB) NextSubmissionID(ctx context.Context) (uint64, error) {
	return m.nextSequence(ctx, "proof")
}

func (m *mongoDB) InsertProofSubmission(ctx context.Context, s *types.ProofSubmission) error {
	if _, err := m.wrapper.C(cProofs).Insert(s); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) ProofSubmissionByID(ctx context.Context, id uint64) (*types.ProofSubmission, error) {
	var submission *types.ProofSubmission
	err := m.wrapper.C(cProofs).FindOne(bson.M{"id": id}).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrSubmissionNotFound
		}
		return nil, err
	}
	return submission, nil
}

// SettleProofSubmission records the review decision, conditional on the
// stored submission still pending, so two racing reviewers cannot both
// settle it.
func (m *mongoDB) SettleProofSubmission(ctx context.Context, s *types.ProofSubmission) error {
	result, err := m.wrapper.C(cProofs).Update(
		bson.M{"id": s.ID, "status": types.ProofPending},
		bson.M{"$set": bson.M{
			"status":       s.Status,
			"reason":       s.Reason,
			"reviewedTime": s.ReviewedTime,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if _, err := m.ProofSubmissionByID(ctx, s.ID); err != nil {
			return err
		}
		return types.ErrAlreadyProcessed
	}
	return nil
}

func (m *mongoDB) ApprovedSubmissionExists(ctx context.Context, proposalID uint64, milestoneIndex int) (bool, error) {
	total, err := m.wrapper.C(cProofs).Count(bson.M{
		"proposalId":     proposalID,
		"milestoneIndex": milestoneIndex,
		"status":         types.ProofApproved,
	})
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (m *mongoDB) ProofSubmissionsByProposal(ctx context.Context, proposalID uint64, pagination *types.Pagination) ([]*types.ProofSubmission, uint64, error) {
	var (
		opts = []*options.FindOptions{
			options.Find().SetSort(bson.M{"id": -1}),
		}
		submissions []*types.ProofSubmission
	)
	if pagination != nil {
		opts = append(opts, options.Find().SetSkip(int64(pagination.Skip)))
		opts = append(opts, options.Find().SetLimit(int64(pagination.Limit)))
	}
	filter := bson.M{"proposalId": proposalID}
	cursor, err := m.wrapper.C(cProofs).Find(filter, opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get proof submissions: %v", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Error when close cursor", zap.Error(err))
		}
	}()
	for cursor.Next(ctx) {
		submission := &types.ProofSubmission{}
		if err := cursor.Decode(submission); err != nil {
			return nil, 0, err
		}
		submissions = append(submissions, submission)
	}
	total, err := m.wrapper.C(cProofs).Count(filter)
	if err != nil {
		return nil, 0, err
	}
	return submissions, uint64(total), nil
}
