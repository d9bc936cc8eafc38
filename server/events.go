// Package server
package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

// publishEvent records a committed domain event and fans it out through the
// cache channel. Publication failures are logged, never propagated: the
// state change already committed.
func (s *Server) publishEvent(ctx context.Context, event *types.Event) {
	if event.Timestamp == 0 {
		event.Timestamp = s.now().Unix()
	}
	if err := s.dbClient.InsertEvent(ctx, event); err != nil {
		s.logger.Error("Cannot insert event",
			zap.String("type", event.Type), zap.Error(err))
	}
	if s.cacheClient == nil {
		return
	}
	if err := s.cacheClient.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("Cannot publish event",
			zap.String("type", event.Type), zap.Error(err))
	}
}

func (s *Server) Events(ctx context.Context, eventType string, proposalID uint64, pagination *types.Pagination) ([]*types.Event, uint64, error) {
	if pagination != nil {
		pagination.Sanitize()
	}
	return s.dbClient.ListEvents(ctx, eventType, proposalID, pagination)
}
