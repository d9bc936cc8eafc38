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

// Package server
package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/cache"
	"github.com/civicfund/quadfund-backend/db"
)

type Config struct {
	StorageAdapter db.Adapter
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int
	StorageIsFlush bool

	CacheAdapter     cache.Adapter
	CacheURL         string
	CacheDB          int
	CacheIsFlush     bool
	CacheExpiredTime time.Duration

	DefaultMintRate  uint64
	VoteScale        uint64
	Tier1DiscountPct uint64
	Tier2DiscountPct uint64

	ProposalWindow   time.Duration
	TimelockMinDelay time.Duration
	TimelockGrace    time.Duration

	Logger *zap.Logger
}

// Server is the voting-and-disbursement engine. Every public operation
// authorizes the caller first, serializes conflicting access through keyed
// locks, mutates storage, and publishes a domain event after commit.
type Server struct {
	dbClient    db.Client
	cacheClient cache.Client
	ledger      CreditLedger

	defaultMintRate  uint64
	voteScale        uint64
	tier1DiscountPct uint64
	tier2DiscountPct uint64

	proposalWindow   time.Duration
	timelockMinDelay time.Duration
	timelockGrace    time.Duration

	proposalLocks *keyedMutex
	voterLocks    *keyedMutex
	timelockLocks *keyedMutex
	treasuryLock  *keyedMutex

	now func() time.Time

	logger *zap.Logger
}

func New(srvConfig Config) (*Server, error) {
	dbConfig := db.Config{
		DbAdapter: srvConfig.StorageAdapter,
		DbName:    srvConfig.StorageDB,
		URL:       srvConfig.StorageURI,
		MinConn:   srvConfig.StorageMinConn,
		MaxConn:   srvConfig.StorageMaxConn,
		FlushDB:   srvConfig.StorageIsFlush,
		Logger:    srvConfig.Logger,
	}
	dbClient, err := db.NewClient(dbConfig)
	if err != nil {
		return nil, err
	}

	var cacheClient cache.Client
	if srvConfig.CacheAdapter != "" {
		cacheConfig := cache.Config{
			Adapter:            srvConfig.CacheAdapter,
			URL:                srvConfig.CacheURL,
			DB:                 srvConfig.CacheDB,
			IsFlush:            srvConfig.CacheIsFlush,
			DefaultExpiredTime: srvConfig.CacheExpiredTime,
			Logger:             srvConfig.Logger,
		}
		cacheClient, err = cache.New(cacheConfig)
		if err != nil {
			return nil, err
		}
	}

	voteScale := srvConfig.VoteScale
	if voteScale == 0 {
		voteScale = 100
	}
	mintRate := srvConfig.DefaultMintRate
	if mintRate == 0 {
		mintRate = 1
	}

	srv := &Server{
		dbClient:    dbClient,
		cacheClient: cacheClient,
		ledger:      &dbLedger{dbClient: dbClient},

		defaultMintRate:  mintRate,
		voteScale:        voteScale,
		tier1DiscountPct: srvConfig.Tier1DiscountPct,
		tier2DiscountPct: srvConfig.Tier2DiscountPct,

		proposalWindow:   srvConfig.ProposalWindow,
		timelockMinDelay: srvConfig.TimelockMinDelay,
		timelockGrace:    srvConfig.TimelockGrace,

		proposalLocks: newKeyedMutex(),
		voterLocks:    newKeyedMutex(),
		timelockLocks: newKeyedMutex(),
		treasuryLock:  newKeyedMutex(),

		now: time.Now,

		logger: srvConfig.Logger,
	}
	return srv, nil
}

// SetNowFunc overrides the clock. Tests use it to walk through expiry and
// timelock windows.
func (s *Server) SetNowFunc(now func() time.Time) *Server {
	s.now = now
	return s
}

// SetLedger swaps the credit ledger collaborator for an external one.
func (s *Server) SetLedger(ledger CreditLedger) *Server {
	s.ledger = ledger
	return s
}

func (s *Server) Ledger() CreditLedger {
	return s.ledger
}
