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

// Package cfg
package cfg

import (
	"os"
	"strconv"
	"time"
)

const (
	ModeDev        = "dev"
	ModeProduction = "prod"
)

type FundConfig struct {
	ServerMode string
	Port       string
	LogLevel   string
	SentryDSN  string

	// Role secrets checked against the Authorization header.
	AdminSecret  string
	OracleSecret string
	EngineSecret string

	StorageDriver  string
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int
	StorageIsFlush bool

	CacheEngine      string
	CacheURL         string
	CacheDB          int
	CacheIsFlush     bool
	CacheExpiredTime time.Duration

	// Economic calibration. VoteScale converts a milestone amount into its
	// vote threshold; DefaultMintRate is credits minted per base unit.
	DefaultMintRate  uint64
	VoteScale        uint64
	Tier1DiscountPct uint64
	Tier2DiscountPct uint64

	ProposalWindow   time.Duration
	TimelockMinDelay time.Duration
	// TimelockGrace of zero disables the too-late cutoff.
	TimelockGrace time.Duration

	WatcherInterval time.Duration
}

func New() (FundConfig, error) {
	mintRateStr := os.Getenv("DEFAULT_MINT_RATE")
	mintRate, err := strconv.ParseUint(mintRateStr, 10, 64)
	if err != nil {
		mintRate = 1
	}

	voteScaleStr := os.Getenv("VOTE_SCALE")
	voteScale, err := strconv.ParseUint(voteScaleStr, 10, 64)
	if err != nil || voteScale == 0 {
		voteScale = 100
	}

	tier1Str := os.Getenv("TIER1_DISCOUNT_PCT")
	tier1, err := strconv.ParseUint(tier1Str, 10, 64)
	if err != nil {
		tier1 = 4
	}

	tier2Str := os.Getenv("TIER2_DISCOUNT_PCT")
	tier2, err := strconv.ParseUint(tier2Str, 10, 64)
	if err != nil {
		tier2 = 8
	}

	proposalWindowStr := os.Getenv("PROPOSAL_WINDOW")
	proposalWindow, err := time.ParseDuration(proposalWindowStr)
	if err != nil {
		proposalWindow = 7 * 24 * time.Hour
	}

	minDelayStr := os.Getenv("TIMELOCK_MIN_DELAY")
	minDelay, err := time.ParseDuration(minDelayStr)
	if err != nil {
		minDelay = 48 * time.Hour
	}

	graceStr := os.Getenv("TIMELOCK_GRACE")
	grace, err := time.ParseDuration(graceStr)
	if err != nil {
		grace = 14 * 24 * time.Hour
	}

	watcherIntervalStr := os.Getenv("WATCHER_INTERVAL")
	watcherInterval, err := time.ParseDuration(watcherIntervalStr)
	if err != nil {
		watcherInterval = 10 * time.Second
	}

	cacheExpiredTimeStr := os.Getenv("CACHE_EXPIRED_TIME")
	cacheExpiredTime, err := strconv.Atoi(cacheExpiredTimeStr)
	if err != nil {
		cacheExpiredTime = 12
	}

	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		cacheDB = 0
	}

	cacheIsFlushStr := os.Getenv("CACHE_IS_FLUSH")
	cacheIsFlush, err := strconv.ParseBool(cacheIsFlushStr)
	if err != nil {
		cacheIsFlush = false
	}

	storageMinConnStr := os.Getenv("STORAGE_MIN_CONN")
	storageMinConn, err := strconv.Atoi(storageMinConnStr)
	if err != nil {
		storageMinConn = 8
	}

	storageMaxConnStr := os.Getenv("STORAGE_MAX_CONN")
	storageMaxConn, err := strconv.Atoi(storageMaxConnStr)
	if err != nil {
		storageMaxConn = 32
	}

	storageIsFlushStr := os.Getenv("STORAGE_IS_FLUSH")
	storageIsFlush, err := strconv.ParseBool(storageIsFlushStr)
	if err != nil {
		storageIsFlush = false
	}

	cfg := FundConfig{
		ServerMode: os.Getenv("SERVER_MODE"),
		Port:       os.Getenv("PORT"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		SentryDSN:  os.Getenv("SENTRY_DSN"),

		AdminSecret:  os.Getenv("ADMIN_SECRET"),
		OracleSecret: os.Getenv("ORACLE_SECRET"),
		EngineSecret: os.Getenv("ENGINE_SECRET"),

		StorageDriver:  os.Getenv("STORAGE_DRIVER"),
		StorageURI:     os.Getenv("STORAGE_URI"),
		StorageDB:      os.Getenv("STORAGE_DB"),
		StorageMinConn: storageMinConn,
		StorageMaxConn: storageMaxConn,
		StorageIsFlush: storageIsFlush,

		CacheEngine:      os.Getenv("CACHE_ENGINE"),
		CacheURL:         os.Getenv("CACHE_URI"),
		CacheDB:          cacheDB,
		CacheIsFlush:     cacheIsFlush,
		CacheExpiredTime: time.Duration(cacheExpiredTime) * time.Hour,

		DefaultMintRate:  mintRate,
		VoteScale:        voteScale,
		Tier1DiscountPct: tier1,
		Tier2DiscountPct: tier2,

		ProposalWindow:   proposalWindow,
		TimelockMinDelay: minDelay,
		TimelockGrace:    grace,

		WatcherInterval: watcherInterval,
	}

	return cfg, nil
}
