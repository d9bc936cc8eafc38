package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/cache"
	"github.com/civicfund/quadfund-backend/cfg"
	"github.com/civicfund/quadfund-backend/db"
	"github.com/civicfund/quadfund-backend/server"
	"github.com/civicfund/quadfund-backend/types"
)

func main() {
	if err := godotenv.Load(); err != nil {
		panic(err.Error())
	}

	runtime.GOMAXPROCS(runtime.NumCPU())
	serviceCfg, err := cfg.New()
	if err != nil {
		panic(err.Error())
	}

	logger, err := newLogger(serviceCfg)
	if err != nil {
		panic("cannot init logger")
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	waitExit := make(chan bool)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigCh {
			cancel()
			waitExit <- true
		}
	}()

	srvConfig := server.Config{
		StorageAdapter: db.Adapter(serviceCfg.StorageDriver),
		StorageURI:     serviceCfg.StorageURI,
		StorageDB:      serviceCfg.StorageDB,
		StorageMinConn: serviceCfg.StorageMinConn,
		StorageMaxConn: serviceCfg.StorageMaxConn,
		StorageIsFlush: serviceCfg.StorageIsFlush,

		CacheAdapter:     cache.Adapter(serviceCfg.CacheEngine),
		CacheURL:         serviceCfg.CacheURL,
		CacheDB:          serviceCfg.CacheDB,
		CacheIsFlush:     serviceCfg.CacheIsFlush,
		CacheExpiredTime: serviceCfg.CacheExpiredTime,

		DefaultMintRate:  serviceCfg.DefaultMintRate,
		VoteScale:        serviceCfg.VoteScale,
		Tier1DiscountPct: serviceCfg.Tier1DiscountPct,
		Tier2DiscountPct: serviceCfg.Tier2DiscountPct,

		ProposalWindow:   serviceCfg.ProposalWindow,
		TimelockMinDelay: serviceCfg.TimelockMinDelay,
		TimelockGrace:    serviceCfg.TimelockGrace,

		Logger: logger.With(zap.String("service", "watcher")),
	}
	srv, err := server.New(srvConfig)
	if err != nil {
		logger.Panic(err.Error())
	}

	go watchTimelocks(ctx, srv, serviceCfg.WatcherInterval, logger)
	go watchExpiredProposals(ctx, srv, serviceCfg.WatcherInterval, logger)
	<-waitExit
}

// watchTimelocks drains due timelock entries every tick. Execution is
// permissionless so the watcher acts as the default executor; entries past
// the grace cutoff are surfaced as warnings and left for operators.
func watchTimelocks(ctx context.Context, srv *server.Server, interval time.Duration, logger *zap.Logger) {
	lgr := logger.With(zap.String("method", "watchTimelocks"))
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			entries, err := srv.DueTimelocks(ctx)
			if err != nil {
				lgr.Warn("cannot load due timelocks", zap.Error(err))
				continue
			}
			for _, entry := range entries {
				if err := srv.ExecuteTimelock(ctx, entry.ID); err != nil {
					switch {
					case errors.Is(err, types.ErrTimelockExpired):
						lgr.Warn("timelock past grace cutoff", zap.Uint64("id", entry.ID))
					case errors.Is(err, types.ErrAlreadyExecuted):
						// Raced with a manual execution, nothing to do.
					default:
						lgr.Error("cannot execute timelock", zap.Uint64("id", entry.ID), zap.Error(err))
					}
					continue
				}
				lgr.Info("timelock executed",
					zap.Uint64("id", entry.ID),
					zap.String("recipient", entry.Recipient),
					zap.Uint64("amount", entry.Amount))
			}
		}
	}
}

// watchExpiredProposals surfaces still-valid proposals past their expiry.
// Killing them stays an admin decision; the watcher only reports.
func watchExpiredProposals(ctx context.Context, srv *server.Server, interval time.Duration, logger *zap.Logger) {
	lgr := logger.With(zap.String("method", "watchExpiredProposals"))
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			proposals, _, err := srv.ActiveProposals(ctx, &types.Pagination{Skip: 0, Limit: types.MaximumLimit})
			if err != nil {
				lgr.Warn("cannot load active proposals", zap.Error(err))
				continue
			}
			now := time.Now().Unix()
			for _, p := range proposals {
				if p.Expired(now) {
					lgr.Info("proposal expired, awaiting kill",
						zap.Uint64("id", p.ID),
						zap.String("beneficiary", p.Beneficiary))
				}
			}
		}
	}
}
