package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"

	"github.com/civicfund/quadfund-backend/api"
	"github.com/civicfund/quadfund-backend/cache"
	"github.com/civicfund/quadfund-backend/cfg"
	"github.com/civicfund/quadfund-backend/db"
	"github.com/civicfund/quadfund-backend/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		panic(err.Error())
	}

	serviceCfg, err := cfg.New()
	if err != nil {
		panic(err.Error())
	}

	logger, err := newLogger(serviceCfg)
	if err != nil {
		panic("cannot init logger")
	}
	logger.Info("Start API server...")

	defer func() {
		if err := recover(); err != nil {
			logger.Error("cannot recover")
		}
		if err := logger.Sync(); err != nil {
			logger.Error("cannot sync log")
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

		Logger: logger,
	}
	srv, err := server.New(srvConfig)
	if err != nil {
		log.Panicf("cannot create server instance %s", err.Error())
	}

	e := echo.New()
	go func() {
		api.Start(e, api.NewServer(srv, serviceCfg, logger), serviceCfg)
	}()
	if err := setupSentry(serviceCfg); err != nil {
		panic(err)
	}
	defer sentry.Flush(2 * time.Second)

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	waitExit := make(chan bool)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigCh {
			cancel()
			if err := e.Shutdown(ctx); err != nil {
				panic(err)
			}
			waitExit <- true
		}
	}()
	<-waitExit
}

func setupSentry(cfg cfg.FundConfig) error {
	opts := sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.ServerMode,
	}
	if err := sentry.Init(opts); err != nil {
		return err
	}
	return nil
}
