package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omni/timeout-syncer/config"
	"github.com/omni/timeout-syncer/db"
	"github.com/omni/timeout-syncer/logging"
	"github.com/omni/timeout-syncer/presenter"
	"github.com/omni/timeout-syncer/repository"
	"github.com/omni/timeout-syncer/starknet"
	"github.com/omni/timeout-syncer/syncer"
)

var configPath = flag.String("config", "", "path to yaml config, environment variables are used when empty")

func main() {
	flag.Parse()

	logger := logging.New()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.WithError(err).Fatal("can't load .env file")
	}

	cfg, err := config.ReadConfigFromFile(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("can't read config")
	}
	logger.SetLevel(cfg.LogLevel)

	dbConn, err := db.ConnectToDBAndMigrate(cfg.DBConfig)
	if err != nil {
		logger.WithError(err).Fatal("can't connect to database and apply migrations")
	}
	defer dbConn.Close()

	if cfg.Metrics != nil {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			err2 := http.ListenAndServe(cfg.Metrics.Host, nil)
			if err2 != nil {
				logger.WithError(err2).Fatal("can't start listener for prometheus metrics")
			}
		}()
	}

	repo := repository.NewRepo(dbConn)
	if cfg.Presenter != nil {
		pr := presenter.NewPresenter(logger.WithField("service", "presenter"), repo)
		go func() {
			err2 := pr.Serve(cfg.Presenter.Host)
			if err2 != nil {
				logger.WithError(err2).Fatal("can't serve presenter")
			}
		}()
	}

	client, err := starknet.NewClient(cfg.RPC.Host, cfg.RPC.Timeout, cfg.RPC.ChainID)
	if err != nil {
		logger.WithError(err).Fatal("can't dial rpc client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := syncer.NewSyncer(logger.WithField("service", "syncer"), cfg.Sync, client, repo)
	if err = s.Init(ctx); err != nil {
		logger.WithError(err).Fatal("can't initialize syncer")
	}

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Warn("caught termination signal, gracefully terminating")
	cancel()
	<-done
}
