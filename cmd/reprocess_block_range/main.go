package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/omni/timeout-syncer/config"
	"github.com/omni/timeout-syncer/db"
	"github.com/omni/timeout-syncer/logging"
	"github.com/omni/timeout-syncer/repository"
	"github.com/omni/timeout-syncer/starknet"
	"github.com/omni/timeout-syncer/syncer"
)

var (
	configPath = flag.String("config", "", "path to yaml config, environment variables are used when empty")
	fromBlock  = flag.Uint64("fromBlock", 0, "starting block")
	toBlock    = flag.Uint64("toBlock", 0, "ending block")
)

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

	if *toBlock == 0 {
		logger.Fatal("toBlock is not specified")
	}
	if *toBlock < *fromBlock {
		logger.WithFields(logrus.Fields{
			"from_block": *fromBlock,
			"to_block":   *toBlock,
		}).Fatal("toBlock should not be less than fromBlock")
	}

	dbConn, err := db.ConnectToDBAndMigrate(cfg.DBConfig)
	if err != nil {
		logger.WithError(err).Fatal("can't connect to database and apply migrations")
	}
	defer dbConn.Close()

	client, err := starknet.NewClient(cfg.RPC.Host, cfg.RPC.Timeout, cfg.RPC.ChainID)
	if err != nil {
		logger.WithError(err).Fatal("can't dial rpc client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		for range c {
			cancel()
			logger.Warn("caught CTRL-C, gracefully terminating")
			return
		}
	}()

	s := syncer.NewSyncer(logger.WithField("service", "syncer"), cfg.Sync, client, repository.NewRepo(dbConn))
	if err = s.ProcessBlockRange(ctx, *fromBlock, *toBlock); err != nil {
		logger.WithError(err).Fatal("can't manually process block range")
	}
}
