package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/cppla/inkblog/config"
	"github.com/cppla/inkblog/routes"
	"github.com/cppla/inkblog/store"
	"github.com/cppla/inkblog/utils"
)

func main() {
	configPath := flag.String("config", "", "path to config.json (default config/config.json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.OpenDatabase(cfg, store.Models()...)
	if err != nil {
		utils.Sugar.Fatalf("database: %v", err)
	}

	var rc *redis.Client
	if cfg.RedisEnabled {
		addr := cfg.RedisHost + ":" + strconv.Itoa(cfg.RedisPort)
		rc, err = utils.NewRedisClient(addr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// cache and revocation fall back to no-op and in-memory
			utils.Logger.Warn("redis unavailable, continuing without it", zap.String("addr", addr), zap.Error(err))
			rc = nil
		}
	}

	r := routes.SetupRouter(routes.Deps{Config: cfg, Store: store.NewGormStore(db), Redis: rc})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	serveErr := utils.GraceServer(":"+cfg.AppPort, r)

	var closeErr error
	if sqlDB, err := db.DB(); err == nil {
		closeErr = multierr.Append(closeErr, sqlDB.Close())
	}
	if rc != nil {
		closeErr = multierr.Append(closeErr, rc.Close())
	}
	if err := multierr.Combine(serveErr, closeErr); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
