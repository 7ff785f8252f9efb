package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/aevon-lab/ledgerbook/internal/core/config"
	"github.com/aevon-lab/ledgerbook/internal/core/partition"
	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/core/storage/memory"
	"github.com/aevon-lab/ledgerbook/internal/core/storage/postgres"
	"github.com/aevon-lab/ledgerbook/internal/core/storage/sqlite"
	"github.com/aevon-lab/ledgerbook/internal/credential"
	"github.com/aevon-lab/ledgerbook/internal/httpapi"
	"github.com/aevon-lab/ledgerbook/internal/ledger"
	"github.com/aevon-lab/ledgerbook/internal/migrations"
	"github.com/aevon-lab/ledgerbook/internal/server"
)

func main() {
	configPath := flag.String("config", "ledgerbook.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"database", cfg.Database.Type,
		"address", fmtAddr(cfg.Server.Host, cfg.Server.Port),
		"lock_partitions", cfg.Ledger.LockPartitions,
	)

	// 2. Initialize Event Store
	store, closer, err := openStore(cfg.Database)
	if err != nil {
		slog.Error("Failed to initialize event store", "type", cfg.Database.Type, "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	// 3. Initialize Ledger
	ledgerSvc := ledger.NewService(
		store,
		credential.NewBcrypt(cfg.Auth.BcryptCost),
		partition.NewLocks(cfg.Ledger.LockPartitions),
	)
	apiSvc := httpapi.NewService(ledgerSvc, cfg.Auth.SessionHeader, cfg.Server.MaxBodySizeMB)

	// 4. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store, cfg.Server.Mode)
	apiSvc.RegisterRoutes(srv.Engine)

	// 5. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore builds the configured event store, migrating SQL backends first.
func openStore(cfg corecfg.DatabaseConfig) (storage.EventStore, io.Closer, error) {
	switch cfg.Type {
	case corecfg.DatabasePostgres:
		a, err := postgres.NewAdapter(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunMigrations(a.DB(), migrations.DialectPostgres, cfg.AutoMigrate); err != nil {
			a.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		if err := a.Prepare(); err != nil {
			a.Close()
			return nil, nil, err
		}
		return a, a, nil

	case corecfg.DatabaseSQLite:
		a, err := sqlite.NewAdapter(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunMigrations(a.DB(), migrations.DialectSQLite, cfg.AutoMigrate); err != nil {
			a.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		if err := a.Prepare(); err != nil {
			a.Close()
			return nil, nil, err
		}
		return a, a, nil

	case corecfg.DatabaseMemory:
		slog.Warn("Using in-memory event store; events are lost on exit")
		return memory.NewStore(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unsupported database type %q", cfg.Type)
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
