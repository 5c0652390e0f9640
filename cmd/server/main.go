package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/AbdUllahO7/idigitek-server/internal/api/events"
	"github.com/AbdUllahO7/idigitek-server/internal/database"
	"github.com/AbdUllahO7/idigitek-server/internal/global"
	"github.com/AbdUllahO7/idigitek-server/internal/logger"
	"github.com/AbdUllahO7/idigitek-server/internal/worker"
)

func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// initEvents subscribes the audit trail and, when enabled, starts the asset
// cleanup worker. The worker stops when ctx is done.
func initEvents(ctx context.Context) <-chan struct{} {
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		logger.LogAudit(ctx, logger.AuditAction{
			Action:       e.Operation,
			ResourceType: e.CollectionName,
			ResourceID:   e.DocumentID.Hex(),
			Affected:     e.Affected,
		})
	})

	done := make(chan struct{})
	cfg := global.MongoDB_ServerConfig
	if !cfg.AssetCleanup_Enabled {
		close(done)
		return done
	}

	var remover worker.AssetRemover = worker.LogRemover{}
	if cfg.AssetCleanup_Dir != "" {
		remover = worker.DirRemover{Dir: cfg.AssetCleanup_Dir}
	}
	w := worker.NewAssetCleanupWorker(remover,
		time.Duration(cfg.AssetCleanup_Interval)*time.Second, cfg.AssetCleanup_BatchSize)
	events.OnAssetReleased(w.Enqueue)

	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	return done
}

// resolvePath resolves a relative path against the directory holding
// config/env, falling back to path unchanged.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	currentDir, err := os.Getwd()
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "config", "env")); err == nil {
			return filepath.Join(currentDir, path)
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return path
		}
		currentDir = parentDir
	}
}

// serve blocks until the app stops listening.
func serve(app *fiber.App) error {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	if !cfg.EnableTLS {
		log.WithFields(logrus.Fields{"address": cfg.Address, "protocol": "HTTP"}).Info("Starting server")
		return app.Listen(cfg.Address, fiber.ListenConfig{DisableStartupMessage: true})
	}

	certPath := resolvePath(cfg.TLSCertFile)
	keyPath := resolvePath(cfg.TLSKeyFile)
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return fmt.Errorf("load TLS certificate: %w", err)
	}
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Address, err)
	}
	tlsListener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})

	log.WithFields(logrus.Fields{
		"address": cfg.Address,
		"cert":    certPath,
		"key":     keyPath,
	}).Info("Starting server with HTTPS/TLS")
	return app.Listener(tlsListener, fiber.ListenConfig{DisableStartupMessage: true})
}

func main() {
	initLogger()
	defer logger.Close()

	InitGlobal()
	InitRegistry()
	InitDefaultData()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerDone := initEvents(ctx)
	app := InitFiberApp()
	log := logger.GetAppLogger()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- serve(app)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.WithError(err).Error("Server stopped")
		}
		stop()
	case <-ctx.Done():
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
	}

	<-workerDone
	if err := database.CloseInstance(global.MongoDB_Session); err != nil {
		log.WithError(err).Error("Failed to close MongoDB connection")
	}
	log.Info("Server exited")
}
