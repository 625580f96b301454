// Package server wires the BitNet API together: storage backend, optional
// Redis and S3 integrations, tracing, and the HTTP and gRPC listeners.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/bitnet/internal/exchange"
	"github.com/dmitrijs2005/bitnet/internal/logging"
	"github.com/dmitrijs2005/bitnet/internal/server/config"
	"github.com/dmitrijs2005/bitnet/internal/server/qrstore"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bitnet/internal/server/repositories/resettokens"
	"github.com/dmitrijs2005/bitnet/internal/server/services"
	"github.com/dmitrijs2005/bitnet/internal/server/telemetry"

	gs "github.com/dmitrijs2005/bitnet/internal/server/grpc"
	hs "github.com/dmitrijs2005/bitnet/internal/server/http"
)

const serviceName = "bitnet-server"

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client

	httpServer *hs.Server
	grpcServer *gs.GRPCServer

	shutdownTracing func(context.Context) error
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	app := &App{config: c, logger: logger}

	var rm repomanager.RepositoryManager
	if c.UsesMemoryStore() {
		logger.Warn(ctx, "using in-memory storage, data is lost on restart")
		rm = repomanager.NewMemoryRepositoryManager()
	} else {
		db, err := openDB(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("db ping error: %w", err)
		}
		app.db = db
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	}

	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("redis ping error: %w", err)
		}
		logger.Info(ctx, "reset tokens stored in redis", "addr", c.RedisAddr)
		rm = repomanager.WithResetTokenStore(rm, resettokens.NewRedisRepository(app.redis))
	}

	var publisher qrstore.Publisher
	if c.S3Bucket != "" {
		publisher = qrstore.NewS3Publisher(qrstore.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		logger.Info(ctx, "qr images published to s3", "bucket", c.S3Bucket)
	}

	shutdown, err := telemetry.SetupTracing(ctx, serviceName, c.OTELEndpoint)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("tracing setup error: %w", err)
	}
	app.shutdownTracing = shutdown

	encoder := exchange.Encoder{Strategy: exchange.Strategy(c.QRStrategy), BaseURL: c.BaseURL}
	users := services.NewUserService(app.db, rm, c, logger)
	companies := services.NewCompanyService(app.db, rm, encoder, c.QRSize, publisher, logger)

	app.httpServer = hs.NewServer(users, companies, telemetry.NewMetrics(), logger, hs.Options{
		CORSOrigins:      c.CORSOrigins,
		DevMode:          c.DevMode,
		ExposeResetToken: c.ExposeResetToken,
	})
	app.grpcServer = gs.NewGRPCServer(c.GRPCAddr, logger)

	return app, nil
}

// Run serves until ctx is cancelled, SIGINT/SIGTERM/SIGQUIT arrives or a
// listener fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		app.logger.Error(ctx, err.Error())
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancelFunc()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx, app.config.HTTPAddr); err != nil {
			fail(fmt.Errorf("http server: %w", err))
		}
	}()
	go func() {
		defer wg.Done()
		app.grpcServer.SetServing(true)
		if err := app.grpcServer.Run(ctx); err != nil {
			fail(fmt.Errorf("grpc server: %w", err))
		}
	}()

	<-ctx.Done()
	app.grpcServer.SetServing(false)
	wg.Wait()

	app.close(context.Background())
	app.logger.Info(context.Background(), "App stopped")
	return firstErr
}

func (app *App) close(ctx context.Context) {
	if app.shutdownTracing != nil {
		if err := app.shutdownTracing(ctx); err != nil {
			app.logger.Warn(ctx, "tracing shutdown", "error", err)
		}
	}
	if app.redis != nil {
		_ = app.redis.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}
