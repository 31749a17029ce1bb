package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/restaurant-cart/internal/adapter/handler"
	"github.com/rl1809/restaurant-cart/internal/adapter/storage"
	"github.com/rl1809/restaurant-cart/internal/adapter/submitter"
	"github.com/rl1809/restaurant-cart/internal/config"
	"github.com/rl1809/restaurant-cart/internal/core/service"
	"github.com/rl1809/restaurant-cart/internal/port"
)

type backend struct {
	carts       port.CartStorage
	idempotency port.IdempotencyStore
	close       func()
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open cart storage", zap.String("backend", string(cfg.Storage)), zap.Error(err))
	}
	logger.Info("cart storage ready", zap.String("backend", string(cfg.Storage)))

	sessions, err := handler.NewSessions(be.carts, cfg.TaxRate, cfg.DefaultTipPercent, cfg.MaxSessions, logger)
	if err != nil {
		logger.Fatal("failed to create session registry", zap.Error(err))
	}

	orderService := service.NewOrderService(
		be.idempotency,
		submitter.NewSimulated(cfg.SubmitDelay, logger),
		cfg.TaxRate,
		cfg.QueueSize,
		logger,
	)
	orderService.Start(cfg.WorkerCount)
	logger.Info("started order workers", zap.Int("workers", cfg.WorkerCount))

	// gRPC
	grpcServer := grpc.NewServer()
	handler.RegisterCartServiceServer(grpcServer, handler.NewGRPCHandler(sessions, orderService, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	// HTTP
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewHTTPHandler(sessions, orderService, logger).Routes(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	orderService.Close()
	logger.Info("order workers stopped")

	sessions.Close()
	be.close()
	logger.Info("connections closed")
}

func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Storage {
	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		adapter := storage.NewRedisAdapter(rdb, cfg.CartTTL)
		return &backend{carts: adapter, idempotency: adapter, close: func() { rdb.Close() }}, nil

	case config.StorageMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}
		if err := storage.RunMySQLMigrations(db, logger); err != nil {
			return nil, err
		}
		// order idempotency keys only need to outlive a double click
		return &backend{
			carts:       storage.NewMySQLAdapter(db),
			idempotency: storage.NewMemoryAdapter(0, 0),
			close:       func() { db.Close() },
		}, nil

	default:
		adapter := storage.NewMemoryAdapter(0, cfg.CartTTL)
		return &backend{carts: adapter, idempotency: adapter, close: func() {}}, nil
	}
}
