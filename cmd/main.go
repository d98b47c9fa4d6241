package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"instaclone-backend/config"
	"instaclone-backend/internal/common"
	"instaclone-backend/internal/kafka"
	"instaclone-backend/internal/repository/mysql"
	"instaclone-backend/internal/service"
	"instaclone-backend/internal/session"
	"instaclone-backend/internal/storage"
	"instaclone-backend/internal/telemetry"
	"instaclone-backend/internal/util"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	config.Init()
	cfg := config.AppConfig

	util.InitLogger(cfg.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("starting", zap.String("service", cfg.ServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		util.Logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(c)
	}()

	db := openDatabase(ctx, cfg)
	defer db.Close()

	if err := mysql.EnsureSchema(ctx, db); err != nil {
		util.Logger.Fatal("failed to create schema", zap.Error(err))
	}

	store, revocations := newSessionBackends(ctx, cfg)
	sessions := session.NewManager(store)

	blobs, err := storage.New(ctx, cfg)
	if err != nil {
		util.Logger.Fatal("failed to init storage", zap.Error(err), zap.String("driver", cfg.StorageDriver))
	}

	publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaPostTopic)
	defer publisher.Close()

	accountRepo := mysql.NewAccountRepository(db)
	userRepo := mysql.NewUserRepository(db)
	postRepo := mysql.NewPostRepository(db)
	commentRepo := mysql.NewCommentRepository(db)

	postService := service.NewPostService(postRepo, userRepo, blobs, sessions, publisher)
	feedService := service.NewFeedService(postRepo, userRepo, sessions, postService)
	userService := service.NewUserService(accountRepo, userRepo, postRepo, blobs, sessions,
		postService, feedService, service.NewEmailService(cfg), revocations)
	commentService := service.NewCommentService(commentRepo, userRepo, sessions)

	if len(cfg.KafkaBrokers) > 0 {
		go func() {
			if err := kafka.StartConsumer(ctx, cfg.KafkaBrokers, cfg.KafkaPostTopic, cfg.KafkaGroupID, feedService.FanOut); err != nil {
				util.Logger.Error("kafka consumer stopped", zap.Error(err))
			}
		}()
	}

	go pruneExpired(ctx, userService, store)

	util.RegisterValidators()
	router := newRouter(cfg, routerDeps{
		users:    userService,
		posts:    postService,
		feeds:    feedService,
		comments: commentService,
		sessions: sessions,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		util.Logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	util.Logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Error("forced shutdown", zap.Error(err))
	}
	util.Logger.Info("server stopped")
}

func openDatabase(ctx context.Context, cfg config.Config) *sql.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("failed to open database", zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := common.WithRetry(ctx, func() error { return db.PingContext(ctx) }, 5, time.Second); err != nil {
		util.Logger.Fatal("database unreachable", zap.Error(err))
	}
	util.Logger.Info("database connected", zap.String("host", cfg.DBHost))
	return db
}

// newSessionBackends keeps session states and revoked tokens in Redis when it
// is configured, so every instance sees the same logouts.
func newSessionBackends(ctx context.Context, cfg config.Config) (session.Store, session.Revocations) {
	if cfg.RedisAddr == "" {
		util.Logger.Info("using in-memory session store")
		return session.NewMemoryStore(cfg.SessionTTL), session.NewMemoryRevocations()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		util.Logger.Fatal("redis unreachable", zap.Error(err), zap.String("addr", cfg.RedisAddr))
	}
	util.Logger.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
	return session.NewRedisStore(rdb, cfg.SessionTTL), session.NewRedisRevocations(rdb)
}

func pruneExpired(ctx context.Context, users *service.UserService, store session.Store) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := users.PruneBlacklist(); n > 0 {
				util.Logger.Debug("pruned revoked tokens", zap.Int("count", n))
			}
			if mem, ok := store.(*session.MemoryStore); ok {
				if n := mem.Prune(); n > 0 {
					util.Logger.Debug("pruned expired sessions", zap.Int("count", n))
				}
			}
		}
	}
}
