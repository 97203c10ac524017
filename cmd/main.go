package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/config"
	"github.com/oksasatya/vidtube-api/internal/container"
	pginfra "github.com/oksasatya/vidtube-api/internal/infrastructure/postgres"
	"github.com/oksasatya/vidtube-api/internal/infrastructure/search"
	"github.com/oksasatya/vidtube-api/internal/infrastructure/storage"
	"github.com/oksasatya/vidtube-api/internal/interface/middleware"
	"github.com/oksasatya/vidtube-api/internal/router"
	"github.com/oksasatya/vidtube-api/pkg/helpers"
	"github.com/oksasatya/vidtube-api/pkg/validation"
)

const jsonBodyLimit = 16 << 10

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := pginfra.Migrate(cfg.PostgresDSN(), logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
	}

	infra := container.Infra{Config: cfg, Logger: logger, Pool: pool}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.RedisPing(ctx, rdb); err != nil {
			helpers.LogWarn(logger, "redis not reachable at startup", err, logrus.Fields{"addr": cfg.RedisAddr})
		}
		infra.Redis = rdb
	}

	media, err := storage.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to init media storage")
	}
	infra.Media = media

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		if index, err := openVideoIndex(ctx, cfg, addrs); err != nil {
			helpers.LogWarn(logger, "search index disabled", err, logrus.Fields{"index": cfg.ESVideoIndex})
		} else {
			infra.Index = index
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			helpers.LogWarn(logger, "domain events disabled", err, logrus.Fields{"exchange": cfg.EventsExchange})
		} else {
			defer pub.Close()
			infra.Events = pub
		}
	}

	c := container.New(infra)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.RequestLogger(logger))
	}
	r.Use(middleware.ErrorResponder(logger))
	r.Use(middleware.BodyLimit(jsonBodyLimit, cfg.MaxUploadBytes()))

	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute, // large uploads
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		helpers.LogError(logger, "server forced to shutdown", err, nil)
		return
	}
	logger.Info("server exited properly")
}

func openVideoIndex(ctx context.Context, cfg *config.Config, addrs []string) (*search.VideoIndex, error) {
	es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return nil, err
	}
	index := search.NewVideoIndex(es, cfg.ESVideoIndex)
	if err := index.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return index, nil
}
