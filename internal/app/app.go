package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"taskapi/internal/config"
	"taskapi/internal/handlers"
	"taskapi/internal/repo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// App owns the long-lived store handles. They are created once and shared by all requests.
type App struct {
	cfg    config.Config
	log    *slog.Logger
	mongo  *mongo.Client
	redis  *redis.Client
	router *gin.Engine
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	client, err := newMongo(cfg.Mongo)
	if err != nil {
		return nil, err
	}
	a.mongo = client

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		a.redis = rdb
	} else {
		log.Info("redis not configured, task list cache disabled")
	}

	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	a.router = newRouter(cfg, log, coll, client, a.redis)
	return a, nil
}

func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			return fmt.Errorf("mongo disconnect: %w", err)
		}
	}
	return nil
}

func newMongo(cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout.Duration())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(cfg.Options())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func newEngine(cfg config.Config, log *slog.Logger) *gin.Engine {
	if cfg.App.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestID(), handlers.RequestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", handlers.RequestIDHeader},
		ExposeHeaders:   []string{"Content-Length", "Content-Type", handlers.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	return r
}

func newRouter(cfg config.Config, log *slog.Logger, coll *mongo.Collection, pinger Pinger, rdb *redis.Client) *gin.Engine {
	r := newEngine(cfg, log)
	Setup(r, cfg, log, Deps{
		Repo:   repo.NewMongoTaskRepo(coll, log),
		Cache:  newCache(cfg.Redis, rdb),
		Pinger: pinger,
	})
	return r
}
