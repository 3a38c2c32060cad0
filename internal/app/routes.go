package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"taskapi/internal/cache"
	"taskapi/internal/config"
	"taskapi/internal/handlers"
	"taskapi/internal/repo"
	"taskapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "taskapi/docs"
)

const welcomeMessage = "Welcome to the Task API! Visit /tasks to see all tasks."

// Pinger reports whether the document store is reachable. *mongo.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Deps are the collaborators the routes are built from. Cache and Pinger may be nil.
type Deps struct {
	Repo   repo.TaskRepo
	Cache  *cache.TaskCache
	Pinger Pinger
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, log *slog.Logger, deps Deps) {
	r.GET("/", rootHandler)
	r.GET("/health", healthHandler(cfg, deps.Pinger))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	taskSvc := service.NewTaskService(deps.Repo, deps.Cache, log)
	taskHandler := handlers.NewTaskHandler(taskSvc, log)
	registerTaskRoutes(r, taskHandler)
}

func newCache(cfg config.RedisConfig, rdb *redis.Client) *cache.TaskCache {
	if rdb == nil {
		return nil
	}
	return cache.NewTaskCache(rdb, cfg.DefaultTTL.Duration())
}

func rootHandler(c *gin.Context) {
	c.String(http.StatusOK, welcomeMessage)
}

func healthHandler(cfg config.Config, pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.Ping(ctx, readpref.Primary()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "env": cfg.App.Env})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(r *gin.Engine, h *handlers.TaskHandler) {
	r.GET("/tasks", h.List)
	r.POST("/tasks", h.Create)
	r.PUT("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
}
