package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"taskapi/internal/cache"
	dom "taskapi/internal/domain"
	"taskapi/internal/repo"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("not found")

type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
	log   *slog.Logger
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache, log *slog.Logger) *TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{repo: r, cache: c, log: log}
}

// List returns every task. With a cache, concurrent callers of the same
// generation share one store read; each caller still gives up on its own ctx.
func (s *TaskService) List(ctx context.Context) ([]dom.Task, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "task cache read failed", slog.String("error", err.Error()))
		return s.repo.List(ctx)
	}
	// Shared work must not die with whichever caller happened to start it.
	shared := context.WithoutCancel(ctx)
	ch := s.sf.DoChan("list:"+strconv.FormatInt(gen, 10), func() (interface{}, error) {
		return s.listGeneration(shared, gen)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]dom.Task), nil
	}
}

func (s *TaskService) listGeneration(ctx context.Context, gen int64) ([]dom.Task, error) {
	list, err := s.cache.GetList(ctx, gen)
	if err != nil {
		s.log.WarnContext(ctx, "task cache read failed", slog.String("error", err.Error()))
	} else if list != nil {
		return list, nil
	}
	list, err = s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetList(ctx, gen, list); err != nil {
		s.log.WarnContext(ctx, "task cache write failed", slog.String("error", err.Error()))
	}
	return list, nil
}

// Create stores a new task. The assigned id is not reported back.
func (s *TaskService) Create(ctx context.Context, title string) error {
	if err := s.repo.Create(ctx, title); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TaskService) UpdateTitle(ctx context.Context, id primitive.ObjectID, title string) error {
	if err := s.repo.UpdateTitle(ctx, id, title); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TaskService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WarnContext(ctx, "task cache invalidation failed", slog.String("error", err.Error()))
	}
}
