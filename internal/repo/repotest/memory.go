// Package repotest provides test doubles for repo.TaskRepo.
package repotest

import (
	"context"
	"sync"

	dom "taskapi/internal/domain"
	"taskapi/internal/repo"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repo.TaskRepo = (*MemoryTaskRepo)(nil)

// MemoryTaskRepo is an in-memory repo.TaskRepo that keeps tasks in insertion order.
// Safe for concurrent use.
type MemoryTaskRepo struct {
	mu    sync.RWMutex
	tasks []dom.Task
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{}
}

func (m *MemoryTaskRepo) List(_ context.Context) ([]dom.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]dom.Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}

func (m *MemoryTaskRepo) Create(_ context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, dom.Task{ID: primitive.NewObjectID(), Title: title})
	return nil
}

func (m *MemoryTaskRepo) UpdateTitle(_ context.Context, id primitive.ObjectID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Title = title
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *MemoryTaskRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}
