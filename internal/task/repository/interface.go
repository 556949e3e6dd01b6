package repository

import (
	"context"

	"todoflow/internal/model"
)

// TaskRepository is the interface for task store data access operations.
type TaskRepository interface {
	Create(ctx context.Context, opt CreateOptions) (model.Task, error)
	Update(ctx context.Context, id string, opt UpdateOptions) (model.Task, error)
	Complete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opt ListOptions) ([]model.Task, error)
}
