package service

import (
	"context"

	"taskmasters/internal/domain"
	"taskmasters/internal/dto"
)

type TaskService interface {
	List(ctx context.Context, accountID domain.AccountID, status *domain.TaskStatus) ([]domain.Task, error)
	Create(ctx context.Context, accountID domain.AccountID, r dto.CreateTaskRequest) (*domain.Task, error)
	Update(ctx context.Context, accountID domain.AccountID, taskID domain.TaskID, r dto.UpdateTaskRequest) (*domain.Task, error)
	Delete(ctx context.Context, accountID domain.AccountID, taskID domain.TaskID) error
	Stats(ctx context.Context, accountID domain.AccountID) (*domain.TaskStats, error)
}
