package impl

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskmasters/internal/domain"
	"taskmasters/internal/dto"
	"taskmasters/internal/store"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type taskStore interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, accountID, taskID uuid.UUID) (*domain.Task, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, status *domain.TaskStatus) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, accountID, taskID uuid.UUID) error
	StatsByAccount(ctx context.Context, accountID uuid.UUID) (*domain.TaskStats, error)
}

type TaskServiceImpl struct {
	Tasks taskStore

	// Task text ends up inside dashboard HTML; strip everything.
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewTaskServiceImpl(st *store.Store) *TaskServiceImpl {
	return &TaskServiceImpl{
		Tasks:  st.Tasks(),
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
}

func (s *TaskServiceImpl) List(ctx context.Context, accountID domain.AccountID, status *domain.TaskStatus) ([]domain.Task, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.Tasks.ListByAccount(ctx, accountID, status)
}

func (s *TaskServiceImpl) Create(ctx context.Context, accountID domain.AccountID, r dto.CreateTaskRequest) (*domain.Task, error) {
	title := strings.TrimSpace(s.policy.Sanitize(r.Title))
	if title == "" {
		return nil, ErrMissingField
	}

	status := domain.TaskStatusTodo
	if r.Status != "" {
		status = domain.TaskStatus(r.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
	}

	now := s.now().UTC()
	task := &domain.Task{
		ID:          uuid.New(),
		AccountID:   accountID,
		Title:       title,
		Description: strings.TrimSpace(s.policy.Sanitize(r.Description)),
		Status:      status,
		DueDate:     r.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) Update(ctx context.Context, accountID domain.AccountID, taskID domain.TaskID, r dto.UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.Tasks.GetByID(ctx, accountID, taskID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if r.Title != nil {
		title := strings.TrimSpace(s.policy.Sanitize(*r.Title))
		if title == "" {
			return nil, ErrMissingField
		}
		task.Title = title
	}
	if r.Description != nil {
		task.Description = strings.TrimSpace(s.policy.Sanitize(*r.Description))
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = status
	}
	if r.DueDate != nil {
		task.DueDate = r.DueDate
	}
	task.UpdatedAt = s.now().UTC()

	if err := s.Tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) Delete(ctx context.Context, accountID domain.AccountID, taskID domain.TaskID) error {
	if err := s.Tasks.Delete(ctx, accountID, taskID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (s *TaskServiceImpl) Stats(ctx context.Context, accountID domain.AccountID) (*domain.TaskStats, error) {
	return s.Tasks.StatsByAccount(ctx, accountID)
}
