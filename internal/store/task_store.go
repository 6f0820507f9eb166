package store

import (
	"context"
	"errors"

	"taskmasters/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStore struct{ db *gorm.DB }

func (s *Store) Tasks() *TaskStore { return &TaskStore{db: s.DB} }

func (t *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	return t.db.WithContext(ctx).Create(task).Error
}

func (t *TaskStore) GetByID(ctx context.Context, accountID, taskID uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := t.db.WithContext(ctx).
		First(&task, "id = ? AND account_id = ?", taskID, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (t *TaskStore) ListByAccount(ctx context.Context, accountID uuid.UUID, status *domain.TaskStatus) ([]domain.Task, error) {
	q := t.db.WithContext(ctx).Where("account_id = ?", accountID).Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var tasks []domain.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (t *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	return t.db.WithContext(ctx).Save(task).Error
}

func (t *TaskStore) Delete(ctx context.Context, accountID, taskID uuid.UUID) error {
	res := t.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", taskID, accountID).
		Delete(&domain.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (t *TaskStore) StatsByAccount(ctx context.Context, accountID uuid.UUID) (*domain.TaskStats, error) {
	var rows []struct {
		Status domain.TaskStatus
		N      int64
	}
	if err := t.db.WithContext(ctx).Model(&domain.Task{}).
		Select("status, count(*) as n").
		Where("account_id = ?", accountID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &domain.TaskStats{}
	for _, r := range rows {
		stats.Total += r.N
		switch r.Status {
		case domain.TaskStatusTodo:
			stats.Todo = r.N
		case domain.TaskStatusInProgress:
			stats.InProgress = r.N
		case domain.TaskStatusDone:
			stats.Done = r.N
		case domain.TaskStatusBacklog:
			stats.Backlog = r.N
		}
	}
	return stats, nil
}
