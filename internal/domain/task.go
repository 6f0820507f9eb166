package domain

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusBacklog    TaskStatus = "backlog"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusBacklog:
		return true
	}
	return false
}

type Task struct {
	ID          TaskID     `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	AccountID   AccountID  `gorm:"type:uuid;index:ix_tasks_account;not null" db:"account_id" json:"-"`
	Title       string     `gorm:"type:text;not null" db:"title" json:"title"`
	Description string     `gorm:"type:text" db:"description" json:"description"`
	Status      TaskStatus `gorm:"type:text;not null;default:todo" db:"status" json:"status"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

// TaskStats holds per-status counts for the dashboard.
type TaskStats struct {
	Total      int64 `json:"total"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"inProgress"`
	Done       int64 `json:"done"`
	Backlog    int64 `json:"backlog"`
}
