package model

import (
	"errors"
	"time"
)

// TaskHistory is the append-only audit record of one completed transition:
// who moved the task, between which stages, when the stage work started
// (claim time) and when it finished. Rows are written in the same
// transaction as the status change and never updated afterwards.
type TaskHistory struct {
	ID     string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	TaskID string `gorm:"type:varchar(64);not null;index" json:"taskId"`

	FromStatusID   string `gorm:"type:varchar(64);index:idx_history_stage_user" json:"fromStatusId"`
	FromStatusName string `gorm:"type:varchar(255)" json:"fromStatusName"`
	ToStatusID     string `gorm:"type:varchar(64);not null" json:"toStatusId"`
	ToStatusName   string `gorm:"type:varchar(255);not null" json:"toStatusName"`

	UserID   string `gorm:"type:varchar(64);not null;index:idx_history_stage_user" json:"userId"`
	UserName string `gorm:"type:varchar(255)" json:"userName"`

	StartedAt   *time.Time `json:"startedAt"`
	FinishedAt  *time.Time `gorm:"index" json:"finishedAt"`
	Observation string     `gorm:"type:text" json:"observation"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName specifies the table name
func (TaskHistory) TableName() string {
	return "task_history"
}

// Validate checks the history entry before persistence.
func (h *TaskHistory) Validate() error {
	if h.ID == "" {
		return errors.New("history ID is required")
	}
	if h.TaskID == "" {
		return errors.New("task ID is required")
	}
	if h.ToStatusID == "" {
		return errors.New("to status is required")
	}
	if h.UserID == "" {
		return errors.New("user is required")
	}
	return nil
}
