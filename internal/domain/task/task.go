package task

import (
	"errors"
	"time"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

var ErrNotFound = errors.New("task not found")

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate" binding:"omitempty"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate" binding:"omitempty"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
}
