package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vaultdeck/vaultdeck/internal/cache"
	"github.com/vaultdeck/vaultdeck/internal/domain/task"
)

type TaskStore interface {
	List(ctx context.Context) ([]task.Task, error)
	GetByID(ctx context.Context, id string) (task.Task, error)
	Create(ctx context.Context, req task.CreateTaskRequest) (task.Task, error)
	Update(ctx context.Context, id string, req task.UpdateTaskRequest) (task.Task, error)
	Delete(ctx context.Context, id string) error
}

type TasksHandler struct {
	repo  TaskStore
	cache *cache.Cache
}

const tasksListKey = "tasks:list"

func NewTasksHandler(repo TaskStore, c *cache.Cache) *TasksHandler {
	return &TasksHandler{repo: repo, cache: c}
}

func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	if h.cache != nil {
		if v, ok := h.cache.Get(tasksListKey); ok {
			if items, ok := v.([]task.Task); ok {
				RespondJSONWithETag(ctx, http.StatusOK, gin.H{
					"items": items,
					"count": len(items),
				})
				return
			}
		}
	}

	tasks, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list tasks")
		return
	}

	if h.cache != nil {
		h.cache.Set(tasksListKey, tasks)
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": tasks,
		"count": len(tasks),
	})
}

func (h *TasksHandler) GetTaskById(ctx *gin.Context) {
	t, err := h.repo.GetByID(ctx.Request.Context(), ctx.Param("id"))

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not fetch task")
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	t, err := h.repo.Create(ctx.Request.Context(), req)

	if err != nil {
		RespondInternal(ctx, "Could not create task")
		return
	}

	if h.cache != nil {
		h.cache.Delete(tasksListKey)
	}

	ctx.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	var req task.UpdateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	t, err := h.repo.Update(ctx.Request.Context(), ctx.Param("id"), req)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not update task")
		return
	}

	if h.cache != nil {
		h.cache.Delete(tasksListKey)
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	err := h.repo.Delete(ctx.Request.Context(), ctx.Param("id"))

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not delete task")
		return
	}

	if h.cache != nil {
		h.cache.Delete(tasksListKey)
	}

	ctx.Status(http.StatusNoContent)
}
