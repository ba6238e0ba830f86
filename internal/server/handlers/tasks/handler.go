package tasks

import (
	"fmt"

	"github.com/gitpulse/gitpulse/internal/server/envelope"
	"github.com/gitpulse/gitpulse/internal/server/validation"
	"github.com/gitpulse/gitpulse/internal/tasks"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	tasksSvc *tasks.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(tasksSvc *tasks.Service, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		tasksSvc: tasksSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/tasks")

	r.Get("/", validation.DecorateWithQueryEx(h.validator, h.list))
	r.Delete("/clear", h.clear)
	r.Delete("/clear-completed", h.clearCompleted)
	r.Get("/:id", h.get)
}

//	@Summary		List tasks
//	@Description	List tasks newest first, optionally filtered by status and repository
//	@Tags			tasks
//	@Produce		json
//	@Param			status	query		string	false	"Task status"
//	@Param			repo_id	query		string	false	"Repository ID"
//	@Param			limit	query		int		false	"Maximum number of tasks"
//	@Success		200		{object}	envelope.Response{data=ListResponse}
//	@Failure		400		{object}	envelope.Response
//	@Router			/tasks [get]
//
// List tasks.
func (h *Handler) list(c *fiber.Ctx, query *ListQuery) error {
	filter := tasks.Filter{
		Status: tasks.Status(query.Status),
	}
	if query.RepoID != "" {
		filter.RepoID = uuid.MustParse(query.RepoID)
	}

	items, err := h.tasksSvc.List(c.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	total := len(items)
	if query.Limit > 0 && query.Limit < total {
		items = items[:query.Limit]
	}

	return envelope.OK(c, "", ListResponse{
		Tasks: lo.Map(items, func(t tasks.Task, _ int) TaskResponse { return NewTaskResponse(&t) }),
		Total: total,
	})
}

//	@Summary		Get a task
//	@Description	Get the lifecycle of a task
//	@Tags			tasks
//	@Produce		json
//	@Param			id	path		string	true	"Task ID"
//	@Success		200	{object}	envelope.Response{data=TaskResponse}
//	@Failure		400	{object}	envelope.Response
//	@Failure		404	{object}	envelope.Response
//	@Router			/tasks/{id} [get]
//
// Get a task.
func (h *Handler) get(c *fiber.Ctx) error {
	id, err := getTaskID(c)
	if err != nil {
		return err
	}

	task, err := h.tasksSvc.Get(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	return envelope.OK(c, "", NewTaskResponse(task))
}

//	@Summary		Clear all tasks
//	@Description	Drop queued tasks and delete all task records; running tasks are marked abandoned
//	@Tags			tasks
//	@Produce		json
//	@Success		200	{object}	envelope.Response
//	@Router			/tasks/clear [delete]
//
// Clear all tasks.
func (h *Handler) clear(c *fiber.Ctx) error {
	if err := h.tasksSvc.ClearAll(c.Context()); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	return envelope.OK(c, "all tasks cleared", nil)
}

//	@Summary		Clear finished tasks
//	@Description	Delete completed, failed and abandoned tasks
//	@Tags			tasks
//	@Produce		json
//	@Success		200	{object}	envelope.Response{data=ClearResponse}
//	@Router			/tasks/clear-completed [delete]
//
// Clear finished tasks.
func (h *Handler) clearCompleted(c *fiber.Ctx) error {
	deleted, err := h.tasksSvc.ClearFinished(c.Context())
	if err != nil {
		return fmt.Errorf("failed to clear finished tasks: %w", err)
	}

	return envelope.OK(c, "finished tasks cleared", ClearResponse{Deleted: deleted})
}
