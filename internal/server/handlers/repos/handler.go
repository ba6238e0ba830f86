package repos

import (
	"fmt"

	"github.com/gitpulse/gitpulse/internal/operations"
	"github.com/gitpulse/gitpulse/internal/repositories"
	"github.com/gitpulse/gitpulse/internal/server/envelope"
	tasksapi "github.com/gitpulse/gitpulse/internal/server/handlers/tasks"
	"github.com/gitpulse/gitpulse/internal/server/validation"
	"github.com/gitpulse/gitpulse/internal/tasks"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	reposSvc *repositories.Service
	opsSvc   *operations.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	reposSvc *repositories.Service,
	opsSvc *operations.Service,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		reposSvc: reposSvc,
		opsSvc:   opsSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/repos")

	r.Get("/", validation.DecorateWithQueryEx(h.validator, h.list))
	r.Post("/batch", validation.DecorateWithBodyEx(h.validator, h.batch))
	r.Get("/:id", h.get)
	r.Get("/:id/branches", h.branches)
	r.Post("/:id/switch-branch", validation.DecorateWithBodyEx(h.validator, h.switchBranch))
	r.Post("/:id/update", h.update)
	r.Post("/:id/reset", h.reset)
	r.Delete("/:id", h.delete)
}

//	@Summary		List repositories
//	@Description	List registered repositories, optionally filtered by status
//	@Tags			repos
//	@Produce		json
//	@Param			status	query		string	false	"Repository status"	Enums(pending, cloning, ready, error)
//	@Success		200		{object}	envelope.Response{data=ListResponse}
//	@Failure		400		{object}	envelope.Response
//	@Router			/repos [get]
//
// List repositories.
func (h *Handler) list(c *fiber.Ctx, query *ListQuery) error {
	items, err := h.reposSvc.List(c.Context(), repositories.Filter{Status: repositories.Status(query.Status)})
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	return envelope.OK(c, "", ListResponse{
		Repositories: lo.Map(items, func(r repositories.Repository, _ int) RepositoryResponse {
			return newRepositoryResponse(&r)
		}),
		Total: len(items),
	})
}

//	@Summary		Get a repository
//	@Tags			repos
//	@Produce		json
//	@Param			id	path		string	true	"Repository ID"
//	@Success		200	{object}	envelope.Response{data=RepositoryResponse}
//	@Failure		400	{object}	envelope.Response
//	@Failure		404	{object}	envelope.Response
//	@Router			/repos/{id} [get]
//
// Get a repository.
func (h *Handler) get(c *fiber.Ctx) error {
	id, err := getRepoID(c)
	if err != nil {
		return err
	}

	repo, err := h.reposSvc.Get(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}

	return envelope.OK(c, "", newRepositoryResponse(repo))
}

//	@Summary		Add repositories
//	@Description	Register repositories and queue a clone for each. Items fail independently.
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BatchRequest	true	"Repositories to add"
//	@Success		200		{object}	envelope.Response{data=BatchResponse}
//	@Failure		400		{object}	envelope.Response
//	@Router			/repos/batch [post]
//
// Add repositories.
func (h *Handler) batch(c *fiber.Ctx, req *BatchRequest) error {
	result, err := h.opsSvc.AddBatch(c.Context(), operations.BatchRequest{
		Items: lo.Map(req.Repos, func(item BatchItemRequest, _ int) operations.BatchItem {
			return operations.BatchItem{URL: item.URL, Branch: item.Branch}
		}),
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to add repositories: %w", err)
	}

	message := fmt.Sprintf("%d repositories added, %d failed", result.SuccessCount, result.FailureCount)
	return envelope.OK(c, message, newBatchResponse(result))
}

//	@Summary		List branches
//	@Description	List local and remote branches of a ready repository
//	@Tags			repos
//	@Produce		json
//	@Param			id	path		string	true	"Repository ID"
//	@Success		200	{object}	envelope.Response{data=BranchesResponse}
//	@Failure		404	{object}	envelope.Response
//	@Failure		409	{object}	envelope.Response
//	@Router			/repos/{id}/branches [get]
//
// List branches.
func (h *Handler) branches(c *fiber.Ctx) error {
	id, err := getRepoID(c)
	if err != nil {
		return err
	}

	branches, err := h.opsSvc.Branches(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}

	return envelope.OK(c, "", newBranchesResponse(branches))
}

//	@Summary		Switch branch
//	@Description	Queue a checkout of another branch
//	@Tags			repos
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Repository ID"
//	@Param			request	body		SwitchBranchRequest	true	"Target branch"
//	@Success		200		{object}	envelope.Response{data=tasksapi.TaskResponse}
//	@Failure		400		{object}	envelope.Response
//	@Failure		404		{object}	envelope.Response
//	@Router			/repos/{id}/switch-branch [post]
//
// Switch branch.
func (h *Handler) switchBranch(c *fiber.Ctx, req *SwitchBranchRequest) error {
	id, err := getRepoID(c)
	if err != nil {
		return err
	}

	task, err := h.opsSvc.SubmitSwitchBranch(c.Context(), id, req.Branch)
	if err != nil {
		return fmt.Errorf("failed to submit branch switch: %w", err)
	}

	return submitted(c, "branch switch task submitted", task)
}

//	@Summary		Update a repository
//	@Description	Queue a fetch and hard reset of the tracked branch
//	@Tags			repos
//	@Produce		json
//	@Param			id	path		string	true	"Repository ID"
//	@Success		200	{object}	envelope.Response{data=tasksapi.TaskResponse}
//	@Failure		404	{object}	envelope.Response
//	@Router			/repos/{id}/update [post]
//
// Update a repository.
func (h *Handler) update(c *fiber.Ctx) error {
	id, err := getRepoID(c)
	if err != nil {
		return err
	}

	task, err := h.opsSvc.SubmitUpdate(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to submit update: %w", err)
	}

	return submitted(c, "update task submitted", task)
}

//	@Summary		Reset a repository
//	@Description	Queue a reset discarding local changes, re-cloning when the working copy is missing
//	@Tags			repos
//	@Produce		json
//	@Param			id	path		string	true	"Repository ID"
//	@Success		200	{object}	envelope.Response{data=tasksapi.TaskResponse}
//	@Failure		404	{object}	envelope.Response
//	@Router			/repos/{id}/reset [post]
//
// Reset a repository.
func (h *Handler) reset(c *fiber.Ctx) error {
	id, err := getRepoID(c)
	if err != nil {
		return err
	}

	task, err := h.opsSvc.SubmitReset(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to submit reset: %w", err)
	}

	return submitted(c, "reset task submitted", task)
}

//	@Summary		Delete a repository
//	@Description	Delete a repository with its tasks, cache entries and working copy
//	@Tags			repos
//	@Produce		json
//	@Param			id	path		string	true	"Repository ID"
//	@Success		200	{object}	envelope.Response
//	@Failure		404	{object}	envelope.Response
//	@Router			/repos/{id} [delete]
//
// Delete a repository.
func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := getRepoID(c)
	if err != nil {
		return err
	}

	if delErr := h.opsSvc.DeleteRepository(c.Context(), id); delErr != nil {
		return fmt.Errorf("failed to delete repository: %w", delErr)
	}

	return envelope.OK(c, "repository deleted successfully", nil)
}

func submitted(c *fiber.Ctx, message string, task *tasks.Task) error {
	return envelope.OK(c, message, tasksapi.NewTaskResponse(task))
}
