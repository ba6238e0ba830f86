package stats

import (
	"fmt"

	"github.com/gitpulse/gitpulse/internal/operations"
	"github.com/gitpulse/gitpulse/internal/server/envelope"
	tasksapi "github.com/gitpulse/gitpulse/internal/server/handlers/tasks"
	"github.com/gitpulse/gitpulse/internal/server/validation"
	"github.com/gitpulse/gitpulse/internal/statscache"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	opsSvc *operations.Service
	cache  *statscache.Cache

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	opsSvc *operations.Service,
	cache *statscache.Cache,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		opsSvc: opsSvc,
		cache:  cache,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/stats")

	r.Post("/calculate", validation.DecorateWithBodyEx(h.validator, h.calculate))
	r.Get("/result", validation.DecorateWithQueryEx(h.validator, h.result))
	r.Get("/commit-count", validation.DecorateWithQueryEx(h.validator, h.commitCount))
	r.Get("/caches", validation.DecorateWithQueryEx(h.validator, h.caches))
	r.Delete("/caches/clear", h.clearAll)
	r.Delete("/caches/:id", h.clear)
}

//	@Summary		Calculate statistics
//	@Description	Queue a statistics computation. The result is read through /stats/result.
//	@Tags			stats
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CalculateRequest	true	"Computation"
//	@Success		200		{object}	envelope.Response{data=tasksapi.TaskResponse}
//	@Failure		400		{object}	envelope.Response
//	@Failure		404		{object}	envelope.Response
//	@Router			/stats/calculate [post]
//
// Calculate statistics.
func (h *Handler) calculate(c *fiber.Ctx, req *CalculateRequest) error {
	task, err := h.opsSvc.SubmitStats(c.Context(), uuid.MustParse(req.RepoID), req.Branch, req.Constraint)
	if err != nil {
		return fmt.Errorf("failed to submit statistics: %w", err)
	}

	return envelope.OK(c, "statistics task submitted", tasksapi.NewTaskResponse(task))
}

//	@Summary		Get statistics
//	@Description	Return cached statistics, computing them on a miss
//	@Tags			stats
//	@Produce		json
//	@Param			repo_id			query		string	true	"Repository ID"
//	@Param			branch			query		string	false	"Branch, the tracked branch when empty"
//	@Param			constraint_type	query		string	true	"Constraint type"	Enums(commit_limit, date_range)
//	@Param			limit			query		int		false	"Commit limit"
//	@Param			from			query		string	false	"First day, YYYY-MM-DD"
//	@Param			to				query		string	false	"Last day, YYYY-MM-DD"
//	@Success		200				{object}	envelope.Response{data=ResultResponse}
//	@Failure		400				{object}	envelope.Response
//	@Failure		404				{object}	envelope.Response
//	@Failure		409				{object}	envelope.Response
//	@Failure		504				{object}	envelope.Response
//	@Router			/stats/result [get]
//
// Get statistics.
func (h *Handler) result(c *fiber.Ctx, query *ResultQuery) error {
	lookup, err := h.opsSvc.Stats(c.Context(), operations.StatsQuery{
		RepoID:     uuid.MustParse(query.RepoID),
		Branch:     query.Branch,
		Constraint: query.spec(),
	})
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	return envelope.OK(c, "", newResultResponse(lookup))
}

//	@Summary		Count commits
//	@Description	Count commits of a branch committed on or after a day, merges included
//	@Tags			stats
//	@Produce		json
//	@Param			repo_id	query		string	true	"Repository ID"
//	@Param			branch	query		string	false	"Branch, the tracked branch when empty"
//	@Param			from	query		string	false	"First day, YYYY-MM-DD"
//	@Success		200		{object}	envelope.Response{data=CommitCountResponse}
//	@Failure		400		{object}	envelope.Response
//	@Failure		404		{object}	envelope.Response
//	@Router			/stats/commit-count [get]
//
// Count commits.
func (h *Handler) commitCount(c *fiber.Ctx, query *CommitCountQuery) error {
	count, err := h.opsSvc.CountCommits(c.Context(), uuid.MustParse(query.RepoID), query.Branch, query.From)
	if err != nil {
		return fmt.Errorf("failed to count commits: %w", err)
	}

	return envelope.OK(c, "", newCommitCountResponse(count))
}

//	@Summary		List cache entries
//	@Description	List cached computations newest first. Stale entries predate the last sync of their repository.
//	@Tags			stats
//	@Produce		json
//	@Param			repo_id	query		string	false	"Repository ID"
//	@Param			limit	query		int		false	"Maximum number of entries"
//	@Success		200		{object}	envelope.Response{data=CachesResponse}
//	@Failure		400		{object}	envelope.Response
//	@Router			/stats/caches [get]
//
// List cache entries.
func (h *Handler) caches(c *fiber.Ctx, query *CachesQuery) error {
	var filter statscache.Filter
	if query.RepoID != "" {
		filter.RepoID = uuid.MustParse(query.RepoID)
	}

	views, err := h.opsSvc.Caches(c.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list cache entries: %w", err)
	}

	total := len(views)
	if query.Limit > 0 && query.Limit < total {
		views = views[:query.Limit]
	}

	return envelope.OK(c, "", CachesResponse{
		Caches: lo.Map(views, newCacheResponse),
		Total:  total,
	})
}

//	@Summary		Clear the cache
//	@Description	Delete every entry and discard computations in flight
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	envelope.Response{data=ClearResponse}
//	@Router			/stats/caches/clear [delete]
//
// Clear the cache.
func (h *Handler) clearAll(c *fiber.Ctx) error {
	deleted, err := h.cache.ClearAll(c.Context())
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return envelope.OK(c, "cache cleared", ClearResponse{Deleted: deleted})
}

//	@Summary		Delete a cache entry
//	@Tags			stats
//	@Produce		json
//	@Param			id	path		string	true	"Cache entry ID"
//	@Success		200	{object}	envelope.Response
//	@Failure		404	{object}	envelope.Response
//	@Router			/stats/caches/{id} [delete]
//
// Delete a cache entry.
func (h *Handler) clear(c *fiber.Ctx) error {
	if err := h.cache.Clear(c.Context(), c.Params("id")); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return envelope.OK(c, "cache entry deleted", nil)
}
