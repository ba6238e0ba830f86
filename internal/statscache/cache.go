package statscache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes statistics results. Concurrent misses of one key share a
// single computation and the number of computations running at once is
// bounded.
type Cache struct {
	config Config
	store  *Store

	sem     *semaphore.Weighted
	flights singleflight.Group

	logger *zap.Logger

	// generation is bumped by ClearAll; results of older generations are
	// never stored
	mu         sync.RWMutex
	generation uint64
	genCtx     context.Context //nolint:containedctx //cancelled by ClearAll
	genCancel  context.CancelFunc
}

func New(config Config, store *Store, logger *zap.Logger) *Cache {
	ctx, cancel := context.WithCancel(context.Background())

	return &Cache{
		config: config,
		store:  store,

		sem: semaphore.NewWeighted(config.maxConcurrent()),

		logger: logger,

		genCtx:    ctx,
		genCancel: cancel,
	}
}

// GetOrCompute returns the cached result for key, computing and storing it
// on a miss. ctx bounds the wait of this caller only; a shared computation
// keeps running for the other callers.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, compute ComputeFunc) (*Lookup, error) {
	if err := key.Constraint.Validate(); err != nil {
		return nil, err
	}

	id := key.ID()
	logger := c.logger.With(zap.String("key", key.Canonical()), zap.String("cache_id", id))

	lookup, err := c.hit(ctx, id)
	if err == nil {
		observeLookup(true)
		logger.Debug("cache hit", zap.Int("hit_count", lookup.Entry.HitCount))
		return lookup, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	observeLookup(false)

	c.mu.RLock()
	generation, genCtx := c.generation, c.genCtx
	c.mu.RUnlock()

	flight := strconv.FormatUint(generation, 10) + ":" + id
	ch := c.flights.DoChan(flight, func() (any, error) {
		return c.compute(genCtx, logger, key, compute)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := *res.Val.(*Lookup)
		return &shared, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to wait for stats computation: %w", ctx.Err())
	}
}

func (c *Cache) compute(genCtx context.Context, logger *zap.Logger, key Key, compute ComputeFunc) (*Lookup, error) {
	id := key.ID()

	// an earlier flight may have stored the entry after our miss
	if lookup, err := c.hit(genCtx, id); err == nil {
		return lookup, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := c.sem.Acquire(genCtx, 1); err != nil {
		return nil, ErrDiscarded
	}
	defer c.sem.Release(1)

	ctx := genCtx
	if c.config.ComputeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ComputeTimeout)
		defer cancel()
	}

	logger.Info("computing statistics")
	started := time.Now()

	result, commitHash, err := compute(ctx)
	switch {
	case genCtx.Err() != nil:
		observeCompute(outcomeDiscarded, time.Since(started))
		logger.Info("computation discarded by cache clear")
		return nil, ErrDiscarded
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		observeCompute(outcomeFailed, time.Since(started))
		return nil, fmt.Errorf("stats computation timed out after %s: %w", c.config.ComputeTimeout, err)
	case err != nil:
		observeCompute(outcomeFailed, time.Since(started))
		return nil, err
	}

	entry := &Entry{
		ID:           id,
		Key:          key,
		CanonicalKey: key.Canonical(),
		CommitHash:   commitHash,
		CreatedAt:    time.Now(),
	}

	if storeErr := c.put(genCtx, entry, result); storeErr != nil {
		if errors.Is(storeErr, ErrDiscarded) {
			observeCompute(outcomeDiscarded, time.Since(started))
			logger.Info("computation discarded by cache clear")
		} else {
			observeCompute(outcomeFailed, time.Since(started))
		}
		return nil, storeErr
	}

	observeCompute(outcomeStored, time.Since(started))
	logger.Info("statistics cached",
		zap.String("commit_hash", commitHash),
		zap.Int("size_bytes", entry.SizeBytes),
		zap.Duration("duration", time.Since(started)))

	return &Lookup{Result: result, Entry: *entry}, nil
}

// put stores the entry unless the generation of genCtx was cleared.
func (c *Cache) put(genCtx context.Context, entry *Entry, result *stats.Result) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if genCtx.Err() != nil {
		return ErrDiscarded
	}

	return c.store.Put(genCtx, entry, result)
}

// hit reads id and counts the hit. Failing to count does not fail the read.
func (c *Cache) hit(ctx context.Context, id string) (*Lookup, error) {
	entry, result, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if counted, hitErr := c.store.RecordHit(ctx, id, time.Now()); hitErr == nil {
		entry = counted
	} else {
		c.logger.Warn("failed to record cache hit", zap.String("cache_id", id), zap.Error(hitErr))
	}

	return &Lookup{Result: result, Entry: *entry, Hit: true}, nil
}

// Get returns the cached result for key without counting a hit.
func (c *Cache) Get(ctx context.Context, key Key) (*Entry, *stats.Result, error) {
	return c.store.Get(ctx, key.ID())
}

// List retrieves entries, newest first.
func (c *Cache) List(ctx context.Context, filter Filter) ([]Entry, error) {
	entries, err := c.store.List(ctx, filter)
	if err != nil {
		c.logger.Error("failed to list cache entries", zap.Error(err))
		return nil, err
	}

	return entries, nil
}

// Clear removes one entry by its ID.
func (c *Cache) Clear(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.logger.Info("cache entry cleared", zap.String("cache_id", id))
	return nil
}

// ClearAll removes every entry. Computations in flight are cancelled and
// their results are not stored.
func (c *Cache) ClearAll(ctx context.Context) (int, error) {
	c.mu.Lock()
	c.genCancel()
	c.generation++
	c.genCtx, c.genCancel = context.WithCancel(context.Background())
	c.mu.Unlock()

	count, err := c.store.DeleteByRepo(ctx, uuid.Nil)
	if err != nil {
		c.logger.Error("failed to clear cache", zap.Error(err))
		return 0, err
	}

	c.logger.Info("cache cleared", zap.Int("count", count))
	return count, nil
}

// DeleteByRepo removes the entries of one repository.
func (c *Cache) DeleteByRepo(ctx context.Context, repoID uuid.UUID) (int, error) {
	count, err := c.store.DeleteByRepo(ctx, repoID)
	if err != nil {
		c.logger.Error("failed to delete repository cache entries", zap.Stringer("repo_id", repoID), zap.Error(err))
		return 0, err
	}

	c.logger.Info("repository cache entries deleted", zap.Stringer("repo_id", repoID), zap.Int("count", count))
	return count, nil
}

// Close cancels computations in flight.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.genCancel()
}
