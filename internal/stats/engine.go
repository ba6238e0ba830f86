package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gitpulse/gitpulse/internal/git"
	"go.uber.org/zap"
)

// CommitSource walks the history of a working copy.
type CommitSource interface {
	WalkCommits(ctx context.Context, path, branch string, visit func(*git.Commit) error) error
}

type Engine struct {
	source CommitSource

	logger *zap.Logger
}

func NewEngine(source CommitSource, logger *zap.Logger) *Engine {
	return &Engine{
		source: source,

		logger: logger,
	}
}

type contributorKey struct {
	name  string
	email string
}

// Compute aggregates per-contributor line statistics for branch of the
// working copy at path. Merge commits are skipped.
func (e *Engine) Compute(ctx context.Context, path, branch string, constraint Constraint) (*Result, error) {
	if err := constraint.Validate(); err != nil {
		return nil, err
	}

	logger := e.logger.With(
		zap.String("path", path),
		zap.String("branch", branch),
		zap.String("constraint", constraint.Canonical()),
	)
	logger.Debug("computing statistics")

	include := includer(constraint)
	byKey := map[contributorKey]*ContributorStats{}
	total := 0
	var earliest, latest time.Time

	err := e.source.WalkCommits(ctx, path, branch, func(c *git.Commit) error {
		if c.IsMerge() {
			return nil
		}

		ok, stop := include(c, total)
		if stop {
			return git.ErrStopWalk
		}
		if !ok {
			return nil
		}

		additions, deletions, err := c.Changes()
		if err != nil {
			return err
		}

		when := c.AuthoredAt.UTC()
		key := contributorKey{name: c.AuthorName, email: c.AuthorEmail}
		cs, found := byKey[key]
		if !found {
			cs = &ContributorStats{
				Author:          c.AuthorName,
				Email:           c.AuthorEmail,
				FirstCommitDate: when,
				LastCommitDate:  when,
			}
			byKey[key] = cs
		}

		cs.Commits++
		cs.Additions += additions
		cs.Deletions += deletions
		if when.Before(cs.FirstCommitDate) {
			cs.FirstCommitDate = when
		}
		if when.After(cs.LastCommitDate) {
			cs.LastCommitDate = when
		}

		if total == 0 || when.Before(earliest) {
			earliest = when
		}
		if total == 0 || when.After(latest) {
			latest = when
		}
		total++

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk commits: %w", err)
	}

	result := &Result{
		Summary: Summary{
			TotalCommits:      total,
			TotalContributors: len(byKey),
		},
		ByContributor: make([]ContributorStats, 0, len(byKey)),
	}

	if total > 0 {
		result.Summary.DateRange = &DateSpan{From: earliest, To: latest}
	}
	if limit, ok := constraint.(CommitLimit); ok {
		result.Summary.CommitLimit = &limit.Limit
	}

	for _, cs := range byKey {
		cs.Modifications = min(cs.Additions, cs.Deletions)
		cs.NetAdditions = cs.Additions - cs.Deletions
		result.ByContributor = append(result.ByContributor, *cs)
	}
	sortContributors(result.ByContributor)

	logger.Info("statistics computed",
		zap.Int("commits", total),
		zap.Int("contributors", len(byKey)))

	return result, nil
}

// CountCommits counts the commits reachable from branch committed at or
// after since, merges included. A zero since counts the whole history.
func (e *Engine) CountCommits(ctx context.Context, path, branch string, since time.Time) (int, error) {
	count := 0
	err := e.source.WalkCommits(ctx, path, branch, func(c *git.Commit) error {
		if since.IsZero() || !c.CommittedAt.Before(since) {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk commits: %w", err)
	}

	return count, nil
}

// includer returns the per-commit policy of a constraint. included is the
// number of commits accepted so far.
func includer(constraint Constraint) func(c *git.Commit, included int) (ok, stop bool) {
	switch v := constraint.(type) {
	case CommitLimit:
		return func(_ *git.Commit, included int) (bool, bool) {
			if included >= v.Limit {
				return false, true
			}
			return true, false
		}
	case DateRange:
		// history is not monotonic in author date, so the walk never stops early
		return func(c *git.Commit, _ int) (bool, bool) {
			return v.Contains(c.AuthoredAt), false
		}
	default:
		panic(fmt.Sprintf("unknown constraint %T", constraint))
	}
}

func sortContributors(items []ContributorStats) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Commits != b.Commits {
			return a.Commits > b.Commits
		}
		if a.Additions != b.Additions {
			return a.Additions > b.Additions
		}
		if a.Author != b.Author {
			return a.Author < b.Author
		}
		return a.Email < b.Email
	})
}
