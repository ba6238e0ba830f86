package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/plumbing/storer"
	"go.uber.org/zap"
)

// WalkCommits visits commits reachable from branch, newest first by
// committer time. The visitor may return ErrStopWalk to end the walk.
func (s *Service) WalkCommits(ctx context.Context, path, branch string, visit func(*Commit) error) error {
	repo, err := s.open(path)
	if err != nil {
		return err
	}

	if branch == "" {
		head, headErr := repo.Head()
		if headErr != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRepository, headErr)
		}
		branch = head.Name().Short()
	}

	from, err := resolveBranch(repo, branch)
	if err != nil {
		return err
	}

	iter, err := repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogFailed, err)
	}
	defer iter.Close()

	visited := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		visited++
		visitErr := visit(newCommit(c))
		if errors.Is(visitErr, ErrStopWalk) {
			return storer.ErrStop
		}

		return visitErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("commit walk interrupted: %w", ctxErr)
		}
		return fmt.Errorf("%w: %w", ErrLogFailed, err)
	}

	s.logger.Debug("commit walk finished",
		zap.String("path", path),
		zap.String("branch", branch),
		zap.Int("visited", visited))

	return nil
}

func newCommit(c *object.Commit) *Commit {
	return &Commit{
		Hash:        c.Hash.String(),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		AuthoredAt:  c.Author.When,
		CommittedAt: c.Committer.When,
		ParentCount: c.NumParents(),
		Changes: func() (int, int, error) {
			stats, err := c.Stats()
			if err != nil {
				return 0, 0, fmt.Errorf("failed to compute commit stats: %w", err)
			}

			additions, deletions := 0, 0
			for _, fs := range stats {
				additions += fs.Addition
				deletions += fs.Deletion
			}

			return additions, deletions, nil
		},
	}
}

// Head resolves the tip of branch without touching the working tree. An
// empty branch means the checked out one.
func (s *Service) Head(_ context.Context, path, branch string) (*Snapshot, error) {
	repo, err := s.open(path)
	if err != nil {
		return nil, err
	}

	if branch == "" {
		return headSnapshot(repo)
	}

	hash, err := resolveBranch(repo, branch)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Branch: branch, Head: hash.String()}, nil
}
