package stats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCommit struct {
	author, email string
	when          time.Time
	add, del      int
	parents       int
}

type fakeSource struct {
	commits []fakeCommit
	visited int
	err     error
}

func (f *fakeSource) WalkCommits(ctx context.Context, _, _ string, visit func(*git.Commit) error) error {
	if f.err != nil {
		return f.err
	}

	for i, fc := range f.commits {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.visited++
		err := visit(&git.Commit{
			Hash:        string(rune('a' + i)),
			AuthorName:  fc.author,
			AuthorEmail: fc.email,
			AuthoredAt:  fc.when,
			CommittedAt: fc.when,
			ParentCount: fc.parents,
			Changes: func() (int, int, error) {
				return fc.add, fc.del, nil
			},
		})
		if errors.Is(err, git.ErrStopWalk) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC)
}

func TestEngine_AggregatesByAuthorAndEmail(t *testing.T) {
	source := &fakeSource{commits: []fakeCommit{
		{"Alice", "alice@example.com", day(5), 10, 2, 1},
		{"Bob", "bob@example.com", day(4), 5, 0, 1},
		{"Alice", "alice@example.com", day(3), 0, 7, 1},
		{"Alice", "alice@work.example.com", day(2), 1, 1, 1},
		{"Merger", "merge@example.com", day(1), 100, 100, 2},
	}}

	result, err := NewEngine(source, zaptest.NewLogger(t)).Compute(
		context.Background(), "/repo", "main", CommitLimit{Limit: 100},
	)
	require.NoError(t, err)

	require.Equal(t, 4, result.Summary.TotalCommits)
	require.Equal(t, 3, result.Summary.TotalContributors)
	require.NotNil(t, result.Summary.CommitLimit)
	require.Equal(t, 100, *result.Summary.CommitLimit)
	require.Equal(t, &DateSpan{From: day(2), To: day(5)}, result.Summary.DateRange)

	require.Len(t, result.ByContributor, 3)
	alice := result.ByContributor[0]
	require.Equal(t, "Alice", alice.Author)
	require.Equal(t, "alice@example.com", alice.Email)
	require.Equal(t, 2, alice.Commits)
	require.Equal(t, 10, alice.Additions)
	require.Equal(t, 9, alice.Deletions)
	require.Equal(t, 9, alice.Modifications)
	require.Equal(t, 1, alice.NetAdditions)
	require.Equal(t, day(3), alice.FirstCommitDate)
	require.Equal(t, day(5), alice.LastCommitDate)

	require.Equal(t, "Bob", result.ByContributor[1].Author)
	require.Equal(t, "alice@work.example.com", result.ByContributor[2].Email)
}

func TestEngine_CommitLimitStopsWalk(t *testing.T) {
	source := &fakeSource{commits: []fakeCommit{
		{"A", "a@x", day(9), 1, 0, 1},
		{"M", "m@x", day(8), 1, 0, 2},
		{"B", "b@x", day(7), 1, 0, 1},
		{"C", "c@x", day(6), 1, 0, 1},
		{"D", "d@x", day(5), 1, 0, 1},
	}}

	result, err := NewEngine(source, zaptest.NewLogger(t)).Compute(
		context.Background(), "/repo", "main", CommitLimit{Limit: 2},
	)
	require.NoError(t, err)
	require.Equal(t, 2, result.Summary.TotalCommits)
	require.Equal(t, 4, source.visited)
}

func TestEngine_DateRangeFiltersWithoutStopping(t *testing.T) {
	source := &fakeSource{commits: []fakeCommit{
		{"A", "a@x", day(20), 1, 0, 1},
		{"B", "b@x", day(1), 1, 0, 1},
		{"C", "c@x", day(12), 3, 0, 1},
		{"D", "d@x", day(10), 1, 0, 1},
		{"E", "e@x", day(15), 1, 0, 1},
	}}
	r := DateRange{From: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}

	result, err := NewEngine(source, zaptest.NewLogger(t)).Compute(context.Background(), "/repo", "main", r)
	require.NoError(t, err)
	require.Equal(t, 5, source.visited)
	require.Equal(t, 3, result.Summary.TotalCommits)
	require.Nil(t, result.Summary.CommitLimit)
	require.Equal(t, &DateSpan{From: day(10), To: day(15)}, result.Summary.DateRange)
	require.Equal(t, "C", result.ByContributor[0].Author)
	require.Equal(t, "D", result.ByContributor[1].Author)
	require.Equal(t, "E", result.ByContributor[2].Author)
}

func TestEngine_EmptyHistory(t *testing.T) {
	result, err := NewEngine(&fakeSource{}, zaptest.NewLogger(t)).Compute(
		context.Background(), "/repo", "main", CommitLimit{Limit: 1},
	)
	require.NoError(t, err)
	require.Zero(t, result.Summary.TotalCommits)
	require.Nil(t, result.Summary.DateRange)
	require.NotNil(t, result.ByContributor)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"by_contributor":[]`)
}

func TestEngine_RejectsInvalidConstraint(t *testing.T) {
	source := &fakeSource{}
	_, err := NewEngine(source, zaptest.NewLogger(t)).Compute(
		context.Background(), "/repo", "main", CommitLimit{Limit: 0},
	)
	require.ErrorIs(t, err, ErrInvalidConstraint)
	require.Zero(t, source.visited)
}

func TestEngine_PropagatesSourceErrors(t *testing.T) {
	source := &fakeSource{err: git.ErrBranchNotFound}
	_, err := NewEngine(source, zaptest.NewLogger(t)).Compute(
		context.Background(), "/repo", "ghost", CommitLimit{Limit: 1},
	)
	require.ErrorIs(t, err, git.ErrBranchNotFound)
}

func TestEngine_Deterministic(t *testing.T) {
	commits := []fakeCommit{
		{"Zed", "z@x", day(3), 4, 1, 1},
		{"Amy", "a@x", day(2), 4, 1, 1},
		{"Amy", "a2@x", day(1), 4, 1, 1},
	}
	engine := NewEngine(&fakeSource{commits: commits}, zaptest.NewLogger(t))

	first, err := engine.Compute(context.Background(), "/repo", "main", CommitLimit{Limit: 10})
	require.NoError(t, err)
	second, err := engine.Compute(context.Background(), "/repo", "main", CommitLimit{Limit: 10})
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	require.JSONEq(t, string(a), string(b))
	require.Equal(t, string(a), string(b))

	require.Equal(t, "a2@x", first.ByContributor[0].Email)
	require.Equal(t, "a@x", first.ByContributor[1].Email)
	require.Equal(t, "Zed", first.ByContributor[2].Author)
}

func TestEngine_CountCommits(t *testing.T) {
	source := &fakeSource{commits: []fakeCommit{
		{"Alice", "alice@example.com", day(5), 1, 0, 1},
		{"Merger", "merge@example.com", day(4), 0, 0, 2},
		{"Bob", "bob@example.com", day(3), 1, 0, 1},
		{"Alice", "alice@example.com", day(1), 1, 0, 0},
	}}
	engine := NewEngine(source, zaptest.NewLogger(t))

	all, err := engine.CountCommits(context.Background(), "/repo", "main", time.Time{})
	require.NoError(t, err)
	require.Equal(t, 4, all)

	since, err := engine.CountCommits(context.Background(), "/repo", "main", day(3))
	require.NoError(t, err)
	require.Equal(t, 3, since)
}
