package stats

import (
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/require"
)

func TestConstraintSpec_Parse(t *testing.T) {
	tests := []struct {
		name      string
		spec      ConstraintSpec
		canonical string
		wantErr   bool
	}{
		{"commit_limit", ConstraintSpec{Type: ConstraintCommitLimit, Limit: 100}, "commit_limit:limit=100", false},
		{"commit_limit_ignores_dates",
			ConstraintSpec{Type: ConstraintCommitLimit, Limit: 5, From: "2024-01-01", To: "bogus"},
			"commit_limit:limit=5", false},
		{"date_range",
			ConstraintSpec{Type: ConstraintDateRange, From: "2024-01-01", To: "2024-12-31"},
			"date_range:from=2024-01-01,to=2024-12-31", false},
		{"date_range_single_day",
			ConstraintSpec{Type: ConstraintDateRange, From: "2024-02-29", To: "2024-02-29", Limit: 7},
			"date_range:from=2024-02-29,to=2024-02-29", false},

		{"zero_limit", ConstraintSpec{Type: ConstraintCommitLimit, Limit: 0}, "", true},
		{"negative_limit", ConstraintSpec{Type: ConstraintCommitLimit, Limit: -1}, "", true},
		{"from_after_to", ConstraintSpec{Type: ConstraintDateRange, From: "2024-02-01", To: "2024-01-01"}, "", true},
		{"bad_date", ConstraintSpec{Type: ConstraintDateRange, From: "2024-13-01", To: "2024-12-01"}, "", true},
		{"missing_to", ConstraintSpec{Type: ConstraintDateRange, From: "2024-01-01"}, "", true},
		{"unknown_type", ConstraintSpec{Type: "weekly"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.spec.Parse()
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrInvalidConstraint)
				require.True(t, errdefs.IsInvalidArgument(err))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.canonical, c.Canonical())
		})
	}
}

func TestConstraint_EquivalentEncodingsCanonicalizeIdentically(t *testing.T) {
	a, err := ConstraintSpec{Type: ConstraintDateRange, From: "2024-01-01", To: "2024-01-31"}.Parse()
	require.NoError(t, err)
	b, err := ConstraintSpec{To: "2024-01-31", Limit: 3, From: "2024-01-01", Type: ConstraintDateRange}.Parse()
	require.NoError(t, err)
	require.Equal(t, a.Canonical(), b.Canonical())

	c, err := ConstraintSpec{Type: ConstraintCommitLimit, Limit: 10}.Parse()
	require.NoError(t, err)
	require.NotEqual(t, a.Canonical(), c.Canonical())
}

func TestSpecOf_RoundTrip(t *testing.T) {
	for _, c := range []Constraint{
		CommitLimit{Limit: 42},
		DateRange{
			From: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	} {
		parsed, err := SpecOf(c).Parse()
		require.NoError(t, err)
		require.Equal(t, c.Canonical(), parsed.Canonical())
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{
		From: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
	}

	require.True(t, r.Contains(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	require.True(t, r.Contains(time.Date(2024, 1, 12, 23, 59, 59, 0, time.UTC)))
	require.False(t, r.Contains(time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)))
	require.False(t, r.Contains(time.Date(2024, 1, 9, 23, 59, 59, 0, time.UTC)))

	// 2024-01-13 01:00 in UTC+3 is 2024-01-12 22:00 UTC
	plus3 := time.FixedZone("UTC+3", 3*60*60)
	require.True(t, r.Contains(time.Date(2024, 1, 13, 1, 0, 0, 0, plus3)))
}
