package stats

import "time"

type DateSpan struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type Summary struct {
	TotalCommits      int       `json:"total_commits"`
	TotalContributors int       `json:"total_contributors"`
	DateRange         *DateSpan `json:"date_range,omitempty"`
	CommitLimit       *int      `json:"commit_limit,omitempty"`
}

type ContributorStats struct {
	Author          string    `json:"author"`
	Email           string    `json:"email"`
	Commits         int       `json:"commits"`
	Additions       int       `json:"additions"`
	Deletions       int       `json:"deletions"`
	Modifications   int       `json:"modifications"`
	NetAdditions    int       `json:"net_additions"`
	FirstCommitDate time.Time `json:"first_commit_date"`
	LastCommitDate  time.Time `json:"last_commit_date"`
}

// Result is the aggregated statistics of one computation. It is never
// mutated after Compute returns.
type Result struct {
	Summary       Summary            `json:"summary"`
	ByContributor []ContributorStats `json:"by_contributor"`
}
