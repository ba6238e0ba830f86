package git

import (
	"time"
)

// Credentials are basic credentials for http(s) remotes.
type Credentials struct {
	Username string
	Password string
}

// CloneRequest represents the request to clone a repository.
type CloneRequest struct {
	URL       string       // Git repository URL
	Branch    string       // Branch to check out, the remote default when empty
	Directory string       // Directory to clone into
	Auth      *Credentials // Optional credentials
}

// SyncRequest addresses a branch of an existing working copy.
type SyncRequest struct {
	Path   string
	URL    string
	Branch string
	Auth   *Credentials
}

// Snapshot is the checked out state of a working copy.
type Snapshot struct {
	Branch string
	Head   string
}

// BranchInfo represents information about a Git branch.
type BranchInfo struct {
	Name     string // Branch name
	IsHead   bool   // Whether this is the checked out branch
	IsRemote bool   // Only known as a remote-tracking branch
	Hash     string // Latest commit hash on this branch
}

// Commit is a single commit visited by WalkCommits.
type Commit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	AuthoredAt  time.Time
	CommittedAt time.Time
	ParentCount int

	// Changes returns lines added and deleted against the first parent.
	// It is computed on demand.
	Changes func() (additions, deletions int, err error)
}

func (c *Commit) IsMerge() bool {
	return c.ParentCount > 1
}
