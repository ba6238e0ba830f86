package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"go.uber.org/zap"
)

const remoteName = "origin"

type Service struct {
	config Config

	logger *zap.Logger
}

// NewService creates a new GitService.
func NewService(config Config, logger *zap.Logger) *Service {
	return &Service{
		config: config,

		logger: logger,
	}
}

// Clone clones the full history of a repository to the specified directory.
func (s *Service) Clone(ctx context.Context, req CloneRequest) (*Snapshot, error) {
	s.logger.Info("cloning repository",
		zap.String("url", req.URL),
		zap.String("directory", req.Directory),
		zap.String("branch", req.Branch))

	cloneOptions := &git.CloneOptions{
		URL:        req.URL,
		RemoteName: remoteName,
		Auth:       s.authMethod(req.URL, req.Auth),
	}

	if req.Branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(req.Branch)
	}

	// Check if directory already exists
	if _, statErr := os.Stat(req.Directory); statErr == nil {
		return nil, fmt.Errorf("%w: directory %s already exists", ErrRepositoryAlreadyExists, req.Directory)
	}

	repo, err := git.PlainCloneContext(ctx, req.Directory, cloneOptions)
	if err != nil {
		s.logger.Error("failed to clone repository", zap.Error(err))
		if rmErr := os.RemoveAll(req.Directory); rmErr != nil {
			s.logger.Warn("failed to remove partial clone", zap.Error(rmErr))
		}
		return nil, fmt.Errorf("%w: %w", ErrCloneFailed, err)
	}

	snapshot, err := headSnapshot(repo)
	if err != nil {
		return nil, err
	}

	s.logger.Info("repository cloned successfully",
		zap.String("url", req.URL),
		zap.String("directory", req.Directory),
		zap.String("head", snapshot.Head))

	return snapshot, nil
}

// Update fetches the remote and hard resets the branch to its remote tip.
func (s *Service) Update(ctx context.Context, req SyncRequest) (*Snapshot, error) {
	s.logger.Info("updating working copy",
		zap.String("path", req.Path),
		zap.String("branch", req.Branch))

	repo, err := s.open(req.Path)
	if err != nil {
		return nil, err
	}

	return s.sync(ctx, repo, req)
}

// Reset discards local modifications, including untracked files, and
// re-syncs the branch to its remote tip.
func (s *Service) Reset(ctx context.Context, req SyncRequest) (*Snapshot, error) {
	s.logger.Info("resetting working copy",
		zap.String("path", req.Path),
		zap.String("branch", req.Branch))

	repo, err := s.open(req.Path)
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	if cleanErr := worktree.Clean(&git.CleanOptions{Dir: true}); cleanErr != nil {
		s.logger.Error("failed to clean working copy", zap.Error(cleanErr))
		return nil, fmt.Errorf("%w: %w", ErrResetFailed, cleanErr)
	}

	return s.sync(ctx, repo, req)
}

// Checkout switches the working copy to branch. The branch must exist on the
// remote or locally; a local branch is created from the remote one when
// missing.
func (s *Service) Checkout(ctx context.Context, req SyncRequest) (*Snapshot, error) {
	s.logger.Info("checking out branch",
		zap.String("path", req.Path),
		zap.String("branch", req.Branch))

	repo, err := s.open(req.Path)
	if err != nil {
		return nil, err
	}

	return s.sync(ctx, repo, req)
}

// Branches lists local and remote-tracking branches, deduplicated by name.
func (s *Service) Branches(_ context.Context, path string) ([]BranchInfo, error) {
	repo, err := s.open(path)
	if err != nil {
		return nil, err
	}

	var headName plumbing.ReferenceName
	if head, headErr := repo.Head(); headErr == nil {
		headName = head.Name()
	}

	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}
	defer refs.Close()

	byName := map[string]BranchInfo{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}

		name := ref.Name()
		switch {
		case name.IsBranch():
			byName[name.Short()] = BranchInfo{
				Name:   name.Short(),
				IsHead: name == headName,
				Hash:   ref.Hash().String(),
			}
		case name.IsRemote():
			short := remoteBranchName(name)
			if short == "" || short == "HEAD" {
				return nil
			}
			if _, ok := byName[short]; ok {
				return nil
			}
			byName[short] = BranchInfo{
				Name:     short,
				IsRemote: true,
				Hash:     ref.Hash().String(),
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	branches := make([]BranchInfo, 0, len(byName))
	for _, b := range byName {
		branches = append(branches, b)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })

	s.logger.Debug("branches retrieved",
		zap.String("path", path),
		zap.Int("count", len(branches)))

	return branches, nil
}

// Remove deletes the working copy from disk.
func (s *Service) Remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("%w: %w", ErrCleanupFailed, err)
	}

	s.logger.Info("working copy removed", zap.String("path", path))
	return nil
}

func (s *Service) open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, path)
	}
	if err != nil {
		s.logger.Error("failed to open repository", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	return repo, nil
}

// sync fetches origin, then checks out req.Branch at its remote tip
// discarding local changes.
func (s *Service) sync(ctx context.Context, repo *git.Repository, req SyncRequest) (*Snapshot, error) {
	if err := s.fetch(ctx, repo, req); err != nil {
		return nil, err
	}

	branch := req.Branch
	if branch == "" {
		head, err := repo.Head()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
		}
		branch = head.Name().Short()
	}

	hash, err := resolveBranch(repo, branch)
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	localName := plumbing.NewBranchReferenceName(branch)
	checkoutOptions := &git.CheckoutOptions{
		Branch: localName,
		Force:  true,
	}
	if _, refErr := repo.Reference(localName, false); refErr != nil {
		checkoutOptions.Create = true
		checkoutOptions.Hash = hash
	}

	if coErr := worktree.Checkout(checkoutOptions); coErr != nil {
		s.logger.Error("failed to checkout branch", zap.String("branch", branch), zap.Error(coErr))
		return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, coErr)
	}

	if resetErr := worktree.Reset(&git.ResetOptions{Commit: hash, Mode: git.HardReset}); resetErr != nil {
		s.logger.Error("failed to reset branch", zap.String("branch", branch), zap.Error(resetErr))
		return nil, fmt.Errorf("%w: %w", ErrResetFailed, resetErr)
	}

	s.logger.Info("working copy synced",
		zap.String("path", req.Path),
		zap.String("branch", branch),
		zap.String("head", hash.String()))

	return &Snapshot{Branch: branch, Head: hash.String()}, nil
}

func (s *Service) fetch(ctx context.Context, repo *git.Repository, req SyncRequest) error {
	url := req.URL
	if url == "" {
		if remote, err := repo.Remote(remoteName); err == nil && len(remote.Config().URLs) > 0 {
			url = remote.Config().URLs[0]
		}
	}

	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteName,
		Auth:       s.authMethod(url, req.Auth),
		Force:      true,
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case errors.Is(err, git.ErrRemoteNotFound):
		// local-only working copy, nothing to fetch
		return nil
	default:
		s.logger.Error("failed to fetch repository", zap.String("path", req.Path), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
}

// resolveBranch returns the tip of branch, preferring the remote-tracking
// ref over the local one.
func resolveBranch(repo *git.Repository, branch string) (plumbing.Hash, error) {
	candidates := []plumbing.ReferenceName{
		plumbing.NewRemoteReferenceName(remoteName, branch),
		plumbing.NewBranchReferenceName(branch),
	}

	for _, name := range candidates {
		ref, err := repo.Reference(name, true)
		if err == nil {
			return ref.Hash(), nil
		}
	}

	return plumbing.ZeroHash, fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
}

func headSnapshot(repo *git.Repository) (*Snapshot, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	return &Snapshot{
		Branch: head.Name().Short(),
		Head:   head.Hash().String(),
	}, nil
}

func remoteBranchName(name plumbing.ReferenceName) string {
	short, ok := strings.CutPrefix(name.Short(), remoteName+"/")
	if !ok {
		return ""
	}

	return short
}
