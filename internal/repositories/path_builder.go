package repositories

import (
	"path/filepath"

	"github.com/google/uuid"
)

// PathBuilder maps a repository to its working copy directory.
type PathBuilder interface {
	BuildPath(repoID uuid.UUID) string
}

type pathBuilder struct {
	basePath string
}

func NewPathBuilder(config Config) PathBuilder {
	return &pathBuilder{basePath: config.WorkDir}
}

// BuildPath builds the working copy path for a repository.
func (p *pathBuilder) BuildPath(repoID uuid.UUID) string {
	return filepath.Join(p.basePath, "repositories", repoID.String())
}
