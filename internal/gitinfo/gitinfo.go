// Package gitinfo answers questions about source files from git history.
package gitinfo

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ErrNoHistory is returned for files without any commit.
var ErrNoHistory = errors.New("file has no commit history")

// Resolver looks up commit dates in the repository containing a directory.
type Resolver struct {
	root string

	once    sync.Once
	repo    *git.Repository
	openErr error

	mu    sync.Mutex
	cache map[string]time.Time
}

// NewResolver returns a resolver for the repository enclosing dir. The
// repository is opened lazily.
func NewResolver(dir string) *Resolver {
	return &Resolver{root: dir, cache: make(map[string]time.Time)}
}

func (r *Resolver) open() (*git.Repository, error) {
	r.once.Do(func() {
		r.repo, r.openErr = git.PlainOpenWithOptions(r.root, &git.PlainOpenOptions{DetectDotGit: true})
	})
	return r.repo, r.openErr
}

// LastModified returns the committer date of the newest commit touching path.
func (r *Resolver) LastModified(path string) (time.Time, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, err
	}

	r.mu.Lock()
	if t, ok := r.cache[abs]; ok {
		r.mu.Unlock()
		return t, nil
	}
	r.mu.Unlock()

	repo, err := r.open()
	if err != nil {
		return time.Time{}, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return time.Time{}, fmt.Errorf("worktree: %w", err)
	}
	rel, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil {
		return time.Time{}, err
	}
	rel = filepath.ToSlash(rel)

	r.mu.Lock()
	defer r.mu.Unlock()

	iter, err := repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}, fmt.Errorf("log %s: %w", rel, err)
	}
	defer iter.Close()

	var when time.Time
	err = iter.ForEach(func(c *object.Commit) error {
		when = c.Committer.When
		return storer.ErrStop
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("walk history of %s: %w", rel, err)
	}
	if when.IsZero() {
		return time.Time{}, ErrNoHistory
	}

	r.cache[abs] = when
	return when, nil
}
