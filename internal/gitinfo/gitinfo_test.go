package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string, when time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	_, err = wt.Commit("update "+name, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
}

func TestResolver_LastModified(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	first := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	second := time.Date(2021, 6, 7, 8, 9, 10, 0, time.UTC)
	commitFile(t, repo, dir, "eep-0001.md", "one", first)
	commitFile(t, repo, dir, "eep-0002.md", "two", second)

	r := NewResolver(dir)

	got, err := r.LastModified(filepath.Join(dir, "eep-0001.md"))
	require.NoError(t, err)
	require.True(t, first.Equal(got), "got %v", got)

	got, err = r.LastModified(filepath.Join(dir, "eep-0002.md"))
	require.NoError(t, err)
	require.True(t, second.Equal(got), "got %v", got)
}

func TestResolver_UntrackedFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "eep-0001.md", "one", time.Now())

	_, err = NewResolver(dir).LastModified(filepath.Join(dir, "eep-0099.md"))
	require.ErrorIs(t, err, ErrNoHistory)
}

func TestResolver_NotARepository(t *testing.T) {
	dir := t.TempDir()
	_, err := NewResolver(dir).LastModified(filepath.Join(dir, "eep-0001.md"))
	require.Error(t, err)
}
