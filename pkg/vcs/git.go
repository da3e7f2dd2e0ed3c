package vcs

import (
	"errors"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	vendorerrors "github.com/krig/cargo-vendor/pkg/errors"
)

// GitBackend stores snapshots in a git repository.
type GitBackend struct{}

// Name returns "git".
func (GitBackend) Name() string { return "git" }

// Init runs the equivalent of `git init` in dir.
func (GitBackend) Init(dir string) (VersionedTree, error) {
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return nil, vendorerrors.Wrap(vendorerrors.ErrCodeRepositoryInit, err, "initialize git repository in %s", dir)
	}
	return &gitTree{dir: dir, repo: repo}, nil
}

// OpenGit opens an existing git working tree.
func OpenGit(dir string) (VersionedTree, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, vendorerrors.Wrap(vendorerrors.ErrCodeRepositoryInit, err, "open git repository %s", dir)
	}
	return &gitTree{dir: dir, repo: repo}, nil
}

type gitTree struct {
	dir  string
	repo *git.Repository
}

func (t *gitTree) Dir() string { return t.dir }

func (t *gitTree) HasCommits() (bool, error) {
	_, err := t.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (t *gitTree) StageAll() (int, error) {
	wt, err := t.repo.Worktree()
	if err != nil {
		return 0, err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return 0, err
	}
	idx, err := t.repo.Storer.Index()
	if err != nil {
		return 0, err
	}
	return len(idx.Entries), nil
}

func (t *gitTree) Commit(message string, id *Identity) (Snapshot, error) {
	if id == nil {
		cfg, err := t.repo.ConfigScoped(config.SystemScope)
		if err != nil {
			return Snapshot{}, vendorerrors.Wrap(vendorerrors.ErrCodeRepositoryCommit, err, "load git configuration")
		}
		if id, err = identityFromConfig(cfg); err != nil {
			return Snapshot{}, err
		}
	}

	wt, err := t.repo.Worktree()
	if err != nil {
		return Snapshot{}, err
	}
	sig := &object.Signature{Name: id.Name, Email: id.Email, When: time.Now()}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	if err != nil {
		return Snapshot{}, err
	}

	commit, err := t.repo.CommitObject(hash)
	if err != nil {
		return Snapshot{}, err
	}
	if commit.NumParents() != 0 {
		return Snapshot{}, vendorerrors.New(vendorerrors.ErrCodeRepositoryCommit, "commit %s unexpectedly has parents", hash)
	}
	return Snapshot{
		Commit: hash.String(),
		Tree:   commit.TreeHash.String(),
		Author: *id,
	}, nil
}
