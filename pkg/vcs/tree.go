// Package vcs records a registry index as an initial version-control
// snapshot.
//
// The vendoring engine only needs a narrow capability, [VersionedTree]:
// stage every file, then create one parentless commit. Two backends
// implement it:
//
//   - "git": a real git repository via go-git, what Cargo expects for a
//     file:// registry index
//   - "manifest": a manifest-of-hashes log in <index>/.snapshots for
//     consumers that only need a tamper-evident record of the tree
package vcs

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/krig/cargo-vendor/pkg/errors"
)

// InitialMessage is the message of the snapshot commit.
const InitialMessage = "Initial commit"

// Identity is the author and committer of a snapshot.
type Identity struct {
	Name  string
	Email string
}

// String renders id as "Name <email>".
func (id Identity) String() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

// ParseIdentity parses "Name <email>".
func ParseIdentity(s string) (*Identity, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse identity %q: %w", s, err)
	}
	if addr.Name == "" {
		return nil, fmt.Errorf("parse identity %q: missing name", s)
	}
	return &Identity{Name: addr.Name, Email: addr.Address}, nil
}

// Snapshot describes a created commit.
type Snapshot struct {
	Commit string // commit hash, or snapshot ID for the manifest backend
	Tree   string // tree hash
	Files  int    // number of files in the tree
	Author Identity
}

// VersionedTree is a working tree that can record one snapshot.
type VersionedTree interface {
	// Dir returns the root of the working tree.
	Dir() string

	// HasCommits reports whether a snapshot already exists.
	HasCommits() (bool, error)

	// StageAll stages every file under Dir and returns how many are staged.
	StageAll() (int, error)

	// Commit writes the staged tree and records a parentless commit.
	// A nil id means the identity comes from the ambient git configuration.
	Commit(message string, id *Identity) (Snapshot, error)
}

// Backend creates versioned trees.
type Backend interface {
	Name() string

	// Init turns an existing directory into an empty versioned tree.
	Init(dir string) (VersionedTree, error)
}

// Backends lists the available backend names.
var Backends = []string{"git", "manifest"}

// NewBackend returns the backend with the given name; empty means git.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", "git":
		return GitBackend{}, nil
	case "manifest":
		return ManifestBackend{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown backend %q (want one of %s)", name, strings.Join(Backends, ", "))
	}
}

// CommitInitial stages everything in t and records the initial snapshot.
// It refuses trees that already have a commit, since it always creates a
// root commit.
func CommitInitial(t VersionedTree, message string, id *Identity) (Snapshot, error) {
	has, err := t.HasCommits()
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeRepositoryCommit, err, "inspect %s", t.Dir())
	}
	if has {
		return Snapshot{}, errors.New(errors.ErrCodeRepositoryCommit, "%s already has a commit; only an initial snapshot is supported", t.Dir())
	}
	n, err := t.StageAll()
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeRepositoryCommit, err, "stage %s", t.Dir())
	}
	snap, err := t.Commit(message, id)
	if err != nil {
		if errors.GetCode(err) != "" {
			return Snapshot{}, err
		}
		return Snapshot{}, errors.Wrap(errors.ErrCodeRepositoryCommit, err, "commit %s", t.Dir())
	}
	snap.Files = n
	return snap, nil
}
