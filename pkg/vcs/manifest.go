package vcs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/krig/cargo-vendor/pkg/checksum"
)

// SnapshotLog is the manifest backend's log file in the tree root.
const SnapshotLog = ".snapshots"

// ManifestEntry is one file of a manifest snapshot.
type ManifestEntry struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

// ManifestSnapshot is one line of the snapshot log.
type ManifestSnapshot struct {
	ID      string          `json:"id"`
	Tree    string          `json:"tree"`
	Parent  *string         `json:"parent"`
	Message string          `json:"message"`
	Author  string          `json:"author"`
	Time    time.Time       `json:"time"`
	Files   []ManifestEntry `json:"files"`
}

// ManifestBackend records snapshots as a manifest of file hashes instead of
// a git history.
type ManifestBackend struct{}

// Name returns "manifest".
func (ManifestBackend) Name() string { return "manifest" }

// Init checks that dir exists; the log is created by the first commit.
func (ManifestBackend) Init(dir string) (VersionedTree, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &manifestTree{dir: dir}, nil
}

type manifestTree struct {
	dir    string
	staged []ManifestEntry
}

func (t *manifestTree) Dir() string { return t.dir }

func (t *manifestTree) HasCommits() (bool, error) {
	info, err := os.Stat(filepath.Join(t.dir, SnapshotLog))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Size() > 0, nil
}

// StageAll hashes every non-hidden file under the tree root.
func (t *manifestTree) StageAll() (int, error) {
	var entries []ManifestEntry
	err := filepath.WalkDir(t.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != t.dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		sum, err := checksum.File(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(t.dir, path)
		if err != nil {
			return err
		}
		entries = append(entries, ManifestEntry{Path: filepath.ToSlash(rel), SHA256: sum})
		return nil
	})
	if err != nil {
		return 0, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	t.staged = entries
	return len(entries), nil
}

// TreeHash hashes the sorted "<sha256> <path>" lines of a manifest.
func TreeHash(entries []ManifestEntry) string {
	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s %s\n", e.SHA256, e.Path)
	}
	return checksum.Sum(buf.Bytes())
}

func (t *manifestTree) Commit(message string, id *Identity) (Snapshot, error) {
	if id == nil {
		var err error
		if id, err = ambientIdentity(); err != nil {
			return Snapshot{}, err
		}
	}
	files := t.staged
	if files == nil {
		files = []ManifestEntry{}
	}

	snap := ManifestSnapshot{
		ID:      uuid.NewString(),
		Tree:    TreeHash(files),
		Message: message,
		Author:  id.String(),
		Time:    time.Now().UTC(),
		Files:   files,
	}
	line, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, err
	}

	f, err := os.OpenFile(filepath.Join(t.dir, SnapshotLog), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return Snapshot{}, err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return Snapshot{}, err
	}
	if err := f.Close(); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Commit: snap.ID, Tree: snap.Tree, Author: *id}, nil
}

// ReadManifestLog returns the snapshots recorded in dir.
func ReadManifestLog(dir string) ([]ManifestSnapshot, error) {
	data, err := os.ReadFile(filepath.Join(dir, SnapshotLog))
	if err != nil {
		return nil, err
	}
	var out []ManifestSnapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var s ManifestSnapshot
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
