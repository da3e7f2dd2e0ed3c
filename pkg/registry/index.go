package registry

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strconv"

	"github.com/krig/cargo-vendor/pkg/errors"
)

// IndexFile returns the OS path of name's index file under indexRoot.
func IndexFile(indexRoot, name string) (string, error) {
	shard, err := ShardPath(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(indexRoot, filepath.FromSlash(shard)), nil
}

// AppendRecord appends rec as one line to its index file under indexRoot,
// creating the file and its parents if needed. Existing lines are never
// touched. It returns the path written.
func AppendRecord(indexRoot string, rec *PackageRecord) (string, error) {
	dst, err := IndexFile(indexRoot, rec.Name)
	if err != nil {
		return "", err
	}
	line, err := Encode(rec)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "create %s", filepath.Dir(dst))
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "open %s", dst)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return "", errors.Wrap(errors.ErrCodeIO, err, "append to %s", dst)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "close %s", dst)
	}
	return dst, nil
}

// ReadRecords returns every record in name's index file, in file order.
// A missing file yields no records and no error.
func ReadRecords(indexRoot, name string) ([]*PackageRecord, error) {
	path, err := IndexFile(indexRoot, name)
	if err != nil {
		return nil, err
	}
	return ReadFile(path)
}

// ReadFile parses an index file.
func ReadFile(path string) ([]*PackageRecord, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}

	var recs []*PackageRecord
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := Decode(line)
		if err != nil {
			return nil, errors.Annotate(err, "line", filepath.Base(path)+":"+strconv.Itoa(n))
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "scan %s", path)
	}
	return recs, nil
}

// Walk calls fn for every index file under indexRoot. Hidden entries
// (".git", ".snapshots") and config.json are skipped.
func Walk(indexRoot string, fn func(path string, recs []*PackageRecord) error) error {
	return filepath.WalkDir(indexRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != indexRoot && len(name) > 0 && name[0] == '.' {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || (filepath.Dir(path) == indexRoot && name == ConfigFile) {
			return nil
		}
		recs, err := ReadFile(path)
		if err != nil {
			return err
		}
		return fn(path, recs)
	})
}
