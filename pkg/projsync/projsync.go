// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package projsync stages project directories listed in a manifest from a base
// tree into a destination tree. Re-running after a partial run is safe:
// directories already present in the destination are skipped.
package projsync

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/emselab/kpreproc/pkg/log"
	"github.com/emselab/kpreproc/pkg/manifest"
	"github.com/emselab/kpreproc/pkg/osutil"
)

type Status int

const (
	Copied Status = iota
	Skipped
	NotFound
)

func (s Status) String() string {
	switch s {
	case Copied:
		return "copied"
	case Skipped:
		return "skipped"
	case NotFound:
		return "not found"
	}
	return fmt.Sprintf("unknown status %v", int(s))
}

type Entry struct {
	Name   string
	Status Status
}

// Result describes one sync run.
// Invariant: Total == Copied + Skipped + NotFound.
type Result struct {
	Total    int
	Copied   int
	Skipped  int
	NotFound int
	Entries  []Entry
}

// Sync copies the project directories listed in manifestFile from baseDir
// into destDir. Missing source directories are reported, not fatal. The
// progress callback is cosmetic and may be nil.
func Sync(baseDir, manifestFile, destDir string, progress func(done, total int)) (*Result, error) {
	if !osutil.IsDir(baseDir) {
		return nil, fmt.Errorf("base directory %v does not exist", baseDir)
	}
	if !osutil.IsRegularFile(manifestFile) {
		return nil, fmt.Errorf("manifest file %v does not exist", manifestFile)
	}
	if err := checkDest(baseDir, destDir); err != nil {
		return nil, err
	}
	entries, err := manifest.Load(manifestFile)
	if err != nil {
		return nil, err
	}
	if err := osutil.MkdirAll(destDir); err != nil {
		return nil, fmt.Errorf("failed to create destination %v: %w", destDir, err)
	}
	res := &Result{}
	for _, name := range entries {
		status, err := syncOne(baseDir, destDir, name)
		if err != nil {
			return nil, err
		}
		res.Total++
		res.Entries = append(res.Entries, Entry{Name: name, Status: status})
		switch status {
		case Copied:
			res.Copied++
		case Skipped:
			res.Skipped++
		case NotFound:
			res.NotFound++
		}
		if progress != nil {
			progress(res.Total, len(entries))
		}
	}
	return res, nil
}

func syncOne(baseDir, destDir, name string) (Status, error) {
	src := filepath.Join(baseDir, name)
	if !osutil.IsDir(src) {
		log.Logf(0, "warning: project directory not found: %v", src)
		return NotFound, nil
	}
	dst := filepath.Join(destDir, name)
	if osutil.IsExist(dst) {
		log.Logf(1, "%v already present, skipping", dst)
		return Skipped, nil
	}
	if err := osutil.CopyDirRecursively(src, dst); err != nil {
		return 0, fmt.Errorf("failed to copy %v: %w", name, err)
	}
	return Copied, nil
}

// checkDest rejects destinations that alias the base directory or live inside
// it, which would make the copy recurse into itself. Comparison is done on
// canonical paths so different spellings of the same directory are caught.
func checkDest(baseDir, destDir string) error {
	base, err := canonical(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve %v: %w", baseDir, err)
	}
	dest, err := canonical(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve %v: %w", destDir, err)
	}
	if dest == base {
		return fmt.Errorf("destination %v is the base directory", destDir)
	}
	rel, err := filepath.Rel(base, dest)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("destination %v is inside the base directory %v", destDir, baseDir)
	}
	return nil
}

// canonical resolves path to an absolute, symlink-free form. Trailing
// components that don't exist yet are tolerated so a destination that is
// about to be created can still be compared against the base tree.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir, rest := abs, ""
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", err
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}
