// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package sizes computes corpus size statistics: how many source files a
// tree contains and how many bytes they occupy. Formatting is separate from
// accounting so callers can aggregate raw byte counts.
package sizes

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ByteSize is a byte count that formats itself in human-readable 1024-based
// units.
type ByteSize uint64

func (b ByteSize) String() string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", uint64(b))
	}
	div, exp := uint64(unit), 0
	for n := uint64(b) / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// DirSize walks dir and sums the sizes of regular files whose extension is
// in exts (e.g. ".c", ".h"); an empty exts counts every regular file.
// Symlinks are not followed.
func DirSize(dir string, exts []string) (ByteSize, int, error) {
	want := make(map[string]bool)
	for _, ext := range exts {
		want[strings.ToLower(ext)] = true
	}
	var total ByteSize
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(want) != 0 && !want[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += ByteSize(info.Size())
		count++
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to walk %v: %w", dir, err)
	}
	return total, count, nil
}
