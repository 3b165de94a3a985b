// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package kernel deals with Linux kernel source trees: locating include
// directories for a target architecture, and downloading/configuring trees
// for a set of kernel versions.
package kernel

import (
	"fmt"
	"path/filepath"

	"github.com/emselab/kpreproc/pkg/log"
	"github.com/emselab/kpreproc/pkg/osutil"
)

// Tree is a kernel source checkout laid out in the standard kernel shape
// (include/, arch/<arch>/include/...).
type Tree struct {
	Dir string
}

func NewTree(dir string) (*Tree, error) {
	if !osutil.IsDir(dir) {
		return nil, fmt.Errorf("kernel source directory %v does not exist", dir)
	}
	return &Tree{Dir: dir}, nil
}

// IncludePaths returns the ordered include search directories for arch,
// ending with the project directory itself. The order mirrors compiler
// include-search precedence and must not change. Candidates missing on disk
// are omitted with a warning; every returned path is absolute and exists.
func (t *Tree) IncludePaths(arch, projectDir string) ([]string, error) {
	if !osutil.IsDir(projectDir) {
		return nil, fmt.Errorf("project directory %v does not exist", projectDir)
	}
	candidates := []string{
		filepath.Join(t.Dir, "include"),
		filepath.Join(t.Dir, "arch", arch, "include"),
		filepath.Join(t.Dir, "arch", arch, "include", "generated"),
		filepath.Join(t.Dir, "include", "generated"),
		filepath.Join(t.Dir, "arch", arch, "include", "uapi"),
		filepath.Join(t.Dir, "include", "asm-generic"),
		projectDir,
	}
	var paths []string
	for _, dir := range candidates {
		if !osutil.IsDir(dir) {
			log.Logf(0, "warning: include directory not found: %v", dir)
			continue
		}
		paths = append(paths, osutil.Abs(dir))
	}
	return paths, nil
}
