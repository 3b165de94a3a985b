// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package deps analyzes preprocessing logs for missing project dependencies
// and checks whether the reported headers actually exist somewhere in the
// project tree. Headers frequently resolve under a different directory than
// the #include directive names, so "missing" in the log often means
// "misplaced".
package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/emselab/kpreproc/pkg/osutil"
)

// Missing is one unresolved #include from a preprocessing log: the file that
// was being processed and the header it failed to find.
type Missing struct {
	File   string
	Header string
}

// The preprocessor reports a failed include as a line
//	Failed: missing project dependency "some/header.h"
// directly below the "Processing file.c" line for the including file.
var missingRe = regexp.MustCompile(`Processing ([^\n]+)\n.*?Failed: missing project dependency "([^"]+)"`)

// ParseLog extracts all missing project dependencies from a preprocessing log.
func ParseLog(data []byte) []Missing {
	var missing []Missing
	for _, match := range missingRe.FindAllSubmatch(data, -1) {
		missing = append(missing, Missing{
			File:   string(match[1]),
			Header: string(match[2]),
		})
	}
	return missing
}

// Check is the result of locating one missing dependency in the project.
type Check struct {
	Missing
	// The header has the same base name as the including file, which is
	// how the preprocessor reports a file whose own rewrite failed.
	// Such entries are not searched for.
	SameName bool
	// Paths in the project whose base name matches the missing header.
	Found []string
}

// Analyze parses logFile and locates every missing header it reports in
// projectDir.
func Analyze(logFile, projectDir string) ([]Check, error) {
	data, err := os.ReadFile(logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	if !osutil.IsDir(projectDir) {
		return nil, fmt.Errorf("project directory %v does not exist", projectDir)
	}
	var checks []Check
	for _, miss := range ParseLog(data) {
		check := Check{Missing: miss}
		if filepath.Base(miss.Header) == filepath.Base(miss.File) {
			check.SameName = true
			checks = append(checks, check)
			continue
		}
		check.Found, err = FindFile(projectDir, miss.Header)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// FindFile returns every path under dir whose base name matches the base
// name of name, in sorted order.
func FindFile(dir, name string) ([]string, error) {
	base := filepath.Base(name)
	var found []string
	var walk func(dir string) error
	walk = func(dir string) error {
		files, err := osutil.ListDir(dir)
		if err != nil {
			return err
		}
		sort.Strings(files)
		for _, file := range files {
			path := filepath.Join(dir, file)
			st, err := os.Lstat(path)
			if err != nil {
				return err
			}
			// Symlinked directories are not descended into to avoid loops.
			if st.IsDir() {
				if err := walk(path); err != nil {
					return err
				}
				continue
			}
			if file == base {
				found = append(found, path)
			}
		}
		return nil
	}
	if err := walk(dir); err != nil {
		return nil, err
	}
	return found, nil
}
