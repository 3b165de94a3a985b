// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package manifest reads newline-delimited lists of project names and kernel
// versions.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load returns the non-blank lines of file in order, trimmed of surrounding
// whitespace and carriage returns. Duplicates are preserved.
func Load(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	defer f.Close()
	var entries []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest %v: %w", file, err)
	}
	return entries, nil
}
