// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package cgen generates synthetic C projects: a random directory tree of
// headers and sources with plausible #include graphs. Useful as pipeline
// input when no real project is at hand.
package cgen

import (
	"bytes"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/emselab/kpreproc/pkg/osutil"
)

// Options control the shape of a generated project.
// The same Seed always produces the same tree.
type Options struct {
	Dirs          int
	Headers       int
	SourceFiles   int
	SystemHeaders []string
	Seed          int64
}

var DefaultOptions = Options{
	Dirs:          3,
	Headers:       5,
	SourceFiles:   3,
	SystemHeaders: []string{"stdio.h", "stdlib.h", "string.h"},
}

// Generate creates a synthetic C project in dir: Options.Dirs nested
// subdirectories, Options.Headers header files and Options.SourceFiles
// source files scattered across them, plus main.c in the root. Every source
// file includes a random subset of the generated headers by relative path
// and up to 3 of the system headers.
func Generate(dir string, opts Options) error {
	rnd := rand.New(rand.NewSource(opts.Seed))
	if err := osutil.MkdirAll(dir); err != nil {
		return err
	}
	dirs := []string{dir}
	for i := 0; i < opts.Dirs; i++ {
		sub := filepath.Join(dirs[rnd.Intn(len(dirs))], randName(rnd, "dir_"))
		if err := osutil.MkdirAll(sub); err != nil {
			return err
		}
		dirs = append(dirs, sub)
	}
	var headers []string
	for i := 0; i < opts.Headers; i++ {
		path := filepath.Join(dirs[rnd.Intn(len(dirs))], randName(rnd, "")+".h")
		if err := writeHeader(rnd, path); err != nil {
			return err
		}
		headers = append(headers, path)
	}
	for i := 0; i < opts.SourceFiles; i++ {
		path := filepath.Join(dirs[rnd.Intn(len(dirs))], randName(rnd, "")+".c")
		if err := writeSource(rnd, path, headers, opts.SystemHeaders, false); err != nil {
			return err
		}
	}
	return writeSource(rnd, filepath.Join(dir, "main.c"), headers, opts.SystemHeaders, true)
}

func writeHeader(rnd *rand.Rand, path string) error {
	guard := strings.ToUpper(strings.ReplaceAll(filepath.Base(path), ".", "_"))
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "#ifndef %v\n#define %v\n\n", guard, guard)
	for i := rnd.Intn(5) + 1; i > 0; i-- {
		fmt.Fprintf(buf, "void %v(void);\n", randName(rnd, "func_"))
	}
	fmt.Fprintf(buf, "\n#endif\n")
	return osutil.WriteFile(path, buf.Bytes())
}

func writeSource(rnd *rand.Rand, path string, headers, systemHeaders []string, isMain bool) error {
	buf := new(bytes.Buffer)
	if len(systemHeaders) > 0 {
		selected := sample(rnd, systemHeaders, rnd.Intn(min(len(systemHeaders), 3)+1))
		for _, header := range selected {
			fmt.Fprintf(buf, "#include <%v>\n", header)
		}
		if len(selected) > 0 {
			fmt.Fprintf(buf, "\n")
		}
	}
	if len(headers) > 0 {
		for _, header := range sample(rnd, headers, rnd.Intn(len(headers))+1) {
			rel, err := filepath.Rel(filepath.Dir(path), header)
			if err != nil {
				return err
			}
			fmt.Fprintf(buf, "#include %q\n", filepath.ToSlash(rel))
		}
		fmt.Fprintf(buf, "\n")
	}
	if isMain {
		fmt.Fprintf(buf, "int main(void) {\n\treturn 0;\n}\n")
	} else {
		for i := rnd.Intn(3) + 1; i > 0; i-- {
			fmt.Fprintf(buf, "void %v(void) {\n}\n\n", randName(rnd, "func_"))
		}
	}
	return osutil.WriteFile(path, buf.Bytes())
}

func randName(rnd *rand.Rand, prefix string) string {
	const chars = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 8)
	for i := range name {
		name[i] = chars[rnd.Intn(len(chars))]
	}
	return prefix + string(name)
}

// sample returns n distinct random elements of list preserving no particular
// order.
func sample(rnd *rand.Rand, list []string, n int) []string {
	perm := rnd.Perm(len(list))
	selected := make([]string, n)
	for i := 0; i < n; i++ {
		selected[i] = list[perm[i]]
	}
	return selected
}
