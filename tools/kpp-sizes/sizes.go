// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// kpp-sizes reports how many source files a corpus tree contains and their
// total size in human-readable form.
package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/emselab/kpreproc/pkg/sizes"
	"github.com/emselab/kpreproc/pkg/tool"
)

var (
	flagDir  = flag.String("dir", ".", "directory to measure")
	flagExts = flag.String("ext", ".c,.h", "comma-separated list of file extensions to count, empty for all")
)

func main() {
	flag.Parse()
	var exts []string
	for _, ext := range strings.Split(*flagExts, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			exts = append(exts, ext)
		}
	}
	total, count, err := sizes.DirSize(*flagDir, exts)
	if err != nil {
		tool.Fail(err)
	}
	fmt.Printf("%v: %v files, %v\n", *flagDir, count, total)
}
