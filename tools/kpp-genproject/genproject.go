// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// kpp-genproject generates a synthetic C project with a random directory
// structure and #include graph, for exercising the preprocessing pipeline
// without a real project.
package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/emselab/kpreproc/pkg/cgen"
	"github.com/emselab/kpreproc/pkg/tool"
)

var (
	flagOutput  = flag.String("output", "dummy_c_project", "output directory for the generated project")
	flagDirs    = flag.Int("dirs", cgen.DefaultOptions.Dirs, "number of subdirectories to create")
	flagHeaders = flag.Int("headers", cgen.DefaultOptions.Headers, "number of header files to generate")
	flagSources = flag.Int("sources", cgen.DefaultOptions.SourceFiles, "number of .c files to generate (excluding main.c)")
	flagSystem  = flag.String("system", strings.Join(cgen.DefaultOptions.SystemHeaders, ","),
		"comma-separated system headers to randomly include")
	flagSeed = flag.Int64("seed", 0, "random seed, 0 means time-based")
)

func main() {
	flag.Parse()
	opts := cgen.Options{
		Dirs:        *flagDirs,
		Headers:     *flagHeaders,
		SourceFiles: *flagSources,
		Seed:        *flagSeed,
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	for _, header := range strings.Split(*flagSystem, ",") {
		if header = strings.TrimSpace(header); header != "" {
			opts.SystemHeaders = append(opts.SystemHeaders, header)
		}
	}
	if err := cgen.Generate(*flagOutput, opts); err != nil {
		tool.Fail(err)
	}
	fmt.Printf("Generated dummy C project in %v/\n", *flagOutput)
	fmt.Printf("- %v subdirectories\n", opts.Dirs)
	fmt.Printf("- %v header files\n", opts.Headers)
	fmt.Printf("- %v C files (including main.c)\n", opts.SourceFiles+1)
}
