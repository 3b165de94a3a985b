// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// kpp-run preprocesses one project against a prepared kernel tree: it
// resolves the include paths for the target architecture, invokes the
// external preprocessor and reports its summary. The tool's exit code is
// propagated.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/emselab/kpreproc/pkg/kernel"
	"github.com/emselab/kpreproc/pkg/preproc"
	"github.com/emselab/kpreproc/pkg/tool"
)

var (
	flagKernel   = flag.String("kernel", "", "kernel source tree")
	flagProject  = flag.String("project", "", "project directory to preprocess")
	flagArch     = flag.String("arch", "x86", "target architecture")
	flagOutput   = flag.String("output", "", "output directory for preprocessed files (optional)")
	flagFile     = flag.String("file", "", "process only this file instead of the whole project")
	flagLogLevel = flag.Int("loglevel", 0, "numeric log level passed to the preprocessor")
	flagLog      = flag.String("log", "", "log file for the preprocessor output")
	flagAppend   = flag.Bool("append", false, "append to the log file instead of truncating it")
	flagBin      = flag.String("bin", preproc.DefaultBin, "preprocessor binary")
	flagTimeout  = flag.Duration("timeout", preproc.DefaultTimeout, "per-invocation timeout")
)

func main() {
	flag.Parse()
	if *flagKernel == "" || *flagProject == "" {
		tool.Failf("usage: kpp-run -kernel DIR -project DIR [-arch ARCH] [-output DIR] [-file FILE] [-log FILE]")
	}
	tree, err := kernel.NewTree(*flagKernel)
	if err != nil {
		tool.Fail(err)
	}
	includes, err := tree.IncludePaths(*flagArch, *flagProject)
	if err != nil {
		tool.Fail(err)
	}
	summary, err := preproc.Invoke(preproc.Config{
		Bin:          *flagBin,
		ProjectDir:   *flagProject,
		IncludePaths: includes,
		Arch:         *flagArch,
		OutputDir:    *flagOutput,
		SingleFile:   *flagFile,
		LogLevel:     *flagLogLevel,
		LogFile:      *flagLog,
		AppendLog:    *flagAppend,
		Timeout:      *flagTimeout,
	})
	if err != nil {
		var invErr *preproc.Error
		if errors.As(err, &invErr) {
			fmt.Fprintf(os.Stderr, "%v\n", invErr)
			code := invErr.ExitCode
			if code == 0 {
				code = 1
			}
			os.Exit(code)
		}
		tool.Fail(err)
	}
	fmt.Printf("Successfully processed: %v\n", summary.Processed)
	fmt.Printf("Skipped: %v\n", summary.Skipped)
	fmt.Printf("log: %v\n", summary.LogFile)
}
