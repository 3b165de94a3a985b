// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// kpp-batch runs the preprocessor over every project × kernel version
// combination from two manifests. Individual task failures don't stop the
// batch; the final statistics report them.
package main

import (
	"flag"
	"os"

	"github.com/emselab/kpreproc/pkg/batch"
	"github.com/emselab/kpreproc/pkg/config"
	"github.com/emselab/kpreproc/pkg/tool"
)

var (
	flagConfig    = flag.String("config", "", "JSON config file (overrides the other flags)")
	flagProjects  = flag.String("projects", "", "file listing project directories")
	flagKernels   = flag.String("kernels", "", "file listing kernel versions")
	flagKernelDir = flag.String("kerneldir", "", "base directory of the kernel trees")
	flagArch      = flag.String("arch", batch.DefaultArch, "target architecture")
	flagLogDir    = flag.String("logdir", batch.DefaultLogDir, "directory for per-task logs")
	flagOutput    = flag.String("output", "", "output directory passed to the preprocessor")
	flagBin       = flag.String("bin", "", "preprocessor binary")
	flagDump      = flag.String("dump", "", "write the assembled config to this file and exit")
)

func main() {
	flag.Parse()
	cfg, err := makeConfig()
	if err != nil {
		tool.Fail(err)
	}
	if *flagDump != "" {
		if err := config.SaveFile(*flagDump, cfg); err != nil {
			tool.Fail(err)
		}
		return
	}
	// Per-task failures are part of the printed statistics, not an exit code.
	if _, err := batch.Run(cfg, batch.NewBar(os.Stdout)); err != nil {
		tool.Fail(err)
	}
}

func makeConfig() (*batch.Config, error) {
	if *flagConfig != "" {
		return batch.LoadConfig(*flagConfig)
	}
	if *flagProjects == "" || *flagKernels == "" || *flagKernelDir == "" {
		tool.Failf("usage: kpp-batch -projects FILE -kernels FILE -kerneldir DIR [-arch ARCH] [-logdir DIR]")
	}
	return &batch.Config{
		ProjectsFile: *flagProjects,
		KernelsFile:  *flagKernels,
		KernelDir:    *flagKernelDir,
		Arch:         *flagArch,
		LogDir:       *flagLogDir,
		OutputDir:    *flagOutput,
		Bin:          *flagBin,
	}, nil
}
