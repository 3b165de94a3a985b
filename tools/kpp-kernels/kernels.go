// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// kpp-kernels downloads and optionally configures the kernel source trees
// listed in a version manifest. Trees already present are left alone, so the
// tool can be re-run after an interrupted download session.
package main

import (
	"flag"
	"time"

	"github.com/emselab/kpreproc/pkg/kernel"
	"github.com/emselab/kpreproc/pkg/log"
	"github.com/emselab/kpreproc/pkg/manifest"
	"github.com/emselab/kpreproc/pkg/tool"
)

var (
	flagVersions  = flag.String("versions", "", "file listing kernel versions, one per line")
	flagDir       = flag.String("dir", "kernels", "directory to place the kernel trees in")
	flagArch      = flag.String("arch", "x86", "architecture to configure for")
	flagConfigure = flag.Bool("configure", false, "run make defconfig/modules_prepare after extraction")
	flagTimeout   = flag.Duration("timeout", 30*time.Minute, "per-make-invocation timeout")
)

func main() {
	flag.Parse()
	if *flagVersions == "" {
		tool.Failf("usage: kpp-kernels -versions FILE [-dir DIR] [-arch ARCH] [-configure]")
	}
	versions, err := manifest.Load(*flagVersions)
	if err != nil {
		tool.Fail(err)
	}
	failed := 0
	for _, version := range versions {
		if err := prepare(version); err != nil {
			log.Logf(0, "warning: kernel %v: %v", version, err)
			failed++
		}
	}
	log.Logf(0, "prepared %v kernels, %v failed", len(versions)-failed, failed)
	if failed == len(versions) && len(versions) > 0 {
		tool.Failf("all kernel preparations failed")
	}
}

func prepare(version string) error {
	dir, err := kernel.Download(*flagDir, version)
	if err != nil {
		return err
	}
	if !*flagConfigure {
		return nil
	}
	tree, err := kernel.NewTree(dir)
	if err != nil {
		return err
	}
	return tree.Configure(*flagArch, *flagTimeout)
}
