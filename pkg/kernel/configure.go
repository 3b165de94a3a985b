// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kernel

import (
	"fmt"
	"time"

	"github.com/emselab/kpreproc/pkg/log"
	"github.com/emselab/kpreproc/pkg/osutil"
)

// Configure prepares the tree for preprocessing against arch: make defconfig
// populates .config and make modules_prepare generates the headers under
// include/generated and arch/<arch>/include/generated that the include-path
// resolution expects.
func (t *Tree) Configure(arch string, timeout time.Duration) error {
	for _, target := range []string{"defconfig", "modules_prepare"} {
		log.Logf(1, "running make %v ARCH=%v in %v", target, arch, t.Dir)
		if _, err := osutil.RunCmd(timeout, t.Dir, "make", target, "ARCH="+arch); err != nil {
			return osutil.PrependContext(fmt.Sprintf("make %v failed in %v", target, t.Dir), err)
		}
	}
	return nil
}
