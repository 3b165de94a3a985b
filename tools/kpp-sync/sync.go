// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// kpp-sync stages the project directories listed in a manifest from a base
// tree into a working tree, skipping ones already present.
package main

import (
	"flag"
	"fmt"

	"github.com/emselab/kpreproc/pkg/projsync"
	"github.com/emselab/kpreproc/pkg/tool"
)

var (
	flagBase     = flag.String("base", "repos", "directory containing the project subdirectories")
	flagManifest = flag.String("manifest", "", "file listing project directory names, one per line")
	flagDest     = flag.String("dest", "", "destination directory")
)

func main() {
	flag.Parse()
	if *flagManifest == "" || *flagDest == "" {
		tool.Failf("usage: kpp-sync -manifest FILE -dest DIR [-base DIR]")
	}
	res, err := projsync.Sync(*flagBase, *flagManifest, *flagDest, nil)
	if err != nil {
		tool.Fail(err)
	}
	for _, entry := range res.Entries {
		fmt.Printf("%v: %v\n", entry.Name, entry.Status)
	}
	fmt.Printf("total: %v, copied: %v, skipped: %v, not found: %v\n",
		res.Total, res.Copied, res.Skipped, res.NotFound)
}
