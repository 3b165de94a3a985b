// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// kpp-checkdeps cross-checks a preprocessing log against the project tree:
// for every "missing project dependency" the log reports, it prints where
// (if anywhere) a header with that name actually lives in the project.
package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/emselab/kpreproc/pkg/deps"
	"github.com/emselab/kpreproc/pkg/tool"
)

var (
	flagLog     = flag.String("log", "", "preprocessing log file to analyze")
	flagProject = flag.String("project", "", "project root directory")
)

func main() {
	flag.Parse()
	if *flagLog == "" || *flagProject == "" {
		tool.Failf("usage: kpp-checkdeps -log FILE -project DIR")
	}
	checks, err := deps.Analyze(*flagLog, *flagProject)
	if err != nil {
		tool.Fail(err)
	}
	fmt.Printf("Analyzing log file: %v\n", *flagLog)
	fmt.Printf("Project path: %v\n\n", *flagProject)
	if len(checks) == 0 {
		fmt.Printf("No missing project dependencies found in the log.\n")
		return
	}
	fmt.Printf("Found %v missing project dependencies:\n", len(checks))
	for _, check := range checks {
		fmt.Printf("%v\n", strings.Repeat("-", 40))
		if check.SameName {
			fmt.Printf("Skipping dependency: %v\n", check.Header)
			fmt.Printf("  Reason: same name as including file %v\n", check.File)
			continue
		}
		fmt.Printf("Checking dependency: %v\n", check.Header)
		fmt.Printf("  Including file: %v\n", check.File)
		if len(check.Found) == 0 {
			fmt.Printf("  Not found in project\n")
			continue
		}
		fmt.Printf("  Found %v occurrences:\n", len(check.Found))
		for _, path := range check.Found {
			fmt.Printf("    - %v\n", path)
		}
	}
}
