// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package batch

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 50

// Bar renders a terminal progress bar. It implements Reporter and only
// touches the writer; all counting happens in Run.
type Bar struct {
	w     io.Writer
	total int
	done  int
}

func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

func (b *Bar) Start(total int) {
	b.total = total
	b.done = 0
	b.render()
}

func (b *Bar) Task(project, version string) {
}

func (b *Bar) Done(ok bool) {
	b.done++
	b.render()
}

func (b *Bar) Finish(stats *Stats) {
	fmt.Fprintf(b.w, "\nPreprocessing completed!\n")
	fmt.Fprintf(b.w, "Statistics:\n")
	fmt.Fprintf(b.w, "- Total tasks: %v\n", stats.Total)
	fmt.Fprintf(b.w, "- Successful: %v\n", stats.Successful)
	fmt.Fprintf(b.w, "- Failed: %v\n", stats.Failed)
}

func (b *Bar) render() {
	if b.total == 0 {
		return
	}
	filled := barWidth * b.done / b.total
	bar := strings.Repeat("█", filled) + strings.Repeat("-", barWidth-filled)
	fmt.Fprintf(b.w, "\rProcessing |%v| %v/%v", bar, b.done, b.total)
}
