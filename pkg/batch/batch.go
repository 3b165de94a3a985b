// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package batch runs the preprocessor over every project × kernel version
// combination from two manifests. Individual task failures are reported and
// the batch moves on; only setup errors abort the run.
package batch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/emselab/kpreproc/pkg/config"
	"github.com/emselab/kpreproc/pkg/kernel"
	"github.com/emselab/kpreproc/pkg/log"
	"github.com/emselab/kpreproc/pkg/manifest"
	"github.com/emselab/kpreproc/pkg/osutil"
	"github.com/emselab/kpreproc/pkg/preproc"
)

const (
	DefaultArch   = "x86"
	DefaultLogDir = "preprocessing_logs"
)

type Config struct {
	ProjectsFile string `json:"projects"`
	KernelsFile  string `json:"kernel_versions"`
	KernelDir    string `json:"kernel_dir"`
	Arch         string `json:"arch"`         // DefaultArch if empty
	LogDir       string `json:"log_dir"`      // DefaultLogDir if empty
	OutputDir    string `json:"output_dir"`   // optional, forwarded to the tool
	Bin          string `json:"preprocessor"` // tool binary override
	LogLevel     int    `json:"log_level"`
	TimeoutMin   int    `json:"timeout_minutes"` // per-task timeout, 0 = default
}

// LoadConfig reads a JSON batch config and applies defaults.
func LoadConfig(file string) (*Config, error) {
	cfg := &Config{}
	if err := config.LoadFile(file, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Stats describes a completed batch.
// Invariant: Total == Successful + Failed.
type Stats struct {
	Total      int
	Successful int
	Failed     int
}

// Reporter receives progress events. Implementations are purely
// presentational; the batch counts do not depend on them.
type Reporter interface {
	Start(total int)
	Task(project, version string)
	Done(ok bool)
	Finish(stats *Stats)
}

// Run executes the batch described by cfg. rep may be nil.
func Run(cfg *Config, rep Reporter) (*Stats, error) {
	if rep == nil {
		rep = nopReporter{}
	}
	arch := cfg.Arch
	if arch == "" {
		arch = DefaultArch
	}
	logDir := cfg.LogDir
	if logDir == "" {
		logDir = DefaultLogDir
	}
	timeout := time.Duration(cfg.TimeoutMin) * time.Minute
	projects, err := manifest.Load(cfg.ProjectsFile)
	if err != nil {
		return nil, err
	}
	versions, err := manifest.Load(cfg.KernelsFile)
	if err != nil {
		return nil, err
	}
	if !osutil.IsDir(cfg.KernelDir) {
		return nil, fmt.Errorf("kernel base directory %v does not exist", cfg.KernelDir)
	}
	if err := osutil.MkdirAll(logDir); err != nil {
		return nil, err
	}
	stats := &Stats{Total: len(projects) * len(versions)}
	rep.Start(stats.Total)
	for _, project := range projects {
		for _, version := range versions {
			rep.Task(project, version)
			ok := runTask(cfg, project, version, arch, logDir, timeout)
			if ok {
				stats.Successful++
			} else {
				stats.Failed++
			}
			rep.Done(ok)
		}
	}
	rep.Finish(stats)
	return stats, nil
}

func runTask(cfg *Config, project, version, arch, logDir string, timeout time.Duration) bool {
	kernelPath := resolveKernel(cfg.KernelDir, version)
	if kernelPath == "" {
		log.Logf(0, "warning: kernel directory not found for version %v in %v", version, cfg.KernelDir)
		return false
	}
	if !osutil.IsDir(project) {
		log.Logf(0, "warning: project directory not found: %v", project)
		return false
	}
	tree, err := kernel.NewTree(kernelPath)
	if err != nil {
		log.Logf(0, "warning: %v", err)
		return false
	}
	includes, err := tree.IncludePaths(arch, project)
	if err != nil {
		log.Logf(0, "warning: %v", err)
		return false
	}
	logFile := filepath.Join(logDir, fmt.Sprintf("%v_%v.log", filepath.Base(project), version))
	log.Logf(0, "processing %v with kernel %v", project, version)
	summary, err := preproc.Invoke(preproc.Config{
		Bin:          cfg.Bin,
		ProjectDir:   project,
		IncludePaths: includes,
		Arch:         arch,
		OutputDir:    cfg.OutputDir,
		LogLevel:     cfg.LogLevel,
		LogFile:      logFile,
		Timeout:      timeout,
	})
	if err != nil {
		log.Logf(0, "error while processing %v with %v: %v", project, version, err)
		return false
	}
	log.Logf(0, "%v with %v: successfully processed %v, skipped %v",
		project, version, summary.Processed, summary.Skipped)
	return true
}

// resolveKernel accepts both plain version numbers ("6.1") and full tree
// directory names ("linux-6.1") in the kernel versions manifest.
func resolveKernel(kernelDir, version string) string {
	for _, name := range []string{version, "linux-" + version} {
		if dir := filepath.Join(kernelDir, name); osutil.IsDir(dir) {
			return dir
		}
	}
	return ""
}

type nopReporter struct{}

func (nopReporter) Start(total int) {}

func (nopReporter) Task(project, version string) {}

func (nopReporter) Done(ok bool) {}

func (nopReporter) Finish(stats *Stats) {}
