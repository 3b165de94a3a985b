// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package preproc wraps the external C preprocessor: it builds the argument
// list, captures the tool's combined output into a log file and turns its
// exit status and summary lines into typed results.
package preproc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/emselab/kpreproc/pkg/log"
	"github.com/emselab/kpreproc/pkg/osutil"
	"github.com/google/uuid"
)

const (
	DefaultBin     = "preprocessor"
	DefaultTimeout = time.Hour
	// How many trailing log lines to surface when the tool fails.
	logTailLines = 20
)

// Config describes one invocation of the external preprocessor.
type Config struct {
	Bin          string   // tool binary, DefaultBin if empty
	ProjectDir   string   // project to process
	IncludePaths []string // ordered include directories
	Arch         string   // target architecture, informational
	OutputDir    string   // optional output directory
	SingleFile   string   // optional: process exactly this file
	LogLevel     int      // optional numeric verbosity for the tool, 0 = unset
	LogFile      string   // combined tool output goes here; auto-generated if empty
	AppendLog    bool     // append to LogFile instead of truncating it
	Timeout      time.Duration
}

// Summary is the success report extracted from the tool's log.
type Summary struct {
	Processed int
	Skipped   int
	LogFile   string
}

// Error reports a failed invocation with the tool's exit code and the tail
// of its log for diagnosis. It is terminal: the invocation is never retried.
type Error struct {
	ExitCode int
	LogFile  string
	LogTail  string
}

func (err *Error) Error() string {
	if err.LogTail == "" {
		return fmt.Sprintf("preprocessor exited with code %v (log: %v)", err.ExitCode, err.LogFile)
	}
	return fmt.Sprintf("preprocessor exited with code %v (log: %v)\n%v", err.ExitCode, err.LogFile, err.LogTail)
}

// Invoke runs the external preprocessor according to cfg. On success it
// returns the parsed summary; on tool failure it returns *Error.
func Invoke(cfg Config) (*Summary, error) {
	if !osutil.IsDir(cfg.ProjectDir) {
		return nil, fmt.Errorf("project directory %v does not exist", cfg.ProjectDir)
	}
	if cfg.SingleFile != "" && !osutil.IsRegularFile(cfg.SingleFile) {
		return nil, fmt.Errorf("file %v does not exist", cfg.SingleFile)
	}
	bin := cfg.Bin
	if bin == "" {
		bin = DefaultBin
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(os.TempDir(), fmt.Sprintf("preproc-%v.log", uuid.New().String()[:8]))
	}
	mode := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if cfg.AppendLog {
		mode = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	logf, err := os.OpenFile(logFile, mode, osutil.DefaultFilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer logf.Close()
	fmt.Fprintf(logf, "=== preprocessing %v (arch %v) at %v ===\n",
		cfg.ProjectDir, cfg.Arch, time.Now().Format(time.RFC3339))

	args := buildArgs(cfg)
	log.Logf(1, "invoking %v %v", bin, strings.Join(args, " "))
	cmd := osutil.Command(bin, args...)
	cmd.Stdout = logf
	cmd.Stderr = logf
	if _, err := osutil.Run(timeout, cmd); err != nil {
		verbose, ok := err.(*osutil.VerboseError)
		if !ok {
			return nil, err
		}
		return nil, &Error{
			ExitCode: verbose.ExitCode,
			LogFile:  logFile,
			LogTail:  logTail(logFile, logTailLines),
		}
	}
	summary, err := parseSummary(logFile)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// buildArgs translates cfg into the tool's command line. The include paths
// keep their resolution order; the tool relies on it.
func buildArgs(cfg Config) []string {
	args := []string{"--project-path", cfg.ProjectDir}
	if len(cfg.IncludePaths) != 0 {
		args = append(args, "--include-paths")
		args = append(args, cfg.IncludePaths...)
	}
	if cfg.OutputDir != "" {
		args = append(args, "--output-dir", cfg.OutputDir)
	}
	if cfg.SingleFile != "" {
		args = append(args, "--single-file", cfg.SingleFile)
	}
	if cfg.LogLevel > 0 {
		args = append(args, "--log-level", strconv.Itoa(cfg.LogLevel))
	}
	return args
}

// parseSummary extracts the "Successfully processed: N" and "Skipped: N"
// lines from the tool's log. The tool decorates them as list items
// ("- Successfully processed: 12 files"); both forms are accepted.
func parseSummary(logFile string) (*Summary, error) {
	data, err := os.ReadFile(logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	summary := &Summary{LogFile: logFile}
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimPrefix(strings.TrimSpace(line), "- ")
		if rest, ok := strings.CutPrefix(line, "Successfully processed:"); ok {
			if n, ok := leadingInt(rest); ok {
				summary.Processed = n
				found = true
			}
		} else if rest, ok := strings.CutPrefix(line, "Skipped:"); ok {
			if n, ok := leadingInt(rest); ok {
				summary.Skipped = n
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("no summary found in log file %v", logFile)
	}
	return summary, nil
}

func leadingInt(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

func logTail(logFile string, n int) string {
	data, err := os.ReadFile(logFile)
	if err != nil {
		return ""
	}
	lines := bytes.Split(bytes.TrimRight(data, "\n"), []byte{'\n'})
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte{'\n'}))
}
