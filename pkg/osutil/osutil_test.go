// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package osutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExist(t *testing.T) {
	if f := os.Args[0]; !IsExist(f) {
		t.Fatalf("executable %v does not exist", f)
	}
	if f := os.Args[0] + "-foo-bar-buz"; IsExist(f) {
		t.Fatalf("file %v exists", f)
	}
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := WriteFile(file, []byte("data")); err != nil {
		t.Fatal(err)
	}
	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, IsDir(filepath.Join(dir, "nonexistent")))
	assert.True(t, IsRegularFile(file))
	assert.False(t, IsRegularFile(dir))
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		if err := WriteFile(filepath.Join(dir, name), nil); err != nil {
			t.Fatal(err)
		}
	}
	files, err := ListDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, files)
	if _, err := ListDir(filepath.Join(dir, "nonexistent")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestCopyFilePreservesTimes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := WriteFile(src, []byte("payload")); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "payload", string(data))
	st, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, st.ModTime().Equal(mtime), "mtime not preserved: %v", st.ModTime())
}

func TestCopyDirRecursively(t *testing.T) {
	src := t.TempDir()
	if err := MkdirAll(filepath.Join(src, "sub", "subsub")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(filepath.Join(src, "top.c"), []byte("top")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(filepath.Join(src, "sub", "subsub", "deep.h"), []byte("deep")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("top.c", filepath.Join(src, "link.c")); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "copy")
	if err := CopyDirRecursively(src, dst); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dst, "sub", "subsub", "deep.h"))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "deep", string(data))
	target, err := os.Readlink(filepath.Join(dst, "link.c"))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "top.c", target)
	// Source is intact.
	assert.True(t, IsExist(filepath.Join(src, "top.c")))
}

func TestRunExitCode(t *testing.T) {
	_, err := RunCmd(time.Minute, "", "sh", "-c", "echo some failure; exit 42")
	if err == nil {
		t.Fatalf("expected error for failing command")
	}
	var verbose *VerboseError
	if !errors.As(err, &verbose) {
		t.Fatalf("expected *VerboseError, got %v", err)
	}
	assert.Equal(t, 42, verbose.ExitCode)
	assert.Contains(t, string(verbose.Output), "some failure")
	assert.Contains(t, verbose.Error(), "some failure")
}

func TestRunCombinedOutput(t *testing.T) {
	out, err := RunCmd(time.Minute, "", "sh", "-c", "echo to-stdout; echo to-stderr >&2")
	if err != nil {
		t.Fatal(err)
	}
	assert.Contains(t, string(out), "to-stdout")
	assert.Contains(t, string(out), "to-stderr")
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()
	_, err := RunCmd(100*time.Millisecond, "", "sleep", "10")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	assert.Contains(t, err.Error(), "timedout")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPrependContext(t *testing.T) {
	err := PrependContext("stage one", &VerboseError{Title: "boom", ExitCode: 1})
	assert.Equal(t, "stage one: boom", err.Error())
	err = PrependContext("stage two", errors.New("plain"))
	assert.Equal(t, "stage two: plain", err.Error())
}

func TestAbs(t *testing.T) {
	assert.Equal(t, "", Abs(""))
	assert.Equal(t, "/abs/path", Abs("/abs/path"))
	rel := Abs("some/rel")
	assert.True(t, filepath.IsAbs(rel))
}
