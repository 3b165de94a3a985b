// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kernel

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/emselab/kpreproc/pkg/osutil"
	"github.com/stretchr/testify/assert"
)

func TestTarballURL(t *testing.T) {
	tests := []struct{ version, want string }{
		{"6.1", "https://cdn.kernel.org/pub/linux/kernel/v6.x/linux-6.1.tar.xz"},
		{"5.10.223", "https://cdn.kernel.org/pub/linux/kernel/v5.x/linux-5.10.223.tar.xz"},
		{"4.19", "https://cdn.kernel.org/pub/linux/kernel/v4.x/linux-4.19.tar.xz"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, tarballURL(test.version))
	}
}

func makeTar(t *testing.T, write func(tw *tar.Writer)) *tar.Reader {
	t.Helper()
	buf := new(bytes.Buffer)
	tw := tar.NewWriter(buf)
	write(tw)
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return tar.NewReader(buf)
}

func addFile(t *testing.T, tw *tar.Writer, name, content string) {
	t.Helper()
	err := tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0644,
		Size:     int64(len(content)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
}

func TestExtractTar(t *testing.T) {
	tr := makeTar(t, func(tw *tar.Writer) {
		for _, dir := range []string{"linux-6.1/", "linux-6.1/include/"} {
			err := tw.WriteHeader(&tar.Header{
				Typeflag: tar.TypeDir,
				Name:     dir,
				Mode:     0755,
			})
			if err != nil {
				t.Fatal(err)
			}
		}
		addFile(t, tw, "linux-6.1/Makefile", "VERSION = 6\n")
		addFile(t, tw, "linux-6.1/include/linux.h", "#pragma once\n")
		err := tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeSymlink,
			Name:     "linux-6.1/include/alias.h",
			Linkname: "linux.h",
		})
		if err != nil {
			t.Fatal(err)
		}
	})

	dir := t.TempDir()
	if err := extractTar(tr, dir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "linux-6.1", "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "VERSION = 6\n", string(data))
	assert.True(t, osutil.IsDir(filepath.Join(dir, "linux-6.1", "include")))
	target, err := os.Readlink(filepath.Join(dir, "linux-6.1", "include", "alias.h"))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "linux.h", target)
}

func TestExtractTarRejectsEscape(t *testing.T) {
	for _, name := range []string{"../evil", "linux-6.1/../../evil", "/etc/evil"} {
		tr := makeTar(t, func(tw *tar.Writer) {
			addFile(t, tw, name, "boom")
		})
		if err := extractTar(tr, t.TempDir()); err == nil {
			t.Fatalf("expected rejection of archive entry %q", name)
		}
	}
}

func TestDownloadSkipsExisting(t *testing.T) {
	baseDir := t.TempDir()
	existing := filepath.Join(baseDir, "linux-6.1")
	if err := osutil.MkdirAll(filepath.Join(existing, "include")); err != nil {
		t.Fatal(err)
	}
	// No network access happens when the tree is already present.
	dir, err := Download(baseDir, "6.1")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, existing, dir)
}
