// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package projsync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emselab/kpreproc/pkg/osutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func writeManifest(t *testing.T, data string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "manifest")
	if err := osutil.WriteFile(file, []byte(data)); err != nil {
		t.Fatal(err)
	}
	return file
}

func makeProject(t *testing.T, baseDir, name string) {
	t.Helper()
	dir := filepath.Join(baseDir, name)
	if err := osutil.MkdirAll(filepath.Join(dir, "src")); err != nil {
		t.Fatal(err)
	}
	if err := osutil.WriteFile(filepath.Join(dir, "main.c"), []byte("int main(void) { return 0; }\n")); err != nil {
		t.Fatal(err)
	}
	if err := osutil.WriteFile(filepath.Join(dir, "src", "util.h"), []byte("#pragma once\n")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("main.c", filepath.Join(dir, "main_link.c")); err != nil {
		t.Fatal(err)
	}
}

func TestSyncCounts(t *testing.T) {
	base := t.TempDir()
	dest := t.TempDir()
	makeProject(t, base, "proj_a")
	mf := writeManifest(t, "proj_a\n\nproj_b\n")

	res, err := Sync(base, mf, dest, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := &Result{
		Total:    2,
		Copied:   1,
		NotFound: 1,
		Entries: []Entry{
			{Name: "proj_a", Status: Copied},
			{Name: "proj_b", Status: NotFound},
		},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%v", diff)
	}
	assert.Equal(t, res.Total, res.Copied+res.Skipped+res.NotFound)
}

func TestSyncIdempotent(t *testing.T) {
	base := t.TempDir()
	dest := t.TempDir()
	makeProject(t, base, "proj_a")
	makeProject(t, base, "proj_b")
	mf := writeManifest(t, "proj_a\nproj_b\n")

	res, err := Sync(base, mf, dest, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 2, res.Copied)

	res, err = Sync(base, mf, dest, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 0, res.Copied)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, res.Total, res.Copied+res.Skipped+res.NotFound)

	// The copy must preserve content and symlinks.
	data, err := os.ReadFile(filepath.Join(dest, "proj_a", "main.c"))
	if err != nil {
		t.Fatal(err)
	}
	assert.Contains(t, string(data), "int main")
	target, err := os.Readlink(filepath.Join(dest, "proj_a", "main_link.c"))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "main.c", target)
}

func TestSyncResume(t *testing.T) {
	base := t.TempDir()
	dest := t.TempDir()
	makeProject(t, base, "proj_a")
	makeProject(t, base, "proj_b")
	// proj_a was already staged by an earlier, interrupted run.
	if err := osutil.CopyDirRecursively(filepath.Join(base, "proj_a"), filepath.Join(dest, "proj_a")); err != nil {
		t.Fatal(err)
	}
	mf := writeManifest(t, "proj_a\nproj_b\n")

	res, err := Sync(base, mf, dest, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Copied)
}

func TestSyncRejectsNestedDest(t *testing.T) {
	base := t.TempDir()
	makeProject(t, base, "proj_a")
	mf := writeManifest(t, "proj_a\n")

	for _, dest := range []string{
		base,
		filepath.Join(base, "staging"),
		filepath.Join(base, "a", "..", "b"),
		base + string(filepath.Separator) + ".",
	} {
		if _, err := Sync(base, mf, dest, nil); err == nil {
			t.Fatalf("expected rejection of destination %v", dest)
		}
		// No side effects: the rejected destination must not be created.
		if dest != base && osutil.IsExist(filepath.Join(base, "staging")) {
			t.Fatalf("destination %v was created despite rejection", dest)
		}
	}
}

func TestSyncRejectsAliasedDest(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "repos")
	if err := osutil.MkdirAll(base); err != nil {
		t.Fatal(err)
	}
	makeProject(t, base, "proj_a")
	// A symlink spelling of the base directory must be caught too.
	alias := filepath.Join(root, "repos_link")
	if err := os.Symlink(base, alias); err != nil {
		t.Fatal(err)
	}
	mf := writeManifest(t, "proj_a\n")

	if _, err := Sync(base, mf, alias, nil); err == nil {
		t.Fatalf("expected rejection of aliased destination")
	}
	if _, err := Sync(base, mf, filepath.Join(alias, "staging"), nil); err == nil {
		t.Fatalf("expected rejection of destination nested under alias")
	}
}

func TestSyncValidation(t *testing.T) {
	base := t.TempDir()
	mf := writeManifest(t, "proj_a\n")

	if _, err := Sync(filepath.Join(base, "nonexistent"), mf, t.TempDir(), nil); err == nil {
		t.Fatalf("expected error for missing base directory")
	}
	if _, err := Sync(base, filepath.Join(base, "nonexistent"), t.TempDir(), nil); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}

func TestSyncProgress(t *testing.T) {
	base := t.TempDir()
	makeProject(t, base, "proj_a")
	mf := writeManifest(t, "proj_a\nproj_b\nproj_c\n")

	var calls []int
	res, err := Sync(base, mf, t.TempDir(), func(done, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []int{1, 2, 3}, calls)
	assert.Equal(t, 3, res.Total)
}
