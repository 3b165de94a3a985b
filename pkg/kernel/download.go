// Copyright 2025 kpreproc project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kernel

import (
	"archive/tar"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/emselab/kpreproc/pkg/log"
	"github.com/emselab/kpreproc/pkg/osutil"
	"github.com/ulikunitz/xz"
)

// Download fetches linux-<version>.tar.xz from kernel.org and extracts it
// under baseDir, returning the tree directory. If the tree is already
// present the download is skipped, so re-runs are cheap.
func Download(baseDir, version string) (string, error) {
	dir := filepath.Join(baseDir, "linux-"+version)
	if osutil.IsDir(dir) {
		log.Logf(1, "kernel %v already present in %v, skipping download", version, dir)
		return dir, nil
	}
	if err := osutil.MkdirAll(baseDir); err != nil {
		return "", err
	}
	url := tarballURL(version)
	log.Logf(0, "downloading %v", url)
	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download kernel %v: %w", version, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download kernel %v: %v", version, resp.Status)
	}
	xzr, err := xz.NewReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decompress kernel %v: %w", version, err)
	}
	if err := extractTar(tar.NewReader(xzr), baseDir); err != nil {
		// Don't leave a half-extracted tree behind, it would be mistaken
		// for a complete one on the next run.
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to extract kernel %v: %w", version, err)
	}
	if !osutil.IsDir(dir) {
		return "", fmt.Errorf("kernel archive for %v did not contain linux-%v/", version, version)
	}
	return dir, nil
}

// tarballURL returns the cdn.kernel.org location of the source tarball,
// e.g. v6.x/linux-6.1.tar.xz for version 6.1.
func tarballURL(version string) string {
	major, _, _ := strings.Cut(version, ".")
	return fmt.Sprintf("https://cdn.kernel.org/pub/linux/kernel/v%v.x/linux-%v.tar.xz", major, version)
}

func extractTar(tr *tar.Reader, dir string) error {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		name := filepath.Clean(filepath.FromSlash(hdr.Name))
		if filepath.IsAbs(name) || name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
			return fmt.Errorf("archive entry %q escapes the extraction directory", hdr.Name)
		}
		path := filepath.Join(dir, name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := osutil.MkdirAll(path); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := osutil.MkdirAll(filepath.Dir(path)); err != nil {
				return err
			}
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode)&os.ModePerm)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := osutil.MkdirAll(filepath.Dir(path)); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, path); err != nil {
				return err
			}
		default:
			// Hard links and device nodes don't occur in kernel source
			// tarballs; ignore anything exotic.
			log.Logf(2, "ignoring archive entry %v of type %v", hdr.Name, hdr.Typeflag)
		}
	}
}
