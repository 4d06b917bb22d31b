// Package fetch downloads versioned component archives with bounded retry,
// verifies extraction, and places the tree under the install root.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// ErrAlreadyInstalled signals a pre-existing install the caller has not
// supplied a disposition for.
var ErrAlreadyInstalled = errors.New("component already installed")

// Fetcher downloads and installs component archives.
type Fetcher struct {
	cfg    *config.Config
	client *http.Client
}

// New creates a fetcher for the given configuration.
func New(cfg *config.Config) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// Install fetches and unpacks one component under the install root and
// returns the install path.
//
// A pre-existing install requires a caller-supplied disposition: reuse keeps
// it (success, nothing fetched), replace removes the tree before re-fetching,
// anything else returns ErrAlreadyInstalled.
//
// The download is attempted up to the configured retry budget with a fixed
// back-off; every attempt is a full re-download. Extraction failure is fatal
// and is not retried: a corrupt package is not a transient network error.
func (f *Fetcher) Install(ctx context.Context, comp config.Component, disp config.Disposition) (string, error) {
	dest := comp.InstallPath(f.cfg.Paths().InstallRoot())

	if util.DirExists(dest) {
		switch disp {
		case config.DispositionReuse:
			util.Log("%s %s already installed at %s, reusing", comp.Name, comp.Version, dest)
			return dest, nil
		case config.DispositionReplace:
			util.Log("Removing existing %s install at %s", comp.Name, dest)
			if err := os.RemoveAll(dest); err != nil {
				return "", fmt.Errorf("failed to remove existing install: %w", err)
			}
		default:
			return "", fmt.Errorf("%w: %s at %s", ErrAlreadyInstalled, comp.Name, dest)
		}
	}

	archive, err := f.download(ctx, comp)
	if err != nil {
		return "", err
	}
	defer os.Remove(archive)

	installRoot := f.cfg.Paths().InstallRoot()
	if err := util.MkdirAll(installRoot); err != nil {
		return "", err
	}

	af, err := os.Open(archive)
	if err != nil {
		return "", fmt.Errorf("failed to open downloaded archive: %w", err)
	}
	defer af.Close()

	util.Log("Extracting %s", comp.ArchiveName)
	if err := ExtractTarGz(af, installRoot); err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", comp.ArchiveName, err)
	}

	// A successful extraction must have produced the expected tree.
	if !util.DirExists(dest) {
		return "", fmt.Errorf("archive %s did not contain expected directory %s", comp.ArchiveName, comp.TopDir)
	}

	if err := chownTree(dest, f.cfg.Owner); err != nil {
		util.Warn("Could not set ownership of %s to %s: %v", dest, f.cfg.Owner, err)
	}

	util.Success("Installed %s %s to %s", comp.Name, comp.Version, dest)
	return dest, nil
}

// download retrieves the component archive to a temporary file, retrying up
// to the configured budget. Returns the temp file path.
func (f *Fetcher) download(ctx context.Context, comp config.Component) (string, error) {
	url := comp.DownloadURL(f.cfg.MirrorURL)

	tmp, err := os.CreateTemp("", comp.ArchiveName+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	budget := f.cfg.RetryBudget
	if budget < 1 {
		budget = 1
	}

	var lastErr error
	for attempt := 1; attempt <= budget; attempt++ {
		util.Log("Downloading %s (attempt %d/%d)", url, attempt, budget)

		lastErr = f.downloadOnce(ctx, url, tmpPath)
		if lastErr == nil {
			return tmpPath, nil
		}

		util.Warn("Download attempt %d failed: %v", attempt, lastErr)
		if attempt < budget {
			select {
			case <-time.After(f.cfg.RetryBackoff):
			case <-ctx.Done():
				os.Remove(tmpPath)
				return "", ctx.Err()
			}
		}
	}

	os.Remove(tmpPath)
	return "", fmt.Errorf("failed to download %s after %d attempts: %w", comp.ArchiveName, budget, lastErr)
}

// downloadOnce performs a single full download of url into path, truncating
// any bytes left from a previous attempt. No partial resume.
func (f *Fetcher) downloadOnce(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("download interrupted: %w", err)
	}

	return out.Close()
}

// chownTree sets ownership of an installed tree to the target identity.
// Only effective when running as root; callers treat failure as advisory.
func chownTree(root, owner string) error {
	if owner == "" || os.Geteuid() != 0 {
		return nil
	}

	u, err := user.Lookup(owner)
	if err != nil {
		return err
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return err
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return err
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return os.Chown(path, uid, gid)
	})
}
