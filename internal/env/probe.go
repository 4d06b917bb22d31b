// Package env probes the host for facts relevant to configuration choices.
// Probing only hard-fails on true resource exhaustion (disk headroom) or a
// missing runtime; everything else becomes warnings or hint files.
package env

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// MinInstallBytes is the hard disk-space precondition for the install volume.
const MinInstallBytes = 5 << 30 // 5 GiB

// Report holds the probed host facts.
type Report struct {
	ConstrainedHost bool   // running under a VM/compat layer
	AvailableBytes  uint64 // free space on the install volume
	JavaMajor       int    // 0 when java is missing
	Warnings        []string
}

// Hooks that tests replace to probe without touching the real host.
var (
	diskAvailable = realDiskAvailable
	readProcFile  = os.ReadFile
	javaMajor     = func() int { return NewJavaDetector().MajorVersion() }
	javaInstalled = func() bool { return NewJavaDetector().IsInstalled() }
	toolInstalled = func(name string) bool { return NewToolDetector().IsInstalled(name) }
	headMirror    = realHeadMirror
)

// Probe detects host facts and validates hard preconditions. It must be the
// first pipeline stage: a failure here means nothing has been fetched yet.
func Probe(cfg *config.Config) (*Report, error) {
	report := &Report{}

	// Disk headroom is a hard precondition: stop before any fetch begins.
	avail, err := diskAvailable(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to check disk space for %s: %w", cfg.BaseDir, err)
	}
	report.AvailableBytes = avail
	if avail < MinInstallBytes {
		return nil, fmt.Errorf("insufficient disk space on install volume: %d bytes available, %d required",
			avail, uint64(MinInstallBytes))
	}

	// The runtime is a hard precondition too: every managed component is a
	// JVM process.
	if !javaInstalled() {
		return nil, fmt.Errorf("java not found in PATH (install a JDK and re-run)")
	}
	report.JavaMajor = javaMajor()
	if report.JavaMajor != 0 && report.JavaMajor != 8 && report.JavaMajor != 11 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("java major version is %d (8 or 11 recommended for this stack)", report.JavaMajor))
	}

	// Process tooling is advisory: liveness scanning and stop degrade without
	// it but provisioning itself still works.
	for _, tool := range []string{"pgrep", "pkill"} {
		if !toolInstalled(tool) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s not found in PATH; service discovery and shutdown will be degraded", tool))
		}
	}

	// Constrained-host detection adjusts warnings and writes a hint file for
	// the outer host environment; it never blocks the pipeline.
	report.ConstrainedHost = detectConstrainedHost()
	if report.ConstrainedHost {
		report.Warnings = append(report.Warnings,
			"virtualized or compatibility-layer kernel detected; services may need lowered memory limits")
		if err := writeResourceHint(cfg.Paths().HintsDir()); err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("could not write resource-limit hint file: %v", err))
		}
	}

	// Connectivity is advisory only: the fetcher has its own retry budget.
	if err := headMirror(cfg.MirrorURL); err != nil {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("package mirror %s not reachable (%v); downloads may fail", cfg.MirrorURL, err))
	}

	return report, nil
}

// realDiskAvailable returns the free bytes on the volume holding path,
// walking up to the nearest existing ancestor when path does not exist yet.
func realDiskAvailable(path string) (uint64, error) {
	probe := path
	for !util.FileExists(probe) {
		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
		probe = parent
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(probe, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// detectConstrainedHost applies the virtualized-kernel heuristic: a WSL or
// hypervisor marker in the kernel version string.
func detectConstrainedHost() bool {
	data, err := readProcFile("/proc/version")
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	for _, marker := range []string{"microsoft", "wsl", "hyperv", "azure"} {
		if strings.Contains(version, marker) {
			return true
		}
	}
	return false
}

// writeResourceHint writes a resource-limit hint file the operator can apply
// to the outer host environment (e.g. a .wslconfig fragment).
func writeResourceHint(hintsDir string) error {
	if err := os.MkdirAll(hintsDir, 0755); err != nil {
		return err
	}

	hint := strings.Join([]string{
		"# Suggested limits for running the stack under a constrained host.",
		"# Apply to the outer environment (e.g. %USERPROFILE%\\.wslconfig).",
		"[wsl2]",
		"memory=6GB",
		"processors=4",
		"swap=2GB",
		"",
	}, "\n")

	return os.WriteFile(filepath.Join(hintsDir, "resource-limits.conf"), []byte(hint), 0644)
}

func realHeadMirror(mirrorURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Head(mirrorURL)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("mirror returned status %d", resp.StatusCode)
	}
	return nil
}
