package supervise

import (
	"bufio"
	"bytes"
	"os/exec"
	"strconv"
	"strings"
)

// LivenessChecker reports whether a role's process is running on the host.
// Liveness is determined by process scan, not by port probes or RPC: a pid
// whose command line matches the role marker counts as live.
type LivenessChecker interface {
	// FindPID returns the role's pid, or 0 when no matching process exists.
	FindPID(role Role) int
}

// ProcessScan is the real LivenessChecker. It prefers jps (which sees JVM
// main classes directly) and falls back to pgrep on the full command line.
type ProcessScan struct{}

func (ProcessScan) FindPID(role Role) int {
	if pid := findWithJPS(role.JpsClass); pid != 0 {
		return pid
	}
	return findWithPgrep(role.Marker)
}

// findWithJPS scans `jps -l` output for a main class containing className.
// A missing or failing jps is treated as "not found", never as an error.
func findWithJPS(className string) int {
	if _, err := exec.LookPath("jps"); err != nil {
		return 0
	}

	output, err := exec.Command("jps", "-l").Output()
	if err != nil {
		return 0
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && strings.Contains(fields[1], className) {
			if pid, err := strconv.Atoi(fields[0]); err == nil {
				return pid
			}
		}
	}
	return 0
}

// findWithPgrep returns the first pid whose command line matches pattern.
func findWithPgrep(pattern string) int {
	if _, err := exec.LookPath("pgrep"); err != nil {
		return 0
	}

	output, err := exec.Command("pgrep", "-f", pattern).Output()
	if err != nil {
		// pgrep exits 1 on no match
		return 0
	}

	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if pid, err := strconv.Atoi(line); err == nil {
			return pid
		}
	}
	return 0
}
