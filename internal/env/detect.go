package env

import (
	"bytes"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// JavaDetector handles Java installation detection
type JavaDetector struct{}

// NewJavaDetector creates a new Java detector
func NewJavaDetector() *JavaDetector {
	return &JavaDetector{}
}

// IsInstalled checks if the java command is available
func (j *JavaDetector) IsInstalled() bool {
	_, err := exec.LookPath("java")
	return err == nil
}

// MajorVersion returns the major version of the installed Java.
// Parses output from: java -version. Returns 0 if Java is not found or the
// version cannot be parsed.
func (j *JavaDetector) MajorVersion() int {
	cmd := exec.Command("java", "-version")
	// java -version outputs to stderr, not stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0
	}

	return parseJavaMajor(stderr.String())
}

// parseJavaMajor extracts the major version from java -version output.
// Handles both the old format (1.8.0_392) and the new format (11.0.21).
func parseJavaMajor(output string) int {
	re := regexp.MustCompile(`version "([^"]+)"`)
	matches := re.FindStringSubmatch(output)
	if len(matches) < 2 {
		return 0
	}

	parts := strings.Split(matches[1], ".")
	if len(parts) == 0 {
		return 0
	}

	if parts[0] == "1" && len(parts) > 1 {
		major, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0
		}
		return major
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return major
}

// ToolDetector provides generic command detection
type ToolDetector struct{}

// NewToolDetector creates a new tool detector
func NewToolDetector() *ToolDetector {
	return &ToolDetector{}
}

// IsInstalled checks if a command is available in PATH
func (t *ToolDetector) IsInstalled(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
