// Package metastore initializes the SQL metastore's backing schema in the
// embedded Derby database.
package metastore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/supervise"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// SchemaTool wraps the distribution's schematool for the embedded database.
type SchemaTool struct {
	cfg    *config.Config
	runner supervise.CommandRunner
}

// New creates a schema tool backed by real process execution.
func New(cfg *config.Config) *SchemaTool {
	return &SchemaTool{cfg: cfg, runner: supervise.ExecRunner{}}
}

// Initialized reports whether the Derby database already exists. Derby
// creates its directory on first schema init, so a non-empty directory means
// a schema is present (or was mid-creation; initSchema would fail either
// way, so the caller skips rather than risks a double init).
func (s *SchemaTool) Initialized() bool {
	empty, err := util.IsDirEmpty(s.cfg.Paths().MetastoreDBDir())
	return err == nil && !empty
}

// Init creates the metastore schema. An existing database is kept untouched
// and reported as skipped; running initSchema against it would fail and
// could corrupt it.
func (s *SchemaTool) Init() (skipped bool, err error) {
	if s.Initialized() {
		util.Log("Metastore schema already present at %s, keeping it", s.cfg.Paths().MetastoreDBDir())
		return true, nil
	}

	util.Log("Initializing metastore schema (embedded derby)")

	schematool := filepath.Join(s.cfg.HiveHome(), "bin", "schematool")
	args := []string{"-dbType", "derby", "-initSchema"}

	output, err := s.runner.Run(schematool, args, supervise.RoleEnv(s.cfg))
	if err != nil {
		return false, fmt.Errorf("failed to initialize metastore schema: %w\noutput: %s",
			err, strings.TrimSpace(string(output)))
	}

	util.Success("Metastore schema initialized")
	return false, nil
}
