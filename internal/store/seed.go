package store

import (
	"path/filepath"

	"github.com/hadoopbox/hadoopbox/internal/supervise"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// SeedFilesystemDirs creates the standard in-filesystem directories after the
// stack is up: scratch space, the owner's home, and the warehouse root the
// SQL layer writes tables under. Best effort: a directory that already
// exists, or a namespace still in safe mode, only warns.
func (s *Store) SeedFilesystemDirs() {
	hdfs := filepath.Join(s.cfg.HadoopHome(), "bin", "hdfs")
	env := supervise.RoleEnv(s.cfg)

	dirs := []struct {
		path string
		mode string // chmod argument, empty keeps defaults
	}{
		{"/tmp", "1777"},
		{"/user/" + s.cfg.Owner, ""},
		{"/user/hive/warehouse", "g+w"},
	}

	for _, d := range dirs {
		if _, err := s.runner.Run(hdfs, []string{"dfs", "-mkdir", "-p", d.path}, env); err != nil {
			util.Warn("Could not create filesystem directory %s: %v", d.path, err)
			continue
		}
		if d.mode != "" {
			if _, err := s.runner.Run(hdfs, []string{"dfs", "-chmod", d.mode, d.path}, env); err != nil {
				util.Warn("Could not set mode %s on %s: %v", d.mode, d.path, err)
			}
		}
	}
}
