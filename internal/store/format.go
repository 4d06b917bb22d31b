// Package store manages the persistent data area: directory creation and
// the guarded one-time format of the distributed-filesystem metadata store.
package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hadoopbox/hadoopbox/internal/config"
	"github.com/hadoopbox/hadoopbox/internal/supervise"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// State is the observed condition of the metadata store.
type State int

const (
	// StateUnformatted means the metadata dir is absent or empty; formatting
	// is safe and needs no confirmation.
	StateUnformatted State = iota
	// StateFormatted means the metadata dir holds data; reformatting destroys
	// the entire filesystem namespace and requires explicit confirmation.
	StateFormatted
)

func (s State) String() string {
	if s == StateFormatted {
		return "formatted"
	}
	return "unformatted"
}

// Store manages the data area for one configuration.
type Store struct {
	cfg    *config.Config
	runner supervise.CommandRunner
}

// New creates a store manager backed by real process execution.
func New(cfg *config.Config) *Store {
	return &Store{cfg: cfg, runner: supervise.ExecRunner{}}
}

// EnsureDataDirs creates the persistent data area: metadata store, block
// store, and scratch space. Creating an already-present tree is a no-op, so
// repeated provisioning runs converge.
func (s *Store) EnsureDataDirs() error {
	p := s.cfg.Paths()
	if err := util.MkdirAll(p.NameNodeDir(), p.DataNodeDir(), p.TmpDir()); err != nil {
		return fmt.Errorf("failed to create data area: %w", err)
	}
	return nil
}

// Observe reports whether the metadata store already holds data. Presence of
// any entry counts: a half-written previous format is still data the
// operator must explicitly discard.
func (s *Store) Observe() (State, error) {
	empty, err := util.IsDirEmpty(s.cfg.Paths().NameNodeDir())
	if err != nil {
		return StateUnformatted, fmt.Errorf("failed to inspect metadata store: %w", err)
	}
	if empty {
		return StateUnformatted, nil
	}
	return StateFormatted, nil
}

// Format initializes the metadata store. An empty store is formatted
// unconditionally. A non-empty store consults the disposition: proceed
// reformats (destroying all filesystem metadata), anything else skips —
// skipped is a success, the existing data is simply kept.
//
// A format failure is terminal: unlike a download, retrying an identical
// format against the same directory cannot succeed, and a half-formatted
// store must not be started.
func (s *Store) Format(disp config.Disposition) (skipped bool, err error) {
	state, err := s.Observe()
	if err != nil {
		return false, err
	}

	if state == StateFormatted {
		if disp != config.DispositionProceed {
			util.Log("Metadata store already holds data; keeping it (state: %s)", state)
			return true, nil
		}
		util.Warn("Reformatting metadata store; existing filesystem metadata will be destroyed")
	} else {
		util.Log("Formatting metadata store (first time)")
	}

	if err := s.verifyFormatTarget(); err != nil {
		return false, err
	}

	hdfs := filepath.Join(s.cfg.HadoopHome(), "bin", "hdfs")
	args := []string{"namenode", "-format", "-force", "-nonInteractive"}

	output, err := s.runner.Run(hdfs, args, supervise.RoleEnv(s.cfg))
	if err != nil {
		if len(output) > 0 {
			util.Warn("Format command output:\n%s", strings.TrimSpace(string(output)))
		}
		return false, fmt.Errorf("failed to format metadata store: %w", err)
	}

	// The format must have produced the version marker.
	version := filepath.Join(s.cfg.Paths().NameNodeDir(), "current", "VERSION")
	if !util.FileExists(version) {
		return false, fmt.Errorf("format completed but %s was not created; check HADOOP_CONF_DIR wiring", version)
	}

	util.Success("Metadata store formatted")
	return false, nil
}

// verifyFormatTarget parses the rendered hdfs-site.xml and confirms the
// format command will write into the configured metadata dir. A stale or
// hand-edited site file pointing elsewhere would otherwise format the wrong
// tree and leave Observe looking at an empty one.
func (s *Store) verifyFormatTarget() error {
	p := s.cfg.Paths()
	site := filepath.Join(p.HadoopConfDir(), "hdfs-site.xml")
	conf, err := util.ParseHadoopXML(site)
	if err != nil {
		return fmt.Errorf("cannot verify format target: %w", err)
	}

	want := "file://" + p.NameNodeDir()
	if got := conf.GetProperty("dfs.namenode.name.dir"); got != want {
		return fmt.Errorf("rendered %s points dfs.namenode.name.dir at %q, expected %q; re-run configuration before formatting", site, got, want)
	}
	return nil
}
