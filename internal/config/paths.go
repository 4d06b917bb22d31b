package config

import (
	"path/filepath"
)

// Paths holds the deterministic directory layout under the base directory.
// Derived once from Config; never mutated after computation.
type Paths struct {
	BaseDir string
}

// InstallRoot returns the component install root: $BASE/opt
// Each component installs to $BASE/opt/<name>-<version>.
func (p *Paths) InstallRoot() string {
	return filepath.Join(p.BaseDir, "opt")
}

// DataDir returns the Persistent Data Area root: $BASE/data
// Created once during provisioning, survives restarts, destroyed only by
// explicit uninstall or an explicitly confirmed reformat.
func (p *Paths) DataDir() string {
	return filepath.Join(p.BaseDir, "data")
}

// NameNodeDir returns the metadata-store directory: $BASE/data/namenode
func (p *Paths) NameNodeDir() string {
	return filepath.Join(p.DataDir(), "namenode")
}

// DataNodeDir returns the block-store directory: $BASE/data/datanode
func (p *Paths) DataNodeDir() string {
	return filepath.Join(p.DataDir(), "datanode")
}

// TmpDir returns the scratch directory: $BASE/data/tmp
func (p *Paths) TmpDir() string {
	return filepath.Join(p.DataDir(), "tmp")
}

// MetastoreDBDir returns the embedded Derby metastore directory:
// $BASE/data/metastore_db
func (p *Paths) MetastoreDBDir() string {
	return filepath.Join(p.DataDir(), "metastore_db")
}

// ConfDir returns the rendered configuration root: $BASE/conf
func (p *Paths) ConfDir() string {
	return filepath.Join(p.BaseDir, "conf")
}

// HadoopConfDir returns the rendered Hadoop config dir: $BASE/conf/hadoop
func (p *Paths) HadoopConfDir() string {
	return filepath.Join(p.ConfDir(), "hadoop")
}

// HiveConfDir returns the rendered Hive config dir: $BASE/conf/hive
func (p *Paths) HiveConfDir() string {
	return filepath.Join(p.ConfDir(), "hive")
}

// LogsDir returns the logs directory: $BASE/logs
// Holds both per-run provisioning logs and detached service logs.
func (p *Paths) LogsDir() string {
	return filepath.Join(p.BaseDir, "logs")
}

// BinDir returns the generated-artifact directory: $BASE/bin
func (p *Paths) BinDir() string {
	return filepath.Join(p.BaseDir, "bin")
}

// SupervisorPath returns the emitted standalone supervisor: $BASE/bin/stackctl
func (p *Paths) SupervisorPath() string {
	return filepath.Join(p.BinDir(), "stackctl")
}

// HintsDir returns the directory for host-environment hint files: $BASE/hints
func (p *Paths) HintsDir() string {
	return filepath.Join(p.BaseDir, "hints")
}
