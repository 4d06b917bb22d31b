package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default component versions. Overridable via hadoopbox.yaml.
const (
	DefaultHadoopVersion = "3.3.6"
	DefaultHiveVersion   = "3.1.3"
	DefaultPigVersion    = "0.17.0"

	// DefaultMirrorURL is the package-retrieval endpoint prefix.
	DefaultMirrorURL = "https://archive.apache.org/dist"

	// OverrideFileName is the optional operator override file under BaseDir.
	OverrideFileName = "hadoopbox.yaml"
)

// Disposition is the resolved operator decision for a guarded destructive or
// conflicting operation. Decision gathering (prompt, flag, non-interactive
// default) is decoupled from the stage logic that consumes it.
type Disposition int

const (
	// DispositionAbort declines the guarded operation. It is the zero value
	// so that an unresolved decision is never destructive.
	DispositionAbort Disposition = iota
	// DispositionProceed confirms a destructive operation (format, uninstall).
	DispositionProceed
	// DispositionReuse keeps an existing install in place.
	DispositionReuse
	// DispositionReplace removes an existing install before re-fetching.
	DispositionReplace
)

func (d Disposition) String() string {
	switch d {
	case DispositionAbort:
		return "abort"
	case DispositionProceed:
		return "proceed"
	case DispositionReuse:
		return "reuse"
	case DispositionReplace:
		return "replace"
	}
	return fmt.Sprintf("disposition(%d)", int(d))
}

// Config is the single explicit configuration value threaded through every
// component call. It is constructed once by the CLI; no component reads
// ambient process environment for correctness-relevant values.
type Config struct {
	BaseDir string // root for installs, data, conf, logs, bin
	Owner   string // owning user identity for installed trees

	MirrorURL     string
	HadoopVersion string
	HiveVersion   string
	PigVersion    string

	RetryBudget  int           // download attempts per component
	RetryBackoff time.Duration // fixed pause between download attempts
	SettleDelay  time.Duration // wait before sampling liveness after start
	RestartPause time.Duration // pause between stop and start on restart
}

// DefaultBaseDir returns the default base directory: $HOME/hadoopbox
func DefaultBaseDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		if currentUser, err := user.Current(); err == nil {
			home = currentUser.HomeDir
		}
	}
	return filepath.Join(home, "hadoopbox")
}

// Default builds the compiled-in configuration for a base directory.
// An empty baseDir selects DefaultBaseDir.
func Default(baseDir string) *Config {
	if baseDir == "" {
		baseDir = DefaultBaseDir()
	}

	owner := ""
	if currentUser, err := user.Current(); err == nil {
		owner = currentUser.Username
	}

	return &Config{
		BaseDir:       baseDir,
		Owner:         owner,
		MirrorURL:     DefaultMirrorURL,
		HadoopVersion: DefaultHadoopVersion,
		HiveVersion:   DefaultHiveVersion,
		PigVersion:    DefaultPigVersion,
		RetryBudget:   3,
		RetryBackoff:  5 * time.Second,
		SettleDelay:   10 * time.Second,
		RestartPause:  3 * time.Second,
	}
}

// overrideFile is the yaml shape of the optional operator override file.
// Absent fields keep their compiled-in defaults.
type overrideFile struct {
	Owner         string `yaml:"owner"`
	MirrorURL     string `yaml:"mirror_url"`
	HadoopVersion string `yaml:"hadoop_version"`
	HiveVersion   string `yaml:"hive_version"`
	PigVersion    string `yaml:"pig_version"`
	RetryBudget   int    `yaml:"retry_budget"`
}

// Load builds the configuration for baseDir, applying hadoopbox.yaml
// overrides when the file exists. A missing override file is not an error.
func Load(baseDir string) (*Config, error) {
	cfg := Default(baseDir)

	path := filepath.Join(cfg.BaseDir, OverrideFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var o overrideFile
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if o.Owner != "" {
		cfg.Owner = o.Owner
	}
	if o.MirrorURL != "" {
		cfg.MirrorURL = o.MirrorURL
	}
	if o.HadoopVersion != "" {
		cfg.HadoopVersion = o.HadoopVersion
	}
	if o.HiveVersion != "" {
		cfg.HiveVersion = o.HiveVersion
	}
	if o.PigVersion != "" {
		cfg.PigVersion = o.PigVersion
	}
	if o.RetryBudget > 0 {
		cfg.RetryBudget = o.RetryBudget
	}

	return cfg, nil
}

// Paths returns the deterministic directory layout for this configuration.
func (c *Config) Paths() *Paths {
	return &Paths{BaseDir: c.BaseDir}
}
