package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Component names
const (
	ComponentHadoop = "hadoop"
	ComponentHive   = "hive"
	ComponentPig    = "pig"
)

// Component describes one installable subsystem. Immutable; constructed once
// from configuration.
type Component struct {
	Name        string
	Version     string
	URLTemplate string   // expects version substituted for every {{VERSION}}
	ArchiveName string   // downloaded file name
	TopDir      string   // directory the archive unpacks to
	Roles       []string // long-running process roles, in dependency order
}

// DownloadURL returns the full archive URL for this component, rooted at the
// configured mirror.
func (c Component) DownloadURL(mirrorURL string) string {
	path := strings.ReplaceAll(c.URLTemplate, "{{VERSION}}", c.Version)
	return strings.TrimRight(mirrorURL, "/") + "/" + path
}

// InstallPath returns the component's install path under the install root:
// <root>/<name>-<version>.
func (c Component) InstallPath(installRoot string) string {
	return filepath.Join(installRoot, c.TopDir)
}

// Components returns the descriptors for all managed components, in
// provisioning order.
func (c *Config) Components() []Component {
	return []Component{
		{
			Name:        ComponentHadoop,
			Version:     c.HadoopVersion,
			URLTemplate: "hadoop/common/hadoop-{{VERSION}}/hadoop-{{VERSION}}.tar.gz",
			ArchiveName: fmt.Sprintf("hadoop-%s.tar.gz", c.HadoopVersion),
			TopDir:      fmt.Sprintf("hadoop-%s", c.HadoopVersion),
			Roles:       []string{"namenode", "datanode", "resourcemanager", "nodemanager"},
		},
		{
			Name:        ComponentHive,
			Version:     c.HiveVersion,
			URLTemplate: "hive/hive-{{VERSION}}/apache-hive-{{VERSION}}-bin.tar.gz",
			ArchiveName: fmt.Sprintf("apache-hive-%s-bin.tar.gz", c.HiveVersion),
			TopDir:      fmt.Sprintf("apache-hive-%s-bin", c.HiveVersion),
			Roles:       []string{"metastore", "hiveserver2"},
		},
		{
			Name:        ComponentPig,
			Version:     c.PigVersion,
			URLTemplate: "pig/pig-{{VERSION}}/pig-{{VERSION}}.tar.gz",
			ArchiveName: fmt.Sprintf("pig-%s.tar.gz", c.PigVersion),
			TopDir:      fmt.Sprintf("pig-%s", c.PigVersion),
			Roles:       nil, // batch engine, no long-running processes
		},
	}
}

// ComponentByName returns the descriptor for a managed component.
func (c *Config) ComponentByName(name string) (Component, error) {
	for _, comp := range c.Components() {
		if comp.Name == name {
			return comp, nil
		}
	}
	return Component{}, fmt.Errorf("unknown component: %s", name)
}

// HadoopHome returns the Hadoop install path for this configuration.
func (c *Config) HadoopHome() string {
	comp, _ := c.ComponentByName(ComponentHadoop)
	return comp.InstallPath(c.Paths().InstallRoot())
}

// HiveHome returns the Hive install path for this configuration.
func (c *Config) HiveHome() string {
	comp, _ := c.ComponentByName(ComponentHive)
	return comp.InstallPath(c.Paths().InstallRoot())
}

// PigHome returns the Pig install path for this configuration.
func (c *Config) PigHome() string {
	comp, _ := c.ComponentByName(ComponentPig)
	return comp.InstallPath(c.Paths().InstallRoot())
}
