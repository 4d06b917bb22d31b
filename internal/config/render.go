package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hadoopbox/hadoopbox/internal/config/schema"
	"github.com/hadoopbox/hadoopbox/internal/util"
)

// Render writes a property set to targetFile in Hadoop XML format.
// An existing target is always backed up (timestamped copy) first, so the
// operator can recover the pre-run state. Rendering the same property set
// twice produces byte-identical output. Duplicate names collapse to one
// property with the last value, so Extra entries override the base set.
func Render(componentName string, props []schema.Property, targetFile string) error {
	conf := &util.HadoopConfiguration{}
	for _, p := range props {
		conf.SetProperty(p.Name, p.Value)
	}

	data, err := conf.MarshalXMLDoc()
	if err != nil {
		return fmt.Errorf("failed to render %s config: %w", componentName, err)
	}

	if util.FileExists(targetFile) {
		backup, err := util.BackupFile(targetFile)
		if err != nil {
			return fmt.Errorf("failed to back up %s config: %w", componentName, err)
		}
		util.Log("Backed up %s to %s", targetFile, backup)
	}

	if err := os.MkdirAll(filepath.Dir(targetFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(targetFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s config: %w", componentName, err)
	}

	return nil
}

// RenderHadoop materializes all Hadoop site files into the Hadoop conf dir.
func (c *Config) RenderHadoop() error {
	p := c.Paths()
	hc := schema.SingleNodeHadoop(p.NameNodeDir(), p.DataNodeDir(), p.TmpDir())

	files := []struct {
		name  string
		props []schema.Property
	}{
		{"core-site.xml", hc.CoreSite.ToProperties()},
		{"hdfs-site.xml", hc.HDFSSite.ToProperties()},
		{"yarn-site.xml", hc.YarnSite.ToProperties()},
		{"mapred-site.xml", hc.MapredSite.ToProperties()},
	}

	for _, f := range files {
		target := filepath.Join(p.HadoopConfDir(), f.name)
		if err := Render(ComponentHadoop, f.props, target); err != nil {
			return err
		}
	}
	return nil
}

// RenderHive materializes hive-site.xml into the Hive conf dir.
func (c *Config) RenderHive() error {
	p := c.Paths()
	hc := schema.SingleNodeHive(p.MetastoreDBDir())
	target := filepath.Join(p.HiveConfDir(), "hive-site.xml")
	return Render(ComponentHive, hc.ToProperties(), target)
}
