// Package supervise manages the long-running stack roles: detached starts,
// marker-based stops, liveness scanning, and the emitted standalone
// supervisor script.
package supervise

import (
	"fmt"
	"path/filepath"

	"github.com/hadoopbox/hadoopbox/internal/config"
)

// Role describes one long-running process the supervisor manages. The slice
// order returned by Roles is the start order; stop walks it in reverse.
type Role struct {
	Name      string
	Component string
	Essential bool // counts toward the health quorum
	Optional  bool // start failure is a warning, not fatal

	Exec string   // launcher binary, absolute
	Args []string // launcher arguments

	JpsClass string // class-name fragment for jps-based discovery
	Marker   string // command-line pattern for pgrep/pkill discovery

	LogName string // file under the logs dir capturing stdout+stderr
}

// Roles returns the managed roles in dependency order: storage first, then
// compute, then the SQL layer. Both SQL roles depend on the metadata store
// being up; the compute roles are useful but not required for health.
func Roles(cfg *config.Config) []Role {
	hdfs := filepath.Join(cfg.HadoopHome(), "bin", "hdfs")
	yarn := filepath.Join(cfg.HadoopHome(), "bin", "yarn")
	hive := filepath.Join(cfg.HiveHome(), "bin", "hive")

	return []Role{
		{
			Name:      "namenode",
			Component: config.ComponentHadoop,
			Essential: true,
			Exec:      hdfs,
			Args:      []string{"namenode"},
			JpsClass:  "NameNode",
			Marker:    `org\.apache\.hadoop\.hdfs\.server\.namenode\.NameNode`,
			LogName:   "namenode.log",
		},
		{
			Name:      "datanode",
			Component: config.ComponentHadoop,
			Exec:      hdfs,
			Args:      []string{"datanode"},
			JpsClass:  "DataNode",
			Marker:    `org\.apache\.hadoop\.hdfs\.server\.datanode\.DataNode`,
			LogName:   "datanode.log",
		},
		{
			Name:      "resourcemanager",
			Component: config.ComponentHadoop,
			Optional:  true,
			Exec:      yarn,
			Args:      []string{"resourcemanager"},
			JpsClass:  "ResourceManager",
			Marker:    `org\.apache\.hadoop\.yarn\.server\.resourcemanager\.ResourceManager`,
			LogName:   "resourcemanager.log",
		},
		{
			Name:      "nodemanager",
			Component: config.ComponentHadoop,
			Optional:  true,
			Exec:      yarn,
			Args:      []string{"nodemanager"},
			JpsClass:  "NodeManager",
			Marker:    `org\.apache\.hadoop\.yarn\.server\.nodemanager\.NodeManager`,
			LogName:   "nodemanager.log",
		},
		{
			Name:      "metastore",
			Component: config.ComponentHive,
			Essential: true,
			Exec:      hive,
			Args:      []string{"--service", "metastore"},
			JpsClass:  "HiveMetaStore",
			Marker:    `org\.apache\.hadoop\.hive\.metastore\.HiveMetaStore`,
			LogName:   "metastore.log",
		},
		{
			Name:      "hiveserver2",
			Component: config.ComponentHive,
			Essential: true,
			Exec:      hive,
			Args:      []string{"--service", "hiveserver2"},
			JpsClass:  "HiveServer2",
			Marker:    `org\.apache\.hive\.service\.server\.HiveServer2`,
			LogName:   "hiveserver2.log",
		},
	}
}

// RoleByName returns the named role from the registry.
func RoleByName(cfg *config.Config, name string) (Role, error) {
	for _, r := range Roles(cfg) {
		if r.Name == name {
			return r, nil
		}
	}
	return Role{}, fmt.Errorf("unknown role: %s", name)
}

// RoleEnv returns the environment additions every role launch needs: the
// install homes and the rendered configuration directories.
func RoleEnv(cfg *config.Config) []string {
	p := cfg.Paths()
	return []string{
		"HADOOP_HOME=" + cfg.HadoopHome(),
		"HADOOP_CONF_DIR=" + p.HadoopConfDir(),
		"HADOOP_LOG_DIR=" + p.LogsDir(),
		"HIVE_HOME=" + cfg.HiveHome(),
		"HIVE_CONF_DIR=" + p.HiveConfDir(),
		"PIG_HOME=" + cfg.PigHome(),
		"PIG_CLASSPATH=" + p.HadoopConfDir(),
	}
}
