package schema

import "strconv"

// CoreSiteConfig represents core-site.xml properties
type CoreSiteConfig struct {
	DefaultFS             string // fs.defaultFS
	TmpDir                string // hadoop.tmp.dir
	SecurityAuthorization bool   // hadoop.security.authorization
	Extra                 []Property
}

// ToProperties converts config to an ordered list of properties
func (c *CoreSiteConfig) ToProperties() []Property {
	props := []Property{
		{Name: "fs.defaultFS", Value: c.DefaultFS},
		{Name: "hadoop.tmp.dir", Value: c.TmpDir},
		{Name: "hadoop.security.authorization", Value: boolToString(c.SecurityAuthorization)},
	}
	return appendExtraProperties(props, c.Extra)
}

// HDFSSiteConfig represents hdfs-site.xml properties
type HDFSSiteConfig struct {
	Replication        int    // dfs.replication
	NameNodeNameDir    string // dfs.namenode.name.dir
	DataNodeDataDir    string // dfs.datanode.data.dir
	PermissionsEnabled bool   // dfs.permissions.enabled
	Extra              []Property
}

// ToProperties converts config to an ordered list of properties
func (c *HDFSSiteConfig) ToProperties() []Property {
	props := []Property{
		{Name: "dfs.replication", Value: strconv.Itoa(c.Replication)},
		{Name: "dfs.namenode.name.dir", Value: "file://" + c.NameNodeNameDir},
		{Name: "dfs.datanode.data.dir", Value: "file://" + c.DataNodeDataDir},
		{Name: "dfs.permissions.enabled", Value: boolToString(c.PermissionsEnabled)},
	}
	return appendExtraProperties(props, c.Extra)
}

// YarnSiteConfig represents yarn-site.xml properties
type YarnSiteConfig struct {
	AuxServices             string // yarn.nodemanager.aux-services
	ResourceManagerHostname string // yarn.resourcemanager.hostname
	VMemCheckEnabled        bool   // yarn.nodemanager.vmem-check-enabled
	PMemCheckEnabled        bool   // yarn.nodemanager.pmem-check-enabled
	Extra                   []Property
}

// ToProperties converts config to an ordered list of properties
func (c *YarnSiteConfig) ToProperties() []Property {
	props := []Property{
		{Name: "yarn.nodemanager.aux-services", Value: c.AuxServices},
		{Name: "yarn.resourcemanager.hostname", Value: c.ResourceManagerHostname},
		{Name: "yarn.nodemanager.vmem-check-enabled", Value: boolToString(c.VMemCheckEnabled)},
		{Name: "yarn.nodemanager.pmem-check-enabled", Value: boolToString(c.PMemCheckEnabled)},
	}
	return appendExtraProperties(props, c.Extra)
}

// MapredSiteConfig represents mapred-site.xml properties
type MapredSiteConfig struct {
	FrameworkName string // mapreduce.framework.name
	Extra         []Property
}

// ToProperties converts config to an ordered list of properties
func (c *MapredSiteConfig) ToProperties() []Property {
	props := []Property{
		{Name: "mapreduce.framework.name", Value: c.FrameworkName},
	}
	return appendExtraProperties(props, c.Extra)
}

// HadoopConfig represents all Hadoop configuration files
type HadoopConfig struct {
	CoreSite   *CoreSiteConfig
	HDFSSite   *HDFSSiteConfig
	YarnSite   *YarnSiteConfig
	MapredSite *MapredSiteConfig
}

// SingleNodeHadoop builds the fixed single-node Hadoop property sets:
// one replica, data dirs under the Persistent Data Area, permission checks
// off, pseudo-distributed filesystem on localhost.
func SingleNodeHadoop(nameNodeDir, dataNodeDir, tmpDir string) *HadoopConfig {
	return &HadoopConfig{
		CoreSite: &CoreSiteConfig{
			DefaultFS:             "hdfs://localhost:9000",
			TmpDir:                tmpDir,
			SecurityAuthorization: false,
		},
		HDFSSite: &HDFSSiteConfig{
			Replication:        1,
			NameNodeNameDir:    nameNodeDir,
			DataNodeDataDir:    dataNodeDir,
			PermissionsEnabled: false,
		},
		YarnSite: &YarnSiteConfig{
			AuxServices:             "mapreduce_shuffle",
			ResourceManagerHostname: "localhost",
			VMemCheckEnabled:        false,
			PMemCheckEnabled:        false,
		},
		MapredSite: &MapredSiteConfig{
			FrameworkName: "yarn",
		},
	}
}
