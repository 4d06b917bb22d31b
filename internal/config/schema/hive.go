package schema

import "strconv"

// HiveConfig represents hive-site.xml properties
type HiveConfig struct {
	// Metastore database connection (embedded Derby for single-node)
	ConnectionURL        string // javax.jdo.option.ConnectionURL
	ConnectionDriverName string // javax.jdo.option.ConnectionDriverName

	// Warehouse
	WarehouseDir string // hive.metastore.warehouse.dir

	// HiveServer2
	ThriftPort int  // hive.server2.thrift.port
	EnableDoAs bool // hive.server2.enable.doAs

	// Schema verification is disabled so a freshly-initialized Derby schema
	// is accepted without a version handshake.
	SchemaVerification bool // hive.metastore.schema.verification

	Extra []Property
}

// ToProperties converts config to an ordered list of properties
func (c *HiveConfig) ToProperties() []Property {
	props := []Property{
		{Name: "javax.jdo.option.ConnectionURL", Value: c.ConnectionURL},
		{Name: "javax.jdo.option.ConnectionDriverName", Value: c.ConnectionDriverName},
		{Name: "hive.metastore.warehouse.dir", Value: c.WarehouseDir},
		{Name: "hive.server2.thrift.port", Value: strconv.Itoa(c.ThriftPort)},
		{Name: "hive.server2.enable.doAs", Value: boolToString(c.EnableDoAs)},
		{Name: "hive.metastore.schema.verification", Value: boolToString(c.SchemaVerification)},
	}
	return appendExtraProperties(props, c.Extra)
}

// SingleNodeHive builds the fixed single-node Hive property set with an
// embedded Derby metastore under the Persistent Data Area.
func SingleNodeHive(metastoreDBDir string) *HiveConfig {
	return &HiveConfig{
		ConnectionURL:        "jdbc:derby:;databaseName=" + metastoreDBDir + ";create=true",
		ConnectionDriverName: "org.apache.derby.jdbc.EmbeddedDriver",
		WarehouseDir:         "/user/hive/warehouse",
		ThriftPort:           10000,
		EnableDoAs:           false,
		SchemaVerification:   false,
	}
}
