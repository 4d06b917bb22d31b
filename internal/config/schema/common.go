// Package schema holds the typed per-component property sets for a
// single-node topology. The values are compiled-in defaults, not discovered:
// replication factor 1, data paths under the Persistent Data Area, embedded
// Derby metastore, schema verification and permission checks disabled.
package schema

// Property represents a single configuration property
type Property struct {
	Name  string
	Value string
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func appendExtraProperties(props []Property, extra []Property) []Property {
	return append(props, extra...)
}
