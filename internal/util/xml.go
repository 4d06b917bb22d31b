package util

import (
	"encoding/xml"
	"fmt"
	"os"
)

// HadoopConfiguration represents a Hadoop XML configuration file
// (core-site.xml, hdfs-site.xml, yarn-site.xml, hive-site.xml, ...)
type HadoopConfiguration struct {
	XMLName    xml.Name         `xml:"configuration"`
	Properties []HadoopProperty `xml:"property"`
}

// HadoopProperty represents a single property in Hadoop XML config
type HadoopProperty struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

// MarshalXMLDoc renders the configuration as a complete XML document.
// Output is byte-deterministic for a given property list: no timestamps,
// no randomness, fixed two-space indentation.
func (c *HadoopConfiguration) MarshalXMLDoc() ([]byte, error) {
	data, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}
	return []byte(xml.Header + string(data) + "\n"), nil
}

// ParseHadoopXML parses a Hadoop XML configuration file
func ParseHadoopXML(path string) (*HadoopConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read XML file: %w", err)
	}

	var config HadoopConfiguration
	if err := xml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	return &config, nil
}

// GetProperty returns the value of a property by name.
// Returns empty string if property not found.
func (c *HadoopConfiguration) GetProperty(name string) string {
	for _, prop := range c.Properties {
		if prop.Name == name {
			return prop.Value
		}
	}
	return ""
}

// SetProperty sets or updates a property value
func (c *HadoopConfiguration) SetProperty(name, value string) {
	for i, prop := range c.Properties {
		if prop.Name == name {
			c.Properties[i].Value = value
			return
		}
	}
	c.Properties = append(c.Properties, HadoopProperty{
		Name:  name,
		Value: value,
	})
}
