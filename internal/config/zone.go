package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ZoneConfig is a zone's section/key configuration. Section and key lookups
// are case-insensitive. Immutable after load; safe for concurrent reads.
type ZoneConfig struct {
	sections map[string]map[string]string
}

// NewZoneConfig builds a ZoneConfig from a section → key → value map.
func NewZoneConfig(sections map[string]map[string]string) *ZoneConfig {
	zc := &ZoneConfig{sections: make(map[string]map[string]string, len(sections))}
	for sec, keys := range sections {
		dst := zc.section(sec, true)
		for k, v := range keys {
			dst[strings.ToLower(k)] = v
		}
	}
	return zc
}

// LoadZoneConfig reads a zone config file. The file is a YAML mapping of
// section names to mappings of scalar values:
//
//	fields:
//	  types: "heal, sting"
//	field-heal:
//	  class: prize
//	  radius: 96
func LoadZoneConfig(path string) (*ZoneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading zone config %s: %w", path, err)
	}
	zc, err := ParseZoneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parsing zone config %s: %w", path, err)
	}
	return zc, nil
}

// ParseZoneConfig parses zone config YAML.
func ParseZoneConfig(data []byte) (*ZoneConfig, error) {
	var raw map[string]map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	sections := make(map[string]map[string]string, len(raw))
	for sec, keys := range raw {
		m := make(map[string]string, len(keys))
		for k, node := range keys {
			if node.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%s.%s: expected scalar value", sec, k)
			}
			m[k] = node.Value
		}
		sections[sec] = m
	}
	return NewZoneConfig(sections), nil
}

// GetString returns the raw value of section.key.
func (z *ZoneConfig) GetString(section, key string) (string, bool) {
	sec := z.section(section, false)
	if sec == nil {
		return "", false
	}
	v, ok := sec[strings.ToLower(key)]
	return v, ok
}

// GetInt returns section.key as an integer, or def when missing or not a number.
func (z *ZoneConfig) GetInt(section, key string, def int) int {
	v, ok := z.GetString(section, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// HasSection reports whether section exists.
func (z *ZoneConfig) HasSection(section string) bool {
	return z.section(section, false) != nil
}

func (z *ZoneConfig) section(name string, create bool) map[string]string {
	key := strings.ToLower(name)
	sec, ok := z.sections[key]
	if !ok && create {
		sec = make(map[string]string)
		z.sections[key] = sec
	}
	return sec
}
