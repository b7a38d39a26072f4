package testutil

import "github.com/udisondev/arenafield/internal/config"

// Fixtures содержит заранее подготовленные тестовые данные
// для избежания дублирования в тестах.
var Fixtures = struct {
	// Зона с одним типом поля: radius 64, duration 1000, delay 50, property 1,
	// маркеры с 10/20/30/40.
	SingleFieldZone map[string]map[string]string

	// Зона с двумя типами на общем диапазоне маркеров.
	SharedMarkersZone map[string]map[string]string
}{
	SingleFieldZone: map[string]map[string]string{
		"fields": {"types": "basic"},
		"field-basic": {
			"class":     "attack",
			"name":      "Basic",
			"event":     "basiclaunch",
			"firedelay": "50",
			"duration":  "1000",
			"property":  "1",
			"radius":    "64",

			"markerbase-ul": "10", "markerbase-ur": "20", "markerbase-lr": "30", "markerbase-ll": "40",
		},
	},
	SharedMarkersZone: map[string]map[string]string{
		"fields": {"types": "red, blue"},
		"field-red": {
			"class": "attack", "name": "Red", "event": "red", "property": "1",
			"maxmarkers":    "3",
			"markerbase-ul": "100", "markerbase-ur": "200", "markerbase-lr": "300", "markerbase-ll": "400",
		},
		"field-blue": {
			"class": "attack", "name": "Blue", "event": "blue", "property": "2",
			"maxmarkers":    "3",
			"markerbase-ul": "100", "markerbase-ur": "200", "markerbase-lr": "300", "markerbase-ll": "400",
		},
	},
}

// ZoneConfig builds a ZoneConfig from one of the Fixtures maps.
func ZoneConfig(sections map[string]map[string]string) *config.ZoneConfig {
	return config.NewZoneConfig(sections)
}
