// Package config handles tool configuration loading and management.
package config

// Config holds all 3mftool settings.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// ImportConfig holds import pipeline settings.
type ImportConfig struct {
	// PaletteSource is "auto" (read slicer metadata, fall back to the
	// generated palette) or "generated".
	PaletteSource string `yaml:"palette_source"`
	// ConflictPolicy is "majority" or "lowest": how a vertex color is
	// chosen when adjacent triangles carry different paint.
	ConflictPolicy string `yaml:"conflict_policy"`
	// ApplyTransforms controls whether build/component transforms are
	// applied to exported geometry.
	ApplyTransforms bool `yaml:"apply_transforms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			PaletteSource:   "auto",
			ConflictPolicy:  "majority",
			ApplyTransforms: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
