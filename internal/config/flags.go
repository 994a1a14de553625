package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagPalette      = flag.String("palette", "", "Palette source: auto or generated")
	flagPolicy       = flag.String("policy", "", "Vertex color conflict policy: majority or lowest")
	flagNoTransforms = flag.Bool("no-transforms", false, "Do not apply build transforms to exported geometry")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPalette != "" {
		cfg.Import.PaletteSource = *flagPalette
	}
	if *flagPolicy != "" {
		cfg.Import.ConflictPolicy = *flagPolicy
	}
	if *flagNoTransforms {
		cfg.Import.ApplyTransforms = false
	}
}
