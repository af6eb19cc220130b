package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagOutput     = flag.String("output", "", "Output image path")
	flagTileWidth  = flag.Int("tile-width", 0, "Per-view tile width in pixels")
	flagTileHeight = flag.Int("tile-height", 0, "Per-view tile height in pixels")
	flagStride     = flag.Int("stride", 0, "Sample stride in pixels")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments: the mesh files to render, in order.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOutput != "" {
		cfg.Render.OutputPath = *flagOutput
	}
	if *flagTileWidth > 0 {
		cfg.Render.TileWidth = *flagTileWidth
	}
	if *flagTileHeight > 0 {
		cfg.Render.TileHeight = *flagTileHeight
	}
	if *flagStride > 0 {
		cfg.Render.SampleStride = *flagStride
	}
}
