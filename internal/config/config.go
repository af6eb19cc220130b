// Package config handles renderer configuration loading and management.
package config

// Config holds all renderer settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds output and sampling settings.
type RenderConfig struct {
	OutputPath   string  `yaml:"output_path"`   // Image path; extension selects the encoder
	TileWidth    int     `yaml:"tile_width"`    // Per-view tile width in pixels
	TileHeight   int     `yaml:"tile_height"`   // Per-view tile height in pixels
	SampleStride int     `yaml:"sample_stride"` // Pixel block size per primary ray
	Padding      float64 `yaml:"padding"`       // Viewport padding factor around the model
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			OutputPath:   "preview.png",
			TileWidth:    256,
			TileHeight:   256,
			SampleStride: 2,
			Padding:      1.25,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
