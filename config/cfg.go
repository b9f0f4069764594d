package config

import (
	"bytes"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"go.uber.org/multierr"
)

// Tunables controls the geometry and title-matching tolerances the
// reconstruction engine uses.
type Tunables struct {
	Epsilon          float64 `yaml:"epsilon"`
	MinSegmentLength float64 `yaml:"min_segment_length"`
	TitleMargin      float64 `yaml:"title_margin"`
	LineTolerance    float64 `yaml:"line_tolerance"`
	MaxTablesPerPage int     `yaml:"max_tables_per_page"`
}

// OutputConfig controls where and how reconstructed tables are
// written.
type OutputConfig struct {
	Directory     string `yaml:"directory"`
	Format        string `yaml:"format"`
	FixZip        bool   `yaml:"fix_zip"`
	Transliterate bool   `yaml:"transliterate"`
}

// Config is the engine's complete runtime configuration.
type Config struct {
	Version   int            `yaml:"version"`
	Tunables  Tunables       `yaml:"tunables"`
	Output    OutputConfig   `yaml:"output"`
	Logging   LoggingConfig  `yaml:"logging"`
	Reporting ReporterConfig `yaml:"reporting"`
}

// defaultConfig mirrors the tolerances validated against the original
// extractor: epsilon 5.0, minimum segment length 3.0, title margin
// 25.0, line clustering tolerance 2.0, and the page-explosion cutoff
// at more than 5 candidate tables.
func defaultConfig() *Config {
	return &Config{
		Version: 1,
		Tunables: Tunables{
			Epsilon:          5.0,
			MinSegmentLength: 3.0,
			TitleMargin:      25.0,
			LineTolerance:    2.0,
			MaxTablesPerPage: 5,
		},
		Output: OutputConfig{
			Directory: ".",
			Format:    "csv",
		},
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger:    LoggerConfig{Level: "none"},
		},
	}
}

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration reads configuration from path, superimposing it on
// top of the built-in defaults, and validates the result. An empty
// path returns the defaults unchanged.
func LoadConfiguration(path string) (*Config, error) {
	cfg := defaultConfig()
	if len(path) == 0 {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if cfg, err = unmarshalConfig(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration against the same kind of
// constraints gencfg's struct tags would express, applied by hand
// since this engine has a small, fixed configuration tree.
func (c *Config) Validate() error {
	var errs error
	if c.Version != 1 {
		errs = multierr.Append(errs, fmt.Errorf("unsupported configuration version %d", c.Version))
	}
	if c.Tunables.Epsilon <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("tunables.epsilon must be > 0"))
	}
	if c.Tunables.MinSegmentLength < 0 {
		errs = multierr.Append(errs, fmt.Errorf("tunables.min_segment_length must be >= 0"))
	}
	if c.Tunables.TitleMargin <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("tunables.title_margin must be > 0"))
	}
	if c.Tunables.LineTolerance <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("tunables.line_tolerance must be > 0"))
	}
	if c.Tunables.MaxTablesPerPage <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("tunables.max_tables_per_page must be > 0"))
	}
	switch c.Output.Format {
	case "csv", "excel", "both":
	default:
		errs = multierr.Append(errs, fmt.Errorf("output.format must be one of csv, excel, both"))
	}
	if c.Output.Directory == "" {
		errs = multierr.Append(errs, fmt.Errorf("output.directory is required"))
	}
	return errs
}

// Prepare returns the default configuration rendered as YAML.
func Prepare() ([]byte, error) {
	return Dump(defaultConfig())
}

// Dump renders cfg as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
