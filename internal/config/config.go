// Package config loads and validates snapwalk configuration via Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Screenshot back-end selectors.
const (
	// MethodChromeCLI invokes the headless Chrome binary as an external process.
	MethodChromeCLI = 0
	// MethodBrowser drives headless Chrome through the automation library.
	MethodBrowser = 1
	// MethodCutyCapt invokes the legacy CutyCapt CLI under a virtual framebuffer.
	MethodCutyCapt = 2

	// methodUnset marks a missing method selector so validation can fail fast.
	methodUnset = -1
)

// Config captures all run configuration loaded via Viper.
type Config struct {
	Input      InputConfig      `mapstructure:"input"`
	Output     OutputConfig     `mapstructure:"output"`
	Screenshot ScreenshotConfig `mapstructure:"screenshot"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// InputConfig selects the URL source; exactly one of CSV or DB must be set.
type InputConfig struct {
	CSV string `mapstructure:"csv"`
	DB  string `mapstructure:"db"`
}

// OutputConfig sets where screenshots and the result index land.
type OutputConfig struct {
	PicsDir  string `mapstructure:"pics_dir"`
	IndexCSV string `mapstructure:"index_csv"`
}

// ScreenshotConfig selects the back-end and its per-URL timeout.
type ScreenshotConfig struct {
	Method         int `mapstructure:"method"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// MetricsConfig exposes Prometheus metrics when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development mode and an optional log file.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

// Load builds a Config from the given Viper instance, applying defaults and
// validating before anything else runs.
func Load(v *viper.Viper) (Config, error) {
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("screenshot.method", methodUnset)
	v.SetDefault("screenshot.timeout_seconds", 30)
	v.SetDefault("logging.development", true)
}

// Validate enforces the fatal preconditions: a single input source, an index
// target for CSV input, an output directory, and a known back-end. These are
// the only errors that terminate the program, and they fire before any URL is
// processed.
func (c Config) Validate() error {
	if c.Input.CSV == "" && c.Input.DB == "" {
		return fmt.Errorf("must provide an input source (input.csv or input.db)")
	}
	if c.Input.CSV != "" && c.Input.DB != "" {
		return fmt.Errorf("must use only one type of input source")
	}
	if c.Input.CSV != "" && c.Output.IndexCSV == "" {
		return fmt.Errorf("output.index_csv is required with a csv input")
	}
	if c.Output.PicsDir == "" {
		return fmt.Errorf("output.pics_dir is required")
	}
	if c.Screenshot.Method == methodUnset {
		return fmt.Errorf("screenshot.method is required")
	}
	switch c.Screenshot.Method {
	case MethodChromeCLI, MethodBrowser, MethodCutyCapt:
	default:
		return fmt.Errorf("unsupported screenshot method %d (want 0, 1, or 2)", c.Screenshot.Method)
	}
	if c.Screenshot.TimeoutSeconds <= 0 {
		return fmt.Errorf("screenshot.timeout_seconds must be > 0")
	}
	return nil
}

// Timeout converts the configured seconds into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Screenshot.TimeoutSeconds) * time.Second
}
