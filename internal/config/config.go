// Package config loads semflu settings: defaults, then an optional YAML file,
// then SEMFLU_* environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Algorithm names accepted by Segmentation.Algorithm.
const (
	AlgorithmGreedy     = "greedy"
	AlgorithmExhaustive = "exhaustive"
)

// Config is the full semflu configuration.
type Config struct {
	Input        InputConfig        `yaml:"input"`
	Segmentation SegmentationConfig `yaml:"segmentation"`
	Batch        BatchConfig        `yaml:"batch"`
	Store        StoreConfig        `yaml:"store"`
	Logging      LoggingConfig      `yaml:"logging"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// InputConfig names the input files; both may also come from CLI flags.
type InputConfig struct {
	Categories string `yaml:"categories"`
	Responses  string `yaml:"responses"`
}

// SegmentationConfig controls how every run is segmented.
type SegmentationConfig struct {
	Algorithm         string        `yaml:"algorithm" validate:"oneof=greedy exhaustive"`
	MaxResponses      int           `yaml:"maxResponses" validate:"min=0"`
	MaxNodes          int           `yaml:"maxNodes" validate:"min=0"`
	TimeLimit         time.Duration `yaml:"timeLimit" validate:"min=0"`
	FallbackToGreedy  bool          `yaml:"fallbackToGreedy"`
	CountUnclassified bool          `yaml:"countUnclassified"`
}

// BatchConfig controls run-level parallelism.
type BatchConfig struct {
	Workers int `yaml:"workers" validate:"min=1,max=1024"`
}

// StoreConfig points at the SQLite result database; empty disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// MetricsConfig controls metrics export. Address serves /metrics while the
// batch runs, which only helps for long batches; Textfile receives the final
// values in the text exposition format when the batch is done. Empty disables
// either.
type MetricsConfig struct {
	Address  string `yaml:"address" validate:"omitempty,hostname_port"`
	Textfile string `yaml:"textfile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Segmentation: SegmentationConfig{
			Algorithm:         AlgorithmExhaustive,
			MaxResponses:      30,
			MaxNodes:          2_000_000,
			TimeLimit:         2 * time.Second,
			FallbackToGreedy:  true,
			CountUnclassified: false,
		},
		Batch:   BatchConfig{Workers: 4},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load builds a Config from defaults, the YAML file at path (or
// $SEMFLU_CONFIG when path is empty; no file at all is fine) and environment
// overrides, then validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SEMFLU_CONFIG")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}

			return nil, fmt.Errorf("read config: %w", err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SEMFLU_ALGORITHM"); v != "" {
		cfg.Segmentation.Algorithm = strings.ToLower(v)
	}
	if v := os.Getenv("SEMFLU_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SEMFLU_WORKERS=%q: %w", v, ErrInvalid)
		}
		cfg.Batch.Workers = n
	}
	if v := os.Getenv("SEMFLU_MAX_RESPONSES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SEMFLU_MAX_RESPONSES=%q: %w", v, ErrInvalid)
		}
		cfg.Segmentation.MaxResponses = n
	}
	if v := os.Getenv("SEMFLU_TIME_LIMIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SEMFLU_TIME_LIMIT=%q: %w", v, ErrInvalid)
		}
		cfg.Segmentation.TimeLimit = d
	}
	if v := os.Getenv("SEMFLU_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("SEMFLU_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("SEMFLU_METRICS_ADDRESS"); v != "" {
		cfg.Metrics.Address = v
	}
	if v := os.Getenv("SEMFLU_METRICS_FILE"); v != "" {
		cfg.Metrics.Textfile = v
	}

	return nil
}

var (
	vOnce sync.Once
	vInst *validator.Validate
)

// validate returns the shared validator; field names in messages follow the
// yaml tags.
func validate() *validator.Validate {
	vOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("yaml")
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			if tag == "" || tag == "-" {
				return fld.Name
			}

			return tag
		})
		vInst = v
	})

	return vInst
}

// Validate checks every field constraint and reports the first violation as
// ErrInvalid.
func (c *Config) Validate() error {
	err := validate().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]

		return fmt.Errorf("%s: failed %q (value %v): %w", fe.Namespace(), fe.Tag(), fe.Value(), ErrInvalid)
	}

	return fmt.Errorf("%v: %w", err, ErrInvalid)
}
