// Package config holds the CLI settings, read from a TOML file and
// overridden by flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"color-transfer/internal/algorithms/colortransfer"
	"color-transfer/internal/algorithms/histmatch"
	"color-transfer/internal/logger"
	"color-transfer/internal/models"
	"color-transfer/internal/pipeline"
	"color-transfer/internal/processing/mask"
)

// Algorithm keys accepted in the [transfer] table.
const (
	AlgorithmIterative  = "iterative"
	AlgorithmPerChannel = "per-channel"
)

type Config struct {
	Transfer TransferConfig `toml:"transfer"`
	Mask     MaskConfig     `toml:"mask"`
	Service  ServiceConfig  `toml:"service"`
	Log      LogConfig      `toml:"log"`
}

type TransferConfig struct {
	Algorithm     string  `toml:"algorithm"`
	DampingFactor float64 `toml:"damping_factor"`
	Iterations    int     `toml:"iterations"`
	HistogramBins int     `toml:"histogram_bins"`
	// MaxPixels bounds the input size used for statistics; 0 disables
	// downscaling.
	MaxPixels int `toml:"max_pixels"`
}

type MaskConfig struct {
	Threshold int `toml:"threshold"`
	// Auto picks the threshold per mask with Otsu's method.
	Auto    bool                `toml:"auto"`
	Cleanup mask.CleanupOptions `toml:"cleanup"`
}

type ServiceConfig struct {
	// Workers is the number of concurrent transfers; 0 means one per CPU.
	Workers int `toml:"workers"`
}

type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

func Default() *Config {
	params := colortransfer.DefaultParameters()
	return &Config{
		Transfer: TransferConfig{
			Algorithm:     AlgorithmIterative,
			DampingFactor: params.DampingFactor,
			Iterations:    params.Iterations,
			HistogramBins: params.HistogramBins,
			MaxPixels:     pipeline.DefaultMaxPixels,
		},
		Mask:    MaskConfig{Threshold: 128},
		Service: ServiceConfig{Workers: 0},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a TOML document over the defaults. Unknown keys are errors.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown configuration keys:\n%s", strict.String())
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (c *Config) Validate() error {
	if _, err := c.AlgorithmName(); err != nil {
		return err
	}
	if err := c.Parameters().Validate(); err != nil {
		return err
	}
	if c.Transfer.MaxPixels < 0 {
		return models.NewValidationError("max_pixels", c.Transfer.MaxPixels, "must not be negative")
	}
	if err := mask.ValidateThreshold(c.Mask.Threshold); err != nil {
		return err
	}
	if err := c.Mask.Cleanup.Validate(); err != nil {
		return err
	}
	if c.Service.Workers < 0 {
		return models.NewValidationError("workers", c.Service.Workers, "must not be negative")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// AlgorithmName maps the configured key to the registry name.
func (c *Config) AlgorithmName() (string, error) {
	switch strings.ToLower(c.Transfer.Algorithm) {
	case AlgorithmIterative, "":
		return colortransfer.AlgorithmName, nil
	case AlgorithmPerChannel:
		return histmatch.AlgorithmName, nil
	default:
		return "", models.NewValidationError("algorithm", c.Transfer.Algorithm,
			fmt.Sprintf("must be %q or %q", AlgorithmIterative, AlgorithmPerChannel))
	}
}

func (c *Config) Parameters() colortransfer.Parameters {
	return colortransfer.Parameters{
		DampingFactor: c.Transfer.DampingFactor,
		Iterations:    c.Transfer.Iterations,
		HistogramBins: c.Transfer.HistogramBins,
	}
}

// AlgorithmParameters renders the parameters for the algorithm registry.
// The per-channel match ignores iterations.
func (c *Config) AlgorithmParameters() map[string]interface{} {
	params := c.Parameters().Map()
	if name, _ := c.AlgorithmName(); name == histmatch.AlgorithmName {
		delete(params, "iterations")
	}
	return params
}
