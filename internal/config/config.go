// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the run configuration: logging, collaborator model commands, and
// batching defaults. Values come from built-in defaults, then an optional
// YAML file, then ABNUM_* environment overrides, in that order.
type Config struct {
	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
		Format string `yaml:"format" validate:"omitempty,oneof=console json"`
	} `yaml:"log"`

	Models struct {
		// Command lines for the collaborator executables.
		Numberer   string `yaml:"numberer" validate:"required"`
		Window     string `yaml:"window" validate:"required"`
		Classifier string `yaml:"classifier" validate:"required"`

		ContextWindow int `yaml:"context_window" validate:"gt=0"`
		BatchSize     int `yaml:"batch_size" validate:"gt=0"`
	} `yaml:"models"`

	MaxBatch int `yaml:"max_batch" validate:"gt=0"`
}

// Default returns the built-in configuration: all collaborators served by an
// abnum-infer binary on PATH.
func Default() Config {
	var c Config
	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Models.Numberer = "abnum-infer"
	c.Models.Window = "abnum-infer"
	c.Models.Classifier = "abnum-infer"
	c.Models.ContextWindow = 200
	c.Models.BatchSize = 512
	c.MaxBatch = 1024 * 100
	return c
}

// Load builds the effective configuration. path may be empty.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return c, err
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return c, fmt.Errorf("config %s: %w", path, err)
		}
	}

	applyEnv(&c)

	if err := validator.New().Struct(c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func applyEnv(c *Config) {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv("ABNUM_" + key); ok {
			*dst = v
		}
	}
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Format, "LOG_FORMAT")
	set(&c.Models.Numberer, "NUMBERER_CMD")
	set(&c.Models.Window, "WINDOW_CMD")
	set(&c.Models.Classifier, "CLASSIFIER_CMD")
}
