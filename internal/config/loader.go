// Package config loads the service configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"gend/internal/llm"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	Model     string `json:"model" yaml:"model" toml:"model"`
	ModelFile string `json:"model_file" yaml:"model_file" toml:"model_file"`
	ModelType string `json:"model_type" yaml:"model_type" toml:"model_type"`

	MaxQueueDepth int   `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitMS     int   `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`
	MaxBodyBytes  int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	// Generation overrides applied over the built-in defaults (and under any
	// model sidecar values resolved later).
	Generation Generation `json:"generation" yaml:"generation" toml:"generation"`
}

// Generation mirrors llm.Config with optional fields: nil means "keep the
// default".
type Generation struct {
	TopK              *int     `json:"top_k" yaml:"top_k" toml:"top_k"`
	TopP              *float32 `json:"top_p" yaml:"top_p" toml:"top_p"`
	Temperature       *float32 `json:"temperature" yaml:"temperature" toml:"temperature"`
	RepetitionPenalty *float32 `json:"repetition_penalty" yaml:"repetition_penalty" toml:"repetition_penalty"`
	LastNTokens       *int     `json:"last_n_tokens" yaml:"last_n_tokens" toml:"last_n_tokens"`
	Seed              *int     `json:"seed" yaml:"seed" toml:"seed"`
	BatchSize         *int     `json:"batch_size" yaml:"batch_size" toml:"batch_size"`
	Threads           *int     `json:"threads" yaml:"threads" toml:"threads"`
	MaxNewTokens      *int     `json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens"`
	Stop              []string `json:"stop" yaml:"stop" toml:"stop"`
	Reset             *bool    `json:"reset" yaml:"reset" toml:"reset"`
}

// Apply merges the overrides over base and returns the result.
func (g Generation) Apply(base llm.Config) llm.Config {
	if g.TopK != nil {
		base.TopK = *g.TopK
	}
	if g.TopP != nil {
		base.TopP = *g.TopP
	}
	if g.Temperature != nil {
		base.Temperature = *g.Temperature
	}
	if g.RepetitionPenalty != nil {
		base.RepetitionPenalty = *g.RepetitionPenalty
	}
	if g.LastNTokens != nil {
		base.LastNTokens = *g.LastNTokens
	}
	if g.Seed != nil {
		base.Seed = *g.Seed
	}
	if g.BatchSize != nil {
		base.BatchSize = *g.BatchSize
	}
	if g.Threads != nil {
		base.Threads = *g.Threads
	}
	if g.MaxNewTokens != nil {
		base.MaxNewTokens = *g.MaxNewTokens
	}
	if g.Stop != nil {
		base.Stop = append([]string(nil), g.Stop...)
	}
	if g.Reset != nil {
		base.Reset = *g.Reset
	}
	return base
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
