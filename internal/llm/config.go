// Package llm implements the generation session over a native engine:
// parameter resolution, the token generation loop and the streaming text
// decoder with stop-sequence handling.
package llm

// Config holds sampling, evaluation and generation parameters. Values are
// passed through to the engine, which owns their semantic validity; no
// cross-field invariants are enforced here.
type Config struct {
	// Sampling
	TopK              int     `json:"top_k" yaml:"top_k" toml:"top_k"`
	TopP              float32 `json:"top_p" yaml:"top_p" toml:"top_p"`
	Temperature       float32 `json:"temperature" yaml:"temperature" toml:"temperature"`
	RepetitionPenalty float32 `json:"repetition_penalty" yaml:"repetition_penalty" toml:"repetition_penalty"`
	LastNTokens       int     `json:"last_n_tokens" yaml:"last_n_tokens" toml:"last_n_tokens"`
	Seed              int     `json:"seed" yaml:"seed" toml:"seed"`

	// Evaluation
	BatchSize int `json:"batch_size" yaml:"batch_size" toml:"batch_size"`
	Threads   int `json:"threads" yaml:"threads" toml:"threads"`

	// Generation
	MaxNewTokens int      `json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens"`
	Stop         []string `json:"stop,omitempty" yaml:"stop,omitempty" toml:"stop,omitempty"`
	Reset        bool     `json:"reset" yaml:"reset" toml:"reset"`
}

// DefaultConfig returns the fixed defaults. Seed -1 lets the engine pick
// entropy; Threads -1 lets it size its own pool.
func DefaultConfig() Config {
	return Config{
		TopK:              40,
		TopP:              0.95,
		Temperature:       0.8,
		RepetitionPenalty: 1.0,
		LastNTokens:       64,
		Seed:              -1,
		BatchSize:         8,
		Threads:           -1,
		MaxNewTokens:      256,
		Stop:              nil,
		Reset:             true,
	}
}

// resolve builds the effective config for one call by merging per-call
// options over the stored config. The copy keeps the session config
// immutable across calls.
func (c Config) resolve(opts []GenerateOption) Config {
	eff := c
	eff.Stop = append([]string(nil), c.Stop...)
	for _, opt := range opts {
		opt(&eff)
	}
	return eff
}
