package llm

// GenerateOption overrides one field of the effective config for a single
// call. Options beat the session config; absent options fall back to it.
type GenerateOption func(*Config)

// WithTopK sets the top-k value to use for sampling.
func WithTopK(k int) GenerateOption { return func(c *Config) { c.TopK = k } }

// WithTopP sets the top-p value to use for sampling.
func WithTopP(p float32) GenerateOption { return func(c *Config) { c.TopP = p } }

// WithTemperature sets the temperature to use for sampling.
func WithTemperature(t float32) GenerateOption { return func(c *Config) { c.Temperature = t } }

// WithRepetitionPenalty sets the repetition penalty to use for sampling.
func WithRepetitionPenalty(p float32) GenerateOption {
	return func(c *Config) { c.RepetitionPenalty = p }
}

// WithLastNTokens sets the number of last tokens to use for repetition penalty.
func WithLastNTokens(n int) GenerateOption { return func(c *Config) { c.LastNTokens = n } }

// WithSeed sets the seed value to use for sampling tokens. Negative means
// engine-chosen entropy.
func WithSeed(s int) GenerateOption { return func(c *Config) { c.Seed = s } }

// WithBatchSize sets the batch size to use for evaluating tokens.
func WithBatchSize(n int) GenerateOption { return func(c *Config) { c.BatchSize = n } }

// WithThreads sets the number of threads to use for evaluating tokens.
func WithThreads(n int) GenerateOption { return func(c *Config) { c.Threads = n } }

// WithMaxNewTokens sets the maximum number of new tokens to generate.
func WithMaxNewTokens(n int) GenerateOption { return func(c *Config) { c.MaxNewTokens = n } }

// WithStop sets the sequences that stop generation when encountered.
func WithStop(stop ...string) GenerateOption {
	return func(c *Config) { c.Stop = append([]string(nil), stop...) }
}

// WithReset sets whether to reset the model state before generating.
func WithReset(reset bool) GenerateOption { return func(c *Config) { c.Reset = reset } }
