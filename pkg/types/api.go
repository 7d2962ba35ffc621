package types

// GenerateRequest represents a generation request payload. Numeric sampling
// fields are pointers so an absent field falls back to the server's session
// config rather than a zero value.
type GenerateRequest struct {
	// Required prompt text to generate a completion for.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
	// Maximum number of new tokens to generate.
	// example: 128
	MaxNewTokens *int `json:"max_new_tokens,omitempty" example:"128"`
	// Top-K sampling: limit candidates to top K tokens.
	// example: 40
	TopK *int `json:"top_k,omitempty" example:"40"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP *float32 `json:"top_p,omitempty" example:"0.9"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature *float32 `json:"temperature,omitempty" example:"0.7"`
	// Repetition penalty applied over the last_n_tokens window.
	// example: 1.1
	RepetitionPenalty *float32 `json:"repetition_penalty,omitempty" example:"1.1"`
	// Number of recent tokens considered for the repetition penalty.
	// example: 64
	LastNTokens *int `json:"last_n_tokens,omitempty" example:"64"`
	// Random seed for reproducibility; negative or omitted lets the engine choose.
	// example: 42
	Seed *int `json:"seed,omitempty" example:"42"`
	// Batch size used when evaluating tokens.
	// example: 8
	BatchSize *int `json:"batch_size,omitempty" example:"8"`
	// Number of threads used when evaluating tokens.
	// example: 4
	Threads *int `json:"threads,omitempty" example:"4"`
	// Optional stop sequences. Generation stops when any sequence is matched
	// and the matched text is never emitted.
	// example: ["\n\n","END"]
	Stop []string `json:"stop,omitempty" example:"[\"\\n\\n\",\"END\"]"`
	// Whether to reset engine context state before generating. Defaults to
	// the server config; passing false continues from the previous call's
	// context, which is a sharp edge unless you know the prior state.
	Reset *bool `json:"reset,omitempty" example:"true"`
}

// TokenChunk is one NDJSON line of streamed generation output.
type TokenChunk struct {
	// Text fragment, already stop-sequence filtered.
	Token string `json:"token"`
}

// Usage contains token accounting for one generation call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerateResult is the final NDJSON line of a generation stream.
type GenerateResult struct {
	Done bool `json:"done"`
	// Generation id for correlation with server logs.
	ID string `json:"id"`
	// Full generated text after stop-sequence truncation.
	Content string `json:"content"`
	// Why generation ended: stop | eos | length.
	// example: eos
	FinishReason string `json:"finish_reason" example:"eos"`
	Usage        Usage  `json:"usage"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ModelsResponse wraps the model list returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// The loaded model, if any.
	Model *Model `json:"model,omitempty"`
	// Whether the native engine was compiled into this binary.
	EngineBuilt bool `json:"engine_built"`
	// Overall state: ready | degraded.
	// example: ready
	State string `json:"state" example:"ready"`
	// Current queue length for incoming requests.
	QueueLen int `json:"queue_len"`
	// Number of in-flight generation calls (0 or 1).
	Inflight int `json:"inflight"`
	// Maximum queued requests allowed before backpressure triggers.
	MaxQueueDepth int `json:"max_queue_depth"`
	// Total completed generation calls.
	GenerationsTotal uint64 `json:"generations_total"`
	// Total generated tokens across all calls.
	TokensTotal uint64 `json:"tokens_total"`
	// Uptime of the server in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
}
