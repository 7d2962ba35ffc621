// Package engine is the only package allowed to cross the native boundary.
// It exposes the eight capabilities of the ctransformers C ABI as an explicit
// interface; everything above it (session, generator, decoder) talks to the
// engine exclusively through Engine.
package engine

// Token is an opaque vocabulary id. It is meaningful only to the engine
// instance that produced it.
type Token = int32

// Built reports whether this binary was compiled with the native engine
// (-tags ctransformers).
func Built() bool { return builtWithEngine }

// SampleParams are the knobs forwarded verbatim to the native sampler.
// Seed < 0 means "let the engine pick entropy"; sampling is then not
// reproducible across calls.
type SampleParams struct {
	TopK              int
	TopP              float32
	Temperature       float32
	RepetitionPenalty float32
	LastNTokens       int
	Seed              int
}

// Engine wraps one loaded native model instance. It is exclusively owned by
// one session and has no thread-safety guarantee: callers must never invoke
// two methods concurrently. Close releases the native handle and must be
// called exactly once.
type Engine interface {
	// Tokenize converts text into engine vocabulary ids. The native call
	// cannot fail for valid UTF-8 input that fits its pre-sized buffer.
	Tokenize(text string) []Token

	// Detokenize returns the UTF-8 fragment for one token id. Total for any
	// id the engine itself produced; unknown ids map to the empty string.
	Detokenize(tok Token) string

	// IsEndToken reports whether tok marks generation completion.
	IsEndToken(tok Token) bool

	// BatchEval advances engine state by evaluating tokens in batches of
	// batchSize using the given thread count. A native failure (for example
	// context overflow) is returned as an eval error and is fatal to the
	// current generation call.
	BatchEval(tokens []Token, batchSize, threads int) error

	// Sample draws one token from the current logits.
	Sample(p SampleParams) Token

	// Reset clears engine-internal generation state. Idempotent.
	Reset()

	// Close destroys the native handle. Idempotent from the caller's side:
	// implementations must tolerate (and ignore) repeated calls.
	Close() error
}
