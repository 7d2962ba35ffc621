package llm

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"gend/internal/engine"
)

// Session owns one engine handle and one config. The engine carries all
// mutable generation state (context window, recent tokens); the session only
// resolves parameters and serializes access to the native resource.
//
// A session may be reused sequentially across many generation calls.
// Concurrent generation calls are disallowed; the serving layer admits one
// generation at a time. Abandoning a partially consumed stream leaves the
// engine context advanced up to the last evaluated token - the next call
// without WithReset(true) continues from that point.
type Session struct {
	mu  sync.Mutex
	eng engine.Engine
	cfg Config
	log zerolog.Logger

	closeOnce sync.Once
	closed    bool
}

// Open loads a model through the native engine and wraps it in a session.
func Open(modelPath, modelType string, cfg Config, log zerolog.Logger) (*Session, error) {
	eng, err := engine.Open(modelPath, modelType)
	if err != nil {
		return nil, err
	}
	log.Info().Str("model", modelPath).Str("type", modelType).Msg("model loaded")
	return NewSession(eng, cfg, log), nil
}

// NewSession wraps an already constructed engine. The session takes exclusive
// ownership: the engine must not be shared and is released by Close.
func NewSession(eng engine.Engine, cfg Config, log zerolog.Logger) *Session {
	return &Session{eng: eng, cfg: cfg, log: log}
}

// Config returns the session's stored config.
func (s *Session) Config() Config { return s.cfg }

// Tokenize converts text into a token sequence.
func (s *Session) Tokenize(text string) []engine.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Tokenize(text)
}

// Detokenize returns the combined text of the given tokens.
func (s *Session) Detokenize(tokens ...engine.Token) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(s.eng.Detokenize(t))
	}
	return b.String()
}

// IsEndToken reports whether the token marks generation completion.
func (s *Session) IsEndToken(tok engine.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.IsEndToken(tok)
}

// Eval advances engine state by evaluating tokens, resolving batch size and
// thread count from options over the session config. A reported native
// failure is fatal to the current generation call.
func (s *Session) Eval(tokens []engine.Token, opts ...GenerateOption) error {
	eff := s.cfg.resolve(opts)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return s.eng.BatchEval(tokens, eff.BatchSize, eff.Threads)
}

// Sample draws one token using resolved sampling parameters.
func (s *Session) Sample(opts ...GenerateOption) engine.Token {
	eff := s.cfg.resolve(opts)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Sample(engine.SampleParams{
		TopK:              eff.TopK,
		TopP:              eff.TopP,
		Temperature:       eff.Temperature,
		RepetitionPenalty: eff.RepetitionPenalty,
		LastNTokens:       eff.LastNTokens,
		Seed:              eff.Seed,
	})
}

// Reset clears engine-internal generation state. Idempotent.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.Reset()
}

// Close releases the engine handle. Safe to call more than once; the handle
// is destroyed exactly once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		err = s.eng.Close()
	})
	return err
}

// Generate starts the token generation loop for an already tokenized prompt.
// The returned generator is single-pass and must not outlive one call.
func (s *Session) Generate(prompt []engine.Token, opts ...GenerateOption) *TokenGenerator {
	return &TokenGenerator{s: s, cfg: s.cfg.resolve(opts), prompt: prompt}
}

// Stream tokenizes prompt and returns a text stream with stop-sequence
// truncation applied. An empty stop string is rejected here, before any
// engine work happens.
func (s *Session) Stream(prompt string, opts ...GenerateOption) (*StreamDecoder, error) {
	eff := s.cfg.resolve(opts)
	for _, stop := range eff.Stop {
		if stop == "" {
			return nil, ErrInvalidConfig("stop sequence must not be empty")
		}
	}
	tokens := s.Tokenize(prompt)
	gen := &TokenGenerator{s: s, cfg: eff, prompt: tokens}
	return newStreamDecoder(gen, eff.Stop, eff.MaxNewTokens, len(tokens)), nil
}

// Complete runs Stream to exhaustion and returns the concatenated text.
func (s *Session) Complete(prompt string, opts ...GenerateOption) (string, error) {
	d, err := s.Stream(prompt, opts...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		chunk, ok := d.Next()
		if !ok {
			break
		}
		b.WriteString(chunk)
	}
	if err := d.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
