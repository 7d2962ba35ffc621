package llm

import "gend/internal/engine"

// TokenGenerator is a lazy, pull-based token stream. No token is sampled
// until the previous one has been consumed. It is single-pass: a fresh
// generator must be created per generation call.
//
// The loop is: optional reset, prime-evaluate the whole prompt, then sample
// one token, evaluate it to advance engine state, and yield it unless it is
// an end-token. An evaluation failure produces zero further tokens and
// surfaces through Err.
type TokenGenerator struct {
	s      *Session
	cfg    Config
	prompt []engine.Token

	primed bool
	done   bool
	err    error
}

// Next returns the next sampled token. ok is false when the stream ended,
// either normally (end-token) or with an error; check Err to distinguish.
func (g *TokenGenerator) Next() (engine.Token, bool) {
	if g.done || g.err != nil {
		return 0, false
	}
	if !g.primed {
		if g.cfg.Reset {
			g.s.Reset()
		}
		if err := g.s.Eval(g.prompt, WithBatchSize(g.cfg.BatchSize), WithThreads(g.cfg.Threads)); err != nil {
			g.err = err
			return 0, false
		}
		g.primed = true
	}

	tok := g.s.Sample(
		WithTopK(g.cfg.TopK),
		WithTopP(g.cfg.TopP),
		WithTemperature(g.cfg.Temperature),
		WithRepetitionPenalty(g.cfg.RepetitionPenalty),
		WithLastNTokens(g.cfg.LastNTokens),
		WithSeed(g.cfg.Seed),
	)
	if err := g.s.Eval([]engine.Token{tok}, WithBatchSize(g.cfg.BatchSize), WithThreads(g.cfg.Threads)); err != nil {
		g.err = err
		return 0, false
	}
	if g.s.IsEndToken(tok) {
		g.done = true
		return 0, false
	}
	return tok, true
}

// Err returns the error that terminated the stream, if any.
func (g *TokenGenerator) Err() error { return g.err }
