package llm

import (
	"gend/internal/engine"
)

// runeBase offsets prompt tokens so they never collide with scripted ids.
const runeBase engine.Token = 1 << 20

// endTok is the fake's end-of-sequence token.
const endTok engine.Token = 0

// fakeEngine is a scriptable engine for tests. Tokenize maps one rune to one
// token; Sample pops from a fixed script; frags maps scripted ids to text.
type fakeEngine struct {
	frags map[engine.Token]string
	script []engine.Token
	sampleIdx int

	evals      [][]engine.Token
	lastBatch  int
	lastThread int
	failEvalAt int // 1-based eval call index to fail at; 0 = never
	lastSample engine.SampleParams

	resets int
	closes int
}

func newFakeEngine(frags map[engine.Token]string, script ...engine.Token) *fakeEngine {
	return &fakeEngine{frags: frags, script: script}
}

// scriptFragments builds a fake whose script yields one token per fragment,
// in order, followed by the end token.
func scriptFragments(frags ...string) *fakeEngine {
	m := make(map[engine.Token]string, len(frags))
	script := make([]engine.Token, 0, len(frags)+1)
	for i, f := range frags {
		id := engine.Token(i + 1)
		m[id] = f
		script = append(script, id)
	}
	script = append(script, endTok)
	return newFakeEngine(m, script...)
}

func (f *fakeEngine) Tokenize(text string) []engine.Token {
	var out []engine.Token
	for _, r := range text {
		out = append(out, runeBase+engine.Token(r))
	}
	return out
}

func (f *fakeEngine) Detokenize(tok engine.Token) string {
	if tok >= runeBase {
		return string(rune(tok - runeBase))
	}
	return f.frags[tok]
}

func (f *fakeEngine) IsEndToken(tok engine.Token) bool { return tok == endTok }

func (f *fakeEngine) BatchEval(tokens []engine.Token, batchSize, threads int) error {
	f.evals = append(f.evals, append([]engine.Token(nil), tokens...))
	f.lastBatch = batchSize
	f.lastThread = threads
	if f.failEvalAt > 0 && len(f.evals) == f.failEvalAt {
		return engine.ErrEval(len(tokens))
	}
	return nil
}

func (f *fakeEngine) Sample(p engine.SampleParams) engine.Token {
	f.lastSample = p
	if f.sampleIdx >= len(f.script) {
		return endTok
	}
	tok := f.script[f.sampleIdx]
	f.sampleIdx++
	return tok
}

func (f *fakeEngine) Reset() { f.resets++ }

func (f *fakeEngine) Close() error {
	f.closes++
	return nil
}
