package llm

import "strings"

// FinishReason records why a stream terminated.
type FinishReason string

const (
	// FinishStop means a stop sequence appeared in the generated text.
	FinishStop FinishReason = "stop"
	// FinishEOS means the engine produced an end-token.
	FinishEOS FinishReason = "eos"
	// FinishLength means the max-new-tokens cap was reached.
	FinishLength FinishReason = "length"
)

// StreamDecoder converts the token stream into a text stream such that
// generation stops exactly when a stop sequence first appears, no character
// of a stop sequence is ever emitted, and no text is withheld longer than
// necessary.
//
// The accumulation buffer holds only text not yet emitted: the suffix that
// could still become part of a stop sequence once more tokens arrive.
type StreamDecoder struct {
	gen    *TokenGenerator
	stop   []string
	maxNew int

	buf          string
	count        int
	promptTokens int
	done         bool
	err          error
	finish       FinishReason
}

func newStreamDecoder(gen *TokenGenerator, stop []string, maxNew, promptTokens int) *StreamDecoder {
	return &StreamDecoder{gen: gen, stop: stop, maxNew: maxNew, promptTokens: promptTokens}
}

// Next returns the next text chunk. ok is false when the stream ended; check
// Err to distinguish failure from normal termination. Chunks are emitted in
// token order, modulo the withholding delay for stop-sequence prefixes.
func (d *StreamDecoder) Next() (string, bool) {
	if d.done || d.err != nil {
		return "", false
	}
	for {
		tok, ok := d.gen.Next()
		if !ok {
			if err := d.gen.Err(); err != nil {
				// Propagate immediately; buffered text is not partial output
				// the caller should see.
				d.err = err
				d.done = true
				return "", false
			}
			d.done = true
			d.finish = FinishEOS
			return d.flush()
		}
		d.buf += d.gen.s.Detokenize(tok)

		// A stop sequence may appear anywhere in the buffer, not only at the
		// end. The earliest occurrence wins; on a position tie the first stop
		// in configured order does.
		if p, found := leftmostStop(d.buf, d.stop); found {
			chunk := d.buf[:p]
			d.buf = ""
			d.done = true
			d.finish = FinishStop
			if chunk != "" {
				return chunk, true
			}
			return "", false
		}

		// Withhold the longest suffix of the buffer that is also a prefix of
		// some stop sequence; a later token could complete it.
		longest := longestStopPrefix(d.buf, d.stop)
		var chunk string
		if end := len(d.buf) - longest; end > 0 {
			chunk = d.buf[:end]
			d.buf = d.buf[end:]
		}

		d.count++
		if d.count >= d.maxNew {
			// The cap overrides withholding: flush even a stop prefix.
			chunk += d.buf
			d.buf = ""
			d.done = true
			d.finish = FinishLength
			if chunk != "" {
				return chunk, true
			}
			return "", false
		}
		if chunk != "" {
			return chunk, true
		}
		// Everything is withheld; pull the next token.
	}
}

// Err returns the error that terminated the stream, if any.
func (d *StreamDecoder) Err() error { return d.err }

// FinishReason returns why the stream terminated. Empty until done.
func (d *StreamDecoder) FinishReason() FinishReason { return d.finish }

// PromptTokens returns the number of tokens the prompt evaluated to.
func (d *StreamDecoder) PromptTokens() int { return d.promptTokens }

// CompletionTokens returns the number of generated tokens consumed so far.
func (d *StreamDecoder) CompletionTokens() int { return d.count }

// flush emits whatever remains in the buffer exactly once. An empty buffer
// is a no-op, not an emitted empty chunk.
func (d *StreamDecoder) flush() (string, bool) {
	if d.buf == "" {
		return "", false
	}
	chunk := d.buf
	d.buf = ""
	return chunk, true
}

// leftmostStop scans text for the earliest position where any stop string
// occurs. Ties on position resolve to the first stop in list order.
func leftmostStop(text string, stop []string) (int, bool) {
	best := -1
	for _, s := range stop {
		if p := strings.Index(text, s); p >= 0 && (best < 0 || p < best) {
			best = p
		}
	}
	return best, best >= 0
}

// longestStopPrefix returns the length of the longest suffix of text that is
// simultaneously a prefix of some stop string, 0 if none.
func longestStopPrefix(text string, stop []string) int {
	longest := 0
	for _, s := range stop {
		n := len(s)
		if n > len(text) {
			n = len(text)
		}
		for i := n; i > 0; i-- {
			if strings.HasSuffix(text, s[:i]) {
				if i > longest {
					longest = i
				}
				break
			}
		}
	}
	return longest
}
