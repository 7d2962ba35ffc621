package llm

import (
	"testing"
)

func TestSessionTokenizeDetokenizeRoundTrip(t *testing.T) {
	f := newFakeEngine(nil)
	s := newTestSession(f, DefaultConfig())
	for _, text := range []string{"hello", "café", "line\nbreak"} {
		toks := s.Tokenize(text)
		if got := s.Detokenize(toks...); got != text {
			t.Fatalf("round trip %q -> %q", text, got)
		}
	}
}

func TestSessionSampleResolvesOverrides(t *testing.T) {
	f := newFakeEngine(nil, endTok)
	cfg := DefaultConfig()
	cfg.TopK = 11
	s := newTestSession(f, cfg)

	s.Sample()
	if f.lastSample.TopK != 11 {
		t.Fatalf("config default not used: %+v", f.lastSample)
	}
	s.Sample(WithTopK(3), WithTemperature(0.1))
	if f.lastSample.TopK != 3 || f.lastSample.Temperature != 0.1 {
		t.Fatalf("override not applied: %+v", f.lastSample)
	}
	// Overrides are per-call; the stored config is untouched.
	s.Sample()
	if f.lastSample.TopK != 11 {
		t.Fatalf("override leaked into session config: %+v", f.lastSample)
	}
}

func TestSessionCloseReleasesEngineOnce(t *testing.T) {
	f := newFakeEngine(nil)
	s := newTestSession(f, DefaultConfig())
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if f.closes != 1 {
		t.Fatalf("engine closed %d times", f.closes)
	}
}

func TestSessionEvalAfterClose(t *testing.T) {
	f := newFakeEngine(nil)
	s := newTestSession(f, DefaultConfig())
	_ = s.Close()
	if err := s.Eval(nil); err != ErrSessionClosed {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestSessionResetIdempotent(t *testing.T) {
	f := newFakeEngine(nil)
	s := newTestSession(f, DefaultConfig())
	s.Reset()
	s.Reset()
	if f.resets != 2 {
		t.Fatalf("resets = %d", f.resets)
	}
}
