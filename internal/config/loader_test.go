package config

import (
	"os"
	"path/filepath"
	"testing"

	"gend/internal/llm"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmodel: /m/model.bin\nmodel_type: gpt2\nmax_queue_depth: 8\ngeneration:\n  top_k: 10\n  stop: [\"END\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Model != "/m/model.bin" || cfg.ModelType != "gpt2" || cfg.MaxQueueDepth != 8 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Generation.TopK == nil || *cfg.Generation.TopK != 10 || len(cfg.Generation.Stop) != 1 {
		t.Fatalf("unexpected generation overrides: %+v", cfg.Generation)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model":"/m","model_file":"a.bin","max_wait_ms":250}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.Model != "/m" || cfg.ModelFile != "a.bin" || cfg.MaxWaitMS != 250 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodel=\"/x/model.bin\"\nmodel_type=\"llama\"\ncors_enabled=true\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.Model != "/x/model.bin" || cfg.ModelType != "llama" || !cfg.CORSEnabled {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestGenerationApply(t *testing.T) {
	topK := 5
	reset := false
	g := Generation{TopK: &topK, Reset: &reset, Stop: []string{"a"}}
	got := g.Apply(llm.DefaultConfig())
	if got.TopK != 5 || got.Reset || len(got.Stop) != 1 {
		t.Fatalf("apply failed: %+v", got)
	}
	// Untouched fields keep their defaults.
	if got.TopP != llm.DefaultConfig().TopP || got.MaxNewTokens != 256 {
		t.Fatalf("unrelated fields changed: %+v", got)
	}
}
