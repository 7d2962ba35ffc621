// Package registry resolves a model path or directory to a concrete model
// file and pre-populates the generation config from an optional config.json
// sidecar next to it.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"gend/internal/llm"
	"gend/pkg/types"
)

// Resolved is the outcome of model discovery: the file to load, the engine
// model family, and the generation config with sidecar defaults merged in.
type Resolved struct {
	Model  types.Model
	Config llm.Config
}

// Resolve locates a model file from path (a file or a directory), determines
// the model type (explicit modelType wins over the sidecar's model_type) and
// merges sidecar sampling defaults over base. modelFile narrows the choice
// when path is a directory holding several model files.
func Resolve(path, modelFile, modelType string, base llm.Config) (Resolved, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return Resolved{}, err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return Resolved{}, fmt.Errorf("abs path: %w", err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return Resolved{}, fmt.Errorf("model path %q does not exist", path)
	}

	cfg := base
	sidecarType := ""
	modelPath := abs
	if fi.IsDir() {
		modelPath, err = findModelFile(abs, modelFile)
		if err != nil {
			return Resolved{}, err
		}
		sidecarType, cfg = applySidecar(abs, cfg)
	}

	if modelType == "" {
		modelType = sidecarType
	}
	if modelType == "" {
		return Resolved{}, fmt.Errorf("unable to detect model type for %q: specify one explicitly", path)
	}

	name := filepath.Base(modelPath)
	return Resolved{
		Model:  types.Model{ID: name, Name: name, Path: modelPath, Type: modelType},
		Config: cfg,
	}, nil
}

// modelExts are the file extensions treated as model weights.
var modelExts = []string{".bin", ".gguf"}

func isModelFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range modelExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// findModelFile picks the model file inside dir. With an explicit filename it
// must exist; otherwise exactly one candidate is required.
func findModelFile(dir, filename string) (string, error) {
	if filename != "" {
		p := filepath.Join(dir, filename)
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			return "", fmt.Errorf("model file %q not found in %q", filename, dir)
		}
		return p, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !isModelFile(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	switch len(files) {
	case 0:
		return "", fmt.Errorf("no model files found in %q", dir)
	case 1:
		return filepath.Join(dir, files[0]), nil
	default:
		return "", fmt.Errorf("multiple model files found in %q (%s): specify one", dir, strings.Join(files, ", "))
	}
}

// sidecar mirrors the relevant parts of a config.json metadata file.
type sidecar struct {
	ModelType          string `json:"model_type"`
	TaskSpecificParams struct {
		TextGeneration struct {
			TopK              *int     `json:"top_k"`
			TopP              *float32 `json:"top_p"`
			Temperature       *float32 `json:"temperature"`
			RepetitionPenalty *float32 `json:"repetition_penalty"`
			LastNTokens       *int     `json:"last_n_tokens"`
		} `json:"text-generation"`
	} `json:"task_specific_params"`
}

// applySidecar reads dir/config.json if present and merges its generation
// defaults over cfg. A missing or malformed sidecar leaves cfg unchanged.
func applySidecar(dir string, cfg llm.Config) (string, llm.Config) {
	b, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return "", cfg
	}
	var sc sidecar
	if err := json.Unmarshal(b, &sc); err != nil {
		return "", cfg
	}
	p := sc.TaskSpecificParams.TextGeneration
	if p.TopK != nil {
		cfg.TopK = *p.TopK
	}
	if p.TopP != nil {
		cfg.TopP = *p.TopP
	}
	if p.Temperature != nil {
		cfg.Temperature = *p.Temperature
	}
	if p.RepetitionPenalty != nil {
		cfg.RepetitionPenalty = *p.RepetitionPenalty
	}
	if p.LastNTokens != nil {
		cfg.LastNTokens = *p.LastNTokens
	}
	return sc.ModelType, cfg
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
