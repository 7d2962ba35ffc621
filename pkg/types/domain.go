package types

// Model describes a loadable model file.
type Model struct {
	// Stable identifier (the file name).
	// example: ggml-gpt-2.bin
	ID string `json:"id" example:"ggml-gpt-2.bin"`
	// Human readable name.
	Name string `json:"name"`
	// Absolute path to the model file.
	Path string `json:"path"`
	// Engine model family, e.g. gpt2, gptj, llama.
	// example: gpt2
	Type string `json:"type" example:"gpt2"`
}
