//go:build ctransformers

package engine

/*
#include <stdbool.h>
#include <stdlib.h>

typedef void *llm_handle;

extern llm_handle ctransformers_llm_create(const char *model_path, const char *model_type);
extern void ctransformers_llm_delete(llm_handle llm);
extern int ctransformers_llm_tokenize(llm_handle llm, const char *text, int *output);
extern const char *ctransformers_llm_detokenize(llm_handle llm, int token);
extern bool ctransformers_llm_is_eos_token(llm_handle llm, int token);
extern bool ctransformers_llm_batch_eval(llm_handle llm, const int *tokens, int n_tokens, int batch_size, int threads);
extern int ctransformers_llm_sample(llm_handle llm, int top_k, float top_p, float temperature, float repetition_penalty, int last_n_tokens, int seed);
extern void ctransformers_llm_reset(llm_handle llm);
*/
import "C"

import (
	"os"
	"unsafe"
)

// builtWithEngine indicates this binary was compiled with the native engine.
var builtWithEngine = true

// native owns one ctransformers handle. Not safe for concurrent use; the
// session layer serializes access.
type native struct {
	h C.llm_handle
}

// Open loads a model through the native constructor. A missing file or a
// null handle from the constructor is a load error, never a degraded handle.
func Open(modelPath, modelType string) (Engine, error) {
	fi, err := os.Stat(modelPath)
	if err != nil || fi.IsDir() {
		return nil, ErrLoad(modelPath, modelType, "model file does not exist")
	}

	cPath := C.CString(modelPath)
	defer C.free(unsafe.Pointer(cPath))
	cType := C.CString(modelType)
	defer C.free(unsafe.Pointer(cType))

	h := C.ctransformers_llm_create(cPath, cType)
	if h == nil {
		return nil, ErrLoad(modelPath, modelType, "native constructor returned no handle")
	}
	return &native{h: h}, nil
}

func (n *native) Tokenize(text string) []Token {
	if len(text) == 0 {
		return nil
	}
	cText := C.CString(text)
	defer C.free(unsafe.Pointer(cText))

	// The output buffer is pre-sized to the byte length of the input. The
	// native tokenizer never produces more tokens than input bytes for the
	// byte/ASCII-heavy vocabularies it ships; see DESIGN.md for the boundary
	// assumption.
	buf := make([]C.int, len(text))
	count := int(C.ctransformers_llm_tokenize(n.h, cText, &buf[0]))
	out := make([]Token, count)
	for i := 0; i < count; i++ {
		out[i] = Token(buf[i])
	}
	return out
}

func (n *native) Detokenize(tok Token) string {
	// The native side returns a pointer into vocabulary storage; no free.
	return C.GoString(C.ctransformers_llm_detokenize(n.h, C.int(tok)))
}

func (n *native) IsEndToken(tok Token) bool {
	return bool(C.ctransformers_llm_is_eos_token(n.h, C.int(tok)))
}

func (n *native) BatchEval(tokens []Token, batchSize, threads int) error {
	if len(tokens) == 0 {
		return nil
	}
	cTokens := make([]C.int, len(tokens))
	for i, t := range tokens {
		cTokens[i] = C.int(t)
	}
	ok := C.ctransformers_llm_batch_eval(n.h, &cTokens[0], C.int(len(tokens)), C.int(batchSize), C.int(threads))
	if !bool(ok) {
		return ErrEval(len(tokens))
	}
	return nil
}

func (n *native) Sample(p SampleParams) Token {
	return Token(C.ctransformers_llm_sample(
		n.h,
		C.int(p.TopK),
		C.float(p.TopP),
		C.float(p.Temperature),
		C.float(p.RepetitionPenalty),
		C.int(p.LastNTokens),
		C.int(p.Seed),
	))
}

func (n *native) Reset() {
	C.ctransformers_llm_reset(n.h)
}

func (n *native) Close() error {
	if n.h != nil {
		C.ctransformers_llm_delete(n.h)
		n.h = nil
	}
	return nil
}
