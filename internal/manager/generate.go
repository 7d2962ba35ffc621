package manager

import (
	"context"
	"io"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"gend/internal/engine"
	"gend/internal/llm"
	"gend/pkg/types"
)

// Generate runs one generation call end to end: admission, streaming NDJSON
// token lines to w, and a final done line with the full content and token
// accounting. flush, when non-nil, is called after every written line.
func (m *Manager) Generate(ctx context.Context, req types.GenerateRequest, w io.Writer, flush func()) error {
	if m.sess == nil {
		return engine.ErrUnavailable("no model loaded: native engine unavailable")
	}

	release, err := m.beginGeneration(ctx)
	if err != nil {
		return err
	}
	defer release()

	id := uuid.NewString()
	start := time.Now()
	m.log.Debug().Str("id", id).Int("prompt_len", len(req.Prompt)).Msg("generation start")

	stream, err := m.sess.Stream(req.Prompt, requestOptions(req)...)
	if err != nil {
		return err
	}

	var content strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, ok := stream.Next()
		if !ok {
			break
		}
		content.WriteString(chunk)
		line, _ := json.Marshal(types.TokenChunk{Token: chunk})
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
		if flush != nil {
			flush()
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}

	completion := stream.CompletionTokens()
	final := types.GenerateResult{
		Done:         true,
		ID:           id,
		Content:      content.String(),
		FinishReason: string(stream.FinishReason()),
		Usage: types.Usage{
			PromptTokens:     stream.PromptTokens(),
			CompletionTokens: completion,
			TotalTokens:      stream.PromptTokens() + completion,
		},
	}
	line, _ := json.Marshal(final)
	if _, err := w.Write(append(line, '\n')); err != nil {
		return err
	}
	if flush != nil {
		flush()
	}

	m.generations.Add(1)
	m.tokensOut.Add(uint64(completion))
	observeGeneration(string(stream.FinishReason()), completion, time.Since(start))
	m.log.Info().
		Str("id", id).
		Str("finish_reason", string(stream.FinishReason())).
		Int("prompt_tokens", stream.PromptTokens()).
		Int("completion_tokens", completion).
		Dur("dur", time.Since(start)).
		Msg("generation end")
	return nil
}

// requestOptions maps the optional request fields to generation options.
// Absent fields contribute nothing and fall back to the session config.
func requestOptions(req types.GenerateRequest) []llm.GenerateOption {
	var opts []llm.GenerateOption
	if req.TopK != nil {
		opts = append(opts, llm.WithTopK(*req.TopK))
	}
	if req.TopP != nil {
		opts = append(opts, llm.WithTopP(*req.TopP))
	}
	if req.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*req.Temperature))
	}
	if req.RepetitionPenalty != nil {
		opts = append(opts, llm.WithRepetitionPenalty(*req.RepetitionPenalty))
	}
	if req.LastNTokens != nil {
		opts = append(opts, llm.WithLastNTokens(*req.LastNTokens))
	}
	if req.Seed != nil {
		opts = append(opts, llm.WithSeed(*req.Seed))
	}
	if req.BatchSize != nil {
		opts = append(opts, llm.WithBatchSize(*req.BatchSize))
	}
	if req.Threads != nil {
		opts = append(opts, llm.WithThreads(*req.Threads))
	}
	if req.MaxNewTokens != nil {
		opts = append(opts, llm.WithMaxNewTokens(*req.MaxNewTokens))
	}
	if req.Stop != nil {
		opts = append(opts, llm.WithStop(req.Stop...))
	}
	if req.Reset != nil {
		opts = append(opts, llm.WithReset(*req.Reset))
	}
	return opts
}
