// Command genctl drives one-shot generation from the terminal without the
// HTTP server: it loads the model, streams the completion to stdout, and
// exits. Requires a binary built with -tags ctransformers.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gend/internal/llm"
	"gend/internal/registry"
)

type rootConfig struct {
	Model     string
	ModelFile string
	ModelType string
	LogLvl    string
}

func buildRootCmd() *cobra.Command {
	cfg := &rootConfig{LogLvl: "warn"}
	root := &cobra.Command{
		Use:           "genctl",
		Short:         "One-shot text generation against a local model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfg.Model, "model", "m", "", "Path to a model file or directory")
	root.PersistentFlags().StringVar(&cfg.ModelFile, "model-file", "", "Model file name when --model is a directory with several")
	root.PersistentFlags().StringVarP(&cfg.ModelType, "type", "t", "", "Model family (gpt2, gptj, llama, ...)")
	root.PersistentFlags().StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error")

	root.AddCommand(buildRunCmd(cfg), buildTokenizeCmd(cfg))
	return root
}

func openSession(cfg *rootConfig) (*llm.Session, llm.Config, error) {
	lvl, err := zerolog.ParseLevel(cfg.LogLvl)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	if cfg.Model == "" {
		return nil, llm.Config{}, fmt.Errorf("--model is required")
	}
	resolved, err := registry.Resolve(cfg.Model, cfg.ModelFile, cfg.ModelType, llm.DefaultConfig())
	if err != nil {
		return nil, llm.Config{}, err
	}
	sess, err := llm.Open(resolved.Model.Path, resolved.Model.Type, resolved.Config, log)
	if err != nil {
		return nil, llm.Config{}, err
	}
	return sess, resolved.Config, nil
}

func buildRunCmd(cfg *rootConfig) *cobra.Command {
	var (
		maxNewTokens      int
		topK              int
		topP              float32
		temperature       float32
		repetitionPenalty float32
		lastNTokens       int
		seed              int
		batchSize         int
		threads           int
		stop              []string
		noReset           bool
	)
	cmd := &cobra.Command{
		Use:     "run <prompt>",
		Short:   "Generate a completion and stream it to stdout",
		Example: "  genctl run -m ~/models/ggml-gpt-2.bin -t gpt2 \"AI is going to\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer sess.Close()

			var opts []llm.GenerateOption
			if cmd.Flags().Changed("max-new-tokens") {
				opts = append(opts, llm.WithMaxNewTokens(maxNewTokens))
			}
			if cmd.Flags().Changed("top-k") {
				opts = append(opts, llm.WithTopK(topK))
			}
			if cmd.Flags().Changed("top-p") {
				opts = append(opts, llm.WithTopP(topP))
			}
			if cmd.Flags().Changed("temperature") {
				opts = append(opts, llm.WithTemperature(temperature))
			}
			if cmd.Flags().Changed("repetition-penalty") {
				opts = append(opts, llm.WithRepetitionPenalty(repetitionPenalty))
			}
			if cmd.Flags().Changed("last-n-tokens") {
				opts = append(opts, llm.WithLastNTokens(lastNTokens))
			}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, llm.WithSeed(seed))
			}
			if cmd.Flags().Changed("batch-size") {
				opts = append(opts, llm.WithBatchSize(batchSize))
			}
			if cmd.Flags().Changed("threads") {
				opts = append(opts, llm.WithThreads(threads))
			}
			if len(stop) > 0 {
				opts = append(opts, llm.WithStop(stop...))
			}
			if noReset {
				opts = append(opts, llm.WithReset(false))
			}

			stream, err := sess.Stream(strings.Join(args, " "), opts...)
			if err != nil {
				return err
			}
			for {
				chunk, ok := stream.Next()
				if !ok {
					break
				}
				fmt.Print(chunk)
			}
			fmt.Println()
			if err := stream.Err(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "[%s] prompt=%d completion=%d tokens\n",
				stream.FinishReason(), stream.PromptTokens(), stream.CompletionTokens())
			return nil
		},
	}
	cmd.Flags().IntVar(&maxNewTokens, "max-new-tokens", 256, "Maximum number of new tokens")
	cmd.Flags().IntVar(&topK, "top-k", 40, "Top-K sampling")
	cmd.Flags().Float32Var(&topP, "top-p", 0.95, "Nucleus sampling probability")
	cmd.Flags().Float32Var(&temperature, "temperature", 0.8, "Sampling temperature")
	cmd.Flags().Float32Var(&repetitionPenalty, "repetition-penalty", 1.0, "Repetition penalty")
	cmd.Flags().IntVar(&lastNTokens, "last-n-tokens", 64, "Window for the repetition penalty")
	cmd.Flags().IntVar(&seed, "seed", -1, "Random seed (negative = engine default)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 8, "Evaluation batch size")
	cmd.Flags().IntVar(&threads, "threads", -1, "Evaluation threads (-1 = auto)")
	cmd.Flags().StringArrayVar(&stop, "stop", nil, "Stop sequence (repeatable)")
	cmd.Flags().BoolVar(&noReset, "no-reset", false, "Keep engine context from a previous run")
	return cmd
}

func buildTokenizeCmd(cfg *rootConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "tokenize <text>",
		Short:   "Print the token ids the model tokenizes text into",
		Example: "  genctl tokenize -m ~/models/ggml-gpt-2.bin -t gpt2 \"hello world\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer sess.Close()
			tokens := sess.Tokenize(strings.Join(args, " "))
			for i, tok := range tokens {
				if i > 0 {
					fmt.Print(" ")
				}
				fmt.Print(tok)
			}
			fmt.Println()
			fmt.Fprintf(os.Stderr, "%d tokens\n", len(tokens))
			return nil
		},
	}
}

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
