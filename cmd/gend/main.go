package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"gend/internal/config"
	"gend/internal/engine"
	"gend/internal/httpapi"
	"gend/internal/llm"
	"gend/internal/manager"
	"gend/internal/registry"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// splitCSV splits a comma separated list, trimming spaces and dropping empties.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	// Flags with environment variable defaults
	addr := flag.String("addr", envOr("GEND_ADDR", ":8090"), "HTTP listen address, e.g. :8090")
	modelPath := flag.String("model", envOr("GEND_MODEL", ""), "Path to a model file or a directory containing one")
	modelFile := flag.String("model-file", envOr("GEND_MODEL_FILE", ""), "Model file name when -model is a directory with several")
	modelType := flag.String("model-type", envOr("GEND_MODEL_TYPE", ""), "Model family (gpt2, gptj, llama, ...); autodetected from config.json when omitted")
	configPath := flag.String("config", envOr("GEND_CONFIG", ""), "Optional config file (.yaml/.json/.toml)")
	maxQueueDepth := flag.Int("max-queue-depth", envIntOr("GEND_MAX_QUEUE_DEPTH", 0), "Max queued generation requests before 429 (0=default)")
	maxWaitMS := flag.Int("max-wait-ms", envIntOr("GEND_MAX_WAIT_MS", 0), "Max milliseconds a request may wait in queue (0=default)")
	corsOrigins := flag.String("cors-origins", envOr("GEND_CORS_ORIGINS", ""), "Comma separated allowed CORS origins (empty disables CORS)")
	logLevel := flag.String("log-level", envOr("GEND_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()

	genCfg := llm.DefaultConfig()
	var fileCfg config.Config
	if *configPath != "" {
		fileCfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		genCfg = fileCfg.Generation.Apply(genCfg)
	}
	// Flags win over the config file; the file fills in what flags left unset.
	if *addr == ":8090" && fileCfg.Addr != "" {
		*addr = fileCfg.Addr
	}
	if *modelPath == "" {
		*modelPath = fileCfg.Model
	}
	if *modelFile == "" {
		*modelFile = fileCfg.ModelFile
	}
	if *modelType == "" {
		*modelType = fileCfg.ModelType
	}
	if *maxQueueDepth == 0 {
		*maxQueueDepth = fileCfg.MaxQueueDepth
	}
	if *maxWaitMS == 0 {
		*maxWaitMS = fileCfg.MaxWaitMS
	}
	if *modelPath == "" {
		log.Fatal().Msg("no model configured: pass -model or set GEND_MODEL")
	}

	resolved, err := registry.Resolve(*modelPath, *modelFile, *modelType, genCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("resolve model")
	}

	mgrCfg := manager.Config{
		MaxQueueDepth: *maxQueueDepth,
		MaxWait:       time.Duration(*maxWaitMS) * time.Millisecond,
		Logger:        log,
	}
	sess, err := llm.Open(resolved.Model.Path, resolved.Model.Type, resolved.Config, log)
	switch {
	case err == nil:
		mgrCfg.Session = sess
		mgrCfg.Model = &resolved.Model
	case engine.IsUnavailable(err):
		// Serve status endpoints; generation returns 503 until rebuilt with
		// the engine tag.
		log.Warn().Err(err).Msg("starting degraded")
	default:
		log.Fatal().Err(err).Msg("load model")
	}
	mgr := manager.New(mgrCfg)
	defer mgr.Close()

	httpapi.SetLogger(log)
	if fileCfg.MaxBodyBytes > 0 {
		httpapi.SetMaxBodyBytes(fileCfg.MaxBodyBytes)
	}
	origins := splitCSV(*corsOrigins)
	if len(origins) == 0 && fileCfg.CORSEnabled {
		origins = fileCfg.CORSOrigins
	}
	httpapi.SetCORSOptions(len(origins) > 0, origins)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(mgr)
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Info().Str("addr", *addr).Str("model", resolved.Model.Path).Bool("engine_built", engine.Built()).Msg("gend listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}
