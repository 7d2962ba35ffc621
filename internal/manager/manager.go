package manager

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"gend/internal/llm"
	"gend/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	// Session is the loaded model session. May be nil when the native engine
	// is not compiled in; the manager then serves status endpoints and
	// rejects generation with a dependency error.
	Session *llm.Session
	// Model describes the file behind Session. Nil when Session is nil.
	Model *types.Model

	MaxQueueDepth int
	MaxWait       time.Duration
	Logger        zerolog.Logger
}

// Manager owns the model session and serializes generation calls: one
// in-flight generation, a bounded FIFO queue in front of it.
type Manager struct {
	sess  *llm.Session
	model *types.Model
	log   zerolog.Logger

	queueCh chan struct{}
	genCh   chan struct{}
	maxWait time.Duration

	startTime   time.Time
	generations atomic.Uint64
	tokensOut   atomic.Uint64
}

// New constructs a Manager, applying package defaults for unset fields.
func New(cfg Config) *Manager {
	depth := cfg.MaxQueueDepth
	if depth <= 0 {
		depth = defaultMaxQueueDepth
	}
	wait := cfg.MaxWait
	if wait <= 0 {
		wait = defaultMaxWait
	}
	return &Manager{
		sess:      cfg.Session,
		model:     cfg.Model,
		log:       cfg.Logger,
		queueCh:   make(chan struct{}, depth),
		genCh:     make(chan struct{}, 1),
		maxWait:   wait,
		startTime: time.Now(),
	}
}

// ListModels returns the loaded model as a one-element list, or an empty
// list when the engine is unavailable.
func (m *Manager) ListModels() []types.Model {
	if m.model == nil {
		return []types.Model{}
	}
	return []types.Model{*m.model}
}

// Ready reports whether the manager can serve generation requests.
func (m *Manager) Ready() bool { return m.sess != nil }

// Close releases the underlying session. Safe to call with no session.
func (m *Manager) Close() error {
	if m.sess == nil {
		return nil
	}
	return m.sess.Close()
}
