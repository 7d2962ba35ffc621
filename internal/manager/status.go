package manager

import (
	"time"

	"gend/internal/engine"
	"gend/pkg/types"
)

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	state := "ready"
	if m.sess == nil {
		state = "degraded"
	}
	now := time.Now()
	return types.StatusResponse{
		Model:            m.model,
		EngineBuilt:      engine.Built(),
		State:            state,
		QueueLen:         len(m.queueCh),
		Inflight:         len(m.genCh),
		MaxQueueDepth:    cap(m.queueCh),
		GenerationsTotal: m.generations.Load(),
		TokensTotal:      m.tokensOut.Load(),
		UptimeSeconds:    int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix:   now.Unix(),
	}
}
