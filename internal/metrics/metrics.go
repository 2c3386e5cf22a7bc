package metrics

import (
	"sync"
	"time"
)

// Metrics holds process-wide counters exposed at /metrics.
type Metrics struct {
	mu                   sync.RWMutex
	WizardsStarted       int64
	AssessmentsSubmitted int64
	AssistantTurns       int64
	AssistantFailures    int64
	BackendCallsTotal    int64
	BackendCallsFailed   int64
	LastUpdateTime       time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementWizardsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WizardsStarted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAssessmentsSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AssessmentsSubmitted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAssistantTurn(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AssistantTurns++
	if !success {
		m.AssistantFailures++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementBackendCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BackendCallsTotal++
	if !success {
		m.BackendCallsFailed++
	}
	m.LastUpdateTime = time.Now()
}

// Snapshot is a copy safe to encode.
type Snapshot struct {
	WizardsStarted       int64     `json:"wizards_started"`
	AssessmentsSubmitted int64     `json:"assessments_submitted"`
	AssistantTurns       int64     `json:"assistant_turns"`
	AssistantFailures    int64     `json:"assistant_failures"`
	BackendCallsTotal    int64     `json:"backend_calls_total"`
	BackendCallsFailed   int64     `json:"backend_calls_failed"`
	LastUpdateTime       time.Time `json:"last_update_time"`
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		WizardsStarted:       m.WizardsStarted,
		AssessmentsSubmitted: m.AssessmentsSubmitted,
		AssistantTurns:       m.AssistantTurns,
		AssistantFailures:    m.AssistantFailures,
		BackendCallsTotal:    m.BackendCallsTotal,
		BackendCallsFailed:   m.BackendCallsFailed,
		LastUpdateTime:       m.LastUpdateTime,
	}
}
