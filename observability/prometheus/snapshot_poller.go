package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/playoutkit/go-executor/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// SnapshotProvider provides current executor stats snapshots.
// *core.Executor satisfies it.
type SnapshotProvider interface {
	Stats() core.ExecutorStats
}

// SnapshotPoller periodically exports executor Stats() snapshots into
// Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	providersMu sync.RWMutex
	providers   map[string]SnapshotProvider

	pending       *prom.GaugeVec
	capacity      *prom.GaugeVec
	running       *prom.GaugeVec
	executedTotal *prom.GaugeVec
	panicTotal    *prom.GaugeVec
	blockedTotal  *prom.GaugeVec

	stateMu sync.Mutex
	active  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	pending := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "executor",
		Name:      "pending",
		Help:      "Number of queued tasks per executor.",
	}, []string{"executor"})
	capacity := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "executor",
		Name:      "queue_capacity",
		Help:      "Queue capacity bound per executor.",
	}, []string{"executor"})
	running := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "executor",
		Name:      "running",
		Help:      "Executor running state (1=running, 0=stopped).",
	}, []string{"executor"})
	executedTotal := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "executor",
		Name:      "executed_total",
		Help:      "Executed task count snapshot.",
	}, []string{"executor"})
	panicTotal := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "executor",
		Name:      "panic_total",
		Help:      "Panicked task count snapshot.",
	}, []string{"executor"})
	blockedTotal := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "executor",
		Name:      "blocked_submission_total",
		Help:      "Count of submissions that blocked on a full queue.",
	}, []string{"executor"})

	var err error
	if pending, err = registerCollector(reg, pending); err != nil {
		return nil, err
	}
	if capacity, err = registerCollector(reg, capacity); err != nil {
		return nil, err
	}
	if running, err = registerCollector(reg, running); err != nil {
		return nil, err
	}
	if executedTotal, err = registerCollector(reg, executedTotal); err != nil {
		return nil, err
	}
	if panicTotal, err = registerCollector(reg, panicTotal); err != nil {
		return nil, err
	}
	if blockedTotal, err = registerCollector(reg, blockedTotal); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:      interval,
		providers:     make(map[string]SnapshotProvider),
		pending:       pending,
		capacity:      capacity,
		running:       running,
		executedTotal: executedTotal,
		panicTotal:    panicTotal,
		blockedTotal:  blockedTotal,
	}, nil
}

// AddExecutor adds or replaces an executor snapshot provider by name.
func (p *SnapshotPoller) AddExecutor(name string, provider SnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "executor")
	p.providersMu.Lock()
	p.providers[name] = provider
	p.providersMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.active {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.active = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.active {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.active = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.providersMu.RLock()
	defer p.providersMu.RUnlock()

	for name, provider := range p.providers {
		stats := provider.Stats()
		p.pending.WithLabelValues(name).Set(float64(stats.Pending))
		p.capacity.WithLabelValues(name).Set(float64(stats.Capacity))
		p.executedTotal.WithLabelValues(name).Set(float64(stats.Executed))
		p.panicTotal.WithLabelValues(name).Set(float64(stats.Panics))
		p.blockedTotal.WithLabelValues(name).Set(float64(stats.Blocked))
		if stats.Running {
			p.running.WithLabelValues(name).Set(1)
		} else {
			p.running.WithLabelValues(name).Set(0)
		}
	}
}
