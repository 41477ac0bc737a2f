package prometheus

import (
	"context"
	"testing"
	"time"

	"github.com/playoutkit/go-executor/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubProvider struct {
	stats core.ExecutorStats
}

func (s *stubProvider) Stats() core.ExecutorStats { return s.stats }

// TestSnapshotPoller_ExportsStats verifies one poll cycle lands every field
// in its gauge.
func TestSnapshotPoller_ExportsStats(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	poller.AddExecutor("video", &stubProvider{stats: core.ExecutorStats{
		Name:     "video",
		Pending:  4,
		Capacity: 512,
		Running:  true,
		Executed: 120,
		Panics:   2,
		Blocked:  1,
	}})

	poller.Start(context.Background())
	defer poller.Stop()

	// The loop collects once immediately; give it room on slow machines.
	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(poller.pending.WithLabelValues("video")) != 4 {
		if time.Now().After(deadline) {
			t.Fatal("poller never exported the snapshot")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := testutil.ToFloat64(poller.capacity.WithLabelValues("video")); got != 512 {
		t.Errorf("queue_capacity = %v, want 512", got)
	}
	if got := testutil.ToFloat64(poller.running.WithLabelValues("video")); got != 1 {
		t.Errorf("running = %v, want 1", got)
	}
	if got := testutil.ToFloat64(poller.executedTotal.WithLabelValues("video")); got != 120 {
		t.Errorf("executed_total = %v, want 120", got)
	}
	if got := testutil.ToFloat64(poller.panicTotal.WithLabelValues("video")); got != 2 {
		t.Errorf("panic_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(poller.blockedTotal.WithLabelValues("video")); got != 1 {
		t.Errorf("blocked_submission_total = %v, want 1", got)
	}
}

// TestSnapshotPoller_StoppedExecutor verifies the running gauge drops to zero.
func TestSnapshotPoller_StoppedExecutor(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	provider := &stubProvider{stats: core.ExecutorStats{
		Name:     "audio",
		Capacity: 512,
		Running:  false,
	}}
	poller.AddExecutor("audio", provider)

	poller.Start(context.Background())
	defer poller.Stop()

	// The capacity gauge going nonzero proves a poll cycle has run.
	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(poller.capacity.WithLabelValues("audio")) != 512 {
		if time.Now().After(deadline) {
			t.Fatal("poller never exported the snapshot")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := testutil.ToFloat64(poller.running.WithLabelValues("audio")); got != 0 {
		t.Errorf("running = %v, want 0", got)
	}
}

// TestSnapshotPoller_StartStopLifecycle verifies idempotent start/stop and
// that Stop joins the polling goroutine.
func TestSnapshotPoller_StartStopLifecycle(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	poller.Start(context.Background())
	poller.Start(context.Background()) // no-op

	poller.Stop()
	poller.Stop() // no-op

	// Restartable after Stop.
	poller.Start(context.Background())
	poller.Stop()
}

// TestSnapshotPoller_LiveExecutor verifies polling a real executor.
func TestSnapshotPoller_LiveExecutor(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	e := core.NewWithConfig("live", &core.Config{Logger: core.NewNoOpLogger()})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		e.Close(ctx)
	}()
	poller.AddExecutor(e.Name(), e)

	for i := 0; i < 5; i++ {
		if err := e.Post(func(ctx context.Context) {}); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	poller.Start(context.Background())
	defer poller.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(poller.executedTotal.WithLabelValues("live")) < 5 {
		if time.Now().After(deadline) {
			t.Fatalf("executed_total = %v, want >= 5",
				testutil.ToFloat64(poller.executedTotal.WithLabelValues("live")))
		}
		time.Sleep(5 * time.Millisecond)
	}
}
