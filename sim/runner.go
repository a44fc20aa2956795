package sim

import (
	"time"

	"github.com/gfxkit/staging"
	"github.com/pkg/errors"
)

// Run drives one complete harness pass: producer ahead of a latency-delayed fake GPU,
// completions clearing tokens from their own goroutine, and a full teardown at the
// end. Teardown order matters: producer first, then the GPU queue, then completions,
// and only then the pool reset, which proves every checkout was matched.
func Run(profile *staging.Profile, frames, latencyMs int, ii staging.InstrumentInstance) (*Metrics, error) {
	device := staging.NewMemDevice(0)
	pool := staging.NewPool(device, profile, ii)
	tracker := staging.NewTokenTracker()
	completions := staging.NewCompletionQueue(tracker, profile.CompletionQueueLen)

	metrics := NewMetrics(profile.MetricsSnapshotMs)
	metrics.Start()

	gpu := NewGpu(completions, time.Duration(latencyMs)*time.Millisecond, 64, metrics)
	producer := NewProducer(pool, tracker, gpu, frames, profile.StagingSz, metrics)

	go producer.Run()
	<-producer.Done

	gpu.Close()
	<-gpu.Done
	completions.Close()
	metrics.Close()

	pool.Reset()

	if gpu.Errs() > 0 {
		return metrics, errors.Errorf("[%d] frame verification failures", gpu.Errs())
	}
	return metrics, nil
}
