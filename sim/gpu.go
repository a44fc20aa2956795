package sim

import (
	"sync/atomic"
	"time"

	"github.com/gfxkit/staging"
	"github.com/sirupsen/logrus"
)

// Frame is one staged allocation bound into a submission, with the number of bytes the
// producer actually staged.
//
type Frame struct {
	Buffer staging.Allocation
	Sz     int
}

// Submission is one unit of GPU work: a token and the frames it reads.
//
type Submission struct {
	Token  staging.Token
	Frames []*Frame
}

// Gpu plays the asynchronous consumer. It reads submissions off a queue, verifies the
// staged payloads after a simulated execution latency, and signals completion for each
// token exactly once.
//
type Gpu struct {
	completions *staging.CompletionQueue
	metrics     *Metrics
	latency     time.Duration
	submissions chan *Submission
	errs        int64
	Done        chan struct{}
}

func NewGpu(completions *staging.CompletionQueue, latency time.Duration, queueLen int, metrics *Metrics) *Gpu {
	gpu := &Gpu{
		completions: completions,
		metrics:     metrics,
		latency:     latency,
		submissions: make(chan *Submission, queueLen),
		Done:        make(chan struct{}),
	}
	go gpu.run()
	return gpu
}

func (self *Gpu) Submit(s *Submission) {
	self.submissions <- s
}

func (self *Gpu) Close() {
	close(self.submissions)
}

func (self *Gpu) Errs() int64 {
	return atomic.LoadInt64(&self.errs)
}

func (self *Gpu) run() {
	logrus.Debugf("started")
	defer logrus.Debugf("exited")
	defer close(self.Done)

	for s := range self.submissions {
		if self.latency > 0 {
			time.Sleep(self.latency)
		}
		for _, f := range s.Frames {
			if err := verifyFrame(f.Buffer.Bytes()[:f.Sz]); err != nil {
				atomic.AddInt64(&self.errs, 1)
				logrus.Errorf("frame verification failed (%v)", err)
			} else if self.metrics != nil {
				self.metrics.Rx(int64(f.Sz))
			}
		}
		self.completions.Complete(s.Token)
	}
}
