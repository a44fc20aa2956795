package sim

import (
	"github.com/gfxkit/staging"
	"github.com/gfxkit/staging/util"
	"github.com/sirupsen/logrus"
)

// Producer plays the CPU side of a frame loop. Every frame it stages a fresh payload
// through a StagedBuffer, binds the staged entry under a new work token (twice, to
// exercise idempotent registration), submits to the Gpu, and runs one pool gc pass.
//
type Producer struct {
	pool    *staging.Pool
	tracker *staging.TokenTracker
	gpu     *Gpu
	seq     *util.Sequence
	frames  int
	frameSz int
	metrics *Metrics
	Done    chan struct{}
}

func NewProducer(pool *staging.Pool, tracker *staging.TokenTracker, gpu *Gpu, frames, frameSz int, metrics *Metrics) *Producer {
	return &Producer{
		pool:    pool,
		tracker: tracker,
		gpu:     gpu,
		seq:     util.NewSequence(0),
		frames:  frames,
		frameSz: frameSz,
		metrics: metrics,
		Done:    make(chan struct{}),
	}
}

func (self *Producer) Run() {
	logrus.Debugf("started")
	defer logrus.Debugf("exited")
	defer close(self.Done)

	stage := staging.NewStagedBuffer(self.pool, self.tracker, self.frameSz)
	defer stage.Close()

	frame := make([]byte, self.frameSz)
	for i := 0; i < self.frames; i++ {
		sz := util.RandomSz(headerSz+1, self.frameSz)
		if err := encodeFrame(frame[:sz]); err != nil {
			logrus.Errorf("error encoding frame (%v)", err)
			return
		}
		if err := stage.Write(frame[:sz]); err != nil {
			logrus.Errorf("error staging frame (%v)", err)
			return
		}

		token := self.seq.Next()
		alc, err := stage.GpuBuffer(token)
		if err != nil {
			logrus.Errorf("error binding frame (%v)", err)
			return
		}
		// a second binding site for the same token; holds no extra reference
		if _, err := stage.GpuBuffer(token); err != nil {
			logrus.Errorf("error re-binding frame (%v)", err)
			return
		}

		self.gpu.Submit(&Submission{Token: token, Frames: []*Frame{{Buffer: alc, Sz: stage.Used()}}})
		if self.metrics != nil {
			self.metrics.Tx(int64(sz))
		}
		self.pool.Gc()
	}
}
