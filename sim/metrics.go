package sim

import (
	"sync/atomic"
	"time"

	"github.com/gfxkit/staging/util"
	"github.com/sirupsen/logrus"
)

// Metrics accumulates producer/consumer throughput for one harness run.
//
type Metrics struct {
	close chan struct{}
	done  chan struct{}

	start        time.Time
	TxBytes      []*util.Sample
	TxBytesAccum int64
	RxBytes      []*util.Sample
	RxBytesAccum int64
}

func NewMetrics(snapshotMs int) *Metrics {
	m := &Metrics{
		close: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go m.snapshotter(snapshotMs)
	return m
}

func (self *Metrics) Start() {
	self.start = time.Now()
}

func (self *Metrics) Tx(bytes int64) {
	atomic.AddInt64(&self.TxBytesAccum, bytes)
}

func (self *Metrics) Rx(bytes int64) {
	atomic.AddInt64(&self.RxBytesAccum, bytes)
}

func (self *Metrics) Summarize() {
	txTotalBytes := int64(0)
	txLastTimestamp := time.Time{}
	for _, sample := range self.TxBytes {
		if sample.V > 0 {
			txTotalBytes += sample.V
			txLastTimestamp = sample.Ts
		}
	}
	if txTotalBytes > 0 {
		txDurationSeconds := float64(txLastTimestamp.Sub(self.start).Milliseconds()) / 1000.0
		if txDurationSeconds > 0 {
			txBytesSec := int64(float64(txTotalBytes) / txDurationSeconds)
			logrus.Infof("staged: %s in %0.2f sec = %s/sec", util.BytesToSize(txTotalBytes), txDurationSeconds, util.BytesToSize(txBytesSec))
		} else {
			logrus.Infof("staged: %s", util.BytesToSize(txTotalBytes))
		}
	}

	rxTotalBytes := int64(0)
	rxLastTimestamp := time.Time{}
	for _, sample := range self.RxBytes {
		if sample.V > 0 {
			rxTotalBytes += sample.V
			rxLastTimestamp = sample.Ts
		}
	}
	if rxTotalBytes > 0 {
		rxDurationSeconds := float64(rxLastTimestamp.Sub(self.start).Milliseconds()) / 1000.0
		if rxDurationSeconds > 0 {
			rxBytesSec := int64(float64(rxTotalBytes) / rxDurationSeconds)
			logrus.Infof("consumed: %s in %0.2f sec = %s/sec", util.BytesToSize(rxTotalBytes), rxDurationSeconds, util.BytesToSize(rxBytesSec))
		} else {
			logrus.Infof("consumed: %s", util.BytesToSize(rxTotalBytes))
		}
	}
}

func (self *Metrics) WriteSamples(outPath string) error {
	if err := util.WriteSamples("tx_bytes", outPath, self.TxBytes); err != nil {
		return err
	}
	if err := util.WriteSamples("rx_bytes", outPath, self.RxBytes); err != nil {
		return err
	}
	return nil
}

// Close stops the snapshotter; the final snapshot has landed by the time it returns.
func (self *Metrics) Close() {
	close(self.close)
	<-self.done
}

func (self *Metrics) snapshotter(ms int) {
	logrus.Debugf("started")
	defer logrus.Debugf("exited")
	defer close(self.done)
	for {
		time.Sleep(time.Duration(ms) * time.Millisecond)
		self.snapshot()
		select {
		case <-self.close:
			self.snapshot()
			return
		default:
			//
		}
	}
}

func (self *Metrics) snapshot() {
	now := time.Now()
	self.TxBytes = append(self.TxBytes, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.TxBytesAccum, 0)})
	self.RxBytes = append(self.RxBytes, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.RxBytesAccum, 0)})
}
