package staging

import (
	"fmt"
	"io/ioutil"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gfxkit/staging/cf"
	"github.com/gfxkit/staging/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MetricsInstrument snapshots pool activity into util.Sample series and writes them to
// CSV datasets on demand. A unix-socket ctrl listener lets an operator start, stop,
// write, and clean a running instrument.
//
type MetricsInstrument struct {
	lock      sync.Mutex
	Config    *MetricsInstrumentConfig
	instances []*metricsInstrumentInstance
}

type MetricsInstrumentConfig struct {
	Path       string `cf:"path"`
	SnapshotMs int    `cf:"snapshot_ms"`
	Enabled    bool   `cf:"enabled"`
}

func NewMetricsInstrument(config map[string]interface{}) (Instrument, error) {
	i := &MetricsInstrument{
		Config: &MetricsInstrumentConfig{
			SnapshotMs: 1000,
			Enabled:    true,
		},
	}
	if err := cf.Load(config, i.Config); err != nil {
		return nil, errors.Wrap(err, "unable to load config")
	}
	if err := i.addCtrlListener(); err != nil {
		return nil, err
	}
	logrus.Infof(cf.Dump("metrics", i.Config))
	return i, nil
}

func (self *MetricsInstrument) addCtrlListener() error {
	cl, err := util.GetCtrlListener(self.Config.Path, "staging")
	if err != nil {
		return errors.Wrap(err, "unable to get metrics ctrl listener")
	}
	cl.AddCallback("start", func(string) error {
		self.Config.Enabled = true
		return nil
	})
	cl.AddCallback("stop", func(string) error {
		self.Config.Enabled = false
		return nil
	})
	cl.AddCallback("write", func(string) error {
		return self.WriteAllSamples()
	})
	cl.AddCallback("clean", func(string) error {
		self.clean()
		return nil
	})
	cl.Start()
	return nil
}

func (self *MetricsInstrument) NewInstance(id string) InstrumentInstance {
	self.lock.Lock()
	defer self.lock.Unlock()
	ii := &metricsInstrumentInstance{
		id:     id,
		config: self.Config,
		close:  make(chan struct{}, 1),
	}
	go ii.snapshotter(self.Config.SnapshotMs)
	self.instances = append(self.instances, ii)
	return ii
}

func (self *MetricsInstrument) WriteAllSamples() error {
	self.lock.Lock()
	defer self.lock.Unlock()

	for _, ii := range self.instances {
		if err := os.MkdirAll(self.Config.Path, os.ModePerm); err != nil {
			return err
		}
		outPath, err := ioutil.TempDir(self.Config.Path, fmt.Sprintf("%s_", ii.id))
		if err != nil {
			return err
		}
		logrus.Infof("writing metrics to: %s", outPath)

		var values map[string]string
		if err := util.WriteMetricsId("staging.1", outPath, values); err != nil {
			return err
		}
		if err := util.WriteSamples("allocations", outPath, ii.allocations); err != nil {
			return err
		}
		if err := util.WriteSamples("allocated_bytes", outPath, ii.allocatedBytes); err != nil {
			return err
		}
		if err := util.WriteSamples("reuses", outPath, ii.reuses); err != nil {
			return err
		}
		if err := util.WriteSamples("retains", outPath, ii.retains); err != nil {
			return err
		}
		if err := util.WriteSamples("releases", outPath, ii.releases); err != nil {
			return err
		}
		if err := util.WriteSamples("evictions", outPath, ii.evictions); err != nil {
			return err
		}
		if err := util.WriteSamples("evicted_bytes", outPath, ii.evictedBytes); err != nil {
			return err
		}
		if err := util.WriteSamples("free_entries", outPath, ii.freeEntries); err != nil {
			return err
		}
		if err := util.WriteSamples("used_entries", outPath, ii.usedEntries); err != nil {
			return err
		}
		if err := util.WriteSamples("resets", outPath, ii.resets); err != nil {
			return err
		}
	}
	return nil
}

func (self *MetricsInstrument) clean() {
	self.lock.Lock()
	defer self.lock.Unlock()

	idx := self.findClosed()
	for idx != -1 {
		logrus.Infof("removed metricsInstrumentInstance #%p", self.instances[idx])
		self.instances = append(self.instances[:idx], self.instances[idx+1:]...)
		idx = self.findClosed()
	}
}

func (self *MetricsInstrument) findClosed() int {
	for i, ii := range self.instances {
		if ii.closed {
			return i
		}
	}
	return -1
}

type metricsInstrumentInstance struct {
	id     string
	config *MetricsInstrumentConfig
	close  chan struct{}
	closed bool

	allocations         []*util.Sample
	allocationsAccum    int64
	allocatedBytes      []*util.Sample
	allocatedBytesAccum int64
	reuses              []*util.Sample
	reusesAccum         int64
	retains             []*util.Sample
	retainsAccum        int64
	releases            []*util.Sample
	releasesAccum       int64
	evictions           []*util.Sample
	evictionsAccum      int64
	evictedBytes        []*util.Sample
	evictedBytesAccum   int64
	freeEntries         []*util.Sample
	freeEntriesVal      int64
	usedEntries         []*util.Sample
	usedEntriesVal      int64
	resets              []*util.Sample
	resetsAccum         int64
}

/*
 * pool
 */
func (self *metricsInstrumentInstance) Allocate(sz int) {
	if self.config.Enabled {
		atomic.AddInt64(&self.allocationsAccum, 1)
		atomic.AddInt64(&self.allocatedBytesAccum, int64(sz))
	}
}

func (self *metricsInstrumentInstance) Reuse(sz int) {
	if self.config.Enabled {
		atomic.AddInt64(&self.reusesAccum, 1)
	}
}

func (self *metricsInstrumentInstance) Retain() {
	if self.config.Enabled {
		atomic.AddInt64(&self.retainsAccum, 1)
	}
}

func (self *metricsInstrumentInstance) Release() {
	if self.config.Enabled {
		atomic.AddInt64(&self.releasesAccum, 1)
	}
}

func (self *metricsInstrumentInstance) Evict(sz int) {
	if self.config.Enabled {
		atomic.AddInt64(&self.evictionsAccum, 1)
		atomic.AddInt64(&self.evictedBytesAccum, int64(sz))
	}
}

func (self *metricsInstrumentInstance) GcComplete(free, used int) {
	if self.config.Enabled {
		atomic.StoreInt64(&self.freeEntriesVal, int64(free))
		atomic.StoreInt64(&self.usedEntriesVal, int64(used))
	}
}

func (self *metricsInstrumentInstance) Reset() {
	if self.config.Enabled {
		atomic.AddInt64(&self.resetsAccum, 1)
		atomic.StoreInt64(&self.freeEntriesVal, 0)
	}
}

/*
 * instrument lifecycle
 */
func (self *metricsInstrumentInstance) Shutdown() {
	if !self.closed {
		self.closed = true
		close(self.close)
	}
}

func (self *metricsInstrumentInstance) snapshotter(ms int) {
	logrus.Debugf("started")
	defer logrus.Debugf("exited")
	for {
		time.Sleep(time.Duration(ms) * time.Millisecond)
		if self.config.Enabled {
			self.snapshot()
		}
		select {
		case <-self.close:
			self.snapshot()
			return
		default:
			//
		}
	}
}

func (self *metricsInstrumentInstance) snapshot() {
	now := time.Now()
	self.allocations = append(self.allocations, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.allocationsAccum, 0)})
	self.allocatedBytes = append(self.allocatedBytes, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.allocatedBytesAccum, 0)})
	self.reuses = append(self.reuses, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.reusesAccum, 0)})
	self.retains = append(self.retains, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.retainsAccum, 0)})
	self.releases = append(self.releases, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.releasesAccum, 0)})
	self.evictions = append(self.evictions, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.evictionsAccum, 0)})
	self.evictedBytes = append(self.evictedBytes, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.evictedBytesAccum, 0)})
	self.freeEntries = append(self.freeEntries, &util.Sample{Ts: now, V: atomic.LoadInt64(&self.freeEntriesVal)})
	self.usedEntries = append(self.usedEntries, &util.Sample{Ts: now, V: atomic.LoadInt64(&self.usedEntriesVal)})
	self.resets = append(self.resets, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.resetsAccum, 0)})
}
