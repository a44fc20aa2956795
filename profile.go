package staging

import (
	"io/ioutil"

	"github.com/gfxkit/staging/cf"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Profile carries the tunables for a staging pool stack.
//
type Profile struct {
	StagingSz          int    `cf:"staging_sz"`
	EvictionAge        int64  `cf:"eviction_age"`
	CompletionQueueLen int    `cf:"completion_queue_len"`
	Instrument         string `cf:"instrument"`
	MetricsPath        string `cf:"metrics_path"`
	MetricsSnapshotMs  int    `cf:"metrics_snapshot_ms"`
}

func NewBaselineProfile() *Profile {
	return &Profile{
		StagingSz:          64 * 1024,
		EvictionAge:        10,
		CompletionQueueLen: 1024,
		Instrument:         "nil",
		MetricsSnapshotMs:  1000,
	}
}

func (self *Profile) Load(data map[string]interface{}) error {
	return cf.Load(data, self)
}

func (self *Profile) Dump() string {
	return cf.Dump("profile", self)
}

// LoadProfile reads a YAML profile file over the baseline defaults.
//
func LoadProfile(path string) (*Profile, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read profile [%s]", path)
	}
	dataMap := make(map[string]interface{})
	if err := yaml.Unmarshal(data, dataMap); err != nil {
		return nil, errors.Wrapf(err, "unable to parse profile [%s]", path)
	}
	p := NewBaselineProfile()
	if err := p.Load(dataMap); err != nil {
		return nil, errors.Wrapf(err, "unable to bind profile [%s]", path)
	}
	return p, nil
}
