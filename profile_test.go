package staging

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileLoad(t *testing.T) {
	p := NewBaselineProfile()
	d := make(map[string]interface{})
	d["staging_sz"] = 128 * 1024
	d["eviction_age"] = 4
	d["instrument"] = "metrics"
	assert.Equal(t, 64*1024, p.StagingSz)
	assert.Equal(t, int64(10), p.EvictionAge)
	err := p.Load(d)
	assert.NoError(t, err)
	assert.Equal(t, 128*1024, p.StagingSz)
	assert.Equal(t, int64(4), p.EvictionAge)
	assert.Equal(t, "metrics", p.Instrument)
	fmt.Println(p.Dump())
}

func TestProfileLoadRejectsMistypedValue(t *testing.T) {
	p := NewBaselineProfile()
	d := make(map[string]interface{})
	d["staging_sz"] = "lots"
	assert.Error(t, p.Load(d))
}

func TestLoadProfileFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "profile")
	assert.NoError(t, err)
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "profile.yml")
	data := "staging_sz: 4096\neviction_age: 2\nmetrics_path: /tmp/staging\n"
	assert.NoError(t, ioutil.WriteFile(path, []byte(data), os.ModePerm))

	p, err := LoadProfile(path)
	assert.NoError(t, err)
	assert.Equal(t, 4096, p.StagingSz)
	assert.Equal(t, int64(2), p.EvictionAge)
	assert.Equal(t, "/tmp/staging", p.MetricsPath)
	assert.Equal(t, 1024, p.CompletionQueueLen)
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile("/nonexistent/profile.yml")
	assert.Error(t, err)
}
