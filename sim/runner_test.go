package sim

import (
	"testing"

	"github.com/gfxkit/staging"
	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	p := staging.NewBaselineProfile()
	p.StagingSz = 4096
	p.MetricsSnapshotMs = 10

	metrics, err := Run(p, 200, 0, nil)
	assert.NoError(t, err)
	assert.NotNil(t, metrics)

	staged := int64(0)
	for _, sample := range metrics.TxBytes {
		staged += sample.V
	}
	consumed := int64(0)
	for _, sample := range metrics.RxBytes {
		consumed += sample.V
	}
	assert.True(t, staged > 0)
	assert.Equal(t, staged, consumed)
}

func TestRunWithLatency(t *testing.T) {
	p := staging.NewBaselineProfile()
	p.StagingSz = 2048
	p.MetricsSnapshotMs = 10

	_, err := Run(p, 50, 1, nil)
	assert.NoError(t, err)
}
