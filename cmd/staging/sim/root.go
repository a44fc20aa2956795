package sim

import (
	core "github.com/gfxkit/staging"
	stagingCmd "github.com/gfxkit/staging/cmd/staging/staging"
	"github.com/gfxkit/staging/sim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	simCmd.Flags().IntVarP(&frames, "frames", "f", 1024, "Number of frames to produce")
	simCmd.Flags().IntVarP(&frameSz, "size", "z", 64*1024, "Maximum frame size (in bytes)")
	simCmd.Flags().IntVarP(&latencyMs, "latency", "l", 2, "Simulated GPU latency (in ms)")
	simCmd.Flags().StringVarP(&instrumentName, "instrument", "i", "nil", "Instrument ('nil', 'metrics')")
	simCmd.Flags().StringVarP(&metricsPath, "metrics", "m", "", "Metrics output root")
	stagingCmd.RootCmd.AddCommand(simCmd)
}

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Exercise the staging pool with a producer/GPU frame loop",
	Run:   runSim,
}
var frames int
var frameSz int
var latencyMs int
var instrumentName string
var metricsPath string

func runSim(_ *cobra.Command, _ []string) {
	p, err := stagingCmd.GetProfile()
	if err != nil {
		logrus.Fatalf("error loading profile (%v)", err)
	}
	p.StagingSz = frameSz

	var i core.Instrument
	var ii core.InstrumentInstance
	if instrumentName != "nil" {
		config := map[string]interface{}{
			"path":        metricsPath,
			"snapshot_ms": p.MetricsSnapshotMs,
			"enabled":     true,
		}
		i, err = core.NewInstrument(instrumentName, config)
		if err != nil {
			logrus.Fatalf("error creating instrument (%v)", err)
		}
		ii = i.NewInstance("sim")
	}

	metrics, err := sim.Run(p, frames, latencyMs, ii)
	if err != nil {
		logrus.Fatalf("sim failed (%v)", err)
	}
	metrics.Summarize()

	if ii != nil {
		ii.Shutdown()
	}
	if mi, ok := i.(*core.MetricsInstrument); ok {
		if err := mi.WriteAllSamples(); err != nil {
			logrus.Errorf("error writing samples (%v)", err)
		}
	}
}
