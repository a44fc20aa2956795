package influx

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gfxkit/staging/util"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	influxCmd.AddCommand(influxLoadCmd)
}

var influxLoadCmd = &cobra.Command{
	Use:   "load <metricsRoot>",
	Short: "Load metrics data into the analyzer",
	Args:  cobra.ExactArgs(1),
	Run:   influxLoad,
}

var datasets = []string{
	"allocations",
	"allocated_bytes",
	"reuses",
	"retains",
	"releases",
	"evictions",
	"evicted_bytes",
	"free_entries",
	"used_entries",
	"resets",
	"tx_bytes",
	"rx_bytes",
}

func influxLoad(_ *cobra.Command, args []string) {
	metricsMap, err := util.DiscoverMetrics(args[0])
	if err != nil {
		logrus.Fatalf("error discovering metrics under [%s] (%v)", args[0], err)
	}
	if len(metricsMap) == 0 {
		logrus.Fatalf("no metrics found under [%s]", args[0])
	}

	authToken := ""
	if influxDbUsername != "" || influxDbPassword != "" {
		authToken = fmt.Sprintf("%s:%s", influxDbUsername, influxDbPassword)
	}
	client := influxdb2.NewClient(influxDbUrl, authToken)
	writeApi := client.WriteAPI("", influxDbDatabase)

	for metricsRoot, metricsId := range metricsMap {
		for _, dataset := range datasets {
			data, err := util.ReadSamples(filepath.Join(metricsRoot, dataset+".csv"))
			if err != nil {
				logrus.Warnf("skipping dataset [%s] for [%s] (%v)", dataset, metricsRoot, err)
				continue
			}
			for ts, v := range data {
				t := time.Unix(0, ts)
				p := influxdb2.NewPoint(dataset, nil, map[string]interface{}{"v": v}, t).AddTag("instance", metricsId.Id)
				writeApi.WritePoint(p)
			}
			logrus.Infof("wrote %d points for [%s] dataset [%s]", len(data), metricsRoot, dataset)
		}
	}

	client.Close()
}
