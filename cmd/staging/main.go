package main

import (
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	_ "github.com/gfxkit/staging/cmd/staging/ctrl"
	_ "github.com/gfxkit/staging/cmd/staging/influx"
	_ "github.com/gfxkit/staging/cmd/staging/sim"
	"github.com/gfxkit/staging/cmd/staging/staging"
	"github.com/michaelquigley/pfxlog"
	"github.com/sirupsen/logrus"
)

func init() {
	pfxlog.Global(logrus.InfoLevel)
	pfxlog.SetPrefix("github.com/gfxkit/")
}

func main() {
	defer logrus.Debugf("finished")

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			log.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n", buf[:stacklen])
		}
	}()

	if err := staging.RootCmd.Execute(); err != nil {
		logrus.Fatalf("error (%v)", err)
	}
}
