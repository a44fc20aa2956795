package ctrl

import (
	stagingCmd "github.com/gfxkit/staging/cmd/staging/staging"
	"github.com/spf13/cobra"
)

func init() {
	stagingCmd.RootCmd.AddCommand(ctrlCmd)
}

var ctrlCmd = &cobra.Command{
	Use:   "ctrl",
	Short: "Control running metrics instruments",
}
