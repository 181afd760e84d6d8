package commands

import (
	"context"
	"fmt"
	"os"

	"cayasync/lib/telemetry"

	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "cayasync",
	Short: "cayasync downloads new documents from a Caya account into a local directory.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(
		&debug, "debug", false,
		"enable debug logging and keep the browser window visible",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
