package cmd

import (
	"fmt"
	"os"

	"code-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "code-reconciler",
	Short: "HCPCS billing sheet reconciler",
	Long: `Code Reconciler merges a client HCPCS billing sheet into a master sheet.
It reports unmatched and duplicate client codes, and can serve the engine over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the development config gives readable CLI errors.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			// Structured error, rendered as a console line
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Logger could not be built; print the raw error
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
