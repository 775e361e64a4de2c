package cmd

import (
	"fmt"
	"os"

	"code-reconciler/core/config"
	"code-reconciler/core/logger"
	"code-reconciler/core/spreadsheet"
	"code-reconciler/feature/reconciliation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// inspectCmd reports the sheets and key columns of a workbook.
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the sheets, columns and resolved key columns of a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()

		wb, err := spreadsheet.Decode(f, args[0])
		if err != nil {
			return err
		}

		report := reconciliation.InspectWorkbook(args[0], wb)
		for _, s := range report.Sheets {
			fields := []zap.Field{
				zap.String("sheet", s.Name),
				zap.Int("rows", s.Rows),
				zap.Int("columns", len(s.Columns)),
				zap.String("hcpcs", s.KeyColumns.HCPCS),
				zap.String("modifier", s.KeyColumns.Modifier),
				zap.String("description", s.KeyColumns.Description),
				zap.String("quantity", s.KeyColumns.Quantity),
			}
			if s.Error != "" {
				l.Warn("Sheet cannot be reconciled", append(fields, zap.String("reason", s.Error))...)
				continue
			}
			l.Info("Sheet", fields...)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
