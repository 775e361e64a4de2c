package cmd

import (
	"context"
	"fmt"
	"os"

	"code-reconciler/core/config"
	"code-reconciler/core/database"
	"code-reconciler/core/logger"
	"code-reconciler/core/reconcile"
	"code-reconciler/core/spreadsheet"
	"code-reconciler/core/storage"
	"code-reconciler/core/table"
	"code-reconciler/feature/reconciliation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	masterPath  string
	clientPath  string
	masterSheet string
	clientSheet string
	outPath     string
	uploadRun   bool
	recordRun   bool

	criteriaFlags = struct {
		root00, root25, root50, root59, rootXU, root76, ignoreTrauma bool
	}{}
)

// reconcileCmd reconciles two workbooks from disk.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a client workbook against a master workbook",
	Long: `Merge client values into the master sheet and report unmatched and duplicate client codes.

Modifier criteria default to the RECONCILE_CRITERIA_* settings; flags override them.

Examples:
  # Report only
  reconcile --master master.xlsx --client client.csv

  # Treat modifiers 25 and 59 as the bare code and write the export
  reconcile --master master.xlsx --client client.xlsx --root25 --root59 --out result.xlsx

  # Also upload the export to the bucket and record the run
  reconcile --master master.xlsx --client client.xlsx --upload --record`,
	RunE: runReconcile,
}

func init() {
	f := reconcileCmd.Flags()
	f.StringVar(&masterPath, "master", "", "Master workbook (xlsx or csv)")
	f.StringVar(&clientPath, "client", "", "Client workbook (xlsx or csv)")
	f.StringVar(&masterSheet, "master-sheet", "", "Master sheet name (default: first sheet)")
	f.StringVar(&clientSheet, "client-sheet", "", "Client sheet name (default: first sheet)")
	f.StringVar(&outPath, "out", "", "Write the three-sheet export to this path")
	f.BoolVar(&uploadRun, "upload", false, "Upload the export to object storage")
	f.BoolVar(&recordRun, "record", false, "Record the run in the history database")

	f.BoolVar(&criteriaFlags.root00, "root00", false, "Match modifier 00 (or none) to the bare code")
	f.BoolVar(&criteriaFlags.root25, "root25", false, "Match modifier 25 to the bare code")
	f.BoolVar(&criteriaFlags.root50, "root50", false, "Match modifier 50 to the bare code")
	f.BoolVar(&criteriaFlags.root59, "root59", false, "Match modifier 59 to the bare code")
	f.BoolVar(&criteriaFlags.rootXU, "root-xu", false, "Match modifier XU to the bare code")
	f.BoolVar(&criteriaFlags.root76, "root76", false, "Match modifier 76 to the bare code")
	f.BoolVar(&criteriaFlags.ignoreTrauma, "ignore-trauma", false, "Exclude trauma team activation rows")

	_ = reconcileCmd.MarkFlagRequired("master")
	_ = reconcileCmd.MarkFlagRequired("client")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	var client storage.Client
	if uploadRun {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		if created, err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return err
		} else if created {
			l.Info("Created bucket", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	var history *reconciliation.History
	if recordRun {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		history = reconciliation.NewHistory(db)
		if err := history.Migrate(); err != nil {
			return err
		}
	}

	rcfg := cfg.Reconcile
	rcfg.StoreExports = uploadRun
	svc := reconciliation.NewService(client, cfg.Storage.Bucket, l, history, rcfg)

	master, err := os.Open(masterPath)
	if err != nil {
		return fmt.Errorf("failed to open master: %w", err)
	}
	defer master.Close()

	clientFile, err := os.Open(clientPath)
	if err != nil {
		return fmt.Errorf("failed to open client: %w", err)
	}
	defer clientFile.Close()

	criteria := criteriaFromFlags(cmd, cfg.Reconcile.Criteria)
	res, err := svc.Upload(ctx, reconciliation.UploadInput{
		Master:   reconciliation.Source{Filename: masterPath, Sheet: masterSheet, Reader: master},
		Client:   reconciliation.Source{Filename: clientPath, Sheet: clientSheet, Reader: clientFile},
		Criteria: &criteria,
	})
	if err != nil {
		return err
	}

	printReconcileReport(l, res)

	if outPath != "" {
		data, err := spreadsheet.ExportBytes(reconciliation.NewExportSet(res.Result, res.MasterColumns, res.ClientColumns))
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		l.Info("Export written", zap.String("path", outPath))
	}
	return nil
}

// criteriaFromFlags applies the flags the user set on top of the defaults.
func criteriaFromFlags(cmd *cobra.Command, defaults reconcile.ModifierCriteria) reconcile.ModifierCriteria {
	c := defaults
	set := func(name string, dst *bool, v bool) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("root00", &c.Root00, criteriaFlags.root00)
	set("root25", &c.Root25, criteriaFlags.root25)
	set("root50", &c.Root50, criteriaFlags.root50)
	set("root59", &c.Root59, criteriaFlags.root59)
	set("root-xu", &c.RootXU, criteriaFlags.rootXU)
	set("root76", &c.Root76, criteriaFlags.root76)
	set("ignore-trauma", &c.IgnoreTrauma, criteriaFlags.ignoreTrauma)
	return c
}

// printReconcileReport logs the run summary and a sample of unmatched rows.
func printReconcileReport(l *zap.Logger, res *reconciliation.UploadResult) {
	s := res.Stats
	l.Info("Reconciliation report",
		zap.String("run_id", res.RunID),
		zap.Int("master_records", s.TotalMasterRecords),
		zap.Int("client_records", s.TotalClientRecords),
		zap.Int("matched", s.MatchedRecords),
		zap.Int("unmatched", s.UnmatchedRecords),
		zap.Int("duplicates", s.DuplicateRecords),
		zap.Float64("match_rate", s.MatchRate),
		zap.Int("columns_matched", s.ColumnsMatched),
		zap.Float64("processing_ms", s.ProcessingTime),
	)
	if s.ExcludedMasterRecords+s.ExcludedClientRecords > 0 {
		l.Info("Trauma rows excluded",
			zap.Int("master", s.ExcludedMasterRecords),
			zap.Int("client", s.ExcludedClientRecords))
	}
	l.Info("Key columns",
		zap.String("master_hcpcs", res.Columns.Master.HCPCS),
		zap.String("master_modifier", res.Columns.Master.Modifier),
		zap.String("client_hcpcs", res.Columns.Client.HCPCS),
		zap.String("client_modifier", res.Columns.Client.Modifier),
	)

	sampleRows(l, "Sample unmatched row", res.Unmatched, res.Columns.Client)
	sampleRows(l, "Sample duplicate row", res.Duplicates, res.Columns.Client)

	if res.ExportKey != "" {
		l.Info("Export uploaded", zap.String("key", res.ExportKey))
	}
	for _, w := range res.Warnings {
		l.Warn("Run warning", zap.String("warning", w))
	}
}

func sampleRows(l *zap.Logger, msg string, rows []table.Row, cols reconcile.KeyColumns) {
	maxShow := min(5, len(rows))
	for _, row := range rows[:maxShow] {
		l.Info(msg,
			zap.String("id", row.ID),
			zap.String("code", row.String(cols.HCPCS)),
			zap.String("modifier", row.String(cols.Modifier)),
		)
	}
	if len(rows) > maxShow {
		l.Info("Additional rows not shown", zap.Int("count", len(rows)-maxShow))
	}
}
