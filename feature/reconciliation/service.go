package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"code-reconciler/core/reconcile"
	"code-reconciler/core/spreadsheet"
	"code-reconciler/core/storage"
	"code-reconciler/core/table"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidInput is returned for requests the engine cannot accept.
	ErrInvalidInput = errors.New("invalid input")
	// ErrHistoryDisabled is returned when no database backs the run history.
	ErrHistoryDisabled = errors.New("run history is disabled")
	// ErrStorageDisabled is returned when exports are not stored.
	ErrStorageDisabled = errors.New("export storage is disabled")
	// ErrNoExport is returned when a run has no stored export.
	ErrNoExport = errors.New("run has no stored export")
)

// Request is a reconciliation of two in-memory datasets.
type Request struct {
	Master table.Dataset `json:"master"`
	Client table.Dataset `json:"client"`
	// Criteria falls back to the configured defaults when nil.
	Criteria *reconcile.ModifierCriteria `json:"criteria,omitempty"`
}

// Source is one uploaded workbook.
type Source struct {
	Filename string
	// Sheet selects the sheet; empty means the first one.
	Sheet  string
	Reader io.Reader
}

// UploadInput is a reconciliation of two uploaded workbooks.
type UploadInput struct {
	Master   Source
	Client   Source
	Criteria *reconcile.ModifierCriteria
}

// UploadResult is a reconciliation result with its stored artefacts.
type UploadResult struct {
	*reconcile.Result
	RunID     string   `json:"runId"`
	ExportKey string   `json:"exportKey,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`

	// MasterColumns and ClientColumns are the decoded headers, in sheet order.
	MasterColumns []table.Column `json:"-"`
	ClientColumns []table.Column `json:"-"`
}

// Service runs reconciliations and manages their history and exports.
type Service struct {
	client  storage.Client
	bucket  string
	logger  *zap.Logger
	history *History
	cfg     reconcile.Config
}

// NewService creates a new reconciliation service.
// client and history may be nil; the matching features are then disabled.
func NewService(client storage.Client, bucket string, logger *zap.Logger, history *History, cfg reconcile.Config) *Service {
	return &Service{
		client:  client,
		bucket:  bucket,
		logger:  logger,
		history: history,
		cfg:     cfg,
	}
}

// DefaultCriteria returns the configured criteria.
func (s *Service) DefaultCriteria() reconcile.ModifierCriteria {
	return s.cfg.Criteria
}

func (s *Service) criteria(c *reconcile.ModifierCriteria) reconcile.ModifierCriteria {
	if c == nil {
		return s.cfg.Criteria
	}
	return *c
}

// Reconcile reconciles two in-memory datasets.
func (s *Service) Reconcile(ctx context.Context, req Request) (*reconcile.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := table.ValidateIDs(req.Master.Rows); err != nil {
		return nil, fmt.Errorf("%w: master: %w", ErrInvalidInput, err)
	}
	if err := table.ValidateIDs(req.Client.Rows); err != nil {
		return nil, fmt.Errorf("%w: client: %w", ErrInvalidInput, err)
	}

	res, err := reconcile.Reconcile(req.Master, req.Client, s.criteria(req.Criteria))
	if err != nil {
		return nil, err
	}
	s.logStats("Reconciliation finished", res)
	return res, nil
}

// Upload decodes both workbooks concurrently, reconciles them, stores the
// export and records the run. Storage and history failures are reported as
// warnings; the result is still returned.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	var master, client table.Dataset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ds, err := decodeSource(gctx, reconcile.SideMaster, in.Master)
		master = ds
		return err
	})
	g.Go(func() error {
		ds, err := decodeSource(gctx, reconcile.SideClient, in.Client)
		client = ds
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	criteria := s.criteria(in.Criteria)
	res, err := reconcile.Reconcile(master, client, criteria)
	if err != nil {
		return nil, err
	}

	out := &UploadResult{
		Result:        res,
		RunID:         uuid.NewString(),
		MasterColumns: master.Columns,
		ClientColumns: client.Columns,
	}
	l := s.logger.With(zap.String("run_id", out.RunID))
	s.logStats("Upload reconciled", res, zap.String("run_id", out.RunID))

	if s.storesExports() {
		key, err := s.storeExport(ctx, out.RunID, res, master.Columns, client.Columns)
		if err != nil {
			l.Warn("Failed to store export", zap.Error(err))
			out.Warnings = append(out.Warnings, err.Error())
		} else {
			out.ExportKey = key
		}
	}

	if s.history != nil {
		rec := NewRunRecord(out.RunID, in, res, criteria)
		rec.ExportKey = out.ExportKey
		if err := s.history.Save(ctx, &rec); err != nil {
			l.Warn("Failed to record run", zap.Error(err))
			out.Warnings = append(out.Warnings, err.Error())
		}
	}

	return out, nil
}

// Export renders an export workbook.
func (s *Service) Export(set spreadsheet.ExportSet) ([]byte, error) {
	return spreadsheet.ExportBytes(set)
}

// Inspect decodes a workbook and reports its sheets and key columns.
func (s *Service) Inspect(src Source) (*InspectReport, error) {
	wb, err := spreadsheet.Decode(src.Reader, src.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	report := InspectWorkbook(src.Filename, wb)
	return &report, nil
}

// DuplicateRow copies the row at index right after it.
func (s *Service) DuplicateRow(rows []table.Row, index int) ([]table.Row, error) {
	out, err := table.DuplicateRow(rows, index)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return out, nil
}

// Runs lists recent runs.
func (s *Service) Runs(ctx context.Context) ([]RunRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.List(ctx, s.cfg.HistoryLimit)
}

// Run returns one run.
func (s *Service) Run(ctx context.Context, id string) (*RunRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Get(ctx, id)
}

// OpenRunExport opens the stored export of a run. The caller closes it.
func (s *Service) OpenRunExport(ctx context.Context, id string) (io.ReadCloser, *RunRecord, error) {
	rec, err := s.Run(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if rec.ExportKey == "" {
		return nil, rec, ErrNoExport
	}
	if s.client == nil {
		return nil, rec, ErrStorageDisabled
	}
	obj, err := s.client.GetObject(ctx, s.bucket, rec.ExportKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, rec, fmt.Errorf("failed to open export %s: %w", rec.ExportKey, err)
	}
	return obj, rec, nil
}

// DeleteRun removes a run and its stored export.
func (s *Service) DeleteRun(ctx context.Context, id string) error {
	rec, err := s.Run(ctx, id)
	if err != nil {
		return err
	}
	if rec.ExportKey != "" && s.client != nil {
		if err := s.client.RemoveObject(ctx, s.bucket, rec.ExportKey, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove export %s: %w", rec.ExportKey, err)
		}
	}
	if err := s.history.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Run deleted", zap.String("run_id", id))
	return nil
}

func (s *Service) storesExports() bool {
	return s.client != nil && s.cfg.StoreExports
}

func (s *Service) storeExport(ctx context.Context, runID string, res *reconcile.Result, masterCols, clientCols []table.Column) (string, error) {
	data, err := spreadsheet.ExportBytes(NewExportSet(res, masterCols, clientCols))
	if err != nil {
		return "", err
	}
	key := ExportKey(s.cfg.ExportPrefix, runID)
	if err := storage.PutBytes(ctx, s.client, s.bucket, key, data, storage.XLSXContentType); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Service) logStats(msg string, res *reconcile.Result, fields ...zap.Field) {
	s.logger.Info(msg, append(fields,
		zap.Int("master", res.Stats.TotalMasterRecords),
		zap.Int("client", res.Stats.TotalClientRecords),
		zap.Int("matched", res.Stats.MatchedRecords),
		zap.Int("unmatched", res.Stats.UnmatchedRecords),
		zap.Int("duplicates", res.Stats.DuplicateRecords),
		zap.Float64("match_rate", res.Stats.MatchRate),
	)...)
}

// NewExportSet builds the export content of a result.
func NewExportSet(res *reconcile.Result, masterCols, clientCols []table.Column) spreadsheet.ExportSet {
	return spreadsheet.ExportSet{
		Merged:        res.Merged,
		Unmatched:     res.Unmatched,
		Duplicates:    res.Duplicates,
		MasterColumns: masterCols,
		ClientColumns: clientCols,
	}
}

// ExportKey is the object key of a run's export.
func ExportKey(prefix, runID string) string {
	return path.Join(prefix, runID+".xlsx")
}

func decodeSource(ctx context.Context, side reconcile.Side, src Source) (table.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return table.Dataset{}, err
	}
	if src.Reader == nil {
		return table.Dataset{}, fmt.Errorf("%w: %s file is required", ErrInvalidInput, side)
	}
	wb, err := spreadsheet.Decode(src.Reader, src.Filename)
	if err != nil {
		return table.Dataset{}, fmt.Errorf("%w: %s file: %w", ErrInvalidInput, side, err)
	}
	ds, err := wb.Sheet(src.Sheet)
	if err != nil {
		return table.Dataset{}, fmt.Errorf("%w: %s file: %w", ErrInvalidInput, side, err)
	}
	return ds, nil
}
