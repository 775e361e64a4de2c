package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code-reconciler/core/reconcile"

	"gorm.io/gorm"
)

// TableName is the table holding the run history.
const TableName = "reconciliation_runs"

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one persisted reconciliation run.
type RunRecord struct {
	ID          string                     `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt   time.Time                  `gorm:"index" json:"createdAt"`
	MasterFile  string                     `gorm:"size:255" json:"masterFile"`
	ClientFile  string                     `gorm:"size:255" json:"clientFile"`
	MasterSheet string                     `gorm:"size:255" json:"masterSheet"`
	ClientSheet string                     `gorm:"size:255" json:"clientSheet"`
	Criteria    reconcile.ModifierCriteria `gorm:"serializer:json" json:"criteria"`

	TotalMaster    int     `json:"totalMasterRecords"`
	TotalClient    int     `json:"totalClientRecords"`
	Matched        int     `json:"matchedRecords"`
	Unmatched      int     `json:"unmatchedRecords"`
	Duplicates     int     `json:"duplicateRecords"`
	MatchRate      float64 `json:"matchRate"`
	ProcessingTime float64 `json:"processingTime"`

	ExportKey string `gorm:"size:512" json:"exportKey,omitempty"`
}

// TableName implements gorm's tabler interface.
func (RunRecord) TableName() string {
	return TableName
}

// RequiredColumns lists the columns the history table must carry.
func RequiredColumns() []string {
	return []string{
		"id", "created_at", "master_file", "client_file", "master_sheet", "client_sheet", "criteria",
		"total_master", "total_client", "matched", "unmatched", "duplicates",
		"match_rate", "processing_time", "export_key",
	}
}

// NewRunRecord builds a record from a finished reconciliation.
func NewRunRecord(id string, in UploadInput, res *reconcile.Result, criteria reconcile.ModifierCriteria) RunRecord {
	return RunRecord{
		ID:             id,
		MasterFile:     in.Master.Filename,
		ClientFile:     in.Client.Filename,
		MasterSheet:    in.Master.Sheet,
		ClientSheet:    in.Client.Sheet,
		Criteria:       criteria,
		TotalMaster:    res.Stats.TotalMasterRecords,
		TotalClient:    res.Stats.TotalClientRecords,
		Matched:        res.Stats.MatchedRecords,
		Unmatched:      res.Stats.UnmatchedRecords,
		Duplicates:     res.Stats.DuplicateRecords,
		MatchRate:      res.Stats.MatchRate,
		ProcessingTime: res.Stats.ProcessingTime,
	}
}

// History persists run records with GORM.
type History struct {
	db *gorm.DB
}

// NewHistory creates a history repository on db.
func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

// Migrate creates or updates the history table.
func (h *History) Migrate() error {
	if err := h.db.AutoMigrate(&RunRecord{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	return nil
}

// Save inserts a run record.
func (h *History) Save(ctx context.Context, rec *RunRecord) error {
	if err := h.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save run %s: %w", rec.ID, err)
	}
	return nil
}

// List returns the most recent runs first.
func (h *History) List(ctx context.Context, limit int) ([]RunRecord, error) {
	var runs []RunRecord
	q := h.db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given id.
func (h *History) Get(ctx context.Context, id string) (*RunRecord, error) {
	var rec RunRecord
	err := h.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &rec, nil
}

// Delete removes the run with the given id.
func (h *History) Delete(ctx context.Context, id string) error {
	res := h.db.WithContext(ctx).Delete(&RunRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return nil
}
