package reconcile

import (
	"errors"
	"fmt"

	"code-reconciler/core/table"
)

// ModifierCriteria is the modifier-equivalence policy for one reconciliation.
// Each RootNN flag declares that a code bearing modifier NN matches the bare
// root code. Root00 does the same for codes with no modifier or modifier "00".
type ModifierCriteria struct {
	Root00       bool `json:"root00" mapstructure:"root00" default:"false"`
	Root25       bool `json:"root25" mapstructure:"root25" default:"false"`
	Root50       bool `json:"root50" mapstructure:"root50" default:"false"`
	Root59       bool `json:"root59" mapstructure:"root59" default:"false"`
	RootXU       bool `json:"rootXU" mapstructure:"root_xu" default:"false"`
	Root76       bool `json:"root76" mapstructure:"root76" default:"false"`
	IgnoreTrauma bool `json:"ignoreTrauma" mapstructure:"ignore_trauma" default:"false"`
}

// KeyColumns holds the resolved business columns of one dataset.
// An empty string means the column could not be resolved.
type KeyColumns struct {
	HCPCS       string `json:"hcpcs"`
	Modifier    string `json:"modifier"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
}

// ResolvedColumns pairs the key columns of both datasets.
type ResolvedColumns struct {
	Master KeyColumns `json:"master"`
	Client KeyColumns `json:"client"`
}

// ComparisonStats summarises one reconciliation run.
type ComparisonStats struct {
	TotalMasterRecords int `json:"totalMasterRecords"`
	TotalClientRecords int `json:"totalClientRecords"`
	// MatchedRecords counts master rows whose key was found in the client lookup.
	MatchedRecords   int `json:"matchedRecords"`
	UnmatchedRecords int `json:"unmatchedRecords"`
	DuplicateRecords int `json:"duplicateRecords"`
	// MatchRate is MatchedRecords / TotalClientRecords in percent, two decimals.
	MatchRate float64 `json:"matchRate"`
	// ProcessingTime is the wall-clock duration in milliseconds.
	ProcessingTime     float64 `json:"processingTime"`
	ColumnsMatched     int     `json:"columnsMatched"`
	TotalMasterColumns int     `json:"totalMasterColumns"`
	TotalClientColumns int     `json:"totalClientColumns"`

	// ExcludedMasterRecords and ExcludedClientRecords count trauma-filtered rows.
	ExcludedMasterRecords int `json:"excludedMasterRecords"`
	ExcludedClientRecords int `json:"excludedClientRecords"`
}

// Result is the output of Reconcile.
type Result struct {
	// Merged has exactly one row per filtered master row, in master order.
	Merged []table.Row `json:"merged"`

	// Unmatched contains client rows with no master counterpart.
	Unmatched []table.Row `json:"unmatched"`

	// Duplicates contains client rows sharing a raw key with another client row.
	Duplicates []table.Row `json:"duplicates"`

	// Stats provides aggregate counts.
	Stats ComparisonStats `json:"stats"`

	// Mapping is the master field to client field correspondence used for the overlay.
	Mapping map[string]string `json:"mapping"`

	// Columns reports which columns were used as key columns on each side.
	Columns ResolvedColumns `json:"columns"`
}

// Side names a dataset of a reconciliation.
type Side string

const (
	SideMaster Side = "master"
	SideClient Side = "client"
)

// ErrMissingKeyColumn is returned when a dataset has no HCPCS-equivalent column.
var ErrMissingKeyColumn = errors.New("missing key column")

// MissingKeyColumnError names the dataset whose HCPCS column could not be resolved.
type MissingKeyColumnError struct {
	Side    Side
	Columns []string
}

func (e *MissingKeyColumnError) Error() string {
	return fmt.Sprintf("%s dataset: no HCPCS column found among %v", e.Side, e.Columns)
}

func (e *MissingKeyColumnError) Unwrap() error {
	return ErrMissingKeyColumn
}
