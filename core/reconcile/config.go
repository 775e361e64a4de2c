package reconcile

// Config holds the application defaults around the engine.
type Config struct {
	// Criteria applies when a request or command omits its own criteria.
	Criteria ModifierCriteria `mapstructure:"criteria"`
	// ExportPrefix is the object key prefix for stored exports.
	ExportPrefix string `mapstructure:"export_prefix" default:"exports/"`
	// StoreExports uploads every HTTP upload's export to object storage.
	StoreExports bool `mapstructure:"store_exports" default:"true"`
	// HistoryLimit caps the number of runs listed at once.
	HistoryLimit int `mapstructure:"history_limit" default:"50"`
}
