package reconcile

import (
	"strings"

	"code-reconciler/core/table"
)

// Memo caches column resolutions for a single reconciliation.
// It is created per call and must not be shared between runs over different
// column sets; it is not safe for concurrent use.
type Memo struct {
	resolved map[memoKey]memoEntry
	hits     int
}

type memoKey struct {
	logical   string
	signature string
}

type memoEntry struct {
	field string
	ok    bool
}

// NewMemo creates an empty memo.
func NewMemo() *Memo {
	return &Memo{resolved: make(map[memoKey]memoEntry)}
}

// Resolve behaves like ResolveColumn, reusing earlier answers for the same
// logical name and column set.
func (m *Memo) Resolve(logicalName string, columns []table.Column) (string, bool) {
	key := memoKey{logical: logicalName, signature: columnSignature(columns)}
	if entry, ok := m.resolved[key]; ok {
		m.hits++
		return entry.field, entry.ok
	}

	field, ok := ResolveColumn(logicalName, columns)
	m.resolved[key] = memoEntry{field: field, ok: ok}
	return field, ok
}

// ColumnMapping builds the master to client field mapping through the memo.
func (m *Memo) ColumnMapping(masterColumns, clientColumns []table.Column) map[string]string {
	mapping := make(map[string]string, len(masterColumns))
	for _, c := range masterColumns {
		if c.Field == "" || c.Field == table.IDField {
			continue
		}
		if field, ok := m.Resolve(c.Field, clientColumns); ok {
			mapping[c.Field] = field
		}
	}
	return mapping
}

// Len returns the number of cached resolutions.
func (m *Memo) Len() int {
	return len(m.resolved)
}

// Hits returns how many lookups were served from the memo.
func (m *Memo) Hits() int {
	return m.hits
}

func columnSignature(columns []table.Column) string {
	fields := make([]string, len(columns))
	for i, c := range columns {
		fields[i] = c.Field
	}
	return strings.Join(fields, "\x00")
}
