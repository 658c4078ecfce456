// Package stats is the statistics facade the planner uses for selectivity
// estimation: a ValueStatistics view per column, and a selectivity
// calculator over Boolean predicates.
package stats

import "github.com/cottontaildb/queryengine/sql"

// ValueStatistics is what the catalogue exposes per column for the
// planner's selectivity estimates.
type ValueStatistics struct {
	Min                   sql.Value
	Max                   sql.Value
	NumberOfDistinctEntries int64
	AvgWidth                float64
	NumberOfNonNullEntries  int64
	// VectorLength is the representative element count for vector
	// columns; zero for scalar columns.
	VectorLength int
}

// Provider is the external collaborator a Column exposes its statistics
// through (§6 Column.statistics()).
type Provider interface {
	Statistics() (ValueStatistics, error)
}
