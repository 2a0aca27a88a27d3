// internal/models/query_types.go
package models

type QueryType string

const (
	// QueryTypeAll selects every column, for export.
	QueryTypeAll QueryType = "all"
	// QueryTypeListing selects ListingColumns, for the print view.
	QueryTypeListing QueryType = "listing"
)

// Columns returns the select list for the query type.
func (q QueryType) Columns() []string {
	if q == QueryTypeListing {
		return ListingColumns
	}
	cols := make([]string, 0, len(Fields))
	for _, f := range Fields {
		cols = append(cols, f.Column)
	}
	return cols
}
