package db

// SelectQuery is the input for reading rows from an attribute table.
type SelectQuery struct {
	Table string
	// Where is a complete SQL boolean expression; empty means all rows.
	Where   string
	Columns []string
	// Distinct selects the unique non-null values of a single column.
	Distinct string
	// Limit caps the number of rows; 0 means no cap.
	Limit int
}

// Row is one result row keyed by column name.
type Row map[string]any

// SelectResult is the output of a select.
type SelectResult struct {
	Columns []string
	Rows    []Row
}
