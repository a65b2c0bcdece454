package postgres

// scannable lets row-scanning helpers accept both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}
