package store

import (
	"context"
	"database/sql"
	"os"
)

// Stats holds catalog statistics.
type Stats struct {
	DBPath        string       `json:"db_path"`
	DBSizeBytes   int64        `json:"db_size_bytes"`
	Builds        int          `json:"builds"`
	TotalChunks   int          `json:"total_chunks"`
	SourceFiles   int          `json:"source_files"`
	UndatedChunks int          `json:"undated_chunks"`
	EarliestDate  string       `json:"earliest_date,omitempty"`
	LatestDate    string       `json:"latest_date,omitempty"`
	Roles         []GroupCount `json:"roles"`
	SourceTypes   []GroupCount `json:"source_types"`
}

// GroupCount holds the chunk count for one role or source type.
type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats returns catalog statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM builds`).Scan(&st.Builds)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&st.TotalChunks)
	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT source_path) FROM chunks`).Scan(&st.SourceFiles)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE date = ''`).Scan(&st.UndatedChunks)

	var earliest, latest sql.NullString
	s.db.QueryRowContext(ctx, `SELECT MIN(date), MAX(date) FROM chunks WHERE date != ''`).Scan(&earliest, &latest)
	st.EarliestDate, st.LatestDate = earliest.String, latest.String

	var err error
	if st.Roles, err = s.groupCounts(ctx, "role"); err != nil {
		return st, err
	}
	if st.SourceTypes, err = s.groupCounts(ctx, "source_type"); err != nil {
		return st, err
	}
	return st, nil
}

// column is one of the fixed chunk columns, never user input.
func (s *SQLiteStore) groupCounts(ctx context.Context, column string) ([]GroupCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+` AS name, COUNT(*) AS cnt FROM chunks GROUP BY name ORDER BY cnt DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GroupCount
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
