package store

import (
	"context"
	"fmt"
	"strings"
)

// Search finds chunks whose text, author or title contain the query substring.
// Results come back in index order.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []interface{}

	if p.Query != "" {
		query := "%" + p.Query + "%"
		where = append(where, "(c.text LIKE ? OR c.author LIKE ? OR c.title LIKE ?)")
		args = append(args, query, query, query)
	}
	if p.Role != "" {
		where = append(where, "c.role = ?")
		args = append(args, string(p.Role))
	}
	if p.SourceType != "" {
		where = append(where, "c.source_type = ?")
		args = append(args, string(p.SourceType))
	}
	if p.Date != "" {
		where = append(where, "c.date = ?")
		args = append(args, p.Date)
	}

	sql := fmt.Sprintf(`
		SELECT %s
		FROM chunks c
		WHERE %s
		ORDER BY c.seq
		LIMIT ?`, chunkColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		r, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
