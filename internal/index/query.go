package index

import (
	"context"
	"fmt"
)

// SymbolRow is one row of the symbols table joined with its file.
type SymbolRow struct {
	ID        int64
	Path      string
	Name      string
	Flags     string
	ScopeKind string
	Line, Col int
	Refs      int
}

// RefRow is one row of the refs table joined with its file.
type RefRow struct {
	Path      string
	Name      string
	Flags     string
	Line, Col int
}

// NameCount pairs an unresolved name with its number of uses.
type NameCount struct {
	Name  string
	Count int
}

// SymbolsNamed returns every symbol called name across files.
func (s *Store) SymbolsNamed(ctx context.Context, name string) ([]SymbolRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sy.id, f.path, sy.name, sy.flags, sc.kind, sy.start_line, sy.start_col,
		       (SELECT COUNT(*) FROM refs r WHERE r.symbol_id = sy.id)
		FROM symbols sy
		JOIN files f ON f.id = sy.file_id
		JOIN scopes sc ON sc.id = sy.scope_id
		WHERE sy.name = ?
		ORDER BY f.path, sy.start_line, sy.start_col`, name)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var out []SymbolRow
	for rows.Next() {
		var r SymbolRow
		if err := rows.Scan(&r.ID, &r.Path, &r.Name, &r.Flags, &r.ScopeKind, &r.Line, &r.Col, &r.Refs); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReferencesTo lists the uses of the symbol with row id symbolID.
func (s *Store) ReferencesTo(ctx context.Context, symbolID int64) ([]RefRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.path, r.name, r.flags, r.start_line, r.start_col
		FROM refs r
		JOIN files f ON f.id = r.file_id
		WHERE r.symbol_id = ?
		ORDER BY f.path, r.start_line, r.start_col`, symbolID)
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	defer rows.Close()

	var out []RefRow
	for rows.Next() {
		var r RefRow
		if err := rows.Scan(&r.Path, &r.Name, &r.Flags, &r.Line, &r.Col); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Unresolved counts references without a symbol, by name, across files.
func (s *Store) Unresolved(ctx context.Context) ([]NameCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COUNT(*) FROM refs
		WHERE symbol_id IS NULL
		GROUP BY name
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query unresolved: %w", err)
	}
	defer rows.Close()

	var out []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("scan unresolved: %w", err)
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}

// Count returns the number of rows in table, which must be one of the
// index tables.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	switch table {
	case "files", "scopes", "symbols", "refs":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	// #nosec G202 -- table is one of the fixed names above
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
