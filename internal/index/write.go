package index

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"

	"fortio.org/safecast"

	"jssema/internal/semantic"
	"jssema/internal/source"
)

// Stats counts the rows written for one file.
type Stats struct {
	Scopes     int
	Symbols    int
	References int
}

// WriteFile replaces the rows of file with the contents of sem, in one
// transaction. Deleted references are skipped.
func (s *Store) WriteFile(ctx context.Context, fs *source.FileSet, file *source.File, sem *semantic.Semantic) (int64, Stats, error) {
	var st Stats
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, st, fmt.Errorf("write %s: begin: %w", file.Path, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteFileTx(ctx, tx, file.Path); err != nil {
		return 0, st, fmt.Errorf("write %s: %w", file.Path, err)
	}

	lang := file.Language()
	if sem.Tree() != nil {
		lang = sem.Tree().Lang
	}
	r, err := tx.ExecContext(ctx,
		`INSERT INTO files (path, language, hash, module) VALUES (?, ?, ?, ?)`,
		file.Path, lang.String(), hex.EncodeToString(file.Hash[:]), sem.IsModule())
	if err != nil {
		return 0, st, fmt.Errorf("write %s: insert file: %w", file.Path, err)
	}
	fileID, err := r.LastInsertId()
	if err != nil {
		return 0, st, err
	}

	w := &writer{ctx: ctx, tx: tx, fs: fs, sem: sem, fileID: fileID}
	if st, err = w.write(); err != nil {
		return 0, st, fmt.Errorf("write %s: %w", file.Path, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, st, fmt.Errorf("write %s: commit: %w", file.Path, err)
	}
	return fileID, st, nil
}

func deleteFileTx(ctx context.Context, tx *sql.Tx, path string) error {
	for _, q := range []string{
		`DELETE FROM refs WHERE file_id IN (SELECT id FROM files WHERE path = ?)`,
		`DELETE FROM symbols WHERE file_id IN (SELECT id FROM files WHERE path = ?)`,
		`UPDATE scopes SET parent_scope_id = NULL WHERE file_id IN (SELECT id FROM files WHERE path = ?)`,
		`DELETE FROM scopes WHERE file_id IN (SELECT id FROM files WHERE path = ?)`,
		`DELETE FROM files WHERE path = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, path); err != nil {
			return fmt.Errorf("delete previous rows: %w", err)
		}
	}
	return nil
}

type writer struct {
	ctx    context.Context
	tx     *sql.Tx
	fs     *source.FileSet
	sem    *semantic.Semantic
	fileID int64

	scopeRow  map[semantic.ScopeID]int64
	symbolRow map[semantic.SymbolID]int64
}

func (w *writer) write() (Stats, error) {
	var st Stats
	scopes := w.sem.Scopes()
	w.scopeRow = make(map[semantic.ScopeID]int64, len(scopes))
	for i := range scopes {
		if err := w.scope(&scopes[i]); err != nil {
			return st, err
		}
		st.Scopes++
	}
	// Parents are linked afterwards: reparenting can leave a scope with a
	// parent created after it.
	for i := range scopes {
		sc := &scopes[i]
		if !sc.Parent.IsValid() {
			continue
		}
		if _, err := w.tx.ExecContext(w.ctx, `UPDATE scopes SET parent_scope_id = ? WHERE id = ?`,
			w.scopeRow[sc.Parent], w.scopeRow[sc.ID]); err != nil {
			return st, fmt.Errorf("link scope %d: %w", sc.ID, err)
		}
	}

	symbols := w.sem.Symbols()
	w.symbolRow = make(map[semantic.SymbolID]int64, len(symbols))
	for i := range symbols {
		if err := w.symbol(&symbols[i]); err != nil {
			return st, err
		}
		st.Symbols++
	}

	refs := w.sem.References()
	for i := range refs {
		ref := &refs[i]
		if ref.Deleted() {
			continue
		}
		if err := w.reference(ref); err != nil {
			return st, err
		}
		st.References++
	}
	return st, nil
}

func (w *writer) scope(sc *semantic.Scope) error {
	var span source.Span
	if sc.Node.IsValid() {
		span = w.sem.Tree().Span(sc.Node)
	}
	start, end := w.position(span)
	localID, err := safecast.Conv[int64](uint32(sc.ID))
	if err != nil {
		return err
	}
	r, err := w.tx.ExecContext(w.ctx,
		`INSERT INTO scopes (file_id, local_id, kind, flags, strict, start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.fileID, localID, ScopeKind(sc.Flags), sc.Flags.String(), w.sem.IsStrict(sc.ID),
		start.Line, start.Col, end.Line, end.Col)
	if err != nil {
		return fmt.Errorf("insert scope %d: %w", sc.ID, err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return err
	}
	w.scopeRow[sc.ID] = id
	return nil
}

func (w *writer) symbol(sym *semantic.Symbol) error {
	start, end := w.position(sym.Span)
	r, err := w.tx.ExecContext(w.ctx,
		`INSERT INTO symbols (file_id, scope_id, name, flags, redeclarations, start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.fileID, w.scopeRow[sym.Scope], w.sem.Name(sym.Name), sym.Flags.String(), len(sym.Redeclarations),
		start.Line, start.Col, end.Line, end.Col)
	if err != nil {
		return fmt.Errorf("insert symbol %q: %w", w.sem.Name(sym.Name), err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return err
	}
	w.symbolRow[sym.ID] = id
	return nil
}

func (w *writer) reference(ref *semantic.Reference) error {
	start, end := w.position(w.sem.Tree().Span(ref.Node))
	var symbolID sql.NullInt64
	if ref.Resolved() {
		symbolID = sql.NullInt64{Int64: w.symbolRow[ref.Symbol], Valid: true}
	}
	_, err := w.tx.ExecContext(w.ctx,
		`INSERT INTO refs (file_id, scope_id, symbol_id, name, flags, start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.fileID, w.scopeRow[ref.Scope], symbolID, w.sem.Name(ref.Name), ref.Flags.String(),
		start.Line, start.Col, end.Line, end.Col)
	if err != nil {
		return fmt.Errorf("insert reference %q: %w", w.sem.Name(ref.Name), err)
	}
	return nil
}

// position resolves span to 1-based lines and columns; generated nodes
// without a span resolve to zero.
func (w *writer) position(span source.Span) (start, end source.LineCol) {
	if span.Empty() && span.Start == 0 || w.fs == nil || w.fs.Get(span.File) == nil {
		return source.LineCol{}, source.LineCol{}
	}
	return w.fs.Resolve(span)
}

// ScopeKind names the most specific kind a scope's flags describe.
func ScopeKind(f semantic.ScopeFlags) string {
	switch {
	case f.Has(semantic.ScopeTop):
		return "program"
	case f.Has(semantic.ScopeArrow):
		return "arrow"
	case f.Has(semantic.ScopeFunction):
		return "function"
	case f.Has(semantic.ScopeClass):
		return "class"
	case f.Has(semantic.ScopeCatch):
		return "catch"
	case f.Has(semantic.ScopeEnum):
		return "enum"
	case f.Has(semantic.ScopeSwitch):
		return "switch"
	case f.Has(semantic.ScopeLoop):
		return "loop"
	default:
		return "block"
	}
}
