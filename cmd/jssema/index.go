package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jssema/internal/index"
)

const defaultIndexDB = ".jssema-index.db"

var indexCmd = &cobra.Command{
	Use:   "index [flags] <file|directory>...",
	Short: "Store the semantic model of each file in a SQLite database",
	Long: `Analyse the given files and write their scopes, symbols and references into a
SQLite database that the query command can search. Re-indexing a file replaces
its previous rows.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("db", defaultIndexDB, "database file")
}

func runIndex(cmd *cobra.Command, args []string) error {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return fmt.Errorf("failed to get db flag: %w", err)
	}

	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()
	s.opts.KeepSemantic = true

	res, err := s.run(args, "indexing")
	if err != nil {
		return err
	}

	store, err := index.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return err
	}

	var total index.Stats
	written := 0
	for i := range res.Files {
		f := &res.Files[i]
		switch {
		case f.Err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: skipped: %v\n", f.Path, f.Err)
			continue
		case f.Sem == nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: skipped: no model (syntax errors)\n", f.Path)
			continue
		}
		_, st, err := store.WriteFile(cmd.Context(), res.FileSet, res.FileSet.Get(f.FileID), f.Sem)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
		total.Scopes += st.Scopes
		total.Symbols += st.Symbols
		total.References += st.References
		written++
	}
	if !s.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %s into %s: %d scopes, %d symbols, %d references\n",
			plural(written, "file"), dbPath, total.Scopes, total.Symbols, total.References)
	}
	return nil
}
