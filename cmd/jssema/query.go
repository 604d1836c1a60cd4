package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jssema/internal/index"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search a database written by the index command",
}

var querySymbolCmd = &cobra.Command{
	Use:   "symbol <name>",
	Short: "List the declarations of name with their reference counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuerySymbol,
}

var queryRefsCmd = &cobra.Command{
	Use:   "refs <name>",
	Short: "List every resolved use of the symbols called name",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryRefs,
}

var queryUnresolvedCmd = &cobra.Command{
	Use:   "unresolved",
	Short: "Count the names used without a declaration",
	Args:  cobra.NoArgs,
	RunE:  runQueryUnresolved,
}

func init() {
	queryCmd.PersistentFlags().String("db", defaultIndexDB, "database file")
	queryCmd.AddCommand(querySymbolCmd, queryRefsCmd, queryUnresolvedCmd)
}

func openIndex(cmd *cobra.Command) (*index.Store, error) {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return nil, fmt.Errorf("failed to get db flag: %w", err)
	}
	store, err := index.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func runQuerySymbol(cmd *cobra.Command, args []string) error {
	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	rows, err := store.SymbolsNamed(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:%d:%d\t%s\t%s\t%s\t%d refs\n", r.Path, r.Line, r.Col, r.Name, r.ScopeKind, r.Flags, r.Refs)
	}
	return tw.Flush()
}

func runQueryRefs(cmd *cobra.Command, args []string) error {
	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	syms, err := store.SymbolsNamed(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, sym := range syms {
		fmt.Fprintf(out, "%s:%d:%d %s (%s)\n", sym.Path, sym.Line, sym.Col, sym.Name, sym.ScopeKind)
		refs, err := store.ReferencesTo(cmd.Context(), sym.ID)
		if err != nil {
			return err
		}
		for _, r := range refs {
			fmt.Fprintf(out, "  %s:%d:%d %s\n", r.Path, r.Line, r.Col, r.Flags)
		}
	}
	return nil
}

func runQueryUnresolved(cmd *cobra.Command, _ []string) error {
	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	rows, err := store.Unresolved(cmd.Context())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", r.Name, r.Count)
	}
	return tw.Flush()
}
