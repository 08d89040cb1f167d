package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VictorCaricatte/panvita/internal/refdb"
)

func newResolveCmd() *cobra.Command {
	var dbName string
	var dbDir string

	cmd := &cobra.Command{
		Use:   "resolve [subject]...",
		Short: "Inspect a reference database's annotation map",
		Long: `Load one reference database and print its summary. Subject
identifiers given as arguments are resolved against the map the same
way alignment hits are during a run.`,
		Example: `  panvita resolve --db card --db-dir db/
  panvita resolve --db megares --db-dir db/ "MEG_7|Drugs|..." gb|ABC123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(dbName, dbDir, args)
		},
	}

	cmd.Flags().StringVar(&dbName, "db", "", "database: "+kindList())
	cmd.Flags().StringVar(&dbDir, "db-dir", ".", "directory holding the database files")
	cmd.MarkFlagRequired("db")
	return cmd
}

func kindList() string {
	s := ""
	for i, k := range refdb.Kinds() {
		if i > 0 {
			s += ", "
		}
		s += string(k)
	}
	return s
}

func runResolve(dbName, dbDir string, subjects []string) error {
	kind, err := refdb.ParseKind(dbName)
	if err != nil {
		return err
	}

	am, err := refdb.Load(kind, dbDir, logger)
	if err != nil {
		return fmt.Errorf("load %s: %w", kind, err)
	}

	label1, label2 := kind.AttrLabels()
	fmt.Printf("database: %s\n", kind)
	fmt.Printf("identifiers: %d\n", am.Len())
	fmt.Printf("annotated genes: %d\n", am.Genes())
	fmt.Printf("attributes: %s, %s\n", label1, label2)

	for _, subject := range subjects {
		gene, ok := am.Resolve(subject)
		if !ok {
			fmt.Printf("%s -> unresolved\n", subject)
			continue
		}
		fmt.Printf("%s -> %s (%s: %s; %s: %s)\n",
			subject, gene, label1, am.Attr1(gene), label2, am.Attr2(gene))
	}
	return nil
}
