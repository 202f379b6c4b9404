package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:    "catalog",
	Short:  "Catalog maintenance commands",
	Hidden: true,
}

var catalogVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Load every catalog entry and report validation failures",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := newLoader()
		idx, err := loader.GetIndex()
		if err != nil {
			return err
		}

		failed := 0
		for _, kind := range model.Kinds {
			resources, err := loader.IterResources(kind)
			if err != nil {
				return err
			}
			// IterResources already skips and logs invalid entries; recount
			// against the index to surface how many were silently dropped.
			if want, ok := idx.Types[kind]; ok && want != len(resources) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: index declares %d, loaded %d valid\n", kind, want, len(resources))
				failed += want - len(resources)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "catalog total: %d, invalid/missing: %d\n", idx.Total, failed)
		if failed > 0 {
			return fmt.Errorf("%d catalog entries failed validation", failed)
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogVerifyCmd)
}
