package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/search"
)

var (
	searchKind      string
	searchMode      string
	searchLimit     int
	searchJSON      bool
	searchThreshold float64
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog by id, name, or fuzzy match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := newLoader()
		resources, err := loader.IterResources(model.Kind(searchKind))
		if err != nil {
			return err
		}
		idx := search.New()
		idx.Rebuild(resources)

		mode := search.Mode(searchMode)
		if mode == "" {
			mode = search.ModeSmart
		}
		hits := idx.Search(args[0], mode, searchLimit, searchThreshold)

		if searchJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(hits)
		}
		for _, h := range hits {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-28s %-5.1f %s\n", h.Resource.Type, h.Resource.ID, h.Score, h.Resource.Name)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchKind, "type", "", "filter by resource type")
	searchCmd.Flags().StringVar(&searchMode, "mode", "smart", "search mode: exact, prefix, fuzzy, smart")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 60, "minimum fuzzy score (0-100)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit results as JSON")
}
