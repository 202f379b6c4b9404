package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/resolver"
)

var (
	depsKind    string
	depsReverse bool
	depsTree    bool
	depsJSON    bool
)

var depsCmd = &cobra.Command{
	Use:   "deps <id>",
	Short: "Show a resource's dependency graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := newLoader()
		kind := model.Kind(depsKind)
		if kind == "" {
			kind = model.KindAgent
		}
		target, err := loader.GetResource(args[0], kind)
		if err != nil {
			return err
		}

		if depsReverse {
			all, err := loader.IterResources("")
			if err != nil {
				return err
			}
			dependents := resolver.ReverseDependents(target.ID, all)
			if depsJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(dependents)
			}
			for _, r := range dependents {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", r.Type, r.ID)
			}
			return nil
		}

		res := newResolver(loader)
		plan, err := res.Resolve(target)
		if err != nil {
			return err
		}

		if depsJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(plan)
		}
		if depsTree {
			printDepsTree(cmd, plan)
			return nil
		}
		for i, level := range plan.ToInstall {
			names := make([]string, 0, len(level))
			for _, r := range level {
				names = append(names, r.ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "level %d: %s\n", i, strings.Join(names, ", "))
		}
		if plan.Incomplete() {
			fmt.Fprintln(cmd.OutOrStdout(), "\nmissing:")
			for _, ref := range plan.Missing {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", ref.Key())
			}
		}
		return nil
	},
}

// printDepsTree renders the install plan as an ASCII tree rooted at the
// target, walking required edges in the order the resolver recorded them.
func printDepsTree(cmd *cobra.Command, plan *model.InstallPlan) {
	byKey := make(map[string]*model.Resource)
	for _, level := range plan.ToInstall {
		for _, r := range level {
			byKey[r.Key()] = r
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), plan.Target.ID)
	printTreeNode(cmd, plan.Target, byKey, "", make(map[string]bool))
}

func printTreeNode(cmd *cobra.Command, r *model.Resource, byKey map[string]*model.Resource, prefix string, visited map[string]bool) {
	if visited[r.Key()] {
		return
	}
	visited[r.Key()] = true
	for i, dep := range r.Deps.Required {
		connector := "├── "
		nextPrefix := prefix + "│   "
		if i == len(r.Deps.Required)-1 {
			connector = "└── "
			nextPrefix = prefix + "    "
		}
		child, ok := byKey[dep.Key()]
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s (missing)\n", prefix, connector, dep.ID)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s\n", prefix, connector, child.ID)
		printTreeNode(cmd, child, byKey, nextPrefix, visited)
	}
}

func init() {
	depsCmd.Flags().StringVar(&depsKind, "type", "", "resource type (default agent)")
	depsCmd.Flags().BoolVar(&depsReverse, "reverse", false, "show resources that depend on this one instead")
	depsCmd.Flags().BoolVar(&depsTree, "tree", false, "render the dependency graph as an ASCII tree")
	depsCmd.Flags().BoolVar(&depsJSON, "json", false, "emit results as JSON")
}
