package main

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/installer"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

var (
	installKind            string
	installForce           bool
	installSkipDeps        bool
	installDryRun          bool
	installParallel        bool
	installAllowIncomplete bool
)

var installCmdCobra = &cobra.Command{
	Use:   "install <id>",
	Short: "Resolve and install a resource and its required dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := newLoader()
		kind := model.Kind(installKind)
		if kind == "" {
			kind = model.KindAgent
		}
		target, err := loader.GetResource(args[0], kind)
		if err != nil {
			return err
		}

		res := newResolver(loader)
		plan, err := res.Resolve(target)
		if err != nil {
			return err
		}
		if plan.Incomplete() && !installAllowIncomplete {
			for _, ref := range plan.Missing {
				fmt.Fprintf(cmd.ErrOrStderr(), "missing required dependency: %s\n", ref.Key())
			}
			return crmerr.MissingDependency(fmt.Sprintf("%d missing required dependencies", len(plan.Missing)))
		}

		in := newInstaller()
		opts := installer.Options{
			Force:            installForce,
			SkipDependencies: installSkipDeps,
			DryRun:           installDryRun,
			Parallel:         installParallel,
			AllowIncomplete:  installAllowIncomplete,
		}

		total := 0
		for _, level := range plan.ToInstall {
			total += len(level)
		}
		var bar *progressbar.ProgressBar
		if !flagQuiet {
			bar = progressbar.Default(int64(total), "installing")
		}

		results, err := in.Install(context.Background(), plan, opts, func(ev installer.ProgressEvent) {
			if bar != nil && ev.Phase == installer.PhaseDone {
				_ = bar.Add(1)
			}
		})
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Resource.ID, r.Err)
			} else if r.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: already installed (use --force to reinstall)\n", r.Resource.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: installed to %s\n", r.Resource.ID, r.Path)
			}
		}
		return err
	},
}

func init() {
	installCmdCobra.Flags().StringVar(&installKind, "type", "", "resource type (default agent)")
	installCmdCobra.Flags().BoolVarP(&installForce, "force", "f", false, "reinstall even if already present")
	installCmdCobra.Flags().BoolVar(&installSkipDeps, "skip-deps", false, "install only the target, not its dependencies")
	installCmdCobra.Flags().BoolVar(&installDryRun, "dry-run", false, "resolve and report without writing files")
	installCmdCobra.Flags().BoolVar(&installParallel, "parallel", true, "fetch each dependency level concurrently")
	installCmdCobra.Flags().BoolVar(&installAllowIncomplete, "allow-incomplete", false, "proceed even if required dependencies are missing from the catalog")
}
