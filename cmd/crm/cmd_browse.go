package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/a11y"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/browser"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/search"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the interactive catalog browser",
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return crmerr.Validation("stdout", "the interactive browser requires a terminal; use 'crm search' or 'crm install' for scripted/piped usage")
	}

	loader := newLoader()
	all, err := loader.IterResources(model.Kind(""))
	if err != nil {
		return err
	}

	res := newResolver(loader)
	in := newInstaller()

	var sink a11y.Sink = a11y.NoopSink{}
	if fileLog != nil {
		sink = &a11y.LoggingSink{Log: fileLog}
	}

	deps := browser.Deps{
		Loader:    loader,
		Index:     search.New(),
		Resolver:  res,
		Installer: in,
		A11y:      sink,
	}
	m := browser.NewModel(deps, all, appCfg.UI.NoColor)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
