// Command bdp is a terminal viewer for bd (beads) issue trackers: it shells
// out to the bd executable for data, renders the issue hierarchy as a tree,
// and refreshes live while bd mutates the workspace underneath it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/beadpanel/pkg/bdclient"
	"github.com/vanderheijden86/beadpanel/pkg/config"
	"github.com/vanderheijden86/beadpanel/pkg/debug"
	"github.com/vanderheijden86/beadpanel/pkg/loader"
	"github.com/vanderheijden86/beadpanel/pkg/sorting"
	"github.com/vanderheijden86/beadpanel/pkg/ui"
	"github.com/vanderheijden86/beadpanel/pkg/version"
	"github.com/vanderheijden86/beadpanel/pkg/watcher"
	"github.com/vanderheijden86/beadpanel/pkg/workspace"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bdp", flag.ExitOnError)
	root := fs.String("C", "", "workspace root (default: current directory)")
	filterFlag := fs.String("filter", "", "startup filter: all, open, ready, recent")
	sortFlag := fs.String("sort", "", "sort mode: default, recent")
	windowFlag := fs.Int("recent-window", -1, "recent filter window in minutes (-1: use config)")
	robotList := fs.Bool("robot-list", false, "print the filtered issue list as JSON and exit")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Println("bdp", version.Version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if *filterFlag != "" {
		cfg.View.Filter = *filterFlag
	}
	if *sortFlag != "" {
		cfg.View.SortMode = *sortFlag
	}
	if *windowFlag != -1 {
		cfg.View.RecentWindowMinutes = windowFlag
	}

	filter := loader.FilterMode(cfg.View.Filter)
	switch filter {
	case loader.FilterAll, loader.FilterOpen, loader.FilterReady, loader.FilterRecent:
	default:
		fmt.Fprintf(os.Stderr, "bdp: unknown filter %q\n", filter)
		return 2
	}

	notifier := bdclient.FuncNotifier{
		LogFunc:  func(msg string) { debug.Log("%s", msg) },
		WarnFunc: func(msg string) { fmt.Fprintf(os.Stderr, "warning: %s\n", msg) },
		ErrorFunc: func(msg string) {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		},
	}

	svc := bdclient.NewService(bdclient.Options{
		CommandPath:         cfg.BD.CommandPath,
		JSONLOnly:           cfg.BD.JSONLOnly,
		AllowBrokenFallback: cfg.BD.AllowBrokenFallback,
	}, notifier)

	repo := loader.NewRepository(svc, notifier)
	repo.RecentWindow = sorting.ClampWindow(cfg.View.WindowMinutes(), notifier.Warn)

	if *robotList {
		return runRobotList(repo, *root, filter)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "bdp: stdout is not a terminal; use --robot-list for machine output")
		return 1
	}

	beadsDir, err := workspace.BeadsDir(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bdp: %v\n", err)
		return 1
	}

	w := watcher.New(beadsDir, watcher.WithOnError(func(err error) {
		debug.Log("watch error: %v", err)
	}))
	if err := w.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file watching disabled: %v\n", err)
	}
	defer w.Stop()

	m := ui.NewModel(ui.Options{
		Fetch: func(ctx context.Context, f loader.FilterMode) loader.Result {
			return repo.ListFiltered(ctx, *root, f)
		},
		Changes:  w.Changed(),
		Theme:    ui.DefaultTheme(lipgloss.DefaultRenderer()),
		Filter:   filter,
		SortMode: sorting.Mode(cfg.View.SortMode),
		BeadsDir: beadsDir,
		Title:    "bdp",
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "bdp: %v\n", err)
		return 1
	}
	return 0
}

// runRobotList prints the filtered issue list as a JSON array for scripts and
// agents. Partial data still prints, with the error on stderr.
func runRobotList(repo *loader.Repository, root string, filter loader.FilterMode) int {
	res := repo.ListFiltered(context.Background(), root, filter)
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "bdp: %v\n", res.Err)
		if len(res.Issues) == 0 {
			return 1
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Issues); err != nil {
		fmt.Fprintf(os.Stderr, "bdp: encoding issues: %v\n", err)
		return 1
	}
	if res.Err != nil {
		return 1
	}
	return 0
}
