package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kestrel-lang/bakergc/internal/config"
	"github.com/kestrel-lang/bakergc/internal/replui"
)

var (
	replSpaceSizeFlag int
	replRootDepthFlag int
	replSeedFlag      bool
)

func addReplCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive console over a live Baker heap",
		Long: `Start an interactive console backed by a fresh heap: alloc, push/pop
roots, read/write fields through the barriers, and force collection
cycles, with a sidebar tracking the five Baker pointers as you go.

Examples:
  bakergc repl                 # console over a heap using the saved config
  bakergc repl --space-size 65536
  bakergc repl --seed=false`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}

	flags := cmd.Flags()
	flags.IntVar(&replSpaceSizeFlag, "space-size", 0, "Override configured semi-space size in bytes (0 = use config)")
	flags.IntVar(&replRootDepthFlag, "root-depth", 0, "Override configured max root depth (0 = use config)")
	flags.BoolVar(&replSeedFlag, "seed", true, "Seed the console with a starter list")

	parent.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	config.SetConfigDir(ConfigDir)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	spaceSize := cfg.SpaceSizeBytes
	if replSpaceSizeFlag > 0 {
		spaceSize = replSpaceSizeFlag
	}
	rootDepth := cfg.MaxRootDepth
	if replRootDepthFlag > 0 {
		rootDepth = replRootDepthFlag
	}

	model, err := replui.NewModel(replui.Config{
		SpaceSizeBytes: spaceSize,
		MaxRootDepth:   rootDepth,
		Home:           config.Home(),
		Seed:           replSeedFlag,
		DebugTrace:     cfg.DebugTrace,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
