package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kestrel-lang/bakergc/internal/config"
	"github.com/kestrel-lang/bakergc/internal/output"
	"github.com/kestrel-lang/bakergc/internal/tui"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	jsonFlag    bool
	verboseFlag bool
	quietFlag   bool
	noColorFlag bool

	// ConfigDir overrides the config home directory (--config-dir /
	// BAKERGC_HOME).
	ConfigDir string
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	root := newRootCmd()
	addConfigCommands(root)
	addStressCommand(root)
	addInspectCommand(root)
	addReplCommand(root)
	return root
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bakergc",
		Short:         "Baker's incremental copying collector, as a CLI and TUI",
		Long:          "bakergc — allocate, evacuate, and inspect objects on a Baker-style semi-space heap from the command line or an interactive console.",
		Version:       fmt.Sprintf("bakergc v%s", Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verboseFlag && quietFlag {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			if jsonFlag {
				quietFlag = true
			}
			output.SetFlags(jsonFlag, quietFlag, verboseFlag)
			config.SetConfigDir(ConfigDir)
			return nil
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fi, _ := os.Stdin.Stat()
			isTTY := (fi.Mode() & os.ModeCharDevice) != 0
			if !isTTY {
				return cmd.Help()
			}

			config.SetConfigDir(ConfigDir)
			home := config.Home()

			// First run (no config.toml yet) gets the wizard; a
			// returning user lands straight on the menu.
			mode := tui.MenuMode
			if _, err := os.Stat(config.ConfigPath()); err != nil {
				mode = tui.WizardMode
			}

			p := tea.NewProgram(tui.NewApp(mode, home), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pflags := rootCmd.PersistentFlags()
	pflags.BoolVarP(&jsonFlag, "json", "j", false, "Output as JSON")
	pflags.BoolVarP(&verboseFlag, "verbose", "v", false, "Extra detail to stderr")
	pflags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	pflags.BoolVar(&noColorFlag, "no-color", false, "Disable ANSI colors")
	pflags.StringVar(&ConfigDir, "config-dir", "", "Override config directory (default: ~/.bakergc)")

	if v := os.Getenv("BAKERGC_HOME"); v != "" && ConfigDir == "" {
		ConfigDir = v
	}
	if os.Getenv("NO_COLOR") != "" {
		noColorFlag = true
	}
	if os.Getenv("BAKERGC_JSON") == "1" {
		jsonFlag = true
	}

	return rootCmd
}

// Execute runs the command tree from main.
func Execute() error {
	return NewRootCmd().Execute()
}
