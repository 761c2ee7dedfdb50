package cmd

import (
	"fmt"

	"github.com/theirongolddev/custform/internal/config"
	"github.com/theirongolddev/custform/internal/customer"
	"github.com/theirongolddev/custform/internal/logging"
	"github.com/theirongolddev/custform/internal/tui"
	"github.com/theirongolddev/custform/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive customer form",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The alt screen owns stdout, so logs go to a file.
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = config.LogPath()
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logging.New(cfg.Log.Level, cfg.Log.Format, logFile)

	f := customer.New(formOptions(cfg, log))
	needSetup := flagConfig == "" && !config.Exists()
	app := tui.NewApp(f, cfg, needSetup, log)

	log.Info("form opened", "debounce", f.DebounceDelay(), "theme", theme.Active.Name)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
