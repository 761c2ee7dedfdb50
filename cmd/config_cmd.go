package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/theirongolddev/custform/internal/cli"
	"github.com/theirongolddev/custform/internal/config"
	"github.com/theirongolddev/custform/internal/customer"
	"github.com/theirongolddev/custform/internal/form"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(configPath())
	printConfig(cmd.OutOrStdout(), cfg, configPath(), statErr == nil)
	return nil
}

const (
	messageKeyWidth  = 12
	messageTextWidth = 48
)

func printConfig(w io.Writer, cfg config.Config, path string, loaded bool) {
	fmt.Fprintf(w, "  Config file: %s\n", path)
	if loaded {
		fmt.Fprintln(w, "  Status: loaded")
	} else {
		fmt.Fprintln(w, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Form]")
	fmt.Fprintf(w, "    Email check delay: %s\n", cfg.Debounce())
	fmt.Fprintf(w, "    Rating range:      %g..%g\n", cfg.Form.RatingMin, cfg.Form.RatingMax)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Messages]")
	msgs := customer.DefaultMessages().With(cfg.Messages)
	seen := map[string]bool{form.KeyRequired: true, form.KeyEmail: true}
	for k := range cfg.Messages {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		if text, ok := msgs.Lookup(k); ok {
			rows = append(rows, []string{k, text})
		}
	}
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Headers: []string{"Key", "Message"},
		Rows:    rows,
		Widths:  []int{messageKeyWidth, messageTextWidth},
	}))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Appearance]")
	fmt.Fprintf(w, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Log]")
	fmt.Fprintf(w, "    Level:  %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "    Format: %s\n", cfg.Log.Format)
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = config.LogPath()
	}
	fmt.Fprintf(w, "    File:   %s (tui only)\n", logFile)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Run `custform setup` to reconfigure.")
}
