package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/custform/internal/cli"
	"github.com/theirongolddev/custform/internal/customer"
	"github.com/theirongolddev/custform/internal/logging"
	"github.com/theirongolddev/custform/internal/model"

	"github.com/spf13/cobra"
)

// ErrInvalid is returned by check when the record fails validation.
var ErrInvalid = errors.New("customer record is invalid")

var flagSave bool

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a customer record (JSON, - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&flagSave, "save", false, "Also save the record (written to the log)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	var in io.Reader = cmd.InOrStdin()
	name := "stdin"
	if args[0] != "-" {
		fh, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening record: %w", err)
		}
		defer fh.Close()
		in = fh
		name = args[0]
	}

	f := customer.New(formOptions(cfg, log))
	return checkRecord(cmd.Context(), cmd.OutOrStdout(), in, name, f, flagSave)
}

// checkRecord replays one JSON record into f as user input and reports
// what fails. It returns ErrInvalid when anything does.
func checkRecord(ctx context.Context, w io.Writer, in io.Reader, name string, f *customer.Form, save bool) error {
	var c model.Customer
	if err := json.NewDecoder(in).Decode(&c); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}

	f.Load(c)
	f.FlushEmail()

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle("CUSTOMER CHECK  "+cli.MaskValue(name, 40)))
	fmt.Fprintln(w)

	problems := f.Problems()
	if len(problems) > 0 {
		rows := make([][]string, 0, len(problems))
		for _, p := range problems {
			rows = append(rows, []string{p.Path, cli.FormatKeys(p.Errors.Keys())})
		}
		fmt.Fprint(w, cli.RenderTable(cli.Table{
			Headers: []string{"Field", "Errors"},
			Rows:    rows,
		}))
		fmt.Fprintln(w)
	}

	if msg := f.EmailMessage(); msg != "" {
		fmt.Fprintf(w, "  %s %s\n", cli.RenderHint("email:"), msg)
	}

	valid := f.Valid()
	fmt.Fprintf(w, "  %s\n", cli.RenderVerdict(valid,
		"valid",
		fmt.Sprintf("invalid (%d %s)", len(problems), plural(len(problems), "problem"))))

	if save {
		res, err := f.Save(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s %s\n", cli.RenderHint("saved as"), res.ID)
	}
	fmt.Fprintln(w)

	if !valid {
		return ErrInvalid
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return strings.TrimSuffix(word, "s") + "s"
}
