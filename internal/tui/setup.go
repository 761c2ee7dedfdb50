package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/custform/internal/config"
	"github.com/theirongolddev/custform/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Theme    string
	Debounce string // milliseconds, as typed
	LogLevel string
}

// NewSetupValues seeds the answers from cfg.
func NewSetupValues(cfg config.Config) SetupValues {
	return SetupValues{
		Theme:    cfg.Appearance.Theme,
		Debounce: strconv.Itoa(cfg.Form.DebounceMS),
		LogLevel: cfg.Log.Level,
	}
}

// NewSetupForm builds the first-run wizard. Answers are written into vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to custform").
				Description("A few settings before the first customer.\nRun `custform setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
			huh.NewInput().
				Title("Email check delay (ms)").
				Description("Quiet period after typing before the email message updates.").
				Value(&vals.Debounce).
				Validate(validateDebounce),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&vals.LogLevel),
		),
	).WithTheme(huh.ThemeCharm())
}

func validateDebounce(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number of milliseconds")
	}
	if n < 0 || n > 10000 {
		return errors.New("must be between 0 and 10000")
	}
	return nil
}

// ApplySetup copies the answers onto cfg and activates the chosen theme.
func ApplySetup(cfg config.Config, vals SetupValues) (config.Config, error) {
	if err := validateDebounce(vals.Debounce); err != nil {
		return cfg, fmt.Errorf("debounce: %w", err)
	}
	ms, _ := strconv.Atoi(strings.TrimSpace(vals.Debounce))
	cfg.Form.DebounceMS = ms
	if vals.Theme != "" {
		cfg.Appearance.Theme = vals.Theme
		theme.SetActive(vals.Theme)
	}
	if vals.LogLevel != "" {
		cfg.Log.Level = vals.LogLevel
	}
	return cfg, nil
}

// saveSetup applies the wizard answers, writes the config file and moves
// the email delay of the open form to the new value.
func (a *App) saveSetup() error {
	cfg, err := ApplySetup(a.cfg, *a.setupVals)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.form.SetDebounceDelay(cfg.Debounce())
	return config.Save(cfg)
}
