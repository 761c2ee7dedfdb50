// Package tui provides the interactive Bubble Tea form for custform.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/custform/internal/config"
	"github.com/theirongolddev/custform/internal/customer"
	"github.com/theirongolddev/custform/internal/debounce"
	"github.com/theirongolddev/custform/internal/tui/components"
	"github.com/theirongolddev/custform/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// emailSettledMsg fires when an email ticket's quiet period is over.
type emailSettledMsg struct {
	ticket debounce.Ticket
}

// App is the root Bubble Tea model.
type App struct {
	form *customer.Form
	rows []row

	// UI state
	focus    int
	width    int
	height   int
	showHelp bool
	note     string
	keys     keyMap
	help     help.Model

	// First-run setup (huh form)
	cfg       config.Config
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	log *slog.Logger
	now func() time.Time
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 100
	minContentHeight = 5
	labelWidth       = 15
)

// NewApp creates the TUI model around f. When needSetup is set the
// first-run wizard is shown before the form.
func NewApp(f *customer.Form, cfg config.Config, needSetup bool, log *slog.Logger) App {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := App{
		form:      f,
		rows:      customerRows(f),
		keys:      defaultKeyMap(),
		help:      help.New(),
		cfg:       cfg,
		needSetup: needSetup,
		log:       log,
		now:       time.Now,
	}
	vals := NewSetupValues(cfg)
	a.setupVals = &vals
	if needSetup {
		a.setupForm = NewSetupForm(a.setupVals)
	}
	a.rows[0].input.Focus()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.Init()
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case emailSettledMsg:
		if a.form.SettleEmail(msg.ticket) {
			a.log.Debug("email message updated", "message", a.form.EmailMessage())
		}
		return a, nil
	}

	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			a.form.CancelEmail()
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.showHelp = true
			return a, nil
		case key.Matches(msg, a.keys.Next):
			return a.moveFocus(1)
		case key.Matches(msg, a.keys.Prev):
			return a.moveFocus(-1)
		case key.Matches(msg, a.keys.AddAddress):
			return a.addAddress()
		case key.Matches(msg, a.keys.TestData):
			a.form.PopulateTestData()
			a.syncInputs()
			a.note = "test data loaded"
			return a, nil
		case key.Matches(msg, a.keys.Save):
			return a.save(), nil
		}
	}

	return a.updateFocused(msg)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetup(); err != nil {
			a.log.Warn("setup not saved", "err", err)
			a.note = "settings not saved"
		} else {
			a.log.Info("setup saved", "theme", a.cfg.Appearance.Theme, "debounce", a.cfg.Debounce())
			a.note = "settings saved, log level applies on next start"
		}
		a.needSetup = false
		a.setupForm = nil
		return a, textinput.Blink
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, textinput.Blink
	}
	return a, cmd
}

// updateFocused routes a message to the focused row.
func (a App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	r := &a.rows[a.focus]

	if r.kind != rowText {
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, a.keys.Toggle) {
			delta := 1
			if km.String() == "left" {
				delta = -1
			}
			if r.kind == rowToggle {
				if r.get() == "yes" {
					r.set("no")
				} else {
					r.set("yes")
				}
			} else {
				r.cycle(delta)
			}
			a.note = ""
		}
		return a, nil
	}

	before := r.input.Value()
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	if r.input.Value() == before {
		return a, cmd
	}

	r.set(r.input.Value())
	a.note = ""
	if r.email {
		if t, ok := a.form.PendingEmail(); ok {
			cmd = tea.Batch(cmd, settleAfter(t, a.now()))
		}
	}
	return a, cmd
}

// settleAfter delivers t back to Update once its deadline passes.
func settleAfter(t debounce.Ticket, now time.Time) tea.Cmd {
	return tea.Tick(t.Wait(now), func(time.Time) tea.Msg {
		return emailSettledMsg{ticket: t}
	})
}

// moveFocus touches the row being left and focuses the next one.
func (a App) moveFocus(delta int) (tea.Model, tea.Cmd) {
	cur := &a.rows[a.focus]
	cur.touch()
	cur.input.Blur()

	a.focus = (a.focus + delta + len(a.rows)) % len(a.rows)
	next := &a.rows[a.focus]
	if next.kind == rowText {
		return a, next.input.Focus()
	}
	return a, nil
}

func (a App) addAddress() (tea.Model, tea.Cmd) {
	addr := a.form.AddAddress()
	n := a.form.Addresses.Len()
	a.rows = append(a.rows, addressRows(n-1, addr)...)
	a.note = fmt.Sprintf("address %d added", n)
	a.log.Debug("address added", "count", n)
	return a, nil
}

func (a App) save() App {
	res, err := a.form.Save(context.Background())
	if err != nil {
		a.log.Error("save failed", "err", err)
		a.note = "save failed"
		return a
	}
	id := res.ID
	if len(id) > 8 {
		id = id[:8]
	}
	a.note = "saved " + id
	return a
}

// syncInputs copies field values into text inputs after programmatic
// changes. Rows whose text already stands for the field value are left
// alone, so partial or unparsable input survives.
func (a *App) syncInputs() {
	for i := range a.rows {
		r := &a.rows[i]
		if r.kind != rowText || r.holds(r.input.Value()) {
			continue
		}
		r.input.SetValue(r.get())
	}
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  custform needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := lipgloss.PlaceHorizontal(w, lipgloss.Center, a.renderSummary(cw),
		lipgloss.WithWhitespaceBackground(t.Background))
	statusBar := components.RenderStatusBar(w, a.help.ShortHelpView(a.keys.ShortHelp()), a.form.Valid(), a.note)
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	content, focusLine := a.renderSections(cw)
	content = scrollTo(content, focusLine, contentH)
	content = padHeight(truncateHeight(content, contentH), contentH)

	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderSummary lays the form's headline numbers out as a row of cards.
func (a App) renderSummary(cw int) string {
	state := "invalid"
	if a.form.Valid() {
		state = "valid"
	}
	stats := []struct{ title, value string }{
		{"Form", state},
		{"Problems", strconv.Itoa(len(a.form.Problems()))},
		{"Addresses", strconv.Itoa(a.form.Addresses.Len())},
		{"Email check", a.form.DebounceDelay().String()},
	}

	widths := components.LayoutRow(cw, len(stats))
	cards := make([]string, len(stats))
	for i, st := range stats {
		cards[i] = components.SectionCard(st.title, st.value, widths[i], false)
	}
	return components.CardRow(cards)
}

// renderSections stacks one card per section and reports the line the
// focused row landed on.
func (a App) renderSections(cw int) (string, int) {
	var (
		cards     []string
		body      strings.Builder
		section   string
		focused   bool
		lines     int
		focusLine int
	)

	flush := func() {
		if section == "" {
			return
		}
		card := components.SectionCard(section, strings.TrimRight(body.String(), "\n"), cw, focused)
		cards = append(cards, card)
		lines += lipgloss.Height(card)
		body.Reset()
		focused = false
	}

	inner := components.CardInnerWidth(cw)
	for i, r := range a.rows {
		if r.section != section {
			flush()
			section = r.section
		}
		if i == a.focus {
			focused = true
			// +1 border, +1 title
			focusLine = lines + 2 + strings.Count(body.String(), "\n")
		}
		body.WriteString(a.renderRow(i, r, inner))
		body.WriteString("\n")
	}
	flush()

	return lipgloss.JoinVertical(lipgloss.Left, cards...), focusLine
}

func (a App) renderRow(i int, r row, inner int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	labelStyle := bg.Foreground(t.TextMuted).Width(labelWidth)
	valueStyle := bg.Foreground(t.TextPrimary)
	accentStyle := bg.Foreground(t.Accent).Bold(true)
	dimStyle := bg.Foreground(t.TextDim)
	errStyle := bg.Foreground(t.Invalid)
	warnStyle := bg.Foreground(t.Warn)

	marker := dimStyle.Render("  ")
	if i == a.focus {
		marker = accentStyle.Render("▸ ")
	}

	var value string
	switch r.kind {
	case rowText:
		value = r.input.View()
	case rowChoice:
		parts := make([]string, len(r.options))
		for j, o := range r.options {
			if o == r.get() {
				parts[j] = accentStyle.Render("(•) " + o)
			} else {
				parts[j] = dimStyle.Render("( ) " + o)
			}
		}
		value = strings.Join(parts, dimStyle.Render("  "))
	case rowToggle:
		box := "[ ]"
		if r.get() == "yes" {
			box = "[x]"
		}
		value = valueStyle.Render(box)
	}

	line := marker + labelStyle.Render(r.label) + value

	hintIndent := strings.Repeat(" ", labelWidth+2)
	var hints []string
	if r.email {
		if msg := a.form.EmailMessage(); msg != "" {
			hints = append(hints, warnStyle.Render(truncStr(msg, inner-labelWidth-2)))
		}
	} else if r.control.Touched() || r.control.Dirty() {
		if errs := r.control.Errors(); !errs.Empty() {
			hints = append(hints, errStyle.Render(truncStr(errorText(errs), inner-labelWidth-2)))
		}
	}
	if r.control == a.form.EmailGroup.ConfirmEmail {
		g := a.form.EmailGroup
		if g.Touched() || g.Dirty() {
			if errs := g.Errors(); !errs.Empty() {
				hints = append(hints, errStyle.Render(errorText(errs)))
			}
		}
	}
	for _, h := range hints {
		line += "\n" + bg.Render(hintIndent) + h
	}
	return line
}

// scrollTo drops leading lines so the focus line stays inside a window
// of height h.
func scrollTo(s string, focusLine, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= h || focusLine < h-2 {
		return s
	}
	start := focusLine - h + 3
	if start > len(lines)-h {
		start = len(lines) - h
	}
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:], "\n")
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}
