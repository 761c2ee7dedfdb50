package tui

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/custform/internal/config"
	"github.com/theirongolddev/custform/internal/customer"
	"github.com/theirongolddev/custform/internal/model"
	"github.com/theirongolddev/custform/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestApp(t *testing.T) App {
	t.Helper()
	a, _ := newClockedApp(t)
	return a
}

func newClockedApp(t *testing.T) (App, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	opts := customer.DefaultOptions()
	opts.Now = clock.Now
	a := NewApp(customer.New(opts), config.DefaultConfig(), false, nil)
	a.now = clock.Now
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App), clock
}

func send(t *testing.T, a App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var tab = tea.KeyMsg{Type: tea.KeyTab}

func focusLabel(t *testing.T, a *App, label string) {
	t.Helper()
	for i := 0; i < len(a.rows); i++ {
		if a.rows[a.focus].label == label {
			return
		}
		*a = send(t, *a, tab)
	}
	t.Fatalf("no row labelled %q", label)
}

func TestTypingUpdatesField(t *testing.T) {
	a := newTestApp(t)
	a = send(t, a, typeText("Ana")...)

	if got := a.form.FirstName.Value(); got != "Ana" {
		t.Fatalf("FirstName = %q, want Ana", got)
	}
	if !a.form.FirstName.Dirty() {
		t.Fatal("typing should mark the field dirty")
	}
}

func TestLeavingRowTouchesIt(t *testing.T) {
	a := newTestApp(t)
	if a.form.FirstName.Touched() {
		t.Fatal("field touched before focus left it")
	}
	a = send(t, a, tab)
	if !a.form.FirstName.Touched() {
		t.Fatal("field should be touched after tabbing away")
	}
	if a.rows[a.focus].label != "Last name" {
		t.Fatalf("focus on %q, want Last name", a.rows[a.focus].label)
	}
}

func TestFocusWraps(t *testing.T) {
	a := newTestApp(t)
	a = send(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	if a.focus != len(a.rows)-1 {
		t.Fatalf("focus = %d, want last row %d", a.focus, len(a.rows)-1)
	}
}

func TestEmailMessageWaitsForNewestTicket(t *testing.T) {
	a, clock := newClockedApp(t)
	focusLabel(t, &a, "Email")

	a = send(t, a, typeText("a")...)
	first, ok := a.form.PendingEmail()
	if !ok {
		t.Fatal("no pending email after typing")
	}
	a = send(t, a, typeText("b")...)
	second, _ := a.form.PendingEmail()

	a = send(t, a, emailSettledMsg{ticket: second})
	if msg := a.form.EmailMessage(); msg != "" {
		t.Fatalf("ticket before its deadline produced message %q", msg)
	}

	clock.Advance(second.Deadline.Sub(clock.Now()))
	a = send(t, a, emailSettledMsg{ticket: first})
	if msg := a.form.EmailMessage(); msg != "" {
		t.Fatalf("stale ticket produced message %q", msg)
	}

	a = send(t, a, emailSettledMsg{ticket: second})
	if msg := a.form.EmailMessage(); msg != "Please enter a valid email address." {
		t.Fatalf("EmailMessage = %q", msg)
	}
	if !strings.Contains(a.View(), "Please enter a valid email address.") {
		t.Fatal("view does not show the email message")
	}
}

func TestQuitDropsPendingEmail(t *testing.T) {
	a := newTestApp(t)
	focusLabel(t, &a, "Email")
	a = send(t, a, typeText("ana@")...)
	if _, ok := a.form.PendingEmail(); !ok {
		t.Fatal("no pending email after typing")
	}

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	a = m.(App)
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := a.form.PendingEmail(); ok {
		t.Fatal("pending email should be dropped on quit")
	}
}

func TestNotificationToggleDrivesPhoneRules(t *testing.T) {
	a := newTestApp(t)
	focusLabel(t, &a, "Notify via")

	a = send(t, a, tea.KeyMsg{Type: tea.KeySpace})
	if got := a.form.Notification.Value(); got != model.NotifyText {
		t.Fatalf("Notification = %q, want text", got)
	}
	if a.form.Phone.Valid() {
		t.Fatal("empty phone should be invalid when notifying by text")
	}

	a = send(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	if got := a.form.Notification.Value(); got != model.NotifyEmail {
		t.Fatalf("Notification = %q, want email", got)
	}
	if !a.form.Phone.Valid() {
		t.Fatal("phone should have no rules when notifying by email")
	}
}

func TestSpaceTogglesCatalog(t *testing.T) {
	a := newTestApp(t)
	focusLabel(t, &a, "Send catalog")

	a = send(t, a, tea.KeyMsg{Type: tea.KeySpace})
	if a.form.SendCatalog.Value() {
		t.Fatal("space should turn the catalog off")
	}
}

func TestAddAddressAddsRows(t *testing.T) {
	a := newTestApp(t)
	before := len(a.rows)

	a = send(t, a, tea.KeyMsg{Type: tea.KeyCtrlA})
	if got := a.form.Addresses.Len(); got != 2 {
		t.Fatalf("Addresses.Len() = %d, want 2", got)
	}
	if got := len(a.rows) - before; got != 6 {
		t.Fatalf("added %d rows, want 6", got)
	}
	if a.rows[len(a.rows)-1].section != "Address 2" {
		t.Fatalf("last section = %q", a.rows[len(a.rows)-1].section)
	}
}

func TestTestDataSyncsInputs(t *testing.T) {
	a := newTestApp(t)
	a = send(t, a, tea.KeyMsg{Type: tea.KeyCtrlT})

	if got := a.rows[0].input.Value(); got != "Laura" {
		t.Fatalf("first name input = %q, want Laura", got)
	}
	if got := a.rows[1].input.Value(); got != "Mititelu" {
		t.Fatalf("last name input = %q, want Mititelu", got)
	}
	if a.form.FirstName.Dirty() {
		t.Fatal("test data should not mark fields dirty")
	}
}

func TestTestDataKeepsRatingText(t *testing.T) {
	for _, typed := range []string{"abc", "1."} {
		a := newTestApp(t)
		focusLabel(t, &a, "Rating")
		a = send(t, a, typeText(typed)...)

		a = send(t, a, tea.KeyMsg{Type: tea.KeyCtrlT})
		if got := a.rows[a.focus].input.Value(); got != typed {
			t.Fatalf("rating input = %q, want %q", got, typed)
		}
		if got := a.rows[0].input.Value(); got != "Laura" {
			t.Fatalf("first name input = %q, want Laura", got)
		}
	}
}

func TestSummaryShowsFormCounts(t *testing.T) {
	a := newTestApp(t)
	cw := a.contentWidth()

	summary := a.renderSummary(cw)
	for _, want := range []string{"Form", "Problems", "Addresses", "Email check", "invalid", "1s"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
	for _, line := range strings.Split(summary, "\n") {
		if got := lipgloss.Width(line); got != cw {
			t.Fatalf("summary line width = %d, want %d", got, cw)
		}
	}
	if !strings.Contains(a.View(), "Email check") {
		t.Fatal("main view should show the summary")
	}

	a = send(t, a, tea.KeyMsg{Type: tea.KeyCtrlA})
	after := a.renderSummary(cw)
	if after == summary || !strings.Contains(after, "2") {
		t.Fatalf("summary should count the added address:\n%s", after)
	}
}

func TestSaveWritesLog(t *testing.T) {
	var buf bytes.Buffer
	opts := customer.DefaultOptions()
	opts.Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	a := NewApp(customer.New(opts), config.DefaultConfig(), false, nil)

	a = send(t, a, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.HasPrefix(a.note, "saved ") {
		t.Fatalf("note = %q", a.note)
	}
	if !strings.Contains(buf.String(), "customer saved") {
		t.Fatalf("log = %q", buf.String())
	}
}

func TestViewStates(t *testing.T) {
	a := newTestApp(t)
	if v := a.View(); !strings.Contains(v, "Customer") || !strings.Contains(v, "INVALID") {
		t.Fatal("main view missing section title or validity")
	}

	narrow := send(t, a, tea.WindowSizeMsg{Width: 40, Height: 20})
	if !strings.Contains(narrow.View(), "too narrow") {
		t.Fatal("narrow terminal should show the width notice")
	}

	helpView := send(t, a, tea.KeyMsg{Type: tea.KeyF1})
	if !strings.Contains(helpView.View(), "Keyboard Shortcuts") {
		t.Fatal("F1 should open help")
	}
	closed := send(t, helpView, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if closed.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestScrollKeepsFocusVisible(t *testing.T) {
	a := newTestApp(t)
	a = send(t, a, tea.WindowSizeMsg{Width: 100, Height: 16})
	for i := 0; i < 3; i++ {
		a = send(t, a, tea.KeyMsg{Type: tea.KeyCtrlA})
	}
	a = send(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})

	v := a.View()
	if got := len(strings.Split(v, "\n")); got != 16 {
		t.Fatalf("view height = %d, want 16", got)
	}
	if !strings.Contains(v, "Address 4") {
		t.Fatal("view should scroll to the focused last address")
	}
}

func TestApplySetup(t *testing.T) {
	defer theme.SetActive("flexoki-dark")
	cfg := config.DefaultConfig()
	got, err := ApplySetup(cfg, SetupValues{Theme: "tokyo-night", Debounce: "250", LogLevel: "debug"})
	if err != nil {
		t.Fatalf("ApplySetup: %v", err)
	}
	if got.Form.DebounceMS != 250 || got.Appearance.Theme != "tokyo-night" || got.Log.Level != "debug" {
		t.Fatalf("ApplySetup = %+v", got)
	}

	if _, err := ApplySetup(cfg, SetupValues{Debounce: "soon"}); err == nil {
		t.Fatal("expected error for non-numeric delay")
	}
	if _, err := ApplySetup(cfg, SetupValues{Debounce: "-5"}); err == nil {
		t.Fatal("expected error for negative delay")
	}
}

func TestSetupShownFirst(t *testing.T) {
	a := NewApp(customer.New(customer.DefaultOptions()), config.DefaultConfig(), true, nil)
	if a.setupForm == nil {
		t.Fatal("setup form should be built on first run")
	}
	_ = a.Init()
	a = send(t, a, tea.WindowSizeMsg{Width: 100, Height: 40})
	if !strings.Contains(a.View(), "Welcome to custform") {
		t.Fatal("first run should show the setup wizard")
	}
}

// runCmd runs cmd, giving up on commands that wait on a timer.
func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, msg != nil
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

var cmdType = reflect.TypeOf(tea.Cmd(nil))

// drain feeds every message cmd produces back into a, following batches
// and sequences the way the program loop would.
func drain(t *testing.T, a App, cmd tea.Cmd, depth int) App {
	t.Helper()
	if cmd == nil || depth > 16 {
		return a
	}
	msg, ok := runCmd(cmd)
	if !ok {
		return a
	}
	if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
		for i := 0; i < v.Len(); i++ {
			a = drain(t, a, v.Index(i).Interface().(tea.Cmd), depth+1)
		}
		return a
	}
	m, next := a.Update(msg)
	return drain(t, m.(App), next, depth+1)
}

func press(t *testing.T, a App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		m, cmd := a.Update(msg)
		a = drain(t, m.(App), cmd, 0)
	}
	return a
}

func TestSetupCompletionSavesAnswers(t *testing.T) {
	defer theme.SetActive("flexoki-dark")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := NewApp(customer.New(customer.DefaultOptions()), config.DefaultConfig(), true, nil)
	a = drain(t, a, a.Init(), 0)
	a = press(t, a, tea.WindowSizeMsg{Width: 100, Height: 40})

	// theme: flexoki-dark -> tokyo-night
	a = press(t, a, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	// debounce: replace 1000 with 250
	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlU}, tea.KeyMsg{Type: tea.KeyCtrlK})
	a = press(t, a, typeText("250")...)
	for i := 0; i < 6 && a.setupForm != nil; i++ {
		a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if a.setupForm != nil {
		t.Fatal("setup form still open after submitting every field")
	}

	if a.setupVals.Theme != "tokyo-night" || a.setupVals.Debounce != "250" {
		t.Fatalf("answers = %+v", *a.setupVals)
	}
	saved, err := config.LoadFrom(config.Path())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if saved.Appearance.Theme != "tokyo-night" {
		t.Fatalf("saved theme = %q, want tokyo-night", saved.Appearance.Theme)
	}
	if saved.Form.DebounceMS != 250 {
		t.Fatalf("saved debounce = %d, want 250", saved.Form.DebounceMS)
	}
	if got := a.form.DebounceDelay(); got != 250*time.Millisecond {
		t.Fatalf("form delay = %v, want 250ms", got)
	}
	if !strings.Contains(a.note, "next start") {
		t.Fatalf("note = %q", a.note)
	}
}
