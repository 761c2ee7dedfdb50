// Package customer implements the customer entry form: field rules, the
// email confirmation check, the debounced email message, the phone rules
// that follow the notification choice, and the address list.
package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/custform/internal/debounce"
	"github.com/theirongolddev/custform/internal/form"
	"github.com/theirongolddev/custform/internal/model"

	"github.com/google/uuid"
)

// KeyMismatch is raised on the email group when the two addresses differ.
const KeyMismatch = "mismatch"

// PhonePattern is the rule attached to phone when notifying by text.
const PhonePattern = "[0-9]{10}"

// Options configures a Form.
type Options struct {
	Messages  Messages
	Debounce  time.Duration
	RatingMin float64
	RatingMax float64
	Logger    *slog.Logger
	Now       func() time.Time
}

// DefaultOptions returns the stock settings: 1s debounce, rating 1..5.
func DefaultOptions() Options {
	return Options{
		Messages:  DefaultMessages(),
		Debounce:  time.Second,
		RatingMin: 1,
		RatingMax: 5,
	}
}

// EmailGroup holds the email address and its confirmation under a single
// cross-field rule.
type EmailGroup struct {
	*form.Group

	Email        *form.Field[string]
	ConfirmEmail *form.Field[string]
}

// EmailMatcher returns a group rule that raises KeyMismatch when both
// fields have been edited and their values differ. While either is still
// pristine it never fails.
func EmailMatcher(email, confirm *form.Field[string]) form.GroupValidator {
	return func() form.Errors {
		if email.Pristine() || confirm.Pristine() {
			return nil
		}
		if email.Value() == confirm.Value() {
			return nil
		}
		return form.Errors{KeyMismatch}
	}
}

// Form is the customer entry form.
type Form struct {
	root *form.Group

	FirstName    *form.Field[string]
	LastName     *form.Field[string]
	EmailGroup   *EmailGroup
	Phone        *form.Field[string]
	Notification *form.Field[model.Notification]
	Rating       *form.Field[*float64]
	SendCatalog  *form.Field[bool]
	Addresses    *form.Array[*AddressForm]

	messages     Messages
	emailMessage string
	emailInput   *debounce.Debouncer[string]
	onMessage    []func(string)
	log          *slog.Logger
	now          func() time.Time
}

// New builds the form with its defaults: notification email (phone
// unconstrained), catalog on, no rating and one empty home address.
func New(opts Options) *Form {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Messages.m == nil {
		opts.Messages = DefaultMessages()
	}
	if opts.RatingMin == 0 && opts.RatingMax == 0 {
		opts.RatingMin, opts.RatingMax = 1, 5
	}

	f := &Form{
		FirstName:    form.NewField("", form.Required, form.MinLength(3)),
		LastName:     form.NewField("", form.Required, form.MaxLength(50)),
		Phone:        form.NewField(""),
		Notification: form.NewField(model.NotifyEmail),
		Rating:       form.NewField[*float64](nil, form.Range(opts.RatingMin, opts.RatingMax)),
		SendCatalog:  form.NewField(true),
		Addresses:    form.NewArray(BuildAddress()),
		messages:     opts.Messages,
		emailInput:   debounce.New[string](opts.Debounce),
		log:          opts.Logger,
		now:          opts.Now,
	}

	eg := &EmailGroup{
		Email:        form.NewField("", form.Required, form.Email),
		ConfirmEmail: form.NewField("", form.Required),
	}
	eg.Group = form.NewGroup(EmailMatcher(eg.Email, eg.ConfirmEmail)).Add(eg.Email, eg.ConfirmEmail)
	f.EmailGroup = eg

	f.root = form.NewGroup().Add(
		f.FirstName, f.LastName, eg, f.Phone, f.Notification, f.Rating, f.SendCatalog, f.Addresses,
	)

	f.Notification.OnChange(f.SetNotification)
	f.EmailGroup.Email.OnChange(func(v string) {
		f.emailInput.Push(v, f.now())
	})
	f.SetNotification(f.Notification.Value())

	return f
}

// SetNotification switches the phone rules: required ten digits when
// notifying by text, no rules otherwise. Phone validity is recomputed
// immediately.
func (f *Form) SetNotification(via model.Notification) {
	if via == model.NotifyText {
		f.Phone.SetValidators(form.Required, form.Pattern(PhonePattern))
	} else {
		f.Phone.ClearValidators()
	}
	f.Phone.UpdateValidity()
}

// AddAddress appends one empty address sub-form.
func (f *Form) AddAddress() *AddressForm {
	a := BuildAddress()
	f.Addresses.Push(a)
	return a
}

// PopulateTestData patches first name, last name and the catalog flag.
// Every other field keeps its value.
func (f *Form) PopulateTestData() {
	f.FirstName.Patch("Laura")
	f.LastName.Patch("Mititelu")
	f.SendCatalog.Patch(false)
}

// PendingEmail returns the ticket for the email value waiting to settle.
// The caller fires it with SettleEmail once the ticket's deadline passes.
func (f *Form) PendingEmail() (debounce.Ticket, bool) {
	return f.emailInput.Pending()
}

// SettleEmail delivers a debounced email value. It reports false for a
// ticket superseded by later typing or one whose deadline has not yet
// passed; only the newest ticket recomputes the email message.
func (f *Form) SettleEmail(t debounce.Ticket) bool {
	v, ok := f.emailInput.Fire(t, f.now())
	if !ok {
		return false
	}
	f.emailSettled(v)
	return true
}

// FlushEmail delivers any pending email value without waiting.
func (f *Form) FlushEmail() bool {
	v, ok := f.emailInput.Flush()
	if !ok {
		return false
	}
	f.emailSettled(v)
	return true
}

// CancelEmail drops any email value still waiting to settle.
func (f *Form) CancelEmail() { f.emailInput.Cancel() }

// DebounceDelay returns the quiet period applied to email input.
func (f *Form) DebounceDelay() time.Duration { return f.emailInput.Delay() }

// SetDebounceDelay changes the quiet period for later email edits.
func (f *Form) SetDebounceDelay(d time.Duration) { f.emailInput.SetDelay(d) }

func (f *Form) emailSettled(v string) {
	f.log.Debug("email settled", "value", v)
	f.setMessage(f.EmailGroup.Email)
}

func (f *Form) setMessage(c form.Control) {
	msg := ""
	if (c.Touched() || c.Dirty()) && !c.Errors().Empty() {
		msg = f.messages.Compose(c.Errors())
	}
	f.emailMessage = msg
	for _, fn := range f.onMessage {
		fn(msg)
	}
}

// EmailMessage returns the text to show under the email field.
func (f *Form) EmailMessage() string { return f.emailMessage }

// OnEmailMessage registers fn to run after each recomputation of the
// email message.
func (f *Form) OnEmailMessage(fn func(string)) {
	f.onMessage = append(f.onMessage, fn)
}

// Valid reports whether every field, group and address passes.
func (f *Form) Valid() bool { return f.root.Valid() }

// Dirty reports whether any field has been edited.
func (f *Form) Dirty() bool { return f.root.Dirty() }

// Value returns the current record.
func (f *Form) Value() model.Customer {
	addrs := make([]model.Address, 0, f.Addresses.Len())
	for _, a := range f.Addresses.Items() {
		addrs = append(addrs, a.Value())
	}
	return model.Customer{
		FirstName: f.FirstName.Value(),
		LastName:  f.LastName.Value(),
		EmailGroup: model.EmailGroup{
			Email:        f.EmailGroup.Email.Value(),
			ConfirmEmail: f.EmailGroup.ConfirmEmail.Value(),
		},
		Phone:        f.Phone.Value(),
		Notification: f.Notification.Value(),
		Rating:       f.Rating.Value(),
		SendCatalog:  f.SendCatalog.Value(),
		Addresses:    addrs,
	}
}

// Load replays c into the form as if the user had typed every field and
// moved past it. The address list grows to fit; it never shrinks.
func (f *Form) Load(c model.Customer) {
	if c.Notification != "" {
		f.Notification.SetValue(c.Notification)
	}
	f.Notification.Touch()

	for _, in := range []struct {
		f *form.Field[string]
		v string
	}{
		{f.FirstName, c.FirstName},
		{f.LastName, c.LastName},
		{f.EmailGroup.Email, c.EmailGroup.Email},
		{f.EmailGroup.ConfirmEmail, c.EmailGroup.ConfirmEmail},
		{f.Phone, c.Phone},
	} {
		in.f.SetValue(in.v)
		in.f.Touch()
	}

	f.Rating.SetValue(c.Rating)
	f.Rating.Touch()
	f.SendCatalog.SetValue(c.SendCatalog)
	f.SendCatalog.Touch()

	for f.Addresses.Len() < len(c.Addresses) {
		f.AddAddress()
	}
	for i, addr := range c.Addresses {
		f.Addresses.At(i).load(addr)
	}
}

// SaveResult describes one save.
type SaveResult struct {
	ID       string
	Customer model.Customer
	Valid    bool
}

// Save serializes the current record to the log. Nothing is sent anywhere
// else; the submission ID only correlates log lines.
func (f *Form) Save(ctx context.Context) (SaveResult, error) {
	res := SaveResult{
		ID:       uuid.NewString(),
		Customer: f.Value(),
		Valid:    f.Valid(),
	}
	data, err := json.Marshal(res.Customer)
	if err != nil {
		return res, fmt.Errorf("encoding customer: %w", err)
	}
	f.log.InfoContext(ctx, "customer saved",
		slog.String("submission_id", res.ID),
		slog.Bool("valid", res.Valid),
		slog.String("customer", string(data)),
	)
	return res, nil
}

// Problem is one control with failing rules, for display.
type Problem struct {
	Path   string
	Errors form.Errors
}

// Problems lists every control that currently fails a rule, in form order.
// Group-level errors are reported on the group's own path.
func (f *Form) Problems() []Problem {
	var out []Problem
	out = appendProblem(out, "firstName", f.FirstName)
	out = appendProblem(out, "lastName", f.LastName)
	out = appendProblem(out, "emailGroup", f.EmailGroup.Group)
	out = appendProblem(out, "emailGroup.email", f.EmailGroup.Email)
	out = appendProblem(out, "emailGroup.confirmEmail", f.EmailGroup.ConfirmEmail)
	out = appendProblem(out, "phone", f.Phone)
	out = appendProblem(out, "notification", f.Notification)
	out = appendProblem(out, "rating", f.Rating)
	out = appendProblem(out, "sendCatalog", f.SendCatalog)
	for i, a := range f.Addresses.Items() {
		out = append(out, a.problems(i)...)
	}
	return out
}

func appendProblem(out []Problem, path string, c form.Control) []Problem {
	if errs := c.Errors(); !errs.Empty() {
		out = append(out, Problem{Path: path, Errors: errs})
	}
	return out
}

// ParseRating converts rating input text to a field value. Blank input is
// no rating; text that is not a number becomes NaN so the range rule
// flags it.
func ParseRating(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		n := math.NaN()
		return &n
	}
	return &v
}

// FormatRating is the inverse of ParseRating for display.
func FormatRating(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
