package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/custform/internal/customer"
	"github.com/theirongolddev/custform/internal/form"
	"github.com/theirongolddev/custform/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
)

type rowKind int

const (
	rowText rowKind = iota
	rowChoice
	rowToggle
)

// row binds one visible input to one typed form field.
type row struct {
	section string
	label   string
	kind    rowKind
	input   textinput.Model // rowText only
	options []string        // rowChoice only
	email   bool            // value feeds the email debouncer

	control form.Control
	get     func() string
	set     func(string)      // user edit
	holds   func(string) bool // text already stands for the field value
	touch   func()
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	return ti
}

func textRow(section, label, placeholder string, f *form.Field[string]) row {
	ti := newTextInput(placeholder, 120)
	ti.SetValue(f.Value())
	return row{
		section: section,
		label:   label,
		kind:    rowText,
		input:   ti,
		control: f,
		get:     f.Value,
		set:     f.SetValue,
		holds:   func(s string) bool { return s == f.Value() },
		touch:   f.Touch,
	}
}

func ratingRow(section string, f *form.Field[*float64]) row {
	ti := newTextInput("1-5, blank for none", 8)
	ti.SetValue(customer.FormatRating(f.Value()))
	return row{
		section: section,
		label:   "Rating",
		kind:    rowText,
		input:   ti,
		control: f,
		get:     func() string { return customer.FormatRating(f.Value()) },
		set:     func(s string) { f.SetValue(customer.ParseRating(s)) },
		holds:   func(s string) bool { return sameRating(customer.ParseRating(s), f.Value()) },
		touch:   f.Touch,
	}
}

func choiceRow[T ~string](section, label string, f *form.Field[T], options []T) row {
	opts := make([]string, len(options))
	for i, o := range options {
		opts[i] = string(o)
	}
	return row{
		section: section,
		label:   label,
		kind:    rowChoice,
		options: opts,
		control: f,
		get:     func() string { return string(f.Value()) },
		set:     func(s string) { f.SetValue(T(s)) },
		touch:   f.Touch,
	}
}

func toggleRow(section, label string, f *form.Field[bool]) row {
	return row{
		section: section,
		label:   label,
		kind:    rowToggle,
		control: f,
		get: func() string {
			if f.Value() {
				return "yes"
			}
			return "no"
		},
		set:   func(s string) { f.SetValue(s == "yes") },
		touch: f.Touch,
	}
}

// customerRows lays out the fixed part of the form.
func customerRows(f *customer.Form) []row {
	eg := f.EmailGroup
	email := textRow("Contact", "Email", "name@example.com", eg.Email)
	email.email = true

	rows := []row{
		textRow("Customer", "First name", "at least 3 characters", f.FirstName),
		textRow("Customer", "Last name", "up to 50 characters", f.LastName),
		email,
		textRow("Contact", "Confirm email", "repeat the address", eg.ConfirmEmail),
		textRow("Contact", "Phone", "10 digits", f.Phone),
		choiceRow("Contact", "Notify via", f.Notification, model.Notifications),
		ratingRow("Preferences", f.Rating),
		toggleRow("Preferences", "Send catalog", f.SendCatalog),
	}
	for i, a := range f.Addresses.Items() {
		rows = append(rows, addressRows(i, a)...)
	}
	return rows
}

func addressRows(i int, a *customer.AddressForm) []row {
	section := fmt.Sprintf("Address %d", i+1)
	return []row{
		choiceRow(section, "Type", a.AddressType, model.AddressTypes),
		textRow(section, "Street 1", "", a.Street1),
		textRow(section, "Street 2", "optional", a.Street2),
		textRow(section, "City", "", a.City),
		textRow(section, "State", "", a.State),
		textRow(section, "Zip", "", a.Zip),
	}
}

// sameRating compares two rating values; NaN matches NaN.
func sameRating(a, b *float64) bool {
	switch {
	case a == nil || b == nil:
		return a == nil && b == nil
	case math.IsNaN(*a) || math.IsNaN(*b):
		return math.IsNaN(*a) && math.IsNaN(*b)
	default:
		return *a == *b
	}
}

// cycle moves a choice row by delta through its options.
func (r row) cycle(delta int) {
	if len(r.options) == 0 {
		return
	}
	cur := 0
	for i, o := range r.options {
		if o == r.get() {
			cur = i
			break
		}
	}
	next := (cur + delta + len(r.options)) % len(r.options)
	r.set(r.options[next])
}

// errorText turns error keys into short hints for the view.
func errorText(errs form.Errors) string {
	parts := make([]string, 0, len(errs))
	for _, k := range errs {
		switch k {
		case form.KeyRequired:
			parts = append(parts, "required")
		case form.KeyMinLength:
			parts = append(parts, "too short")
		case form.KeyMaxLength:
			parts = append(parts, "too long")
		case form.KeyPattern:
			parts = append(parts, "wrong format")
		case form.KeyEmail:
			parts = append(parts, "not an email address")
		case form.KeyOutOfRange:
			parts = append(parts, "out of range")
		case customer.KeyMismatch:
			parts = append(parts, "emails do not match")
		default:
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " · ")
}
