package customer

import (
	"strings"

	"github.com/theirongolddev/custform/internal/form"
)

// Messages maps error keys to the text shown under the email field.
// A Messages value is immutable once built; With returns a new table.
type Messages struct {
	m map[string]string
}

// NewMessages builds a table from entries. The map is copied.
func NewMessages(entries map[string]string) Messages {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Messages{m: m}
}

// DefaultMessages returns the built-in email messages.
func DefaultMessages() Messages {
	return NewMessages(map[string]string{
		form.KeyRequired: "Please enter your email address.",
		form.KeyEmail:    "Please enter a valid email address.",
	})
}

// With returns a copy of the table with overrides applied. Empty override
// values are ignored.
func (ms Messages) With(overrides map[string]string) Messages {
	m := make(map[string]string, len(ms.m)+len(overrides))
	for k, v := range ms.m {
		m[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			m[k] = v
		}
	}
	return Messages{m: m}
}

// Lookup returns the message registered for key.
func (ms Messages) Lookup(key string) (string, bool) {
	v, ok := ms.m[key]
	return v, ok
}

// Compose joins the messages for errs with single spaces, in error order.
// Keys without a registered message are skipped.
func (ms Messages) Compose(errs form.Errors) string {
	parts := make([]string, 0, len(errs))
	for _, k := range errs {
		if msg, ok := ms.m[k]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, " ")
}
