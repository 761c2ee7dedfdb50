// Package form provides typed form controls that carry a value, a set of
// validation errors and interaction status (pristine, dirty, touched).
//
// Controls are plain Go values wired together into a tree of Groups and
// Arrays; there is no lookup by string path.
package form

// Error keys produced by the built-in validators.
const (
	KeyRequired   = "required"
	KeyMinLength  = "minlength"
	KeyMaxLength  = "maxlength"
	KeyEmail      = "email"
	KeyPattern    = "pattern"
	KeyOutOfRange = "out-of-range"
)

// Errors is the validation result of a control: an ordered set of error
// keys. A nil or empty Errors means the control passed every rule.
type Errors []string

// Has reports whether key is present.
func (e Errors) Has(key string) bool {
	for _, k := range e {
		if k == key {
			return true
		}
	}
	return false
}

// Empty reports whether no rule failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Keys returns a copy of the error keys in the order they were raised.
func (e Errors) Keys() []string {
	if len(e) == 0 {
		return nil
	}
	out := make([]string, len(e))
	copy(out, e)
	return out
}

// Merge joins several results, dropping duplicate keys and keeping the
// first occurrence order.
func Merge(sets ...Errors) Errors {
	var out Errors
	for _, set := range sets {
		for _, k := range set {
			if !out.Has(k) {
				out = append(out, k)
			}
		}
	}
	return out
}
