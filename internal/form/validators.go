package form

import (
	"fmt"
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// check runs a go-playground tag against v and maps failure to key.
func check(v any, tag, key string) Errors {
	if err := validate.Var(v, tag); err != nil {
		return Errors{key}
	}
	return nil
}

// Required fails on the empty string.
func Required(v string) Errors {
	return check(v, "required", KeyRequired)
}

// Email fails when a non-empty value is not a well-formed address.
// Presence is left to Required.
func Email(v string) Errors {
	return check(v, "omitempty,email", KeyEmail)
}

// MinLength fails when a non-empty value is shorter than n characters.
func MinLength(n int) Validator[string] {
	tag := fmt.Sprintf("omitempty,min=%d", n)
	return func(v string) Errors {
		return check(v, tag, KeyMinLength)
	}
}

// MaxLength fails when the value is longer than n characters.
func MaxLength(n int) Validator[string] {
	tag := fmt.Sprintf("max=%d", n)
	return func(v string) Errors {
		return check(v, tag, KeyMaxLength)
	}
}

// Pattern fails when a non-empty value does not match expr in full.
// The expression is anchored at both ends.
func Pattern(expr string) Validator[string] {
	re := regexp.MustCompile(`^(?:` + expr + `)$`)
	return func(v string) Errors {
		if v == "" || re.MatchString(v) {
			return nil
		}
		return Errors{KeyPattern}
	}
}

// Range fails when a present value is not a number or falls outside
// [lo, hi]. A nil value passes.
func Range(lo, hi float64) Validator[*float64] {
	return func(v *float64) Errors {
		if v == nil {
			return nil
		}
		if math.IsNaN(*v) || *v < lo || *v > hi {
			return Errors{KeyOutOfRange}
		}
		return nil
	}
}
