package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Constraint checks a field value and returns a message when it fails.
type Constraint func(value string) string

// Required fails on a blank value.
func Required() Constraint {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "This field is required"
		}
		return ""
	}
}

// MinLength fails when a non-empty value has fewer than n characters.
// Empty values are left to Required.
func MinLength(n int) Constraint {
	return func(v string) string {
		if v == "" {
			return ""
		}
		if c := utf8.RuneCountInString(v); c < n {
			return fmt.Sprintf("Too short (min %d chars): %d chars", n, c)
		}
		return ""
	}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int) Constraint {
	return func(v string) string {
		if c := utf8.RuneCountInString(v); c > n {
			return fmt.Sprintf("Too long (max %d chars): %d chars", n, c)
		}
		return ""
	}
}

// Pattern fails when a non-empty value does not fully match expr. It
// panics on an invalid expression, like regexp.MustCompile.
func Pattern(expr, msg string) Constraint {
	re := regexp.MustCompile(`^(?:` + expr + `)$`)
	return func(v string) string {
		if v == "" || re.MatchString(v) {
			return ""
		}
		if msg == "" {
			return "Please match the requested format"
		}
		return msg
	}
}

// Email is a loose address check: something@something.tld.
func Email() Constraint {
	return Pattern(`[^@\s]+@[^@\s]+\.[^@\s]+`, "Please enter an email address")
}

// Range fails when a non-empty value is not a number in [min, max].
func Range(min, max float64) Constraint {
	return func(v string) string {
		if v == "" {
			return ""
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return "Please enter a number"
		}
		if n < min || n > max {
			return fmt.Sprintf("Must be between %g and %g, got %g", min, max, n)
		}
		return ""
	}
}

// NoWhitespace fails when the value contains spaces or tabs.
func NoWhitespace() Constraint {
	return func(v string) string {
		if strings.ContainsAny(v, " \t") {
			return "Must not contain spaces"
		}
		return ""
	}
}

// Check wraps a plain func(string) error as a Constraint.
func Check(fn func(string) error) Constraint {
	return func(v string) string {
		if err := fn(v); err != nil {
			return err.Error()
		}
		return ""
	}
}
