package account

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxLocalPartLen bounds the user-chosen prefix length.
const MaxLocalPartLen = 64

var localPartPattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// ValidationError reports a local-part that fails the format rules.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// SanitizeLocalPart lower-cases the input and strips every rune outside
// the allowed set. The UI applies this on each keystroke, so the format
// branch of ValidateLocalPart is mostly unreachable from the form; the
// length bound is not.
func SanitizeLocalPart(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateLocalPart enforces the server-equivalent rules on a prefix:
// one or more characters from [a-z0-9._-], at most MaxLocalPartLen.
func ValidateLocalPart(s string) error {
	if s == "" {
		return &ValidationError{Reason: "prefix must not be empty"}
	}
	if len(s) > MaxLocalPartLen {
		return &ValidationError{
			Reason: fmt.Sprintf("prefix too long, max %d characters", MaxLocalPartLen),
		}
	}
	if !localPartPattern.MatchString(s) {
		return &ValidationError{
			Reason: "only lowercase letters, numbers, dot, dash and underscore allowed",
		}
	}
	return nil
}
