package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone  = regexp.MustCompile(`^\+?[0-9 ]{9,16}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reCode   = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,40}$`)
	reShape  = regexp.MustCompile(`^(circle|rectangle|rectangle_sharp)$`)
	reStatus = regexp.MustCompile(`^(draft|sent|accepted|rejected)$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 60 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true // phone is optional on configurations
	}
	return s, rePhone.MatchString(s)
}

// ID validates a resource identifier (product/quote/configuration ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Code validates a product code like SET-6-3.
func Code(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reCode.MatchString(s)
}

func Shape(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reShape.MatchString(s)
}

// QuoteStatus validates the allowed quote state names.
func QuoteStatus(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reStatus.MatchString(s)
}

// Name validates a displayable customer or item name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return "", false
	}
	return s, true
}

// Quantity parses a line quantity, clamped to a sane range.
func Quantity(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n <= 0 {
		return 1
	}
	if n > 999 {
		return 999
	}
	return n
}

// Percent parses a discount percentage, clamped to [0,100].
func Percent(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Amount parses a non-negative money amount.
func Amount(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Dimension parses a single dimension in meters, 0 when absent or bad.
func Dimension(s string) float64 {
	n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0
	}
	return DimensionValue(n)
}

// DimensionValue clamps a dimension in meters to the plausible range;
// anything outside comes back as 0, i.e. not provided.
func DimensionValue(n float64) float64 {
	if n < 0 || n > 50 {
		return 0
	}
	return n
}

// Password enforces the admin password policy.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}
