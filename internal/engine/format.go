package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Precision is the number of fractional digits results are rounded to.
const Precision = 8

var precisionScale = math.Pow10(Precision)

// FormatNumber renders v using sep as the decimal separator.
//
// The value is first rounded to Precision fractional digits to hide binary
// floating-point noise, so 0.1+0.2 renders as "0,3". The shortest decimal
// form is used unless it still carries more than Precision fractional
// digits, in which case exactly Precision digits are written.
func FormatNumber(v float64, sep rune) string {
	rounded := v
	if scaled := v * precisionScale; !math.IsInf(scaled, 0) {
		rounded = math.Round(scaled) / precisionScale
	}
	if rounded == 0 {
		// Normalizes -0.
		rounded = 0
	}

	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > Precision {
		s = strconv.FormatFloat(rounded, 'f', Precision, 64)
	}
	return strings.Replace(s, ".", string(sep), 1)
}

// ParseNumber parses a numeral written with sep as its decimal separator.
//
// Accepted numerals are an optional '-', one or more ASCII digits, and an
// optional separator followed by zero or more digits ("12", "-0,5", "3,").
// A numeral too large for a float64 returns ErrOverflow; anything else that
// does not match returns an error wrapping ErrInvariant.
func ParseNumber(s string, sep rune) (float64, error) {
	if !validNumeral(s, sep) {
		return 0, fmt.Errorf("%w: malformed numeral %q", ErrInvariant, s)
	}

	normalized := strings.Replace(s, string(sep), ".", 1)
	normalized = strings.TrimSuffix(normalized, ".")

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		return 0, fmt.Errorf("%w: %v", ErrInvariant, err)
	}
	return v, nil
}

// validNumeral reports whether s is a well-formed numeral for sep.
func validNumeral(s string, sep rune) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}

	digits := 0
	seenSep := false
	for _, r := range s {
		switch {
		case isDigit(r):
			if !seenSep {
				digits++
			}
		case r == sep && !seenSep:
			if digits == 0 {
				return false
			}
			seenSep = true
		default:
			return false
		}
	}
	return digits > 0
}

// isDigit reports whether r is an ASCII decimal digit. Digits from other
// scripts are not numerals here.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// ValidSeparator reports whether r can be used as the decimal separator.
func ValidSeparator(r rune) bool {
	return r == ',' || r == '.'
}
