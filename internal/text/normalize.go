// Package text normalizes raw corpus lines before they are split into words.
package text

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Form selects the Unicode normalization applied to each line.
type Form string

const (
	// FormNone leaves code points untouched.
	FormNone Form = ""
	// FormNFC applies canonical composition, so that visually identical
	// words share one entry in the frequency table.
	FormNFC Form = "nfc"
	// FormNFKC applies compatibility composition.
	FormNFKC Form = "nfkc"
)

// ParseForm converts a case-insensitive form name. "none" and "" both mean
// FormNone.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FormNone, nil
	case "nfc":
		return FormNFC, nil
	case "nfkc":
		return FormNFKC, nil
	default:
		return FormNone, fmt.Errorf("unknown normalization form %q (want none|nfc|nfkc)", s)
	}
}

// NormalizeLine strips one trailing line terminator (LF or CRLF) and applies
// form. A CR inside a line is not a line break and is kept.
func NormalizeLine(s string, form Form) string {
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")

	switch form {
	case FormNFC:
		return norm.NFC.String(s)
	case FormNFKC:
		return norm.NFKC.String(s)
	default:
		return s
	}
}
