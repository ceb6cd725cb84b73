package titleindex

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical lookup key for a title.
// It returns "" for titles that are empty after normalization.
func Normalize(title string) string {
	if i := strings.IndexByte(title, '#'); i >= 0 {
		title = title[:i]
	}
	title = strings.ReplaceAll(title, "_", " ")
	title = norm.NFC.String(title)
	title = strings.Join(strings.Fields(title), " ")
	if strings.HasPrefix(title, ":") {
		title = strings.TrimSpace(title[1:])
	}
	if title == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(title)
	up := unicode.ToUpper(r)
	if up == r {
		return title
	}
	return string(up) + title[size:]
}

// fold applies Unicode case folding on top of Normalize.
// A cases.Caser is stateful, so one is created per call.
func fold(title string) string {
	key := Normalize(title)
	if key == "" {
		return ""
	}
	return cases.Fold().String(key)
}
