// Package interpolate turns field labels into stable template keys and
// substitutes {{key}} placeholders in confirmation email templates.
package interpolate

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	invalidKeyRune = regexp.MustCompile(`[^a-z0-9_]`)
	placeholder    = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

	// Decompose, drop combining marks, recompose. "Número" becomes "Numero".
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeLabel derives the template key for a field label: lowercase,
// diacritics stripped, whitespace runs collapsed to a single underscore,
// anything outside [a-z0-9_] removed. The derivation is lossy on purpose;
// two labels may normalize to the same key.
func NormalizeLabel(label string) string {
	stripped, _, err := transform.String(stripMarks, label)
	if err != nil {
		stripped = label
	}
	key := strings.ToLower(strings.TrimSpace(stripped))
	key = whitespaceRun.ReplaceAllString(key, "_")
	return invalidKeyRune.ReplaceAllString(key, "")
}

// Render substitutes every {{key}} occurrence in template with the matching
// variable. Key matching is case-insensitive and tolerates whitespace inside
// the braces. Placeholders without a matching variable are left untouched so
// template authors can spot typos in the delivered mail.
func Render(template string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.ToLower(placeholder.FindStringSubmatch(match)[1])
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})
}
