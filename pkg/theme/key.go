package theme

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	keyStripper   = strings.NewReplacer("[", "", "]", "", "(", "", ")", "", "#", "")
	keySeparators = regexp.MustCompile(`[._/\-]+`)
	slugInvalid   = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes    = regexp.MustCompile(`-{2,}`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Key derives the dot-path of a variable name: "Color/Primary 500" becomes
// "color.primary-500". Dots, underscores, dashes and slashes separate segments;
// whitespace inside a segment is kept as a dash.
func Key(name string) string {
	return strings.Join(Segments(name), ".")
}

// Segments is Key before joining. Segments that slugify to nothing are dropped.
func Segments(name string) []string {
	name = keyStripper.Replace(strings.TrimSpace(name))

	parts := keySeparators.Split(name, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if seg := Slugify(part); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// Slugify lower-cases s, folds accented letters to their base form, turns
// whitespace into dashes and drops everything outside [a-z0-9-].
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(strings.TrimSpace(folded))
	folded = whitespace.ReplaceAllString(folded, "-")
	folded = slugInvalid.ReplaceAllString(folded, "")
	folded = slugDashes.ReplaceAllString(folded, "-")

	return strings.Trim(folded, "-")
}
