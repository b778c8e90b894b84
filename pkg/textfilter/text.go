package textfilter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Title title-cases a name for headers: "west of house" -> "West Of House".
func Title(s string) string {
	return titleCaser.String(s)
}

// Capitalize upper-cases the first letter only.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Article prefixes name with "a" or "an". Plural-looking names that
// already start with "some" or a number are returned as is.
func Article(name string) string {
	if name == "" {
		return name
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "some ") || strings.HasPrefix(lower, "a ") || strings.HasPrefix(lower, "an ") {
		return name
	}
	if r, _ := utf8.DecodeRuneInString(lower); unicode.IsDigit(r) {
		return name
	}
	if strings.ContainsRune("aeiou", rune(lower[0])) {
		return "an " + name
	}
	return "a " + name
}

// JoinList renders items as "a", "a and b" or "a, b and c".
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

// JoinOr renders items as "a or b" or "a, b or c".
func JoinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}
