package textfilter

import (
	"cmp"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// replacements maps words unfit for a PG-13 narrator to family-friendly alternatives.
var replacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"cock":         "[censored]",
	"dick":         "jerk",
	"pussy":        "[censored]",
	"tits":         "[censored]",
	"whore":        "[censored]",
	"slut":         "[censored]",
	"retard":       "[censored]",
	"motherfucker": "mother-trucker",
	"goddamn":      "gosh-dang",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"smartass":     "smarty",
	"badass":       "tough",
	"bullshit":     "baloney",
	"horseshit":    "nonsense",
	"dipshit":      "dummy",
	"shithead":     "jerk",
	"dickhead":     "jerk",
	"prick":        "jerk",
	"douche":       "jerk",
	"douchebag":    "jerk",
}

// ProfanityFilter rewrites LLM narration for family-friendly ratings.
type ProfanityFilter struct {
	pattern *regexp.Regexp
}

// NewProfanityFilter compiles every word, longest first, into a single
// case-insensitive pattern that also matches a plural "s".
func NewProfanityFilter() *ProfanityFilter {
	words := slices.SortedFunc(maps.Keys(replacements), func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), strings.Compare(a, b))
	})
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return &ProfanityFilter{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)(s?)\b`),
	}
}

// FilterText replaces profanity in text, keeping the case of each match.
func (pf *ProfanityFilter) FilterText(text string) string {
	return pf.pattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := pf.pattern.FindStringSubmatch(match)
		word, plural := sub[1], sub[2]
		return preserveCase(word+plural, replacements[strings.ToLower(word)]+strings.ToLower(plural))
	})
}

// ContainsProfanity reports whether text has anything FilterText would replace.
func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	return pf.pattern.MatchString(text)
}

// preserveCase applies the case pattern of original to replacement.
func preserveCase(original, replacement string) string {
	switch {
	case original == "":
		return replacement
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return strings.ToLower(replacement)
	case Capitalize(strings.ToLower(original)) == original:
		return Capitalize(strings.ToLower(replacement))
	}

	src := []rune(original)
	out := []rune(replacement)
	for i, r := range out {
		if i < len(src) && unicode.IsUpper(src[i]) {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return string(out)
}

// ShouldFilterContent reports whether narration for rating must be filtered.
func ShouldFilterContent(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}
