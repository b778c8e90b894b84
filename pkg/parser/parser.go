// Package parser is the rule-based intent parser. No NLP, just pattern matching
// over a small vocabulary; anything it cannot place becomes intent.Unrecognized.
package parser

import (
	"context"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/intent"
)

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
	"u":  "up",
	"d":  "down",
}

var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"up": true, "down": true, "in": true, "out": true,
}

var moveVerbs = map[string]bool{
	"go": true, "walk": true, "run": true, "head": true, "travel": true, "climb": true, "proceed": true,
}

var verbAliases = map[string]string{
	"x":       "examine",
	"inspect": "examine",
	"check":   "examine",
	"study":   "examine",
	"shut":    "close",
	"discard": "drop",
	"carry":   "take",
}

var globalWords = map[string]string{
	"l":          "look",
	"look":       "look",
	"i":          "inventory",
	"inv":        "inventory",
	"inventory":  "inventory",
	"z":          "wait",
	"wait":       "wait",
	"score":      "score",
	"q":          "quit",
	"quit":       "quit",
	"restart":    "restart",
	"save":       "save",
	"restore":    "restore",
	"verbose":    "verbose",
	"brief":      "brief",
	"superbrief": "superbrief",
}

var prepositions = map[string]bool{
	"in": true, "into": true, "inside": true, "on": true, "onto": true,
	"with": true, "to": true, "at": true, "from": true, "under": true,
}

// dativeVerbs may put the recipient first: "give troll the lunch".
var dativeVerbs = map[string]bool{
	"give": true, "offer": true, "hand": true, "feed": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "some": true,
}

// RuleParser implements intent.Parser without any external service.
type RuleParser struct{}

var _ intent.Parser = RuleParser{}

// New returns the rule-based parser.
func New() RuleParser {
	return RuleParser{}
}

// Parse satisfies intent.Parser. It never returns an error.
func (RuleParser) Parse(_ context.Context, input string, _ intent.LocationContext, _ string) (intent.Intent, error) {
	return Parse(input), nil
}

// Parse converts a raw command string into an Intent.
func Parse(input string) intent.Intent {
	original := strings.TrimSpace(input)
	words := Words(original)
	if len(words) == 0 {
		return intent.Unrecognized{Input: original}
	}

	if len(words) == 1 {
		if dir, ok := Direction(words[0]); ok {
			return intent.Move{Direction: dir}
		}
		if cmd, ok := globalWords[words[0]]; ok {
			return intent.Global{Command: cmd}
		}
	}

	if moveVerbs[words[0]] && len(words) == 2 {
		if dir, ok := Direction(words[1]); ok {
			return intent.Move{Direction: dir}
		}
	}

	if in, ok := parseSubLocation(words); ok {
		return in
	}

	words = expandMultiWordVerbs(words)
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	if dativeVerbs[verb] {
		if in, ok := parseDative(verb, words[1:], original); ok {
			return in
		}
	}
	rest := stripArticles(words[1:])

	// "turn lamp on" and "take cloak off" carry their particle at the end
	if len(rest) > 1 {
		last := rest[len(rest)-1]
		noun := strings.Join(rest[:len(rest)-1], " ")
		switch {
		case (verb == "turn" || verb == "switch") && (last == "on" || last == "off"):
			return intent.Simple{Verb: verb + " " + last, Noun: noun, Original: original}
		case verb == "take" && last == "off":
			return intent.Simple{Verb: "remove", Noun: noun, Original: original}
		}
	}

	noun, prep, target := splitOnPreposition(rest)
	if prep != "" && noun != "" && target != "" {
		return intent.MultiNoun{
			Verb:        verb,
			NounOne:     noun,
			Preposition: prep,
			NounTwo:     target,
			Original:    original,
		}
	}
	if prep != "" && noun == "" {
		// "look under rug" style: the preposition belongs to the verb
		noun = target
	}

	return intent.Simple{
		Verb:     verb,
		Noun:     noun,
		Original: original,
	}
}

// Words lowercases input, drops punctuation and splits on whitespace.
func Words(input string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ';', ':', '"':
			return ' '
		}
		return r
	}, strings.ToLower(input))
	return strings.Fields(cleaned)
}

// Normalize returns input in the canonical form used for global command lookup.
func Normalize(input string) string {
	return strings.Join(Words(input), " ")
}

// Direction expands a direction word or shorthand ("ne") to its full name.
func Direction(word string) (string, bool) {
	if dir, ok := directionExpansions[word]; ok {
		return dir, true
	}
	if directionNames[word] {
		return word, true
	}
	return "", false
}

func parseSubLocation(words []string) (intent.Intent, bool) {
	joined := strings.Join(words, " ")
	for _, prefix := range []string{"get out of ", "climb out of ", "get off ", "exit ", "disembark "} {
		if strings.HasPrefix(joined, prefix) {
			return intent.ExitSub{Noun: strings.Join(stripArticles(Words(strings.TrimPrefix(joined, prefix))), " ")}, true
		}
	}
	switch joined {
	case "get out", "exit", "disembark", "stand up", "get off":
		return intent.ExitSub{}, true
	}
	for _, prefix := range []string{"get in ", "get into ", "get on ", "climb in ", "climb into ", "enter ", "board ", "sit in "} {
		if strings.HasPrefix(joined, prefix) {
			return intent.EnterSub{Noun: strings.Join(stripArticles(Words(strings.TrimPrefix(joined, prefix))), " ")}, true
		}
	}
	return nil, false
}

// expandMultiWordVerbs handles "look at", "pick up", "turn on" and friends.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "at" || words[1] == "in" || words[1] == "inside" {
			return append([]string{"examine"}, words[2:]...)
		}
	case "pick":
		if words[1] == "up" {
			return append([]string{"pick up"}, words[2:]...)
		}
	case "take":
		if words[1] == "off" {
			return append([]string{"remove"}, words[2:]...)
		}
	case "put", "set":
		if words[1] == "down" {
			return append([]string{"drop"}, words[2:]...)
		}
		if words[0] == "put" && words[1] == "on" && len(words) > 2 {
			return append([]string{"wear"}, words[2:]...)
		}
	case "turn", "switch":
		if words[1] == "on" || words[1] == "off" {
			return append([]string{words[0] + " " + words[1]}, words[2:]...)
		}
	}

	return words
}

// parseDative turns "give troll the lunch" into "give lunch to troll". An
// article after the first word marks where the gift starts; without one,
// exactly two words are required.
func parseDative(verb string, words []string, original string) (intent.Intent, bool) {
	for _, w := range words {
		if prepositions[w] {
			return nil, false
		}
	}
	var recipient, gift []string
	for i := 1; i < len(words); i++ {
		if articles[words[i]] {
			recipient, gift = words[:i], words[i+1:]
			break
		}
	}
	if recipient == nil {
		if len(words) != 2 {
			return nil, false
		}
		recipient, gift = words[:1], words[1:]
	}
	recipient, gift = stripArticles(recipient), stripArticles(gift)
	if len(recipient) == 0 || len(gift) == 0 {
		return nil, false
	}
	return intent.MultiNoun{
		Verb:        verb,
		NounOne:     strings.Join(gift, " "),
		Preposition: "to",
		NounTwo:     strings.Join(recipient, " "),
		Original:    original,
	}, true
}

func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
func splitOnPreposition(words []string) (object, prep, target string) {
	for i, w := range words {
		if prepositions[w] {
			return strings.Join(words[:i], " "), w, strings.Join(words[i+1:], " ")
		}
	}
	return strings.Join(words, " "), "", ""
}
