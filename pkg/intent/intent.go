// Package intent defines the closed set of parsed-turn shapes handed to the engine.
// Every parser backend produces one of these values; the engine never sees anything else.
package intent

import (
	"context"
	"slices"
	"strings"
)

// Kind tags an Intent variant.
type Kind string

const (
	KindMove         Kind = "move"
	KindSimple       Kind = "simple"
	KindMultiNoun    Kind = "multi_noun"
	KindGlobal       Kind = "global"
	KindEnterSub     Kind = "enter_sub"
	KindExitSub      Kind = "exit_sub"
	KindPrompt       Kind = "prompt"
	KindUnrecognized Kind = "unrecognized"
)

// Intent is a sealed union. Only the variants in this package implement it.
type Intent interface {
	Kind() Kind
	isIntent()
}

// Move asks to travel in a direction ("north", "up", "in").
type Move struct {
	Direction string `json:"direction"`
}

// Simple is a verb applied to one noun ("open mailbox").
type Simple struct {
	Verb     string `json:"verb"`
	Noun     string `json:"noun"`
	Original string `json:"original,omitempty"`
}

// MultiNoun is "verb noun1 preposition noun2" ("put leaflet in mailbox").
type MultiNoun struct {
	Verb        string `json:"verb"`
	NounOne     string `json:"noun_one"`
	Preposition string `json:"preposition"`
	NounTwo     string `json:"noun_two"`
	Original    string `json:"original,omitempty"`
}

// Global is an administrative command recognised by a parser rather than the dispatcher fast path.
type Global struct {
	Command string `json:"command"`
}

// EnterSub moves the player into an enterable item ("get in boat").
type EnterSub struct {
	Noun string `json:"noun"`
}

// ExitSub moves the player out of the item they are in.
type ExitSub struct {
	Noun string `json:"noun,omitempty"`
}

// Prompt is a clarification question the parser wants shown verbatim.
type Prompt struct {
	Text string `json:"text"`
}

// Unrecognized is any input the parser could not understand with confidence.
type Unrecognized struct {
	Input string `json:"input"`
}

func (Move) Kind() Kind         { return KindMove }
func (Simple) Kind() Kind       { return KindSimple }
func (MultiNoun) Kind() Kind    { return KindMultiNoun }
func (Global) Kind() Kind       { return KindGlobal }
func (EnterSub) Kind() Kind     { return KindEnterSub }
func (ExitSub) Kind() Kind      { return KindExitSub }
func (Prompt) Kind() Kind       { return KindPrompt }
func (Unrecognized) Kind() Kind { return KindUnrecognized }

func (Move) isIntent()         {}
func (Simple) isIntent()       {}
func (MultiNoun) isIntent()    {}
func (Global) isIntent()       {}
func (EnterSub) isIntent()     {}
func (ExitSub) isIntent()      {}
func (Prompt) isIntent()       {}
func (Unrecognized) isIntent() {}

// MatchVerb reports whether the intent's verb is one of verbs.
func (s Simple) MatchVerb(verbs []string) bool {
	return slices.Contains(verbs, strings.ToLower(s.Verb))
}

// MatchVerb reports whether the intent's verb is one of verbs.
func (m MultiNoun) MatchVerb(verbs []string) bool {
	return slices.Contains(verbs, strings.ToLower(m.Verb))
}

// MatchPreposition reports whether the intent's preposition is one of preps.
func (m MultiNoun) MatchPreposition(preps []string) bool {
	return slices.Contains(preps, strings.ToLower(m.Preposition))
}

// LocationContext is the slice of world state a parser may use to interpret input.
type LocationContext struct {
	Name  string   `json:"name"`
	Exits []string `json:"exits,omitempty"`
	Nouns []string `json:"nouns,omitempty"`
}

// Parser turns raw player text into an Intent. Implementations should report
// low-confidence input as Unrecognized; a returned error is treated the same way.
type Parser interface {
	Parse(ctx context.Context, input string, loc LocationContext, sessionID string) (Intent, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(ctx context.Context, input string, loc LocationContext, sessionID string) (Intent, error)

func (f ParserFunc) Parse(ctx context.Context, input string, loc LocationContext, sessionID string) (Intent, error) {
	return f(ctx, input, loc, sessionID)
}
