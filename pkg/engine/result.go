package engine

import "fmt"

// ResultKind tags a Result variant.
type ResultKind string

const (
	ResultPositive       ResultKind = "positive"
	ResultNoVerbMatch    ResultKind = "no_verb_match"
	ResultNoNounMatch    ResultKind = "no_noun_match"
	ResultDisambiguation ResultKind = "disambiguation"
	ResultDeath          ResultKind = "death"
)

// Result is the outcome of resolving one intent. The variant alone tells the
// caller whether time passed and whether narration may be enriched.
type Result interface {
	Kind() ResultKind
	Text() string
	isResult()
}

// Positive is any narrated outcome, including refusals that cost a turn.
type Positive struct {
	Message string
}

// NoVerbMatch means the item was found but nothing handles the verb.
type NoVerbMatch struct {
	Verb    string
	Noun    string
	Message string
}

// NoNounMatch means no item in scope matches the noun.
type NoNounMatch struct {
	Noun    string
	Message string
}

// Disambiguation asks the player to pick one of several matching items.
// Choices maps each answer to the full input it replaces the turn with.
type Disambiguation struct {
	Prompt  string
	Choices map[string]string
}

// Death is a fatal outcome. Deaths is filled in once the death is applied.
type Death struct {
	Message string
	Deaths  int
}

func (Positive) Kind() ResultKind       { return ResultPositive }
func (NoVerbMatch) Kind() ResultKind    { return ResultNoVerbMatch }
func (NoNounMatch) Kind() ResultKind    { return ResultNoNounMatch }
func (Disambiguation) Kind() ResultKind { return ResultDisambiguation }
func (Death) Kind() ResultKind          { return ResultDeath }

func (Positive) isResult()       {}
func (NoVerbMatch) isResult()    {}
func (NoNounMatch) isResult()    {}
func (Disambiguation) isResult() {}
func (Death) isResult()          {}

func (r Positive) Text() string { return r.Message }

func (r NoVerbMatch) Text() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Noun == "" {
		return fmt.Sprintf("I don't know how to %s.", r.Verb)
	}
	return fmt.Sprintf("You can't %s the %s.", r.Verb, r.Noun)
}

func (r NoNounMatch) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("You can't see any %s here.", r.Noun)
}

func (r Disambiguation) Text() string { return r.Prompt }

func (r Death) Text() string { return r.Message }

// consumesTime reports whether the result advances the move counter.
func consumesTime(r Result) bool {
	switch r.(type) {
	case Positive, Death:
		return true
	}
	return false
}
