// Package engine resolves parsed intents against a session's world, runs
// turn actors, and serializes sessions. It performs no locking: the host must
// make sure a session handles one turn at a time.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/jwebster45206/adventure-engine/pkg/parser"
	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

const (
	textPardon       = "I beg your pardon?"
	textUnrecognized = "I don't understand that."
	textGameOver     = "The game is over. Start a new game to play again."
	textNothingAgain = "There is nothing to repeat."

	defaultNarrationTimeout = 5 * time.Second
)

// TurnResult is what the host sees after one turn.
type TurnResult struct {
	Narration string   `json:"narration"`
	Location  string   `json:"location"`
	Moves     int      `json:"moves"`
	Score     int      `json:"score"`
	Deaths    int      `json:"deaths"`
	Ended     bool     `json:"ended,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// SaveSlots stores the in-game "save" slot of a session.
type SaveSlots interface {
	PutSave(ctx context.Context, id uuid.UUID, blob []byte) error
	// GetSave returns nil, nil when nothing has been saved.
	GetSave(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Engine plays one story. It is safe to share between sessions; all mutable
// state lives in Game values.
type Engine struct {
	def              *Definition
	parser           intent.Parser
	narrator         Narrator
	saves            SaveSlots
	logger           *slog.Logger
	narrationTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithParser replaces the rule-based parser.
func WithParser(p intent.Parser) Option {
	return func(e *Engine) { e.parser = p }
}

// WithNarrator enables best-effort enrichment of miss-match narration.
func WithNarrator(n Narrator) Option {
	return func(e *Engine) { e.narrator = n }
}

// WithSaveSlots enables the in-game save and restore commands.
func WithSaveSlots(s SaveSlots) Option {
	return func(e *Engine) { e.saves = s }
}

// WithLogger sets the logger for recoverable failures: parser, narrator, save slots and player wounds.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithNarrationTimeout bounds each narrator call. Non-positive values keep the default.
func WithNarrationTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.narrationTimeout = d
		}
	}
}

// New creates an engine for def.
func New(def *Definition, opts ...Option) *Engine {
	e := &Engine{
		def:              def,
		parser:           parser.New(),
		logger:           slog.Default(),
		narrationTimeout: defaultNarrationTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Definition returns the story the engine plays.
func (e *Engine) Definition() *Definition {
	return e.def
}

// NewGame starts a fresh session and returns it with the opening narration.
func (e *Engine) NewGame() (*Game, string) {
	return e.newGame(uuid.New())
}

func (e *Engine) newGame(id uuid.UUID) (*Game, string) {
	gs := state.NewGameState(e.def.Name, e.def.Start)
	gs.ID = id
	spec := e.def.Player
	if spec.MaxHP == 0 {
		spec = actor.DefaultPlayerSpec()
	}
	player, err := actor.NewPlayer(spec)
	if err != nil {
		panic(fmt.Sprintf("engine: story %q has an invalid player: %v", e.def.Name, err))
	}
	gs.Player = player
	gs.World = world.New(e.def)

	g := e.attach(gs)
	g.World.Location(e.def.Start)
	if e.def.Setup != nil {
		e.def.Setup(g)
	}
	return g, joinLines(e.def.Intro, e.arrive(g))
}

func (e *Engine) attach(gs *state.GameState) *Game {
	return &Game{Def: e.def, State: gs, World: gs.World, eng: e}
}

// Submit plays one turn. It never fails: every branch ends in narration.
func (e *Engine) Submit(ctx context.Context, g *Game, input string) TurnResult {
	g.warnings = nil
	g.death = nil
	narration := e.turn(ctx, g, strings.TrimSpace(input))
	g.State.UpdatedAt = time.Now()
	return e.summarize(g, narration)
}

func (e *Engine) summarize(g *Game, narration string) TurnResult {
	return TurnResult{
		Narration: narration,
		Location:  g.Location().Name,
		Moves:     g.State.Moves,
		Score:     g.State.Score,
		Deaths:    g.State.Deaths,
		Ended:     g.State.Ended,
		Warnings:  slices.Clone(g.warnings),
	}
}

func (e *Engine) turn(ctx context.Context, g *Game, input string) string {
	if g.State.Ended {
		return textGameOver
	}

	if g.State.Pending != nil {
		out, handled, replacement := e.resolvePending(g, input)
		if handled {
			return out
		}
		if replacement != "" {
			input = replacement
		}
	}

	if input == "" {
		return textPardon
	}

	normalized := parser.Normalize(input)
	if normalized == "again" || normalized == "g" {
		if g.State.LastInput == "" {
			return textNothingAgain
		}
		input = g.State.LastInput
		normalized = parser.Normalize(input)
	}

	if out, ok := e.dispatchGlobal(ctx, g, normalized); ok {
		return out
	}
	g.State.LastInput = input

	in, err := e.parser.Parse(ctx, input, e.locationContext(g), g.State.ID.String())
	if err != nil || in == nil {
		e.logger.Warn("Parser failed, treating input as unrecognized",
			"game_state_id", g.State.ID, "input", input, "error", err)
		in = intent.Unrecognized{Input: input}
	}

	switch v := in.(type) {
	case intent.Global:
		if out, ok := e.dispatchGlobal(ctx, g, parser.Normalize(v.Command)); ok {
			return out
		}
		return textUnrecognized
	case intent.Prompt:
		return v.Text
	case intent.Unrecognized:
		return textUnrecognized
	}

	var opening string
	if e.def.BeginTurn != nil {
		opening = e.def.BeginTurn(g)
	}
	var res Result
	if g.Dying() {
		res = Positive{Message: opening}
		opening = ""
	} else {
		res = e.resolve(g, in)
	}
	return joinLines(opening, e.finish(ctx, g, in, res))
}

// resolve dispatches a non-global intent to its handler.
func (e *Engine) resolve(g *Game, in intent.Intent) Result {
	switch v := in.(type) {
	case intent.Move:
		return e.move(g, v.Direction)
	case intent.Simple:
		return e.simple(g, v)
	case intent.MultiNoun:
		return e.multiNoun(g, v)
	case intent.EnterSub:
		return e.enter(g, v)
	case intent.ExitSub:
		return e.exit(g, v)
	}
	panic(fmt.Sprintf("engine: unhandled intent %T", in))
}

// finish turns a result into narration, applies deaths, and advances time.
func (e *Engine) finish(ctx context.Context, g *Game, in intent.Intent, res Result) string {
	if msg, dying := g.takeDeath(); dying {
		prefix := ""
		if p, ok := res.(Positive); ok {
			prefix = p.Message
		}
		res = Death{Message: joinLines(prefix, msg)}
	}

	var parts []string
	switch r := res.(type) {
	case Death:
		parts = append(parts, e.die(g, r.Message))
		g.State.Moves++
		return joinLines(parts...)
	case Disambiguation:
		g.State.Pending = &state.Pending{
			Kind:    state.PendingDisambiguation,
			Prompt:  r.Prompt,
			Choices: maps.Clone(r.Choices),
		}
		parts = append(parts, r.Prompt)
	case NoVerbMatch, NoNounMatch:
		parts = append(parts, e.enrich(ctx, g, in, res))
	default:
		parts = append(parts, res.Text())
	}

	if consumesTime(res) {
		parts = append(parts, e.advance(g)...)
	}
	return joinLines(parts...)
}

// advance moves the clock one turn: actors run, then the story's EndTurn
// hook unless an actor killed the player.
func (e *Engine) advance(g *Game) []string {
	g.State.Moves++
	deaths := g.State.Deaths
	out := e.runActors(g)
	if e.def.EndTurn == nil || g.State.Deaths != deaths {
		return out
	}
	out = append(out, e.def.EndTurn(g))
	if msg, dying := g.takeDeath(); dying {
		out = append(out, e.die(g, msg))
	}
	return out
}

// locationContext is what a parser may know about where the player is.
func (e *Engine) locationContext(g *Game) intent.LocationContext {
	def := e.def.location(g.State.Location)
	lc := intent.LocationContext{
		Name:  g.Location().Name,
		Exits: slices.Sorted(maps.Keys(def.Exits)),
	}
	if !g.Dark() {
		for _, it := range g.World.Visible(g.State.Location) {
			lc.Nouns = append(lc.Nouns, strings.ToLower(it.Name))
		}
	}
	return lc
}

// joinLines joins the non-empty parts with newlines.
func joinLines(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimRight(p, "\n"); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
