package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/jwebster45206/adventure-engine/pkg/parser"
	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/textfilter"
)

const (
	textOk          = "Ok."
	textQuitPrompt  = "Do you wish to leave the game? (Y is affirmative):"
	textRestartAsk  = "Do you wish to restart? (Y is affirmative):"
	textEmptyHanded = "You are empty-handed."
	textNoSave      = "There is no saved game to restore."
	textSaveFailed  = "Save failed."
	textRestoreFail = "Restore failed."
	textNoSaveSlots = "Saving is not available in this game."
)

// baseGlobal is one entry of the engine's own command table.
type baseGlobal struct {
	free bool
	run  func(e *Engine, ctx context.Context, g *Game) string
}

var baseGlobals = map[string]baseGlobal{
	"look":            {run: func(e *Engine, _ context.Context, g *Game) string { return e.look(g) }},
	"l":               {run: func(e *Engine, _ context.Context, g *Game) string { return e.look(g) }},
	"inventory":       {run: globalInventory},
	"i":               {run: globalInventory},
	"inv":             {run: globalInventory},
	"wait":            {run: globalWait},
	"z":               {run: globalWait},
	"take all":        {run: globalTakeAll},
	"get all":         {run: globalTakeAll},
	"take everything": {run: globalTakeAll},
	"drop all":        {run: globalDropAll},
	"drop everything": {run: globalDropAll},
	"score":           {free: true, run: globalScore},
	"verbose":         {free: true, run: verbosity(state.VerbosityVerbose, "Maximum verbosity.")},
	"brief":           {free: true, run: verbosity(state.VerbosityBrief, "Brief descriptions.")},
	"superbrief":      {free: true, run: verbosity(state.VerbositySuperbrief, "Superbrief descriptions.")},
	"save":            {free: true, run: globalSave},
	"restore":         {free: true, run: globalRestore},
	"quit":            {free: true, run: globalQuit},
	"q":               {free: true, run: globalQuit},
	"restart":         {free: true, run: globalRestart},
}

// dispatchGlobal runs an administrative command if normalized is one. Story
// commands are checked before the base table so stories can override it.
func (e *Engine) dispatchGlobal(ctx context.Context, g *Game, normalized string) (string, bool) {
	for _, cmd := range e.def.Globals {
		if slices.Contains(cmd.Words, normalized) {
			return e.timed(g, cmd.Free, cmd.Run(g)), true
		}
	}
	if cmd, ok := baseGlobals[normalized]; ok {
		return e.timed(g, cmd.free, cmd.run(e, ctx, g)), true
	}
	return "", false
}

// timed advances the clock after a global command that is not free.
func (e *Engine) timed(g *Game, free bool, out string) string {
	if msg, dying := g.takeDeath(); dying {
		g.State.Moves++
		return e.die(g, joinLines(out, msg))
	}
	if free {
		return out
	}
	return joinLines(append([]string{out}, e.advance(g)...)...)
}

// resolvePending hands the input to the stateful processor that asked a
// question. handled means the input was consumed; a non-empty replacement is
// the input to run instead.
func (e *Engine) resolvePending(g *Game, input string) (out string, handled bool, replacement string) {
	p := g.State.Pending
	g.State.Pending = nil

	switch p.Kind {
	case state.PendingQuit:
		if !isYes(input) {
			return textOk, true, ""
		}
		g.State.Ended = true
		return "Thanks for playing.", true, ""
	case state.PendingRestart:
		if !isYes(input) {
			return textOk, true, ""
		}
		return e.restart(g), true, ""
	case state.PendingDisambiguation:
		if full, ok := pickChoice(p.Choices, input); ok {
			return "", false, full
		}
	}
	return "", false, ""
}

func isYes(input string) bool {
	switch parser.Normalize(input) {
	case "y", "yes":
		return true
	}
	return false
}

func globalInventory(e *Engine, _ context.Context, g *Game) string {
	if len(g.World.Inventory) == 0 {
		return textEmptyHanded
	}
	lines := []string{"You are carrying:"}
	for _, id := range g.World.Inventory {
		it := g.Item(id)
		line := "  " + textfilter.Capitalize(textfilter.Article(it.Name))
		if it.IsWorn() {
			line += " (being worn)"
		}
		lines = append(lines, line)
		lines = append(lines, e.listContents(g, it, "  ")...)
	}
	return joinLines(lines...)
}

func globalWait(_ *Engine, _ context.Context, _ *Game) string {
	return "Time passes..."
}

func globalScore(e *Engine, _ context.Context, g *Game) string {
	text := fmt.Sprintf("Your score is %d (total of %d points), in %d moves.", g.State.Score, e.def.MaxScore, g.State.Moves)
	if rank := e.rank(g.State.Score); rank != "" {
		text += fmt.Sprintf("\nThis gives you the rank of %s.", rank)
	}
	return text
}

// rank picks the highest band whose minimum the score reaches.
func (e *Engine) rank(score int) string {
	best, title := -1, ""
	for _, r := range e.def.Ranks {
		if score >= r.Min && r.Min > best {
			best, title = r.Min, r.Title
		}
	}
	return title
}

func verbosity(v state.Verbosity, text string) func(*Engine, context.Context, *Game) string {
	return func(_ *Engine, _ context.Context, g *Game) string {
		g.State.Verbosity = v
		return text
	}
}

func globalTakeAll(e *Engine, _ context.Context, g *Game) string {
	if g.Dark() {
		return textTooDark
	}
	var lines []string
	for _, id := range slices.Clone(g.Location().Items) {
		it := g.Item(id)
		if it.Hidden || it.Scenery || id == g.State.Vehicle {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", textfilter.Title(it.Name), e.take(g, it)))
	}
	if len(lines) == 0 {
		return "There is nothing here to take."
	}
	return joinLines(lines...)
}

func globalDropAll(e *Engine, _ context.Context, g *Game) string {
	if len(g.World.Inventory) == 0 {
		return textEmptyHanded
	}
	var lines []string
	for _, id := range slices.Clone(g.World.Inventory) {
		it := g.Item(id)
		lines = append(lines, fmt.Sprintf("%s: %s", textfilter.Title(it.Name), e.drop(g, it)))
	}
	return joinLines(lines...)
}

func globalQuit(e *Engine, ctx context.Context, g *Game) string {
	g.State.Pending = &state.Pending{Kind: state.PendingQuit, Prompt: textQuitPrompt}
	return joinLines(globalScore(e, ctx, g), textQuitPrompt)
}

func globalRestart(e *Engine, ctx context.Context, g *Game) string {
	g.State.Pending = &state.Pending{Kind: state.PendingRestart, Prompt: textRestartAsk}
	return joinLines(globalScore(e, ctx, g), textRestartAsk)
}

func globalSave(e *Engine, ctx context.Context, g *Game) string {
	if e.saves == nil {
		return textNoSaveSlots
	}
	blob, err := e.Save(g)
	if err != nil {
		e.logger.Error("Failed to serialize game", "game_state_id", g.State.ID, "error", err)
		g.Warn("save: " + err.Error())
		return textSaveFailed
	}
	if err := e.saves.PutSave(ctx, g.State.ID, blob); err != nil {
		e.logger.Warn("Failed to write save slot", "game_state_id", g.State.ID, "error", err)
		g.Warn("save: " + err.Error())
		return textSaveFailed
	}
	return textOk
}

func globalRestore(e *Engine, ctx context.Context, g *Game) string {
	if e.saves == nil {
		return textNoSaveSlots
	}
	blob, err := e.saves.GetSave(ctx, g.State.ID)
	if err != nil {
		e.logger.Warn("Failed to read save slot", "game_state_id", g.State.ID, "error", err)
		g.Warn("restore: " + err.Error())
		return textRestoreFail
	}
	if blob == nil {
		return textNoSave
	}
	restored, err := e.Restore(blob)
	if err != nil {
		e.logger.Warn("Saved game is unusable", "game_state_id", g.State.ID, "error", err)
		g.Warn("restore: " + err.Error())
		return textRestoreFail
	}
	e.replace(g, restored)
	return joinLines(textOk, e.look(g))
}

// replace swaps g's session for other's, keeping g's id.
func (e *Engine) replace(g *Game, other *Game) {
	id := g.State.ID
	g.State = other.State
	g.State.ID = id
	g.World = other.World
	g.State.World = other.World
}

// restart discards all progress, the death counter included.
func (e *Engine) restart(g *Game) string {
	fresh, intro := e.newGame(g.State.ID)
	e.replace(g, fresh)
	return intro
}
