package zork

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var toLivingRoom = []string{"north", "east", "open window", "west", "west"}

func newGame(t *testing.T) (*engine.Engine, *engine.Game, string) {
	t.Helper()
	def, err := New()
	require.NoError(t, err)
	e := engine.New(def, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	g, intro := e.NewGame()
	return e, g, intro
}

func walk(e *engine.Engine, g *engine.Game, inputs ...string) engine.TurnResult {
	var res engine.TurnResult
	for _, in := range inputs {
		res = e.Submit(context.Background(), g, in)
	}
	return res
}

func TestValidate(t *testing.T) {
	def, err := New()
	require.NoError(t, err)
	require.NoError(t, def.Validate())
}

func TestEveryLocationConstructs(t *testing.T) {
	def, err := New()
	require.NoError(t, err)
	w := world.New(def)
	for _, id := range def.LocationIDs() {
		w.Location(id)
	}
	require.NoError(t, w.Verify())
}

func TestIntro(t *testing.T) {
	_, g, intro := newGame(t)
	assert.Contains(t, intro, "ZORK I: The Great Underground Empire")
	assert.Contains(t, intro, "West of House\nYou are standing in an open field")
	assert.Contains(t, intro, "There is a small mailbox here.")
	assert.Equal(t, world.ID("west-of-house"), g.State.Location)
}

func TestMailboxLeaflet(t *testing.T) {
	e, g, _ := newGame(t)

	res := walk(e, g, "open mailbox")
	assert.Contains(t, res.Narration, "leaflet")

	res = walk(e, g, "take leaflet")
	assert.Contains(t, res.Narration, "Taken")
	assert.Contains(t, g.State.InventoryNames(), "leaflet")

	res = walk(e, g, "read leaflet")
	assert.Contains(t, res.Narration, "WELCOME TO ZORK!")
}

func TestWindowGatesKitchen(t *testing.T) {
	e, g, _ := newGame(t)

	res := walk(e, g, "north", "east", "west")
	assert.Equal(t, "The window is closed.", res.Narration)
	assert.Equal(t, world.ID("behind-house"), g.State.Location)

	res = walk(e, g, "open window")
	assert.Equal(t, "With great effort, you open the window far enough to allow entry.", res.Narration)

	res = walk(e, g, "in")
	assert.Equal(t, world.ID("kitchen"), g.State.Location)
	assert.Contains(t, res.Narration, "On the table is an elongated brown sack")

	res = walk(e, g, "open sack")
	assert.Equal(t, "Opening the brown sack reveals a lunch and a clove of garlic.", res.Narration)
}

func TestLanternDisambiguation(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, toLivingRoom...)

	res := walk(e, g, "take lantern")
	assert.Equal(t, "Which do you mean, the brass lantern or the broken lantern?", res.Narration)

	res = walk(e, g, "brass")
	assert.Equal(t, "Taken.", res.Narration)
	assert.Equal(t, []string{"brass lantern"}, g.State.InventoryNames())
}

func TestTrapDoor(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, toLivingRoom...)

	res := walk(e, g, "down")
	assert.Equal(t, "The trap door is closed.", res.Narration)

	res = walk(e, g, "open trap door")
	assert.Equal(t, "You can't see any trap door here.", res.Narration, "hidden under the rug")

	res = walk(e, g, "move rug")
	assert.Contains(t, res.Narration, "revealing the dusty cover of a closed trap door")
	res = walk(e, g, "move rug")
	assert.Contains(t, res.Narration, "impossible to move it again")

	res = walk(e, g, "open trap door")
	assert.Contains(t, res.Narration, "rickety staircase")

	res = walk(e, g, "look")
	assert.Contains(t, res.Narration, "There is a rug lying beside an open trap door.")
}

func TestGrue(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, toLivingRoom...)
	walk(e, g, "move rug", "open trap door")

	res := walk(e, g, "down")
	assert.Equal(t, "It is pitch black. You are likely to be eaten by a grue.", res.Narration)
	assert.Equal(t, cellarPoints, res.Score)
	assert.True(t, g.State.HasActor(actorGrue))

	res = walk(e, g, "wait")
	assert.Equal(t, "Time passes...\nYou hear a faint slithering in the darkness nearby.", res.Narration)

	res = walk(e, g, "wait")
	assert.Contains(t, res.Narration, "slavering fangs of a lurking grue")
	assert.Equal(t, 1, res.Deaths)
	assert.Equal(t, world.ID("west-of-house"), g.State.Location)
	assert.False(t, g.State.HasActor(actorGrue))
}

func TestLampKeepsGrueAway(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, toLivingRoom...)
	walk(e, g, "take lamp", "move rug", "open trap door", "down")
	require.True(t, g.State.HasActor(actorGrue))

	res := walk(e, g, "turn on lamp")
	assert.Contains(t, res.Narration, "Cellar\nYou are in a dark and damp cellar")
	assert.False(t, g.State.HasActor(actorGrue))

	walk(e, g, "wait", "wait", "wait")
	assert.Equal(t, 0, g.State.Deaths)
}

func TestTrollKillsPlayer(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, toLivingRoom...)
	walk(e, g, "turn on lamp", "take lamp", "move rug", "open trap door", "down")

	res := walk(e, g, "north")
	assert.Contains(t, res.Narration, "The troll swings his axe")
	assert.Equal(t, 7, g.State.Player.HP())

	moves := g.State.Moves
	res = walk(e, g, "diagnose")
	assert.Equal(t, "You have a light wound.", res.Narration)
	assert.Equal(t, moves, res.Moves)

	res = walk(e, g, "east")
	assert.Contains(t, res.Narration, "The troll fends you off with a menacing gesture.")

	res = walk(e, g, "wait", "wait")
	assert.Contains(t, res.Narration, "I'm afraid you are dead.")
	assert.Contains(t, res.Narration, "****  You have died  ****")
	assert.Equal(t, 1, g.State.Deaths)
	assert.Equal(t, world.ID("west-of-house"), g.State.Location)
	assert.False(t, g.State.HasActor(actorTroll))

	res = walk(e, g, "diagnose")
	assert.Equal(t, "You are in perfect health.", res.Narration)
}

func TestTrollDefeatAndAltar(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, toLivingRoom...)
	walk(e, g, "take lamp", "turn on lamp", "take sword", "move rug", "open trap door", "down", "north")

	res := walk(e, g, "attack troll with sword")
	assert.Equal(t, "The troll, disarmed and defeated, flees into the shadows, never to be seen again.", res.Narration)
	assert.False(t, g.State.HasActor(actorTroll))
	assert.Equal(t, cellarPoints+trollPoints, res.Score)

	walk(e, g, "east")
	require.Equal(t, world.ID("altar"), g.State.Location)

	res = walk(e, g, "take chalice")
	assert.Equal(t, "Taken.", res.Narration)
	assert.Equal(t, 20, res.Score)

	res = walk(e, g, "pray")
	assert.Contains(t, res.Narration, "A feeling of peace washes over you.")
	assert.Equal(t, world.ID("west-of-house"), g.State.Location)

	res = walk(e, g, "score")
	assert.Contains(t, res.Narration, "rank of Master Adventurer")
	require.NoError(t, g.World.Verify())
}

func TestBareHandedAttack(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, toLivingRoom...)
	walk(e, g, "take lamp", "turn on lamp", "move rug", "open trap door", "down", "north")

	res := walk(e, g, "kill troll")
	assert.Contains(t, res.Narration, "bare hands is suicidal")
	assert.False(t, g.State.Flag(flagTrollDead))
}

func TestTrollWeaponsAndGifts(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		narration string
		trollDead bool
	}{
		{"wrong weapon", "attack troll with lamp", "Attacking the troll with that would only annoy him.", false},
		{"gift it wants", "give garlic to troll", "The troll, who is not overly proud, graciously accepts the gift and eats it hungrily.", false},
		{"recipient first", "offer the troll the garlic", "graciously accepts the gift", false},
		{"gift it refuses", "give lamp to troll", "The troll sniffs at it and shoves it back into your hands.", false},
		{"sword by default", "kill troll", "The troll, disarmed and defeated", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, g, _ := newGame(t)
			walk(e, g, "north", "east", "open window", "west", "open sack", "take garlic", "west")
			walk(e, g, "take lamp", "turn on lamp", "take sword", "move rug", "open trap door", "down", "north")

			res := walk(e, g, tt.input)
			assert.Contains(t, res.Narration, tt.narration)
			assert.Equal(t, tt.trollDead, g.State.Flag(flagTrollDead))
			require.NoError(t, g.World.Verify())
		})
	}
}

func TestTrollGiftIsEaten(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, "north", "east", "open window", "west", "open sack", "take garlic", "west")
	walk(e, g, "take lamp", "turn on lamp", "move rug", "open trap door", "down", "north")

	walk(e, g, "give garlic to troll")
	assert.False(t, g.World.Carrying("garlic"))
	assert.Equal(t, world.Nowhere, g.Item("garlic").Owner)

	res := walk(e, g, "give lamp to troll")
	assert.True(t, g.World.Carrying("brass-lantern"))
	assert.Contains(t, res.Narration, "The troll swings his axe")
}

func TestWoundsHealOverTime(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, toLivingRoom...)
	walk(e, g, "take lamp", "turn on lamp", "move rug", "open trap door", "down", "north", "south")
	require.Equal(t, 12, g.State.Moves)
	require.Equal(t, 7, g.State.Player.HP())

	for range 7 {
		walk(e, g, "wait")
	}
	assert.Equal(t, 7, g.State.Player.HP(), "nothing until the tenth move")

	walk(e, g, "wait")
	assert.Equal(t, 8, g.State.Player.HP())
	assert.Equal(t, "You have a light wound.", walk(e, g, "diagnose").Narration)
}

func TestStoryGlobals(t *testing.T) {
	e, g, _ := newGame(t)
	res := walk(e, g, "xyzzy")
	assert.Equal(t, `A hollow voice says "Fool."`, res.Narration)
	assert.Equal(t, 0, res.Moves)
}

func TestSaveRestoreMidGame(t *testing.T) {
	e, g, _ := newGame(t)
	walk(e, g, toLivingRoom...)
	walk(e, g, "take lamp", "move rug", "open trap door")

	blob, err := e.Save(g)
	require.NoError(t, err)
	restored, err := e.Restore(blob)
	require.NoError(t, err)

	for _, in := range []string{"turn on lamp", "down", "north", "wait", "south", "up", "look"} {
		want := e.Submit(context.Background(), g, in)
		got := e.Submit(context.Background(), restored, in)
		assert.Equal(t, want.Narration, got.Narration, in)
		assert.Equal(t, want.Score, got.Score, in)
		assert.Equal(t, want.Moves, got.Moves, in)
	}
	assert.Equal(t, g.State.Player.HP(), restored.State.Player.HP())
}
