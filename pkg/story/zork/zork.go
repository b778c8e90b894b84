// Package zork is the sample story: the house, its cellar, a troll and an
// altar, enough of the Great Underground Empire to exercise every engine
// feature.
package zork

import (
	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Name is the story key used by hosts and saves.
const Name = "zork"

const (
	flagRugMoved   = "rug_moved"
	flagCellarSeen = "cellar_seen"
	flagTrollDead  = "troll_dead"

	varGrue = "grue_turns"

	actorGrue  = "grue"
	actorTroll = "troll"

	trollDamage  = 3
	trollHP      = 8
	swordDamage  = 8
	cellarPoints = 5
	trollPoints  = 5

	// A wounded player recovers one hit point every healInterval moves.
	healInterval = 10
)

// New builds the story definition. Each call returns an independent value.
func New() (*engine.Definition, error) {
	c, err := loadContent()
	if err != nil {
		return nil, err
	}
	return build(c), nil
}

func build(c *content) *engine.Definition {
	d := &engine.Definition{
		Name:         Name,
		Title:        c.Title,
		Intro:        c.Intro,
		Start:        "west-of-house",
		SafeLocation: "west-of-house",
		CarryLimit:   100,
		MaxScore:     20,
		Ranks: []engine.Rank{
			{Min: 0, Title: "Beginner"},
			{Min: 5, Title: "Amateur Adventurer"},
			{Min: 10, Title: "Novice Adventurer"},
			{Min: 15, Title: "Junior Adventurer"},
			{Min: 20, Title: "Master Adventurer"},
		},
		Player: actor.PlayerSpec{
			HP:    10,
			MaxHP: 10,
			AC:    12,
			Attributes: map[string]int{
				"strength":     12,
				"constitution": 10,
			},
		},
		Locations: locations(c),
		Items:     items(c),
		Actors: map[string]engine.ActorFunc{
			actorGrue:  grue(c),
			actorTroll: troll(c),
		},
		Globals: []engine.GlobalCommand{
			{
				Words: []string{"diagnose"},
				Free:  true,
				Run:   func(g *engine.Game) string { return g.State.Player.Condition() },
			},
			{
				Words: []string{"xyzzy", "plugh"},
				Free:  true,
				Run:   func(*engine.Game) string { return c.msg("xyzzy") },
			},
		},
		EndTurn: heal,
		OnDeath: func(g *engine.Game) {
			g.DeregisterActor(actorGrue)
			g.DeregisterActor(actorTroll)
			g.State.SetVar(varGrue, 0)
		},
	}
	for id, loc := range d.Locations {
		loc.ID = id
	}
	return d
}

func locations(c *content) map[world.ID]*engine.LocationDef {
	loc := func(id world.ID) *engine.LocationDef {
		text := c.location(id)
		return &engine.LocationDef{Name: text.Name, Description: text.Description}
	}
	windowOpen := func(g *engine.Game) bool { return g.Item("window").Openable.Open }
	trapDoorOpen := func(g *engine.Game) bool {
		return g.State.Flag(flagRugMoved) && g.Item("trap-door").Openable.Open
	}

	westOfHouse := loc("west-of-house")
	westOfHouse.Items = []world.ID{"mailbox"}
	westOfHouse.Exits = map[string]engine.Exit{
		"north": {To: "north-of-house"},
		"east":  {To: "living-room", Guard: never, FailText: c.msg("front_door")},
	}

	northOfHouse := loc("north-of-house")
	northOfHouse.Exits = map[string]engine.Exit{
		"west":  {To: "west-of-house"},
		"east":  {To: "behind-house"},
		"north": {To: "north-of-house", Guard: never, FailText: c.msg("forest")},
	}

	behindHouse := loc("behind-house")
	behindHouse.Items = []world.ID{"window"}
	behindHouse.Exits = map[string]engine.Exit{
		"north": {To: "north-of-house"},
		"west":  {To: "kitchen", Guard: windowOpen, FailText: c.msg("window_closed")},
		"in":    {To: "kitchen", Guard: windowOpen, FailText: c.msg("window_closed")},
	}

	kitchen := loc("kitchen")
	kitchen.Items = []world.ID{"sack", "bottle"}
	kitchen.Exits = map[string]engine.Exit{
		"east": {To: "behind-house", Guard: windowOpen, FailText: c.msg("window_closed")},
		"out":  {To: "behind-house", Guard: windowOpen, FailText: c.msg("window_closed")},
		"west": {To: "living-room"},
	}

	livingRoom := loc("living-room")
	livingRoom.Items = []world.ID{"trophy-case", "brass-lantern", "broken-lantern", "sword", "rug", "trap-door"}
	livingRoom.Describe = func(g *engine.Game) string {
		switch {
		case !g.State.Flag(flagRugMoved):
			return livingRoom.Description + "\n" + c.msg("living_room_rug")
		case g.Item("trap-door").Openable.Open:
			return livingRoom.Description + "\n" + c.msg("living_room_trap_open")
		default:
			return livingRoom.Description + "\n" + c.msg("living_room_trap_closed")
		}
	}
	livingRoom.Exits = map[string]engine.Exit{
		"east": {To: "kitchen"},
		"down": {
			To:              "cellar",
			Guard:           trapDoorOpen,
			FailText:        c.msg("trap_door_closed"),
			WeightLimit:     60,
			WeightLimitText: c.msg("trap_door_squeeze"),
		},
	}
	livingRoom.Respond = func(g *engine.Game, in intent.Simple) (engine.Result, bool) {
		if !in.MatchVerb([]string{"move", "push", "pull", "lift", "raise"}) || in.Noun == "" {
			return nil, false
		}
		if !g.Item("rug").MatchesNoun(in.Noun) {
			return nil, false
		}
		if in.Verb == "lift" || in.Verb == "raise" {
			return engine.Positive{Message: c.msg("rug_heavy")}, true
		}
		if g.State.Flag(flagRugMoved) {
			return engine.Positive{Message: c.msg("rug_again")}, true
		}
		g.State.SetFlag(flagRugMoved, true)
		g.Item("trap-door").Hidden = false
		return engine.Positive{Message: c.msg("rug_moved")}, true
	}

	cellar := loc("cellar")
	cellar.Dark = true
	cellar.Exits = map[string]engine.Exit{
		"up":    {To: "living-room"},
		"north": {To: "troll-room"},
	}
	cellar.AfterEnter = func(g *engine.Game) string {
		if !g.State.Flag(flagCellarSeen) {
			g.State.SetFlag(flagCellarSeen, true)
			g.AddPoints(cellarPoints)
		}
		if g.Dark() {
			g.RegisterActor(actorGrue)
		}
		return ""
	}

	trollRoom := loc("troll-room")
	trollRoom.Items = []world.ID{"troll"}
	trollAlive := func(g *engine.Game) bool { return !g.State.Flag(flagTrollDead) }
	trollRoom.Exits = map[string]engine.Exit{
		"south": {To: "cellar"},
		"east": {
			To:       "altar",
			Guard:    func(g *engine.Game) bool { return !trollAlive(g) },
			FailText: c.msg("troll_blocks"),
		},
	}
	trollRoom.AfterEnter = func(g *engine.Game) string {
		if trollAlive(g) {
			g.RegisterActor(actorTroll)
		}
		return ""
	}
	trollRoom.OnLeave = func(g *engine.Game) string {
		g.DeregisterActor(actorTroll)
		return ""
	}

	altar := loc("altar")
	altar.Items = []world.ID{"altar-stone", "chalice"}
	altar.Exits = map[string]engine.Exit{
		"west": {To: "troll-room"},
	}
	altar.Respond = func(g *engine.Game, in intent.Simple) (engine.Result, bool) {
		if in.Verb != "pray" {
			return nil, false
		}
		return engine.Positive{Message: c.msg("pray") + "\n" + g.MoveTo("west-of-house")}, true
	}

	return map[world.ID]*engine.LocationDef{
		"west-of-house":  westOfHouse,
		"north-of-house": northOfHouse,
		"behind-house":   behindHouse,
		"kitchen":        kitchen,
		"living-room":    livingRoom,
		"cellar":         cellar,
		"troll-room":     trollRoom,
		"altar":          altar,
	}
}

func never(*engine.Game) bool { return false }

// heal lets a wounded player recover slowly as time passes.
func heal(g *engine.Game) string {
	p := g.State.Player
	if p == nil || p.HP() >= p.MaxHP() || g.State.Moves%healInterval != 0 {
		return ""
	}
	if err := p.Recover(1); err != nil {
		g.Warn("could not heal the player")
	}
	return ""
}

func items(c *content) map[world.ID]func() *world.Item {
	return map[world.ID]func() *world.Item{
		"mailbox": func() *world.Item {
			it := c.item("mailbox")
			it.Size = 50
			it.Openable = &world.Openable{}
			it.Container = &world.Container{Capacity: 10, Contents: []world.ID{"leaflet"}}
			return it
		},
		"leaflet": func() *world.Item {
			it := c.item("leaflet")
			it.Size = 2
			it.Takeable = &world.Takeable{}
			return it
		},
		"window": func() *world.Item {
			it := c.item("window")
			it.Scenery = true
			it.Openable = &world.Openable{OpenText: c.msg("window_open")}
			return it
		},
		"sack": func() *world.Item {
			it := c.item("sack")
			it.Size = 9
			it.Takeable = &world.Takeable{}
			it.Openable = &world.Openable{}
			it.Container = &world.Container{Capacity: 9, Contents: []world.ID{"lunch", "garlic"}}
			return it
		},
		"lunch": func() *world.Item {
			it := c.item("lunch")
			it.Size = 3
			it.Takeable = &world.Takeable{}
			it.Edible = &world.Edible{}
			return it
		},
		"garlic": func() *world.Item {
			it := c.item("garlic")
			it.Size = 2
			it.Takeable = &world.Takeable{}
			it.Edible = &world.Edible{Text: "What the heck! You won't make friends this way, but nobody around here is too friendly anyhow. Gulp!"}
			return it
		},
		"bottle": func() *world.Item {
			it := c.item("bottle")
			it.Size = 5
			it.Takeable = &world.Takeable{}
			it.Openable = &world.Openable{}
			it.Container = &world.Container{Capacity: 4, Transparent: true, Contents: []world.ID{"water"}}
			return it
		},
		"water": func() *world.Item {
			it := c.item("water")
			it.Size = 4
			it.Edible = &world.Edible{Drink: true, Text: "Thank you very much. I was rather thirsty (from all this talking, probably)."}
			return it
		},
		"brass-lantern": func() *world.Item {
			it := c.item("brass-lantern")
			it.Size = 15
			it.Takeable = &world.Takeable{}
			it.Toggleable = &world.Toggleable{LightSource: true}
			return it
		},
		"broken-lantern": func() *world.Item {
			it := c.item("broken-lantern")
			it.Size = 15
			it.Takeable = &world.Takeable{}
			return it
		},
		"sword": func() *world.Item {
			it := c.item("sword")
			it.Size = 30
			it.Takeable = &world.Takeable{}
			it.Weapon = &world.Weapon{Damage: swordDamage}
			return it
		},
		"trophy-case": func() *world.Item {
			it := c.item("trophy-case")
			it.Scenery = true
			it.Openable = &world.Openable{}
			it.Container = &world.Container{Capacity: 50}
			return it
		},
		"rug": func() *world.Item {
			it := c.item("rug")
			it.Scenery = true
			return it
		},
		"trap-door": func() *world.Item {
			it := c.item("trap-door")
			it.Scenery = true
			it.Hidden = true
			it.Openable = &world.Openable{OpenText: c.msg("trap_door_open")}
			return it
		},
		"troll": func() *world.Item {
			it := c.item("troll")
			it.Combatant = &world.Combatant{
				HP:              trollHP,
				Weapons:         []world.ID{"sword"},
				HitText:         c.msg("troll_hit"),
				DefeatText:      c.msg("troll_defeated"),
				WrongWeaponText: c.msg("troll_wrong_weapon"),
				BareHandsText:   c.msg("troll_bare_hands"),
				DefeatFlag:      flagTrollDead,
				Points:          trollPoints,
			}
			it.Recipient = &world.Recipient{
				Accepts:    []world.ID{"lunch", "garlic"},
				AcceptText: c.msg("troll_eats"),
				RefuseText: c.msg("troll_refuses"),
			}
			return it
		},
		"chalice": func() *world.Item {
			it := c.item("chalice")
			it.Size = 10
			it.Takeable = &world.Takeable{Points: 10}
			return it
		},
		"altar-stone": func() *world.Item {
			it := c.item("altar-stone")
			it.Scenery = true
			return it
		},
	}
}

// grue kills a player who lingers in the dark. It registers itself when the
// player arrives somewhere unlit and leaves once there is light.
func grue(c *content) engine.ActorFunc {
	return func(g *engine.Game) string {
		if !g.Dark() {
			g.State.SetVar(varGrue, 0)
			g.DeregisterActor(actorGrue)
			return ""
		}
		switch g.State.IncVar(varGrue, 1) {
		case 1:
			return ""
		case 2:
			return c.msg("grue_warning")
		}
		g.State.SetVar(varGrue, 0)
		g.DeregisterActor(actorGrue)
		g.Die(c.msg("grue_death"))
		return ""
	}
}

// troll swings at the player every turn spent in the troll room.
func troll(c *content) engine.ActorFunc {
	return func(g *engine.Game) string {
		if !g.Here("troll-room") || g.State.Flag(flagTrollDead) {
			g.DeregisterActor(actorTroll)
			return ""
		}
		g.Wound(trollDamage, c.msg("troll_death"))
		if g.Dying() {
			return ""
		}
		return c.msg("troll_swing")
	}
}
