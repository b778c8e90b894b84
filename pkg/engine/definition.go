package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Exit is a guarded edge out of a location.
type Exit struct {
	To world.ID
	// Guard, when set, must return true for the move to succeed.
	Guard    func(g *Game) bool
	FailText string
	// WeightLimit, when positive, refuses the move while the player carries more than this.
	WeightLimit     int
	WeightLimitText string
}

// LocationDef is the static side of a location: prose, exits and hooks.
type LocationDef struct {
	ID          world.ID
	Name        string
	Dark        bool
	Description string
	// Describe overrides Description when the prose depends on game state.
	Describe func(g *Game) string
	Exits    map[string]Exit
	Items    []world.ID

	OnLeave     func(g *Game) string
	BeforeEnter func(g *Game) string
	AfterEnter  func(g *Game) string

	// Respond lets the location answer a simple intent before any item is consulted.
	Respond func(g *Game, in intent.Simple) (Result, bool)
	// RespondMulti is the same for "verb noun preposition noun" intents.
	RespondMulti func(g *Game, in intent.MultiNoun) (Result, bool)
}

// ActorFunc is the per-turn behaviour of a registered actor.
type ActorFunc func(g *Game) string

// GlobalCommand is a story-specific administrative command.
type GlobalCommand struct {
	Words []string
	// Free commands do not advance the move counter or run actors.
	Free bool
	Run  func(g *Game) string
}

// Rank is a score band for the "score" command.
type Rank struct {
	Min   int
	Title string
}

// Definition is everything a story injects into the engine.
type Definition struct {
	Name  string
	Title string
	Intro string

	Start        world.ID
	SafeLocation world.ID
	CarryLimit   int
	MaxScore     int
	Ranks        []Rank
	Player       actor.PlayerSpec

	Locations map[world.ID]*LocationDef
	Items     map[world.ID]func() *world.Item
	Actors    map[string]ActorFunc
	Globals   []GlobalCommand

	// Setup runs once on a new game, after the start location exists.
	Setup func(g *Game)
	// BeginTurn runs after a world intent is parsed and before it is
	// resolved. Its narration leads the turn; a death it causes replaces the
	// intent.
	BeginTurn func(g *Game) string
	// EndTurn runs after the actors of every turn that consumed time, unless
	// the player died during it.
	EndTurn func(g *Game) string
	// OnDeath runs after the death counter moves and before relocation.
	OnDeath func(g *Game)
}

var _ world.Factory = (*Definition)(nil)

// NewLocation implements world.Factory.
func (d *Definition) NewLocation(id world.ID) (*world.Location, []world.ID, bool) {
	def, ok := d.Locations[id]
	if !ok {
		return nil, nil, false
	}
	return &world.Location{ID: id, Name: def.Name, Dark: def.Dark}, def.Items, true
}

// NewItem implements world.Factory.
func (d *Definition) NewItem(id world.ID) (*world.Item, bool) {
	fn, ok := d.Items[id]
	if !ok {
		return nil, false
	}
	it := fn()
	it.ID = id
	return it, true
}

func (d *Definition) location(id world.ID) *LocationDef {
	def, ok := d.Locations[id]
	if !ok {
		panic(fmt.Sprintf("engine: story %q has no location %q", d.Name, id))
	}
	return def
}

// Validate checks the static wiring of a story: every edge, starting item
// and container content resolves, and item names are unique so that
// disambiguation answers stay unambiguous.
func (d *Definition) Validate() error {
	var errs []error
	if _, ok := d.Locations[d.Start]; !ok {
		errs = append(errs, fmt.Errorf("start location %q is not defined", d.Start))
	}
	if _, ok := d.Locations[d.SafeLocation]; !ok {
		errs = append(errs, fmt.Errorf("safe location %q is not defined", d.SafeLocation))
	}

	placed := make(map[world.ID]string)
	place := func(item world.ID, where string) {
		if _, ok := d.Items[item]; !ok {
			errs = append(errs, fmt.Errorf("%s references unknown item %q", where, item))
			return
		}
		if prev, dup := placed[item]; dup {
			errs = append(errs, fmt.Errorf("item %q starts in both %s and %s", item, prev, where))
			return
		}
		placed[item] = where
	}

	for _, id := range slices.Sorted(maps.Keys(d.Locations)) {
		loc := d.Locations[id]
		for dir, exit := range loc.Exits {
			if _, ok := d.Locations[exit.To]; !ok {
				errs = append(errs, fmt.Errorf("location %q exit %q leads to unknown location %q", id, dir, exit.To))
			}
		}
		for _, item := range loc.Items {
			place(item, "location "+string(id))
		}
	}

	names := make(map[string]world.ID)
	for _, id := range slices.Sorted(maps.Keys(d.Items)) {
		it := d.Items[id]()
		if it.Container != nil {
			for _, child := range it.Container.Contents {
				place(child, "item "+string(id))
			}
		}
		var refs []world.ID
		if it.Combatant != nil {
			refs = append(refs, it.Combatant.Weapons...)
		}
		if it.Recipient != nil {
			refs = append(refs, it.Recipient.Accepts...)
		}
		for _, ref := range refs {
			if _, ok := d.Items[ref]; !ok {
				errs = append(errs, fmt.Errorf("item %q references unknown item %q", id, ref))
			}
		}
		name := strings.ToLower(it.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("item %q has no name", id))
			continue
		}
		if other, dup := names[name]; dup {
			errs = append(errs, fmt.Errorf("items %q and %q share the name %q", other, id, name))
		}
		names[name] = id
	}
	return errors.Join(errs...)
}

// LocationIDs returns every location id the story defines, sorted.
func (d *Definition) LocationIDs() []world.ID {
	return slices.Sorted(maps.Keys(d.Locations))
}
