package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// testStory is a six-room story exercising every engine feature.
func testStory() *Definition {
	return &Definition{
		Name:         "test",
		Intro:        "Welcome to the test.",
		Start:        "yard",
		SafeLocation: "yard",
		CarryLimit:   12,
		MaxScore:     10,
		Ranks: []Rank{
			{Min: 0, Title: "Beginner"},
			{Min: 2, Title: "Novice"},
		},
		Locations: map[world.ID]*LocationDef{
			"yard": {
				Name:        "yard",
				Description: "A small yard.",
				Items:       []world.ID{"mailbox", "rock"},
				Exits: map[string]Exit{
					"north": {To: "hall", Guard: func(g *Game) bool { return g.State.Flag("door_open") }},
					"east":  {To: "shed", Guard: func(*Game) bool { return false }, FailText: "The shed is padlocked."},
					"down":  {To: "cellar", WeightLimit: 5, WeightLimitText: "You can't fit through with that load."},
					"west":  {To: "garden"},
				},
				OnLeave: func(*Game) string { return "You leave the yard." },
			},
			"hall": {
				Name:        "hall",
				Description: "A drafty hall.",
				Items:       []world.ID{"brass-lantern", "broken-lantern"},
				Exits:       map[string]Exit{"south": {To: "yard"}},
				BeforeEnter: func(*Game) string { return "You push through the door." },
				AfterEnter:  func(*Game) string { return "A draft follows you in." },
			},
			"cellar": {
				Name:        "cellar",
				Dark:        true,
				Description: "A damp cellar.",
				Exits:       map[string]Exit{"up": {To: "yard"}},
			},
			"garden": {
				Name:        "garden",
				Description: "An overgrown garden.",
				Items:       []world.ID{"apple", "mushroom", "crate"},
				Exits:       map[string]Exit{"east": {To: "yard"}, "north": {To: "barn"}},
				Respond: func(g *Game, in intent.Simple) (Result, bool) {
					if in.Verb != "jump" {
						return nil, false
					}
					g.Die("You trip and fall.")
					return Positive{Message: "You jump."}, true
				},
			},
			"shed": {Name: "shed", Description: "A shed."},
			"barn": {
				Name:        "barn",
				Description: "A leaning barn.",
				Items:       []world.ID{"scarecrow", "stick", "pitchfork", "cloak"},
				Exits:       map[string]Exit{"south": {To: "garden"}},
			},
		},
		Items: map[world.ID]func() *world.Item{
			"mailbox": func() *world.Item {
				return &world.Item{
					Name:           "mailbox",
					Nouns:          []string{"mailbox", "box"},
					Size:           50,
					CannotTakeText: "It is securely anchored.",
					Examinable:     &world.Examinable{},
					Openable:       &world.Openable{},
					Container:      &world.Container{Capacity: 10, Contents: []world.ID{"leaflet"}},
				}
			},
			"leaflet": func() *world.Item {
				return &world.Item{
					Name:       "leaflet",
					Nouns:      []string{"leaflet", "paper"},
					Size:       2,
					Examinable: &world.Examinable{Text: "A glossy leaflet."},
					Takeable:   &world.Takeable{Points: 2},
					Readable:   &world.Readable{Text: "WELCOME TO THE TEST!"},
				}
			},
			"rock": func() *world.Item {
				return &world.Item{
					Name:       "rock",
					Nouns:      []string{"rock", "stone"},
					Size:       9,
					Examinable: &world.Examinable{},
					Takeable:   &world.Takeable{},
				}
			},
			"brass-lantern": func() *world.Item {
				return &world.Item{
					Name:         "brass lantern",
					Nouns:        []string{"lantern", "lamp", "brass lantern"},
					GenericNouns: []string{"lantern"},
					Size:         3,
					Examinable:   &world.Examinable{},
					Takeable:     &world.Takeable{},
					Toggleable:   &world.Toggleable{LightSource: true},
				}
			},
			"broken-lantern": func() *world.Item {
				return &world.Item{
					Name:         "broken lantern",
					Nouns:        []string{"lantern", "broken lantern"},
					GenericNouns: []string{"lantern"},
					Size:         3,
					Examinable:   &world.Examinable{},
					Takeable:     &world.Takeable{},
				}
			},
			"apple": func() *world.Item {
				return &world.Item{
					Name:     "apple",
					Nouns:    []string{"apple"},
					Size:     1,
					Takeable: &world.Takeable{},
					Edible:   &world.Edible{Text: "Crunchy."},
				}
			},
			"crate": func() *world.Item {
				return &world.Item{
					Name:       "crate",
					Nouns:      []string{"crate", "box"},
					Size:       40,
					Examinable: &world.Examinable{},
					Vehicle:    &world.Vehicle{},
				}
			},
			"scarecrow": func() *world.Item {
				return &world.Item{
					Name:       "scarecrow",
					Nouns:      []string{"scarecrow"},
					Size:       20,
					Examinable: &world.Examinable{},
					Combatant:  &world.Combatant{HP: 5, DefeatFlag: "scarecrow_down", Points: 3},
					Recipient:  &world.Recipient{Accepts: []world.ID{"apple"}, AcceptFlag: "scarecrow_fed", Points: 1},
				}
			},
			"stick": func() *world.Item {
				return &world.Item{
					Name:     "stick",
					Nouns:    []string{"stick"},
					Size:     1,
					Takeable: &world.Takeable{},
					Weapon:   &world.Weapon{Damage: 2},
				}
			},
			"pitchfork": func() *world.Item {
				return &world.Item{
					Name:     "pitchfork",
					Nouns:    []string{"pitchfork", "fork"},
					Size:     2,
					Takeable: &world.Takeable{},
					Weapon:   &world.Weapon{Damage: 6},
				}
			},
			"cloak": func() *world.Item {
				return &world.Item{
					Name:     "cloak",
					Nouns:    []string{"cloak"},
					Size:     1,
					Takeable: &world.Takeable{},
					Wearable: &world.Wearable{},
				}
			},
			"mushroom": func() *world.Item {
				return &world.Item{
					Name:     "mushroom",
					Nouns:    []string{"mushroom"},
					Size:     1,
					Takeable: &world.Takeable{},
					Edible:   &world.Edible{Fatal: "It was poisonous."},
				}
			},
		},
		Actors: map[string]ActorFunc{
			"a": func(*Game) string { return "Actor A ticks." },
			"b": func(*Game) string { return "Actor B ticks." },
			"counter": func(g *Game) string {
				if g.State.IncVar("counter", 1) >= 2 {
					g.DeregisterActor("counter")
					return "The counter expires."
				}
				return ""
			},
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEngine(opts ...Option) *Engine {
	return New(testStory(), append([]Option{WithLogger(quietLogger())}, opts...)...)
}

// play submits each input in order and returns the last result.
func play(e *Engine, g *Game, inputs ...string) TurnResult {
	var res TurnResult
	for _, in := range inputs {
		res = e.Submit(context.Background(), g, in)
	}
	return res
}

type memorySlots struct {
	mu    sync.Mutex
	blobs map[uuid.UUID][]byte
	err   error
}

func newMemorySlots() *memorySlots {
	return &memorySlots{blobs: make(map[uuid.UUID][]byte)}
}

func (m *memorySlots) PutSave(_ context.Context, id uuid.UUID, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.blobs[id] = blob
	return nil
}

func (m *memorySlots) GetSave(_ context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.blobs[id], nil
}

var errSlotsDown = errors.New("slots unavailable")
