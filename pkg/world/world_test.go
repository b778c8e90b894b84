package world

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFactory struct {
	locations map[ID]func() (*Location, []ID)
	items     map[ID]func() *Item
	built     map[ID]int
}

func (f *testFactory) NewLocation(id ID) (*Location, []ID, bool) {
	fn, ok := f.locations[id]
	if !ok {
		return nil, nil, false
	}
	f.built[id]++
	loc, items := fn()
	return loc, items, true
}

func (f *testFactory) NewItem(id ID) (*Item, bool) {
	fn, ok := f.items[id]
	if !ok {
		return nil, false
	}
	return fn(), true
}

func newTestFactory() *testFactory {
	return &testFactory{
		built: make(map[ID]int),
		locations: map[ID]func() (*Location, []ID){
			"yard": func() (*Location, []ID) {
				return &Location{Name: "yard"}, []ID{"mailbox", "rock"}
			},
			"cellar": func() (*Location, []ID) {
				return &Location{Name: "cellar", Dark: true}, nil
			},
		},
		items: map[ID]func() *Item{
			"mailbox": func() *Item {
				return &Item{
					Name:      "mailbox",
					Nouns:     []string{"mailbox", "box"},
					Size:      50,
					Openable:  &Openable{},
					Container: &Container{Capacity: 10, Contents: []ID{"leaflet"}},
				}
			},
			"leaflet": func() *Item {
				return &Item{
					Name:     "leaflet",
					Nouns:    []string{"leaflet", "paper"},
					Size:     2,
					Takeable: &Takeable{},
					Readable: &Readable{Text: "WELCOME"},
				}
			},
			"rock": func() *Item {
				return &Item{Name: "rock", Nouns: []string{"rock"}, Size: 9, Takeable: &Takeable{}}
			},
			"jar": func() *Item {
				return &Item{
					Name:      "glass jar",
					Nouns:     []string{"jar"},
					Size:      3,
					Container: &Container{Capacity: 5, Transparent: true},
				}
			},
			"lamp": func() *Item {
				return &Item{Name: "lamp", Nouns: []string{"lamp"}, Size: 1, Toggleable: &Toggleable{LightSource: true}}
			},
			"cloak": func() *Item {
				return &Item{Name: "cloak", Nouns: []string{"cloak"}, Size: 1, Takeable: &Takeable{}, Wearable: &Wearable{}}
			},
			"goblin": func() *Item {
				return &Item{
					Name:      "goblin",
					Nouns:     []string{"goblin"},
					Combatant: &Combatant{HP: 6, Weapons: []ID{"rock"}},
					Recipient: &Recipient{Accepts: []ID{"leaflet"}},
				}
			},
		},
	}
}

func TestLocation_LazyAndMemoized(t *testing.T) {
	f := newTestFactory()
	w := New(f)

	assert.False(t, w.HasLocation("yard"))
	yard := w.Location("yard")
	again := w.Location("yard")

	assert.Same(t, yard, again)
	assert.Equal(t, 1, f.built["yard"])
	assert.Equal(t, []ID{"mailbox", "rock"}, yard.Items)
	assert.Equal(t, InItem("mailbox"), w.Item("leaflet").Owner)
	require.NoError(t, w.Verify())
}

func TestIDs_Sorted(t *testing.T) {
	w := New(newTestFactory())
	w.Location("yard")
	w.Location("cellar")

	assert.Equal(t, []ID{"cellar", "yard"}, w.LocationIDs())
	assert.Equal(t, []ID{"leaflet", "mailbox", "rock"}, w.ItemIDs())
}

func TestLocation_UnknownPanics(t *testing.T) {
	w := New(newTestFactory())
	assert.Panics(t, func() { w.Location("nowhere") })
	assert.Panics(t, func() { w.Item("ghost") })
}

func TestLocation_ClaimsItemsBuiltBeforeTheirHome(t *testing.T) {
	tests := []struct {
		name  string
		first func(w *World)
		want  Owner
	}{
		{
			name:  "item built alone",
			first: func(w *World) { w.Item("rock") },
			want:  InLocation("yard"),
		},
		{
			name:  "container content built alone",
			first: func(w *World) { w.Item("leaflet") },
			want:  InItem("mailbox"),
		},
		{
			name:  "destroyed item stays destroyed",
			first: func(w *World) { w.Remove("rock") },
			want:  Nowhere,
		},
		{
			name:  "item moved elsewhere stays there",
			first: func(w *World) { w.Move("rock", Inventory) },
			want:  Inventory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(newTestFactory())
			tt.first(w)

			loc := w.Location("yard")
			w.Item("mailbox")

			id := ID("rock")
			if tt.want.Kind == OwnerItem {
				id = "leaflet"
			}
			assert.Equal(t, tt.want, w.Item(id).Owner)
			assert.Equal(t, tt.want == InLocation("yard"), slices.Contains(loc.Items, id))
			require.NoError(t, w.Verify())
		})
	}
}

func TestSnapshot_KeepsUnplacedItemsClaimable(t *testing.T) {
	f := newTestFactory()
	w := New(f)
	w.Location("cellar")
	w.Item("rock")

	restored := New(f)
	require.NoError(t, restored.Restore(w.Snapshot()))
	assert.Contains(t, restored.Location("yard").Items, ID("rock"))
	require.NoError(t, restored.Verify())
}

func TestMove_KeepsBothSidesConsistent(t *testing.T) {
	w := New(newTestFactory())
	w.Location("yard")

	w.Move("leaflet", Inventory)
	assert.Equal(t, Inventory, w.Item("leaflet").Owner)
	assert.Empty(t, w.Item("mailbox").Container.Contents)
	assert.Equal(t, []ID{"leaflet"}, w.Inventory)
	require.NoError(t, w.Verify())

	w.Move("leaflet", InLocation("yard"))
	assert.Empty(t, w.Inventory)
	assert.Contains(t, w.Location("yard").Items, ID("leaflet"))
	require.NoError(t, w.Verify())

	w.Remove("leaflet")
	assert.Equal(t, Nowhere, w.Item("leaflet").Owner)
	assert.NotContains(t, w.Location("yard").Items, ID("leaflet"))
	require.NoError(t, w.Verify())
}

func TestMove_WiringBugsPanic(t *testing.T) {
	w := New(newTestFactory())
	w.Location("yard")

	assert.Panics(t, func() { w.Move("leaflet", InItem("rock")) }, "rock is not a container")
	assert.Panics(t, func() { w.Move("mailbox", InItem("mailbox")) }, "self containment")

	w.Move("jar", InItem("mailbox"))
	assert.Panics(t, func() { w.Move("mailbox", InItem("jar")) }, "cycle")
}

func TestFits(t *testing.T) {
	w := New(newTestFactory())
	w.Location("yard")

	tests := []struct {
		name      string
		item      ID
		container ID
		want      bool
	}{
		{"small item fits beside leaflet", "lamp", "mailbox", true},
		{"rock exceeds remaining capacity", "rock", "mailbox", false},
		{"already inside counts once", "leaflet", "mailbox", true},
		{"not a container", "leaflet", "rock", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Fits(tt.item, tt.container))
		})
	}
}

func TestVisible(t *testing.T) {
	w := New(newTestFactory())
	w.Location("yard")

	names := func() []string {
		var out []string
		for _, it := range w.Visible("yard") {
			out = append(out, it.Name)
		}
		return out
	}

	assert.Equal(t, []string{"mailbox", "rock"}, names(), "closed mailbox hides the leaflet")

	w.Item("mailbox").Openable.Open = true
	assert.Equal(t, []string{"mailbox", "leaflet", "rock"}, names())

	w.Move("jar", Inventory)
	w.Move("lamp", InItem("jar"))
	assert.Equal(t, []string{"mailbox", "leaflet", "rock", "glass jar", "lamp"}, names(), "transparent jar shows its contents")

	w.Item("rock").Hidden = true
	assert.NotContains(t, names(), "rock")
}

func TestCarryWeight(t *testing.T) {
	w := New(newTestFactory())
	w.Location("yard")
	w.Move("jar", Inventory)
	w.Move("lamp", InItem("jar"))
	w.Move("rock", Inventory)

	assert.Equal(t, 3+1+9, w.CarryWeight())
	assert.True(t, w.Carrying("lamp"))
	assert.False(t, w.Carrying("mailbox"))
}

func TestIsDark(t *testing.T) {
	w := New(newTestFactory())
	w.Location("cellar")
	assert.True(t, w.IsDark("cellar"))

	w.Move("lamp", Inventory)
	assert.True(t, w.IsDark("cellar"), "unlit lamp")

	w.Item("lamp").Toggleable.On = true
	assert.False(t, w.IsDark("cellar"))

	w.Move("lamp", InLocation("cellar"))
	assert.False(t, w.IsDark("cellar"), "lit lamp on the floor still lights the room")
}

func TestVerify_DetectsViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(w *World)
	}{
		{"owner mismatch", func(w *World) { w.Item("rock").Owner = Inventory }},
		{"duplicate listing", func(w *World) { w.Inventory = append(w.Inventory, "rock") }},
		{"dangling child", func(w *World) { w.Inventory = append(w.Inventory, "ghost") }},
		{"over capacity", func(w *World) { w.Item("mailbox").Container.Capacity = 1 }},
		{"worn on the floor", func(w *World) {
			w.Move("cloak", InLocation("yard"))
			w.Item("cloak").Wearable.Worn = true
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(newTestFactory())
			w.Location("yard")
			require.NoError(t, w.Verify())
			tt.mutate(w)
			assert.Error(t, w.Verify())
		})
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	f := newTestFactory()
	w := New(f)
	w.Location("yard")
	w.Location("cellar").Visited = true
	w.Item("mailbox").Openable.Open = true
	w.Move("leaflet", Inventory)
	w.Item("leaflet").EverPickedUp = true
	w.Move("lamp", Inventory)
	w.Item("lamp").Toggleable.On = true

	data, err := json.Marshal(w.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored := New(f)
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, w.Inventory, restored.Inventory)
	assert.True(t, restored.Item("mailbox").Openable.Open)
	assert.True(t, restored.Item("leaflet").EverPickedUp)
	assert.True(t, restored.Item("lamp").IsLit())
	assert.True(t, restored.Location("cellar").Visited)
	assert.Equal(t, w.Location("yard").Items, restored.Location("yard").Items)
	assert.Equal(t, "WELCOME", restored.Item("leaflet").Readable.Text, "static fields come from the story")
	assert.False(t, restored.IsDark("cellar"))
}

func TestMove_TakesOffWornItems(t *testing.T) {
	w := New(newTestFactory())
	w.Location("yard")
	w.Move("cloak", Inventory)
	w.Item("cloak").Wearable.Worn = true
	require.NoError(t, w.Verify())

	w.Move("cloak", Inventory)
	assert.True(t, w.Item("cloak").IsWorn(), "staying in the inventory keeps it on")

	w.Move("cloak", InLocation("yard"))
	assert.False(t, w.Item("cloak").IsWorn())
	require.NoError(t, w.Verify())
}

func TestCombatantAndRecipient(t *testing.T) {
	w := New(newTestFactory())
	w.Location("yard")
	goblin := w.Item("goblin")

	assert.True(t, goblin.Combatant.HurtBy(&Item{ID: "rock", Weapon: &Weapon{Damage: 2}}))
	assert.False(t, goblin.Combatant.HurtBy(&Item{ID: "stick", Weapon: &Weapon{Damage: 2}}), "not one of its weapons")
	assert.False(t, goblin.Combatant.HurtBy(w.Item("rock")), "rock has no weapon capability")
	assert.True(t, (&Combatant{}).HurtBy(&Item{ID: "stick", Weapon: &Weapon{}}), "no list means any weapon")

	assert.True(t, goblin.Recipient.Wants("leaflet"))
	assert.False(t, goblin.Recipient.Wants("rock"))
	assert.True(t, (&Recipient{}).Wants("rock"))
}

func TestSnapshot_WornAndWounded(t *testing.T) {
	f := newTestFactory()
	w := New(f)
	w.Location("yard")
	w.Move("cloak", Inventory)
	w.Item("cloak").Wearable.Worn = true
	w.Move("goblin", InLocation("yard"))
	w.Item("goblin").Combatant.HP = 2

	data, err := json.Marshal(w.Snapshot())
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored := New(f)
	require.NoError(t, restored.Restore(snap))
	assert.True(t, restored.Item("cloak").IsWorn())
	assert.Equal(t, 2, restored.Item("goblin").Combatant.HP)
	assert.Equal(t, []ID{"rock"}, restored.Item("goblin").Combatant.Weapons, "static fields come from the story")
}

func TestSnapshot_RestoreRejectsInconsistentState(t *testing.T) {
	f := newTestFactory()
	w := New(f)
	w.Location("yard")
	snap := w.Snapshot()
	snap.Inventory = append(snap.Inventory, "rock")

	restored := New(f)
	restored.Location("cellar")
	assert.Error(t, restored.Restore(snap))
	assert.True(t, restored.HasLocation("cellar"), "failed restore leaves the world untouched")

	snap = w.Snapshot()
	snap.Items["unknown"] = ItemState{}
	assert.Error(t, New(f).Restore(snap))
}

func TestItemMatching(t *testing.T) {
	it := &Item{Name: "brass lantern", Nouns: []string{"lantern", "lamp", "brass lantern"}, GenericNouns: []string{"lantern"}}

	assert.True(t, it.MatchesNoun("Lantern"))
	assert.True(t, it.MatchesNoun("brass lantern"))
	assert.False(t, it.MatchesNoun(""))
	assert.True(t, it.MatchesPrecisely("lamp"))
	assert.False(t, it.MatchesPrecisely("lantern"))
}
