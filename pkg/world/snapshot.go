package world

import (
	"fmt"
	"slices"
)

// ItemState is the mutable part of an item. Everything else is rebuilt from the story.
type ItemState struct {
	Owner        Owner `json:"owner"`
	EverPickedUp bool  `json:"ever_picked_up,omitempty"`
	Hidden       bool  `json:"hidden,omitempty"`
	Placed       bool  `json:"placed,omitempty"`
	Open         *bool `json:"open,omitempty"`
	Locked       *bool `json:"locked,omitempty"`
	On           *bool `json:"on,omitempty"`
	Worn         *bool `json:"worn,omitempty"`
	HP           *int  `json:"hp,omitempty"`
	Contents     []ID  `json:"contents,omitempty"`
}

// LocationState is the mutable part of a location.
type LocationState struct {
	Visited bool `json:"visited,omitempty"`
	Dark    bool `json:"dark,omitempty"`
	Items   []ID `json:"items,omitempty"`
}

// Snapshot captures every constructed record's mutable fields.
type Snapshot struct {
	Items     map[ID]ItemState     `json:"items"`
	Locations map[ID]LocationState `json:"locations"`
	Inventory []ID                 `json:"inventory,omitempty"`
}

// Snapshot copies the mutable state of the world.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Items:     make(map[ID]ItemState, len(w.Items)),
		Locations: make(map[ID]LocationState, len(w.Locations)),
		Inventory: slices.Clone(w.Inventory),
	}
	for id, it := range w.Items {
		st := ItemState{
			Owner:        it.Owner,
			EverPickedUp: it.EverPickedUp,
			Hidden:       it.Hidden,
			Placed:       it.Placed,
		}
		if it.Openable != nil {
			st.Open = boolPtr(it.Openable.Open)
			st.Locked = boolPtr(it.Openable.Locked)
		}
		if it.Toggleable != nil {
			st.On = boolPtr(it.Toggleable.On)
		}
		if it.Wearable != nil {
			st.Worn = boolPtr(it.Wearable.Worn)
		}
		if it.Combatant != nil {
			hp := it.Combatant.HP
			st.HP = &hp
		}
		if it.Container != nil {
			st.Contents = slices.Clone(it.Container.Contents)
		}
		s.Items[id] = st
	}
	for id, loc := range w.Locations {
		s.Locations[id] = LocationState{
			Visited: loc.Visited,
			Dark:    loc.Dark,
			Items:   slices.Clone(loc.Items),
		}
	}
	return s
}

// Restore replaces the world's records with fresh ones from the factory and
// overlays the snapshot onto them. The result is checked with Verify.
func (w *World) Restore(s Snapshot) error {
	items := make(map[ID]*Item, len(s.Items))
	for id, st := range s.Items {
		it, ok := w.factory.NewItem(id)
		if !ok {
			return fmt.Errorf("snapshot references unknown item %q", id)
		}
		it.ID = id
		it.Owner = st.Owner
		it.EverPickedUp = st.EverPickedUp
		it.Hidden = st.Hidden
		it.Placed = st.Placed || st.Owner != Nowhere
		if it.Openable != nil && st.Open != nil {
			it.Openable.Open = *st.Open
			it.Openable.Locked = st.Locked != nil && *st.Locked
		}
		if it.Toggleable != nil && st.On != nil {
			it.Toggleable.On = *st.On
		}
		if it.Wearable != nil && st.Worn != nil {
			it.Wearable.Worn = *st.Worn
		}
		if it.Combatant != nil && st.HP != nil {
			it.Combatant.HP = *st.HP
		}
		if it.Container != nil {
			it.Container.Contents = slices.Clone(st.Contents)
		} else if len(st.Contents) > 0 {
			return fmt.Errorf("snapshot puts items inside non-container %q", id)
		}
		items[id] = it
	}

	locations := make(map[ID]*Location, len(s.Locations))
	for id, st := range s.Locations {
		loc, _, ok := w.factory.NewLocation(id)
		if !ok {
			return fmt.Errorf("snapshot references unknown location %q", id)
		}
		loc.ID = id
		loc.Visited = st.Visited
		loc.Dark = st.Dark
		loc.Items = slices.Clone(st.Items)
		locations[id] = loc
	}

	restored := &World{
		Items:     items,
		Locations: locations,
		Inventory: slices.Clone(s.Inventory),
		factory:   w.factory,
	}
	if err := restored.Verify(); err != nil {
		return fmt.Errorf("restored world is inconsistent: %w", err)
	}
	*w = *restored
	return nil
}

func boolPtr(b bool) *bool { return &b }
