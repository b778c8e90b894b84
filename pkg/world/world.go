// Package world is the per-session arena of locations and items.
//
// Every item has exactly one owner: a location, another item, the player's
// inventory or nothing (destroyed). Ownership is stored on both sides by id,
// and every mutation goes through Move so the two sides never disagree.
package world

import (
	"fmt"
	"maps"
	"slices"
)

// ID identifies a location or item within a story.
type ID string

// OwnerKind says what kind of thing owns an item.
type OwnerKind string

const (
	OwnerNone      OwnerKind = ""
	OwnerLocation  OwnerKind = "location"
	OwnerItem      OwnerKind = "item"
	OwnerInventory OwnerKind = "inventory"
)

// Owner is the single container an item currently sits in.
type Owner struct {
	Kind OwnerKind `json:"kind,omitempty"`
	ID   ID        `json:"id,omitempty"`
}

// InLocation returns an owner for a location.
func InLocation(id ID) Owner { return Owner{Kind: OwnerLocation, ID: id} }

// InItem returns an owner for a container item.
func InItem(id ID) Owner { return Owner{Kind: OwnerItem, ID: id} }

// Inventory is the player's inventory owner.
var Inventory = Owner{Kind: OwnerInventory}

// Nowhere is the owner of destroyed or not-yet-placed items.
var Nowhere = Owner{}

func (o Owner) String() string {
	switch o.Kind {
	case OwnerNone:
		return "nowhere"
	case OwnerInventory:
		return "inventory"
	default:
		return string(o.Kind) + ":" + string(o.ID)
	}
}

// Factory builds fresh location and item records for a story. Construction
// must be deterministic: the same id always yields the same starting record.
type Factory interface {
	// NewLocation returns the starting record and the ids of the items that start there.
	NewLocation(id ID) (*Location, []ID, bool)
	NewItem(id ID) (*Item, bool)
}

// World holds the mutable records of one session.
type World struct {
	Items     map[ID]*Item     `json:"items"`
	Locations map[ID]*Location `json:"locations"`
	Inventory []ID             `json:"inventory"`

	factory Factory
}

// New returns an empty world that constructs records on demand from f.
func New(f Factory) *World {
	return &World{
		Items:     make(map[ID]*Item),
		Locations: make(map[ID]*Location),
		factory:   f,
	}
}

// Location returns the location with id, constructing it and its starting
// items on first access. A starting item that was already built through Item
// but never placed anywhere is claimed here. An id the story does not define
// is a wiring bug.
func (w *World) Location(id ID) *Location {
	if loc, ok := w.Locations[id]; ok {
		return loc
	}
	loc, items, ok := w.factory.NewLocation(id)
	if !ok {
		panic(fmt.Sprintf("world: unknown location %q", id))
	}
	loc.ID = id
	loc.Items = nil
	w.Locations[id] = loc
	for _, itemID := range items {
		if w.placed(itemID) {
			continue
		}
		w.Move(itemID, InLocation(id))
	}
	return loc
}

// HasLocation reports whether the location has been constructed.
func (w *World) HasLocation(id ID) bool {
	_, ok := w.Locations[id]
	return ok
}

// Item returns the item with id, constructing it on first access. A freshly
// built container gets its starting contents placed inside it.
func (w *World) Item(id ID) *Item {
	if it, ok := w.Items[id]; ok {
		return it
	}
	it, ok := w.factory.NewItem(id)
	if !ok {
		panic(fmt.Sprintf("world: unknown item %q", id))
	}
	it.ID = id
	it.Owner = Nowhere
	var contents []ID
	if it.Container != nil {
		contents = it.Container.Contents
		it.Container.Contents = nil
	}
	w.Items[id] = it
	for _, child := range contents {
		if w.placed(child) {
			continue
		}
		w.Move(child, InItem(id))
	}
	return it
}

// placed reports whether the item exists and has been moved at least once.
// Destroyed items count as placed so a late-built home never revives them.
func (w *World) placed(id ID) bool {
	it, ok := w.Items[id]
	return ok && it.Placed
}

// Children returns the ids held directly by owner.
func (w *World) Children(owner Owner) []ID {
	switch owner.Kind {
	case OwnerLocation:
		return w.Location(owner.ID).Items
	case OwnerItem:
		it := w.Item(owner.ID)
		if it.Container == nil {
			return nil
		}
		return it.Container.Contents
	case OwnerInventory:
		return w.Inventory
	}
	return nil
}

// Fits reports whether item can be placed into the container item without exceeding its capacity.
func (w *World) Fits(itemID, containerID ID) bool {
	c := w.Item(containerID)
	if c.Container == nil {
		return false
	}
	total := w.Item(itemID).Size
	for _, child := range c.Container.Contents {
		if child == itemID {
			return true
		}
		total += w.Item(child).Size
	}
	return total <= c.Container.Capacity
}

// Contains reports whether ancestor holds id, directly or through nested containers.
func (w *World) Contains(ancestor, id ID) bool {
	owner := w.Item(id).Owner
	for owner.Kind == OwnerItem {
		if owner.ID == ancestor {
			return true
		}
		owner = w.Item(owner.ID).Owner
	}
	return false
}

// Move detaches item from its current owner and attaches it to to. Moving
// into an item that is not a container, or into itself, panics. Capacity is
// the caller's concern; see Fits.
func (w *World) Move(itemID ID, to Owner) {
	it := w.Item(itemID)
	if to.Kind == OwnerItem {
		target := w.Item(to.ID)
		if target.Container == nil {
			panic(fmt.Sprintf("world: %q is not a container", to.ID))
		}
		if to.ID == itemID || w.Contains(itemID, to.ID) {
			panic(fmt.Sprintf("world: cannot place %q inside itself", itemID))
		}
	}

	w.detach(it)
	it.Owner = to
	it.Placed = true
	if it.Wearable != nil && to != Inventory {
		it.Wearable.Worn = false
	}
	switch to.Kind {
	case OwnerLocation:
		loc := w.Location(to.ID)
		loc.Items = append(loc.Items, itemID)
	case OwnerItem:
		c := w.Item(to.ID).Container
		c.Contents = append(c.Contents, itemID)
	case OwnerInventory:
		w.Inventory = append(w.Inventory, itemID)
	}
}

// Remove takes the item out of the world entirely.
func (w *World) Remove(itemID ID) {
	w.Move(itemID, Nowhere)
}

func (w *World) detach(it *Item) {
	switch it.Owner.Kind {
	case OwnerLocation:
		loc := w.Location(it.Owner.ID)
		loc.Items = without(loc.Items, it.ID)
	case OwnerItem:
		c := w.Item(it.Owner.ID).Container
		c.Contents = without(c.Contents, it.ID)
	case OwnerInventory:
		w.Inventory = without(w.Inventory, it.ID)
	}
	it.Owner = Nowhere
}

func without(ids []ID, id ID) []ID {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}

// Carrying reports whether the item is in the inventory, at any depth.
func (w *World) Carrying(itemID ID) bool {
	owner := w.Item(itemID).Owner
	for owner.Kind == OwnerItem {
		owner = w.Item(owner.ID).Owner
	}
	return owner.Kind == OwnerInventory
}

// CarryWeight is the total size of everything in the inventory, nested contents included.
func (w *World) CarryWeight() int {
	total := 0
	for _, id := range w.Inventory {
		total += w.Weight(id)
	}
	return total
}

// Weight is the size of an item plus everything inside it.
func (w *World) Weight(id ID) int {
	it := w.Item(id)
	total := it.Size
	if it.Container != nil {
		for _, child := range it.Container.Contents {
			total += w.Weight(child)
		}
	}
	return total
}

// Visible returns the items the player can currently refer to at loc: the
// location's items, the inventory, and the contents of every open or
// transparent container reachable from either. Hidden items are skipped.
// Order is location first, then inventory, each depth-first.
func (w *World) Visible(loc ID) []*Item {
	var out []*Item
	seen := make(map[ID]bool)
	var walk func(ids []ID)
	walk = func(ids []ID) {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			it := w.Item(id)
			if it.Hidden {
				continue
			}
			out = append(out, it)
			if it.Container != nil && it.IsOpen() {
				walk(it.Container.Contents)
			}
		}
	}
	walk(w.Location(loc).Items)
	walk(w.Inventory)
	return out
}

// LightAvailable reports whether a lit light source is visible at loc.
func (w *World) LightAvailable(loc ID) bool {
	for _, it := range w.Visible(loc) {
		if it.IsLit() {
			return true
		}
	}
	return false
}

// IsDark reports whether loc is dark and nothing lights it.
func (w *World) IsDark(loc ID) bool {
	return w.Location(loc).Dark && !w.LightAvailable(loc)
}

// ItemIDs returns the ids of all constructed items in sorted order.
func (w *World) ItemIDs() []ID {
	return slices.Sorted(maps.Keys(w.Items))
}

// LocationIDs returns the ids of all constructed locations in sorted order.
func (w *World) LocationIDs() []ID {
	return slices.Sorted(maps.Keys(w.Locations))
}
