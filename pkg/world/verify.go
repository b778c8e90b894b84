package world

import (
	"errors"
	"fmt"
)

// Verify checks the ownership invariants over every constructed record:
// each item's owner lists it exactly once, every listed child points back at
// its owner, no item is held twice, containment has no cycles, no container
// holds more than its capacity, and worn items sit in the inventory. It never
// constructs new records.
func (w *World) Verify() error {
	var errs []error
	holders := make(map[ID]Owner)

	claim := func(owner Owner, children []ID) {
		for _, id := range children {
			it, ok := w.Items[id]
			if !ok {
				errs = append(errs, fmt.Errorf("%s lists unknown item %q", owner, id))
				continue
			}
			if prev, dup := holders[id]; dup {
				errs = append(errs, fmt.Errorf("item %q is held by both %s and %s", id, prev, owner))
				continue
			}
			holders[id] = owner
			if it.Owner != owner {
				errs = append(errs, fmt.Errorf("%s lists item %q but its owner is %s", owner, id, it.Owner))
			}
		}
	}

	for _, id := range w.LocationIDs() {
		claim(InLocation(id), w.Locations[id].Items)
	}
	claim(Inventory, w.Inventory)
	for _, id := range w.ItemIDs() {
		it := w.Items[id]
		if it.Container == nil {
			continue
		}
		claim(InItem(id), it.Container.Contents)
		used := 0
		for _, child := range it.Container.Contents {
			if c, ok := w.Items[child]; ok {
				used += c.Size
			}
		}
		if used > it.Container.Capacity {
			errs = append(errs, fmt.Errorf("container %q holds %d, capacity %d", id, used, it.Container.Capacity))
		}
	}

	for _, id := range w.ItemIDs() {
		it := w.Items[id]
		if it.IsWorn() && it.Owner != Inventory {
			errs = append(errs, fmt.Errorf("item %q is worn but not carried", id))
		}
		if it.Owner.Kind == OwnerNone {
			continue
		}
		if _, ok := holders[id]; !ok {
			errs = append(errs, fmt.Errorf("item %q claims owner %s which does not list it", id, it.Owner))
		}
		if it.Owner.Kind == OwnerLocation {
			if _, ok := w.Locations[it.Owner.ID]; !ok {
				errs = append(errs, fmt.Errorf("item %q owned by unknown location %q", id, it.Owner.ID))
			}
		}
		if cyclic(w, id) {
			errs = append(errs, fmt.Errorf("item %q is inside itself", id))
		}
	}

	return errors.Join(errs...)
}

func cyclic(w *World, id ID) bool {
	seen := map[ID]bool{id: true}
	owner := w.Items[id].Owner
	for owner.Kind == OwnerItem {
		if seen[owner.ID] {
			return true
		}
		seen[owner.ID] = true
		parent, ok := w.Items[owner.ID]
		if !ok {
			return false
		}
		owner = parent.Owner
	}
	return false
}
