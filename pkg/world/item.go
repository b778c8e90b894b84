package world

import (
	"slices"
	"strings"
)

// Item is a plain record. What a player can do with it is decided by which
// capability pointers are non-nil.
type Item struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`

	// Nouns match the item during discovery. GenericNouns is the subset that
	// does not count as a precise reference when choosing between candidates.
	Nouns        []string `json:"nouns"`
	GenericNouns []string `json:"generic_nouns,omitempty"`

	Size int `json:"size"`

	// Description is the room-listing line; InitialDescription replaces it
	// until the item has been picked up once.
	Description        string `json:"description,omitempty"`
	InitialDescription string `json:"initial_description,omitempty"`
	CannotTakeText     string `json:"cannot_take_text,omitempty"`

	// Scenery items are described by their location's prose and never listed.
	Scenery bool `json:"scenery,omitempty"`

	Owner        Owner `json:"owner"`
	EverPickedUp bool  `json:"ever_picked_up,omitempty"`
	Hidden       bool  `json:"hidden,omitempty"`

	// Placed is set by the first Move. An unplaced item is still waiting for
	// its starting owner to be built.
	Placed bool `json:"placed,omitempty"`

	Examinable *Examinable `json:"examinable,omitempty"`
	Takeable   *Takeable   `json:"takeable,omitempty"`
	Readable   *Readable   `json:"readable,omitempty"`
	Openable   *Openable   `json:"openable,omitempty"`
	Toggleable *Toggleable `json:"toggleable,omitempty"`
	Edible     *Edible     `json:"edible,omitempty"`
	Container  *Container  `json:"container,omitempty"`
	Vehicle    *Vehicle    `json:"vehicle,omitempty"`
	Wearable   *Wearable   `json:"wearable,omitempty"`
	Weapon     *Weapon     `json:"weapon,omitempty"`
	Combatant  *Combatant  `json:"combatant,omitempty"`
	Recipient  *Recipient  `json:"recipient,omitempty"`
}

// Examinable items answer "examine".
type Examinable struct {
	Text string `json:"text,omitempty"`
}

// Takeable items can move between locations and the inventory.
type Takeable struct {
	// Points are awarded the first time the item is picked up.
	Points int `json:"points,omitempty"`
}

// Readable items carry printed text.
type Readable struct {
	Text string `json:"text"`
}

// Openable items have an open/closed state and an optional lock.
type Openable struct {
	Open       bool   `json:"open"`
	Locked     bool   `json:"locked,omitempty"`
	LockedText string `json:"locked_text,omitempty"`
	OpenText   string `json:"open_text,omitempty"`
	CloseText  string `json:"close_text,omitempty"`
}

// Toggleable items can be switched on and off. Light sources light up dark locations while on.
type Toggleable struct {
	On          bool   `json:"on"`
	LightSource bool   `json:"light_source,omitempty"`
	OnText      string `json:"on_text,omitempty"`
	OffText     string `json:"off_text,omitempty"`
}

// Edible items are consumed by eating or drinking them.
type Edible struct {
	Drink bool   `json:"drink,omitempty"`
	Text  string `json:"text,omitempty"`
	// Fatal, when set, is the death narration for consuming the item.
	Fatal string `json:"fatal,omitempty"`
}

// Container items hold other items. Contents are visible while the item is
// open, or always when Transparent. Surface containers take items "on" rather than "in".
type Container struct {
	Capacity    int  `json:"capacity"`
	Transparent bool `json:"transparent,omitempty"`
	Surface     bool `json:"surface,omitempty"`
	Contents    []ID `json:"contents,omitempty"`
}

// Vehicle items can be entered as a sub-location.
type Vehicle struct {
	EnterText string `json:"enter_text,omitempty"`
	ExitText  string `json:"exit_text,omitempty"`
}

// Wearable items can be worn while carried. Leaving the inventory takes them off.
type Wearable struct {
	Worn       bool   `json:"worn"`
	WearText   string `json:"wear_text,omitempty"`
	RemoveText string `json:"remove_text,omitempty"`
}

// Weapon items can hurt a Combatant.
type Weapon struct {
	Damage int `json:"damage"`
}

// Combatant items can be attacked. One whose HP reaches zero is removed from the world.
type Combatant struct {
	HP int `json:"hp"`
	// Weapons, when set, are the only weapons that hurt it.
	Weapons         []ID   `json:"weapons,omitempty"`
	HitText         string `json:"hit_text,omitempty"`
	DefeatText      string `json:"defeat_text,omitempty"`
	WrongWeaponText string `json:"wrong_weapon_text,omitempty"`
	BareHandsText   string `json:"bare_hands_text,omitempty"`
	// DefeatFlag names a game flag raised when it falls.
	DefeatFlag string `json:"defeat_flag,omitempty"`
	Points     int    `json:"points,omitempty"`
}

// HurtBy reports whether weapon can damage the combatant.
func (c *Combatant) HurtBy(weapon *Item) bool {
	if weapon.Weapon == nil {
		return false
	}
	return len(c.Weapons) == 0 || slices.Contains(c.Weapons, weapon.ID)
}

// Recipient items accept gifts. An accepted gift leaves the world.
type Recipient struct {
	// Accepts lists the items it takes. An empty list takes anything.
	Accepts    []ID   `json:"accepts,omitempty"`
	AcceptText string `json:"accept_text,omitempty"`
	RefuseText string `json:"refuse_text,omitempty"`
	// AcceptFlag names a game flag raised by every accepted gift.
	AcceptFlag string `json:"accept_flag,omitempty"`
	Points     int    `json:"points,omitempty"`
}

// Wants reports whether the recipient takes gift.
func (r *Recipient) Wants(gift ID) bool {
	return len(r.Accepts) == 0 || slices.Contains(r.Accepts, gift)
}

// MatchesNoun reports whether noun refers to the item at all.
func (it *Item) MatchesNoun(noun string) bool {
	noun = strings.ToLower(strings.TrimSpace(noun))
	if noun == "" {
		return false
	}
	return noun == strings.ToLower(it.Name) || slices.Contains(it.Nouns, noun)
}

// MatchesPrecisely reports whether noun refers to the item without being one of its generic nouns.
func (it *Item) MatchesPrecisely(noun string) bool {
	noun = strings.ToLower(strings.TrimSpace(noun))
	return it.MatchesNoun(noun) && !slices.Contains(it.GenericNouns, noun)
}

// IsOpen reports whether the item's contents can currently be reached.
func (it *Item) IsOpen() bool {
	if it.Container == nil {
		return false
	}
	if it.Container.Transparent || it.Container.Surface {
		return true
	}
	return it.Openable == nil || it.Openable.Open
}

// IsClosed reports whether the item is openable and currently shut.
func (it *Item) IsClosed() bool {
	return it.Openable != nil && !it.Openable.Open
}

// IsWorn reports whether the item is wearable and currently worn.
func (it *Item) IsWorn() bool {
	return it.Wearable != nil && it.Wearable.Worn
}

// IsLit reports whether the item is a light source that is switched on.
func (it *Item) IsLit() bool {
	return it.Toggleable != nil && it.Toggleable.LightSource && it.Toggleable.On
}
