package actor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/jwebster45206/d20"
)

// PlayerSpec is the serializable part of the player. HP is the value the
// d20 actor is built with; while the game runs the actor owns it, and it is
// copied back here whenever the player is encoded.
type PlayerSpec struct {
	HP         int            `json:"hp"`
	MaxHP      int            `json:"max_hp"`
	AC         int            `json:"ac"`
	Attributes map[string]int `json:"attributes,omitempty"`
}

// Player is the runtime player: the spec plus a d20.Actor rebuilt from it.
// Hit points live on the actor.
type Player struct {
	Spec  PlayerSpec `json:"spec"`
	Actor *d20.Actor `json:"-"`
}

// DefaultPlayerSpec is used when a story does not supply one.
func DefaultPlayerSpec() PlayerSpec {
	return PlayerSpec{
		HP:    10,
		MaxHP: 10,
		AC:    10,
		Attributes: map[string]int{
			"strength":     10,
			"constitution": 10,
		},
	}
}

// NewPlayer builds a player at full health from spec.
func NewPlayer(spec PlayerSpec) (*Player, error) {
	if spec.MaxHP <= 0 {
		return nil, fmt.Errorf("max hp must be positive, got %d", spec.MaxHP)
	}
	if spec.HP <= 0 || spec.HP > spec.MaxHP {
		spec.HP = spec.MaxHP
	}
	p := &Player{Spec: spec}
	if err := p.Rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

// Rebuild constructs the d20 actor from the spec, e.g. after decoding a save.
func (p *Player) Rebuild() error {
	a, err := d20.NewActor("player").
		WithHP(p.Spec.MaxHP).
		WithAC(p.Spec.AC).
		WithAttributes(p.Spec.Attributes).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build player actor: %w", err)
	}
	if p.Spec.HP >= 0 && p.Spec.HP < p.Spec.MaxHP {
		if err := a.SetHP(p.Spec.HP); err != nil {
			return fmt.Errorf("failed to set HP: %w", err)
		}
	}
	p.Actor = a
	return nil
}

// MarshalJSON writes the spec with the actor's current hit points.
func (p *Player) MarshalJSON() ([]byte, error) {
	spec := p.Spec
	if p.Actor != nil {
		spec.HP = p.Actor.HP()
	}
	return json.Marshal(struct {
		Spec PlayerSpec `json:"spec"`
	}{Spec: spec})
}

var errNoActor = errors.New("player actor is not built")

// HP returns current hit points.
func (p *Player) HP() int {
	if p.Actor == nil {
		return p.Spec.HP
	}
	return p.Actor.HP()
}

// MaxHP returns the hit point ceiling.
func (p *Player) MaxHP() int {
	if p.Actor == nil {
		return p.Spec.MaxHP
	}
	return p.Actor.MaxHP()
}

// Alive reports whether the player has hit points left.
func (p *Player) Alive() bool {
	return p.HP() > 0
}

// Wound subtracts damage and reports whether the player died.
func (p *Player) Wound(damage int) (bool, error) {
	if damage <= 0 {
		return false, nil
	}
	if p.Actor == nil {
		return false, errNoActor
	}
	p.Actor.SubHP(damage)
	return p.Actor.IsKnockedOut(), nil
}

// Recover gives back up to amount hit points, never past the maximum.
func (p *Player) Recover(amount int) error {
	if p.Actor == nil {
		return errNoActor
	}
	if amount > 0 {
		p.Actor.AddHP(amount)
	}
	return nil
}

// Heal restores the player to full health.
func (p *Player) Heal() error {
	if p.Actor == nil {
		p.Spec.HP = p.Spec.MaxHP
		return p.Rebuild()
	}
	p.Actor.ResetHP()
	return nil
}

// Attribute returns a d20 attribute such as "strength".
func (p *Player) Attribute(key string) (int, bool) {
	if p.Actor == nil {
		return 0, false
	}
	return p.Actor.Attribute(key)
}

// Modifier is the usual d20 ability modifier for an attribute. A missing
// attribute counts as average.
func (p *Player) Modifier(key string) int {
	v, ok := p.Attribute(key)
	if !ok {
		return 0
	}
	return int(math.Floor(float64(v-10) / 2))
}

// Condition describes the player's health for "diagnose".
func (p *Player) Condition() string {
	hp, maxHP := p.HP(), p.MaxHP()
	switch {
	case hp >= maxHP:
		return "You are in perfect health."
	case hp*3 >= maxHP*2:
		return "You have a light wound."
	case hp*3 >= maxHP:
		return "You have a serious wound."
	default:
		return "You have several wounds and are barely standing."
	}
}
