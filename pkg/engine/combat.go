package engine

import (
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/intent"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

var attackPreps = []string{"with", "using"}

// processAttack handles "attack troll" by reaching for the first carried
// weapon the target fears. Without one the attempt is refused.
func processAttack(e *Engine, g *Game, in intent.Simple, it *world.Item) (Result, bool) {
	if it.Combatant == nil || !in.MatchVerb(attackVerbs) {
		return nil, false
	}
	for _, id := range g.World.Inventory {
		if weapon := g.Item(id); it.Combatant.HurtBy(weapon) {
			return Positive{Message: e.attack(g, it, weapon)}, true
		}
	}
	return Positive{Message: firstNonEmpty(it.Combatant.BareHandsText,
		fmt.Sprintf("Attacking the %s with your bare hands is suicidal.", it.Name))}, true
}

// processAttackWith handles "attack troll with sword".
func processAttackWith(e *Engine, g *Game, in intent.MultiNoun, target, weapon *world.Item) (Result, bool) {
	if target.Combatant == nil || !in.MatchVerb(attackVerbs) || !in.MatchPreposition(attackPreps) {
		return nil, false
	}
	if !target.Combatant.HurtBy(weapon) {
		return Positive{Message: firstNonEmpty(target.Combatant.WrongWeaponText,
			fmt.Sprintf("Attacking the %s with the %s would accomplish nothing.", target.Name, weapon.Name))}, true
	}
	if !g.World.Carrying(weapon.ID) {
		return Positive{Message: fmt.Sprintf("You don't have the %s.", weapon.Name)}, true
	}
	return Positive{Message: e.attack(g, target, weapon)}, true
}

// attack lands one blow. Damage is the weapon's plus the player's strength
// modifier, never less than one.
func (e *Engine) attack(g *Game, target, weapon *world.Item) string {
	c := target.Combatant
	damage := weapon.Weapon.Damage
	if g.State.Player != nil {
		damage += g.State.Player.Modifier("strength")
	}
	c.HP -= max(damage, 1)
	if c.HP > 0 {
		return firstNonEmpty(c.HitText, fmt.Sprintf("You hit the %s with the %s.", target.Name, weapon.Name))
	}

	c.HP = 0
	g.World.Remove(target.ID)
	if c.DefeatFlag != "" {
		g.State.SetFlag(c.DefeatFlag, true)
	}
	g.AddPoints(c.Points)
	return firstNonEmpty(c.DefeatText, fmt.Sprintf("The %s is defeated.", target.Name))
}
