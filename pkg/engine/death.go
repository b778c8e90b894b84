package engine

const textYouDied = "****  You have died  ****"

// die applies a death: the counter goes up by one, pending questions and
// any vehicle are dropped, the player is healed and moved to the safe
// location. Score and inventory stay unless the story's OnDeath changes them.
func (e *Engine) die(g *Game, message string) string {
	s := g.State
	s.Deaths++
	s.Pending = nil
	s.Vehicle = ""
	if s.Player != nil {
		if err := s.Player.Heal(); err != nil {
			e.logger.Error("Failed to heal player after death", "game_state_id", s.ID, "error", err)
		}
	}
	if e.def.OnDeath != nil {
		e.def.OnDeath(g)
	}
	g.death = nil

	g.World.Location(e.def.SafeLocation)
	s.Location = e.def.SafeLocation
	return joinLines(message, "\n"+textYouDied, "\n"+e.arrive(g))
}
