package engine

import (
	"fmt"
	"slices"
)

// runActors invokes every registered actor in registration order and returns
// their non-empty narration. An actor registered during this pass first runs
// next turn; one deregistered before its turn in the pass does not run. A
// death ends the pass.
func (e *Engine) runActors(g *Game) []string {
	var out []string
	for _, id := range slices.Clone(g.State.Actors) {
		if !g.State.HasActor(id) {
			continue
		}
		act, ok := e.def.Actors[id]
		if !ok {
			panic(fmt.Sprintf("engine: actor %q has no behaviour in story %q", id, e.def.Name))
		}
		if text := act(g); text != "" {
			out = append(out, text)
		}
		if msg, dying := g.takeDeath(); dying {
			out = append(out, e.die(g, msg))
			break
		}
	}
	return out
}
