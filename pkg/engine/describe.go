package engine

import (
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/textfilter"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

const (
	textPitchBlack = "It is pitch black. You are likely to be eaten by a grue."
	textTooDark    = "It's too dark to see!"
)

// arrive describes the current location according to the verbosity setting.
func (e *Engine) arrive(g *Game) string {
	loc := g.Location()
	switch g.State.Verbosity {
	case state.VerbositySuperbrief:
		return e.describe(g, false, false)
	case state.VerbosityVerbose:
		return e.describe(g, true, true)
	default:
		return e.describe(g, !loc.Visited, true)
	}
}

// look always gives the full description.
func (e *Engine) look(g *Game) string {
	return e.describe(g, true, true)
}

func (e *Engine) describe(g *Game, prose, items bool) string {
	loc := g.Location()
	if g.Dark() {
		return textPitchBlack
	}
	loc.Visited = true

	header := textfilter.Capitalize(loc.Name)
	if g.State.Vehicle != "" {
		header += fmt.Sprintf(", in the %s", g.Item(g.State.Vehicle).Name)
	}
	lines := []string{header}

	if prose {
		def := e.def.location(loc.ID)
		text := def.Description
		if def.Describe != nil {
			text = def.Describe(g)
		}
		lines = append(lines, text)
	}
	if items {
		lines = append(lines, e.listLocationItems(g, loc)...)
	}
	return joinLines(lines...)
}

func (e *Engine) listLocationItems(g *Game, loc *world.Location) []string {
	var lines []string
	for _, id := range loc.Items {
		it := g.Item(id)
		if it.Hidden || id == g.State.Vehicle {
			continue
		}
		if !it.Scenery {
			lines = append(lines, roomLine(it))
		}
		lines = append(lines, e.listContents(g, it, "")...)
	}
	return lines
}

func roomLine(it *world.Item) string {
	if !it.EverPickedUp && it.InitialDescription != "" {
		return it.InitialDescription
	}
	if it.Description != "" {
		return it.Description
	}
	return fmt.Sprintf("There is %s here.", textfilter.Article(it.Name))
}

// listContents lists what can be seen inside an open or transparent container.
func (e *Engine) listContents(g *Game, it *world.Item, indent string) []string {
	if it.Container == nil || !it.IsOpen() {
		return nil
	}
	var children []*world.Item
	for _, id := range it.Container.Contents {
		if child := g.Item(id); !child.Hidden {
			children = append(children, child)
		}
	}
	if len(children) == 0 {
		return nil
	}

	verb := "contains"
	if it.Container.Surface {
		verb = "holds"
	}
	lines := []string{fmt.Sprintf("%sThe %s %s:", indent, it.Name, verb)}
	for _, child := range children {
		lines = append(lines, indent+"  "+textfilter.Capitalize(textfilter.Article(child.Name)))
		lines = append(lines, e.listContents(g, child, indent+"  ")...)
	}
	return lines
}

// visibleNames lists the non-hidden contents of a container as "a x and a y".
func visibleNames(g *Game, it *world.Item) string {
	var names []string
	for _, id := range it.Container.Contents {
		if child := g.Item(id); !child.Hidden {
			names = append(names, textfilter.Article(child.Name))
		}
	}
	return textfilter.JoinList(names)
}
