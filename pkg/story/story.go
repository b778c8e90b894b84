// Package story is the catalogue of stories a host can serve.
package story

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/story/zork"
)

// ErrUnknownStory is returned for a name missing from the catalogue.
var ErrUnknownStory = errors.New("unknown story")

var catalogue = map[string]func() (*engine.Definition, error){
	zork.Name: zork.New,
}

// Load builds the named story and checks its wiring.
func Load(name string) (*engine.Definition, error) {
	build, ok := catalogue[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownStory, name)
	}
	def, err := build()
	if err != nil {
		return nil, fmt.Errorf("failed to build story %q: %w", name, err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("story %q is miswired: %w", name, err)
	}
	return def, nil
}

// Names lists the available stories in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(catalogue))
}
