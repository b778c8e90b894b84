package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/story"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// validate builds stories, constructs every location, and checks the
// ownership invariants. With no arguments every story is checked.
func main() {
	names := os.Args[1:]
	if len(names) == 0 {
		names = story.Names()
	}

	failed := false
	for _, name := range names {
		validator := &StoryValidator{}
		if err := validator.validate(name); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("Story %s is valid!\n", name)
	}
	if failed {
		os.Exit(1)
	}
}

type StoryValidator struct {
	errors []string
}

func (v *StoryValidator) validate(name string) error {
	fmt.Printf("Validating %s...\n", name)
	v.errors = nil

	def, err := story.Load(name)
	if err != nil {
		return err
	}

	v.constructAll(def)
	v.roundTrip(def)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", name, strings.Join(v.errors, "\n"))
	}
	return nil
}

// constructAll builds every location in one world. Factories panic on
// wiring bugs; those are reported rather than crashing the run.
func (v *StoryValidator) constructAll(def *engine.Definition) {
	w := world.New(def)
	for _, id := range def.LocationIDs() {
		v.guard("construct location "+string(id), func() { w.Location(id) })
	}
	if err := w.Verify(); err != nil {
		v.errors = append(v.errors, fmt.Sprintf("  - world invariants: %v", err))
	}
}

// roundTrip checks that a fresh game survives save and restore.
func (v *StoryValidator) roundTrip(def *engine.Definition) {
	v.guard("save/restore", func() {
		e := engine.New(def, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		g, _ := e.NewGame()
		blob, err := e.Save(g)
		if err != nil {
			v.errors = append(v.errors, fmt.Sprintf("  - save: %v", err))
			return
		}
		if _, err := e.Restore(blob); err != nil {
			v.errors = append(v.errors, fmt.Sprintf("  - restore: %v", err))
		}
	})
}

func (v *StoryValidator) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			v.errors = append(v.errors, fmt.Sprintf("  - %s: %v", what, r))
		}
	}()
	fn()
}
