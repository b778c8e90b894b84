package zork

import (
	_ "embed"
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/world"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

// content is the prose of the story. Structure and behaviour live in Go;
// everything a player reads lives in content.yaml.
type content struct {
	Title     string                    `yaml:"title"`
	Intro     string                    `yaml:"intro"`
	Locations map[world.ID]locationText `yaml:"locations"`
	Items     map[world.ID]itemText     `yaml:"items"`
	Messages  map[string]string         `yaml:"messages"`
}

type locationText struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type itemText struct {
	Name         string   `yaml:"name"`
	Nouns        []string `yaml:"nouns"`
	GenericNouns []string `yaml:"generic_nouns"`
	Description  string   `yaml:"description"`
	Initial      string   `yaml:"initial"`
	Examine      string   `yaml:"examine"`
	Read         string   `yaml:"read"`
	CannotTake   string   `yaml:"cannot_take"`
}

func loadContent() (*content, error) {
	var c content
	if err := yaml.Unmarshal(contentYAML, &c); err != nil {
		return nil, fmt.Errorf("failed to parse story content: %w", err)
	}
	return &c, nil
}

func (c *content) msg(key string) string {
	text, ok := c.Messages[key]
	if !ok {
		panic(fmt.Sprintf("zork: no message %q", key))
	}
	return text
}

func (c *content) location(id world.ID) locationText {
	text, ok := c.Locations[id]
	if !ok {
		panic(fmt.Sprintf("zork: no prose for location %q", id))
	}
	return text
}

// item builds the text side of an item. Every item can be examined; an item
// with read text is readable. Callers attach the remaining capabilities.
func (c *content) item(id world.ID) *world.Item {
	text, ok := c.Items[id]
	if !ok {
		panic(fmt.Sprintf("zork: no prose for item %q", id))
	}
	it := &world.Item{
		Name:               text.Name,
		Nouns:              text.Nouns,
		GenericNouns:       text.GenericNouns,
		Description:        text.Description,
		InitialDescription: text.Initial,
		CannotTakeText:     text.CannotTake,
		Examinable:         &world.Examinable{Text: text.Examine},
	}
	if text.Read != "" {
		it.Readable = &world.Readable{Text: text.Read}
	}
	return it
}
