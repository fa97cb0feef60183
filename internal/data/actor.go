package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ActorTemplate holds the static definition of one actor kind loaded from
// YAML. Zero-valued fields switch the matching behavior off: no hp means
// indestructible, no script means plain drifting, and so on.
type ActorTemplate struct {
	Name   string  `yaml:"name"`
	Glyph  string  `yaml:"glyph"`  // drawn in the arena view, may be wide
	Speed  float64 `yaml:"speed"`
	Spin   float64 `yaml:"spin"`   // radians per second of heading drift
	HP     int     `yaml:"hp"`     // 0 = indestructible
	Decay  int     `yaml:"decay"`  // hp lost per second, 0 = none
	Script string  `yaml:"script"` // steering function name, "" = none
}

// GlyphRune returns the first rune of the template's glyph, or a fallback
// marker when none is set.
func (t *ActorTemplate) GlyphRune() rune {
	for _, r := range t.Glyph {
		return r
	}
	return '?'
}

// SpawnEntry places a number of actors of one template.
type SpawnEntry struct {
	Template string  `yaml:"template"`
	Count    int     `yaml:"count"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Scatter  float64 `yaml:"scatter"` // random placement radius around x,y
}

type actorListFile struct {
	Actors []ActorTemplate `yaml:"actors"`
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// ActorTable holds all actor templates indexed by name.
type ActorTable struct {
	templates map[string]*ActorTemplate
}

// LoadActorTable loads actor templates from a YAML file.
func LoadActorTable(path string) (*ActorTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actor table: %w", err)
	}
	var f actorListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse actor table: %w", err)
	}
	t := &ActorTable{templates: make(map[string]*ActorTemplate, len(f.Actors))}
	for i := range f.Actors {
		a := &f.Actors[i]
		if a.Name == "" {
			return nil, fmt.Errorf("actor table: entry %d has no name", i)
		}
		t.templates[a.Name] = a
	}
	return t, nil
}

// Get returns an actor template by name, or nil if not found.
func (t *ActorTable) Get(name string) *ActorTemplate {
	return t.templates[name]
}

// Count returns the number of loaded templates.
func (t *ActorTable) Count() int {
	return len(t.templates)
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn list: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn list: %w", err)
	}
	return f.Spawns, nil
}
