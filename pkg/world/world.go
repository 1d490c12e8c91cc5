package world

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed ashborne.yaml
var ashborneContent []byte

// World is the static scene graph for one adventure.
// It is built once by Load and must not be modified afterwards; every session shares it.
type World struct {
	Name       string            `yaml:"name"`
	EntryScene string            `yaml:"entry_scene"`
	Narrator   Narrator          `yaml:"narrator"`
	Combat     CombatRules       `yaml:"combat"`
	ItemUses   []ItemUse         `yaml:"item_uses"`
	Scenes     map[string]*Scene `yaml:"scenes"`
}

// Narrator is the game master persona that frames narration.
type Narrator struct {
	Name          string `yaml:"name"`
	Greeting      string `yaml:"greeting"`
	RestartLine   string `yaml:"restart_line"`
	DefaultPlayer string `yaml:"default_player"`
	Tones         Tones  `yaml:"tones"`
}

// Tones are the voice directions placed after the narrator name, e.g. "Charlotte (urgent):".
type Tones struct {
	Action  string `yaml:"action"`
	Victory string `yaml:"victory"`
	Defeat  string `yaml:"defeat"`
	Ongoing string `yaml:"ongoing"`
}

// Scene is a node in the graph.
type Scene struct {
	ID          string  `yaml:"-"` // Also the key in World.Scenes
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Choices     Choices `yaml:"choices"`
}

// Choice is an edge from its owning scene to ResultScene.
type Choice struct {
	ID          string  `yaml:"-"`
	Description string  `yaml:"description"`
	ResultScene string  `yaml:"result_scene"`
	Effects     Effects `yaml:"effects,omitempty"`
}

// Choices keeps the declaration order of a scene's choices, which decides ties during matching.
type Choices []Choice

// ItemUse is a scripted outcome for "use <item>".
// An empty Scene means the item works anywhere.
type ItemUse struct {
	Item      string `yaml:"item"`
	Scene     string `yaml:"scene,omitempty"`
	Journal   string `yaml:"journal"`
	Narration string `yaml:"narration"`
}

// CombatRules designates the combat scenes and the numbers for a single round.
type CombatRules struct {
	EntryScenes  []string `yaml:"entry_scenes"`
	FlowScenes   []string `yaml:"flow_scenes"`
	VictoryScene string   `yaml:"victory_scene"`
	FightChoice  string   `yaml:"fight_choice"`
	FleeChoice   string   `yaml:"flee_choice"`
	Enemy        Enemy    `yaml:"enemy"`
	PlayerHit    HitRoll  `yaml:"player_hit"`
	EnemyHit     HitRoll  `yaml:"enemy_hit"`
}

// Enemy is the baseline opponent. A fresh copy is used every round.
type Enemy struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	HP          int    `yaml:"hp"`
}

// HitRoll is a uniform damage range with a chance of a flat critical bonus.
type HitRoll struct {
	Min        int     `yaml:"min"`
	Max        int     `yaml:"max"`
	CritChance float64 `yaml:"crit_chance"`
	CritBonus  int     `yaml:"crit_bonus"`
}

// Default returns the embedded Ashborne adventure.
func Default() (*World, error) {
	return Load(bytes.NewReader(ashborneContent))
}

// LoadFile reads and validates a world from a YAML file.
func LoadFile(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open world file: %w", err)
	}
	defer func() {
		_ = f.Close() // read-only
	}()
	return Load(f)
}

// Load decodes a world from YAML and validates the graph.
func Load(r io.Reader) (*World, error) {
	var w World
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("failed to decode world: %w", err)
	}
	for id, s := range w.Scenes {
		if s == nil {
			s = &Scene{}
			w.Scenes[id] = s
		}
		s.ID = id
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Scene looks up a scene by ID.
func (w *World) Scene(id string) (*Scene, bool) {
	if w == nil {
		return nil, false
	}
	s, ok := w.Scenes[id]
	return s, ok
}

// ItemUse returns the first scripted use of item that applies in scene.
func (w *World) ItemUse(item, scene string) (*ItemUse, bool) {
	for i := range w.ItemUses {
		u := &w.ItemUses[i]
		if u.Item != item {
			continue
		}
		if u.Scene == "" || u.Scene == scene {
			return u, true
		}
	}
	return nil, false
}

// Choice finds a choice of the scene by ID.
func (s *Scene) Choice(id string) (*Choice, bool) {
	for i := range s.Choices {
		if s.Choices[i].ID == id {
			return &s.Choices[i], true
		}
	}
	return nil, false
}

// IsEntry reports whether arriving at scene starts a combat round.
func (c *CombatRules) IsEntry(scene string) bool {
	return slices.Contains(c.EntryScenes, scene)
}

// IsFlow reports whether fight/flee shorthand is understood in scene.
func (c *CombatRules) IsFlow(scene string) bool {
	return slices.Contains(c.FlowScenes, scene)
}

// UnmarshalYAML decodes a mapping of choice ID to choice, keeping document order.
func (c *Choices) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: choices must be a mapping", value.Line)
	}
	out := make(Choices, 0, len(value.Content)/2)
	seen := make(map[string]bool, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, body := value.Content[i], value.Content[i+1]
		if seen[key.Value] {
			return fmt.Errorf("line %d: duplicate choice %q", key.Line, key.Value)
		}
		seen[key.Value] = true

		var ch Choice
		if err := body.Decode(&ch); err != nil {
			return fmt.Errorf("choice %q: %w", key.Value, err)
		}
		ch.ID = key.Value
		out = append(out, ch)
	}
	*c = out
	return nil
}
