package world

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ErrInvalidWorld is wrapped by every validation failure.
var ErrInvalidWorld = errors.New("invalid world")

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// IsValidID reports whether id is lowercase snake_case.
func IsValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

type validator struct {
	w        *World
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, "  - "+fmt.Sprintf(format, args...))
}

func (v *validator) requireScene(field, id string) {
	if id == "" {
		v.addf("%s is required", field)
		return
	}
	if _, ok := v.w.Scenes[id]; !ok {
		v.addf("%s %q is not a scene", field, id)
	}
}

// Validate checks that the graph is closed (every result_scene exists), that every scene can be left
// and reached from the entry scene, and that the designated combat and item scenes exist.
// All problems are reported together.
func (w *World) Validate() error {
	v := &validator{w: w}

	if len(w.Scenes) == 0 {
		v.addf("world has no scenes")
	}
	v.requireScene("entry_scene", w.EntryScene)

	ids := w.SceneIDs()
	for _, id := range ids {
		v.validateScene(w.Scenes[id])
	}
	v.validateCombat(&w.Combat)
	for i, u := range w.ItemUses {
		if u.Item == "" {
			v.addf("item_uses[%d] has no item", i)
		}
		if u.Scene != "" {
			v.requireScene(fmt.Sprintf("item_uses[%d].scene", i), u.Scene)
		}
		if u.Narration == "" {
			v.addf("item_uses[%d] has no narration", i)
		}
	}
	if _, ok := w.Scenes[w.EntryScene]; ok {
		reached := w.reachableFrom(w.EntryScene)
		for _, id := range ids {
			if !reached[id] {
				v.addf("scene %q is unreachable from %q", id, w.EntryScene)
			}
		}
	}

	if len(v.problems) > 0 {
		return fmt.Errorf("%w:\n%s", ErrInvalidWorld, strings.Join(v.problems, "\n"))
	}
	return nil
}

func (v *validator) validateScene(s *Scene) {
	if !IsValidID(s.ID) {
		v.addf("scene ID %q should be lowercase snake_case", s.ID)
	}
	if s.Description == "" {
		v.addf("scene %q has no description", s.ID)
	}
	if len(s.Choices) == 0 {
		v.addf("scene %q has no choices and would strand the player", s.ID)
	}
	for _, c := range s.Choices {
		if !IsValidID(c.ID) {
			v.addf("choice ID %q in scene %q should be lowercase snake_case", c.ID, s.ID)
		}
		if c.Description == "" {
			v.addf("choice %q in scene %q has no description", c.ID, s.ID)
		}
		v.requireScene(fmt.Sprintf("choice %q in scene %q: result_scene", c.ID, s.ID), c.ResultScene)
		for _, e := range c.Effects {
			switch e := e.(type) {
			case AddJournal:
				if e.Text == "" {
					v.addf("choice %q in scene %q adds an empty journal line", c.ID, s.ID)
				}
			case AddInventory:
				if e.Item == "" {
					v.addf("choice %q in scene %q adds an empty item", c.ID, s.ID)
				}
			case SetNPCAttitude:
				if e.NPC == "" || e.Attitude == "" {
					v.addf("choice %q in scene %q sets an incomplete npc attitude", c.ID, s.ID)
				}
			}
		}
	}
}

func (v *validator) validateCombat(c *CombatRules) {
	for _, id := range c.EntryScenes {
		v.requireScene("combat entry scene", id)
	}
	for _, id := range c.FlowScenes {
		v.requireScene("combat flow scene", id)
	}
	if len(c.EntryScenes) == 0 {
		return
	}
	v.requireScene("combat victory_scene", c.VictoryScene)
	if c.FightChoice == "" || c.FleeChoice == "" {
		v.addf("combat fight_choice and flee_choice are required")
	}
	if c.Enemy.HP <= 0 {
		v.addf("combat enemy hp must be positive, got %d", c.Enemy.HP)
	}
	v.validateHit("player_hit", c.PlayerHit)
	v.validateHit("enemy_hit", c.EnemyHit)
}

func (v *validator) validateHit(field string, h HitRoll) {
	if h.Min <= 0 || h.Max < h.Min {
		v.addf("combat %s range [%d,%d] is invalid", field, h.Min, h.Max)
	}
	if h.CritChance < 0 || h.CritChance > 1 {
		v.addf("combat %s crit_chance %v is not a probability", field, h.CritChance)
	}
	if h.CritBonus < 0 {
		v.addf("combat %s crit_bonus must not be negative", field)
	}
}

// SceneIDs returns every scene ID in sorted order.
func (w *World) SceneIDs() []string {
	ids := make([]string, 0, len(w.Scenes))
	for id := range w.Scenes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (w *World) reachableFrom(start string) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		s, ok := w.Scenes[id]
		if !ok {
			continue
		}
		for _, c := range s.Choices {
			if !seen[c.ResultScene] {
				seen[c.ResultScene] = true
				queue = append(queue, c.ResultScene)
			}
		}
	}
	return seen
}
