// Package resolver maps free-form player input onto a choice of the current scene.
package resolver

import (
	"strings"

	"github.com/jwebster45206/ashborne/pkg/world"
)

// Kind is the outcome class of a resolution.
type Kind int

const (
	// Unresolved means no step matched. Nothing may change.
	Unresolved Kind = iota
	// UseItem is a "use <item>" command. Steps 2 onward are never tried.
	UseItem
	// ChoiceSelected means Choice names a choice of the current scene.
	ChoiceSelected
)

func (k Kind) String() string {
	switch k {
	case UseItem:
		return "use_item"
	case ChoiceSelected:
		return "choice"
	default:
		return "unresolved"
	}
}

// Step names the matching rule that produced a resolution.
type Step string

const (
	StepNone           Step = ""
	StepUseItem        Step = "use_item"
	StepExact          Step = "exact"
	StepKeyword        Step = "keyword"
	StepIdentifier     Step = "identifier"
	StepCombatShortcut Step = "combat_shortcut"
)

const usePrefix = "use "

// Resolution is the result of Resolve.
type Resolution struct {
	Kind   Kind
	Step   Step
	Choice *world.Choice // set when Kind is ChoiceSelected
	Item   string        // lowercased item token when Kind is UseItem
	Owned  bool          // whether Item is in the inventory
}

// Resolve applies the matching steps in order and stops at the first match:
// use-item form, exact identifier, keyword overlap, identifier phrase, combat shortcut.
// A nil scene resolves nothing except the use-item form.
func Resolve(input string, scene *world.Scene, inventory []string, rules *world.CombatRules) Resolution {
	text := strings.ToLower(strings.TrimSpace(input))

	if item, ok := strings.CutPrefix(text, usePrefix); ok {
		item = strings.TrimSpace(item)
		return Resolution{
			Kind:  UseItem,
			Step:  StepUseItem,
			Item:  item,
			Owned: owns(inventory, item),
		}
	}
	if scene == nil {
		return Resolution{Kind: Unresolved}
	}

	if ch, ok := scene.Choice(text); ok {
		return selected(ch, StepExact)
	}
	if ch := matchKeywords(text, scene.Choices); ch != nil {
		return selected(ch, StepKeyword)
	}
	if ch := matchIdentifier(text, scene.Choices); ch != nil {
		return selected(ch, StepIdentifier)
	}
	if rules != nil && rules.IsFlow(scene.ID) {
		if ch := matchCombatShortcut(text, scene, rules); ch != nil {
			return selected(ch, StepCombatShortcut)
		}
	}
	return Resolution{Kind: Unresolved}
}

func selected(ch *world.Choice, step Step) Resolution {
	return Resolution{Kind: ChoiceSelected, Step: step, Choice: ch}
}

func owns(inventory []string, item string) bool {
	for _, it := range inventory {
		if strings.ToLower(it) == item {
			return true
		}
	}
	return false
}

// matchKeywords returns the first choice whose description shares a whitespace token with text.
// Tokens keep their punctuation, so "docks." and "docks" differ.
func matchKeywords(text string, choices world.Choices) *world.Choice {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	for i := range choices {
		for _, w := range strings.Fields(strings.ToLower(choices[i].Description)) {
			if _, ok := set[w]; ok {
				return &choices[i]
			}
		}
	}
	return nil
}

// matchIdentifier returns the first choice whose ID, read with spaces for underscores, occurs in text.
func matchIdentifier(text string, choices world.Choices) *world.Choice {
	for i := range choices {
		phrase := strings.ReplaceAll(choices[i].ID, "_", " ")
		if strings.Contains(text, phrase) {
			return &choices[i]
		}
	}
	return nil
}

// matchCombatShortcut maps fight/attack and flee/run onto the designated choices.
// A designated choice the scene does not offer matches nothing.
func matchCombatShortcut(text string, scene *world.Scene, rules *world.CombatRules) *world.Choice {
	var id string
	switch {
	case strings.Contains(text, "fight") || strings.Contains(text, "attack"):
		id = rules.FightChoice
	case strings.Contains(text, "flee") || strings.Contains(text, "run"):
		id = rules.FleeChoice
	default:
		return nil
	}
	ch, ok := scene.Choice(id)
	if !ok {
		return nil
	}
	return ch
}
