package world

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Effect is a state change triggered by taking a choice.
// The concrete types are AddJournal, AddInventory and SetNPCAttitude.
type Effect interface {
	effect()
}

// AddJournal appends a line to the journal.
type AddJournal struct {
	Text string
}

// AddInventory appends an item to the inventory. Items do not stack.
type AddInventory struct {
	Item string
}

// SetNPCAttitude records how an NPC feels about the player. Last write wins.
type SetNPCAttitude struct {
	NPC      string
	Attitude string
}

func (AddJournal) effect()     {}
func (AddInventory) effect()   {}
func (SetNPCAttitude) effect() {}

// Effects is the ordered effect list of a choice.
type Effects []Effect

// Attitudes returns the NPC attitude changes in declaration order.
func (es Effects) Attitudes() []SetNPCAttitude {
	var out []SetNPCAttitude
	for _, e := range es {
		if a, ok := e.(SetNPCAttitude); ok {
			out = append(out, a)
		}
	}
	return out
}

// UnmarshalYAML decodes a sequence of single-key mappings:
//
//	- add_journal: "Found brass key in boat."
//	- add_inventory: brass_key
//	- npc_attitude: {npc: elda, attitude: cooperative}
func (es *Effects) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: effects must be a list", value.Line)
	}
	out := make(Effects, 0, len(value.Content))
	for _, item := range value.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return fmt.Errorf("line %d: each effect must have exactly one key", item.Line)
		}
		key, body := item.Content[0], item.Content[1]
		switch key.Value {
		case "add_journal":
			var text string
			if err := body.Decode(&text); err != nil {
				return fmt.Errorf("line %d: add_journal: %w", body.Line, err)
			}
			out = append(out, AddJournal{Text: text})
		case "add_inventory":
			var it string
			if err := body.Decode(&it); err != nil {
				return fmt.Errorf("line %d: add_inventory: %w", body.Line, err)
			}
			out = append(out, AddInventory{Item: it})
		case "npc_attitude":
			var a struct {
				NPC      string `yaml:"npc"`
				Attitude string `yaml:"attitude"`
			}
			if err := body.Decode(&a); err != nil {
				return fmt.Errorf("line %d: npc_attitude: %w", body.Line, err)
			}
			out = append(out, SetNPCAttitude{NPC: a.NPC, Attitude: a.Attitude})
		default:
			return fmt.Errorf("line %d: unknown effect %q", key.Line, key.Value)
		}
	}
	*es = out
	return nil
}
