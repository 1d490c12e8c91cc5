package actor

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/d20"
)

// DefaultPCID is the actor ID used when the player gives no name.
const DefaultPCID = "investigator"

// investigatorAC is fixed; combat rounds roll damage directly and never check armor.
const investigatorAC = 10

// PC is the player's investigator. Health lives on the d20.Actor.
type PC struct {
	Name  string
	Actor *d20.Actor
}

// pcSpec is the serialized form of a PC
type pcSpec struct {
	Name  string `json:"name,omitempty"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
}

// NewPC builds an investigator at full health.
func NewPC(name string, maxHP int) (*PC, error) {
	if maxHP <= 0 {
		return nil, fmt.Errorf("max HP must be positive, got %d", maxHP)
	}
	id := name
	if id == "" {
		id = DefaultPCID
	}
	actor, err := d20.NewActor(id).
		WithHP(maxHP).
		WithAC(investigatorAC).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}
	return &PC{Name: name, Actor: actor}, nil
}

// HP returns current health.
func (pc *PC) HP() int {
	return pc.Actor.HP()
}

// MaxHP returns maximum health.
func (pc *PC) MaxHP() int {
	return pc.Actor.MaxHP()
}

// IsDown reports whether the investigator has no health left.
func (pc *PC) IsDown() bool {
	return pc.HP() <= 0
}

// TakeDamage lowers health by n, never below 0, and returns the new value.
func (pc *PC) TakeDamage(n int) (int, error) {
	if n <= 0 {
		return pc.HP(), nil
	}
	hp := max(pc.HP()-n, 0)
	if err := pc.Actor.SetHP(hp); err != nil {
		return pc.HP(), fmt.Errorf("failed to set HP: %w", err)
	}
	return hp, nil
}

// MarshalJSON stores the current health read from the Actor.
func (pc *PC) MarshalJSON() ([]byte, error) {
	if pc == nil {
		return []byte("null"), nil
	}
	spec := pcSpec{Name: pc.Name}
	if pc.Actor != nil {
		spec.HP = pc.Actor.HP()
		spec.MaxHP = pc.Actor.MaxHP()
	}
	return json.Marshal(spec)
}

// UnmarshalJSON rebuilds the Actor from stored health.
func (pc *PC) UnmarshalJSON(data []byte) error {
	var spec pcSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("failed to unmarshal PC: %w", err)
	}
	restored, err := NewPC(spec.Name, spec.MaxHP)
	if err != nil {
		return err
	}
	if spec.HP != spec.MaxHP {
		if err := restored.Actor.SetHP(spec.HP); err != nil {
			return fmt.Errorf("failed to set HP: %w", err)
		}
	}
	*pc = *restored
	return nil
}
