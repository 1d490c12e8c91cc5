package actor

import "github.com/jwebster45206/ashborne/pkg/world"

// Monster is an opponent for a single combat round.
type Monster struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"max_hp"`
}

// NewMonster creates a fresh, unhurt monster from the world's enemy template.
func NewMonster(e world.Enemy) *Monster {
	return &Monster{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		HP:          e.HP,
		MaxHP:       e.HP,
	}
}

// TakeDamage reduces the monster's HP by the specified amount.
// HP cannot go below 0.
func (m *Monster) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	m.HP -= n
	if m.HP < 0 {
		m.HP = 0
	}
}

// IsDefeated returns true if the monster's HP is 0 or less.
func (m *Monster) IsDefeated() bool {
	return m.HP <= 0
}
