// Package combat resolves one round of the single-enemy encounter.
package combat

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jwebster45206/ashborne/pkg/actor"
	"github.com/jwebster45206/ashborne/pkg/world"
)

// Result is the state an encounter is left in after a round.
type Result int

const (
	Ongoing Result = iota
	Win
	Lose
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "ongoing"
	}
}

// Outcome describes one round.
type Outcome struct {
	Result      Result
	PlayerHit   int
	PlayerCrit  bool
	EnemyHit    int // zero when the enemy fell before striking
	EnemyCrit   bool
	Health      int
	MaxHealth   int
	EnemyHealth int
	Lines       []string
}

// Log joins the round's lines for narration.
func (o Outcome) Log() string {
	return strings.Join(o.Lines, "\n")
}

// Resolver rolls combat rounds from its own random source.
// A Resolver belongs to one session and is not safe for concurrent use.
type Resolver struct {
	rng *rand.Rand
}

// NewResolver returns a Resolver drawing from rng.
func NewResolver(rng *rand.Rand) *Resolver {
	return &Resolver{rng: rng}
}

// Round plays a single exchange against a fresh enemy built from rules.Enemy.
// The player strikes first; an enemy reduced to 0 never strikes back.
// Enemy health is not carried between rounds.
//
// The returned error is only set when the new health could not be stored on the
// investigator's actor; the Outcome is still complete and uses the clamped value.
func (r *Resolver) Round(pc *actor.PC, rules *world.CombatRules) (Outcome, error) {
	var out Outcome
	enemy := actor.NewMonster(rules.Enemy)

	out.PlayerHit, out.PlayerCrit = r.roll(rules.PlayerHit)
	if out.PlayerCrit {
		out.Lines = append(out.Lines, "You strike true! (critical)")
	}
	out.Lines = append(out.Lines, fmt.Sprintf("You deal %d damage to the threat.", out.PlayerHit))
	enemy.TakeDamage(out.PlayerHit)
	out.EnemyHealth = enemy.HP
	out.MaxHealth = pc.MaxHP()

	if enemy.IsDefeated() {
		out.Lines = append(out.Lines, "The figure collapses.")
		out.Result = Win
		out.Health = pc.HP()
		return out, nil
	}

	out.EnemyHit, out.EnemyCrit = r.roll(rules.EnemyHit)
	if out.EnemyCrit {
		out.Lines = append(out.Lines, "It lashes out with desperate fury! (critical)")
	}
	out.Health = max(pc.HP()-out.EnemyHit, 0)
	_, err := pc.TakeDamage(out.EnemyHit)
	if err != nil {
		err = fmt.Errorf("failed to apply enemy damage: %w", err)
	}
	out.Lines = append(out.Lines, fmt.Sprintf("The threat hits you for %d damage. Your HP: %d/%d",
		out.EnemyHit, out.Health, out.MaxHealth))

	if out.Health == 0 {
		out.Result = Lose
	}
	return out, err
}

// roll returns a uniform value in [h.Min, h.Max], plus the critical bonus when it lands.
func (r *Resolver) roll(h world.HitRoll) (int, bool) {
	n := h.Min
	if h.Max > h.Min {
		n += r.rng.Intn(h.Max - h.Min + 1)
	}
	if r.rng.Float64() < h.CritChance {
		return n + h.CritBonus, true
	}
	return n, false
}
