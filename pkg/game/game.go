// Package game runs one play-through of a world: it owns the session, resolves
// player input and composes the narration for each of the five operations.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jwebster45206/ashborne/pkg/combat"
	"github.com/jwebster45206/ashborne/pkg/narration"
	"github.com/jwebster45206/ashborne/pkg/resolver"
	"github.com/jwebster45206/ashborne/pkg/state"
	"github.com/jwebster45206/ashborne/pkg/world"
)

// Game is the orchestrator for a single session.
// Calls must be serialized by the caller; the World is shared read-only.
type Game struct {
	world     *world.World
	session   *state.Session
	combat    *combat.Resolver
	rng       *rand.Rand
	logger    *slog.Logger
	now       func() time.Time
	maxHealth int
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger. Session IDs are attached to every record.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithRand sets the random source used for combat.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithClock sets the time source for session and history timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		g.now = now
	}
}

// WithMaxHealth sets the investigator's full health.
func WithMaxHealth(hp int) Option {
	return func(g *Game) {
		g.maxHealth = hp
	}
}

func newGame(w *world.World, opts []Option) (*Game, error) {
	if w == nil {
		return nil, fmt.Errorf("world is required")
	}
	g := &Game{
		world:     w,
		logger:    slog.Default(),
		now:       time.Now,
		maxHealth: state.DefaultMaxHealth,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxHealth <= 0 {
		return nil, fmt.Errorf("max health must be positive, got %d", g.maxHealth)
	}
	if g.rng == nil {
		g.rng = newRand()
	}
	g.combat = combat.NewResolver(g.rng)
	return g, nil
}

// New creates a Game with a fresh session at the world's entry scene.
func New(w *world.World, opts ...Option) (*Game, error) {
	g, err := newGame(w, opts)
	if err != nil {
		return nil, err
	}
	s, err := state.NewSession(w.EntryScene, "", g.maxHealth, g.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	g.session = s
	return g, nil
}

// Resume wraps an existing session, e.g. one loaded from storage.
func Resume(w *world.World, s *state.Session, opts ...Option) (*Game, error) {
	if s == nil {
		return nil, fmt.Errorf("session is required")
	}
	g, err := newGame(w, opts)
	if err != nil {
		return nil, err
	}
	g.session = s
	return g, nil
}

// Session returns the session the game is mutating.
func (g *Game) Session() *state.Session {
	return g.session
}

func (g *Game) log() *slog.Logger {
	return g.logger.With("session_id", g.session.ShortID())
}

func (g *Game) currentScene() *world.Scene {
	sc, ok := g.world.Scene(g.session.CurrentScene)
	if !ok {
		g.log().Warn("Current scene not found in world", "scene", g.session.CurrentScene)
		return nil
	}
	return sc
}

// reset starts the session over. On failure the previous session is kept.
func (g *Game) reset(playerName string) {
	if err := g.session.Reset(g.world.EntryScene, playerName, g.maxHealth, g.now()); err != nil {
		g.log().Error("Failed to reset session", "error", err)
	}
}

// StartAdventure resets the session and greets the player.
func (g *Game) StartAdventure(playerName string) string {
	g.reset(playerName)
	g.log().Info("Adventure started", "player", playerName, "scene", g.session.CurrentScene)
	return narration.Greeting(g.world.Narrator, playerName, g.currentScene())
}

// GetScene narrates the current scene. It changes nothing.
func (g *Game) GetScene() string {
	return narration.Scene(g.currentScene())
}

// ShowJournal renders the session record. It changes nothing.
func (g *Game) ShowJournal() string {
	return narration.Journal(g.session)
}

// RestartAdventure resets the session, dropping the player's name.
func (g *Game) RestartAdventure() string {
	g.reset("")
	g.log().Info("Adventure restarted", "scene", g.session.CurrentScene)
	return narration.Restarted(g.world.Narrator, g.currentScene())
}

// PlayerAction resolves free-form input against the current scene and advances the story.
// It always returns narration; unrecognized input leaves the session untouched.
func (g *Game) PlayerAction(action string) string {
	s := g.session
	scene := g.currentScene()
	res := resolver.Resolve(action, scene, s.Inventory, &g.world.Combat)
	g.log().Debug("Action resolved", "input", action, "kind", res.Kind, "step", res.Step)

	switch res.Kind {
	case resolver.UseItem:
		return g.useItem(res.Item, res.Owned, scene)
	case resolver.ChoiceSelected:
		return g.takeChoice(res.Choice)
	default:
		return narration.Unresolved(scene)
	}
}

func (g *Game) useItem(item string, owned bool, scene *world.Scene) string {
	if !owned {
		return narration.ItemMissing(item, scene)
	}
	use, ok := g.world.ItemUse(item, g.session.CurrentScene)
	if !ok {
		return narration.ItemNoEffect(item, scene)
	}
	g.session.AddJournal(use.Journal)
	g.session.UpdatedAt = g.now().UTC()
	g.log().Info("Item used", "item", item, "scene", g.session.CurrentScene)
	return narration.ItemUsed(use, scene)
}

func (g *Game) takeChoice(choice *world.Choice) string {
	s := g.session
	from := s.CurrentScene
	dest := choice.ResultScene
	now := g.now()

	s.ApplyEffects(choice.Effects)
	s.RecordTransition(from, choice.ID, dest, now)
	s.UpdatedAt = now.UTC()

	rules := &g.world.Combat
	if !rules.IsEntry(dest) {
		s.CurrentScene = dest
		g.log().Info("Scene changed", "from", from, "to", dest, "choice", choice.ID)
		return narration.ChoiceTaken(g.world.Narrator, choice, g.currentScene())
	}

	out, err := g.combat.Round(s.PC, rules)
	if err != nil {
		g.log().Error("Failed to record combat damage", "error", err)
	}
	switch out.Result {
	case combat.Win:
		s.CurrentScene = rules.VictoryScene
	case combat.Ongoing:
		s.CurrentScene = dest
	}
	g.log().Info("Combat round",
		"result", out.Result,
		"player_hit", out.PlayerHit,
		"enemy_hit", out.EnemyHit,
		"health", out.Health,
		"scene", s.CurrentScene)
	return narration.CombatRound(g.world.Narrator, out, g.currentScene())
}
