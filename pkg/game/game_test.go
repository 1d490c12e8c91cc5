package game

import (
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/ashborne/pkg/narration"
	"github.com/jwebster45206/ashborne/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

func testWorld(t *testing.T) *world.World {
	t.Helper()
	w, err := world.Default()
	require.NoError(t, err)
	return w
}

func newTestGame(t *testing.T, w *world.World) *Game {
	t.Helper()
	tick := testStart
	g, err := New(w,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRand(rand.New(rand.NewSource(1))),
		WithClock(func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		}),
	)
	require.NoError(t, err)
	return g
}

func play(t *testing.T, g *Game, actions ...string) string {
	t.Helper()
	var out string
	for _, a := range actions {
		out = g.PlayerAction(a)
		require.True(t, strings.HasSuffix(out, narration.Prompt), "action %q", a)
	}
	return out
}

func sceneText(t *testing.T, w *world.World, id string) string {
	t.Helper()
	sc, ok := w.Scene(id)
	require.True(t, ok)
	return narration.Scene(sc)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(testWorld(t), WithMaxHealth(-1))
	assert.Error(t, err)

	_, err = Resume(testWorld(t), nil)
	assert.Error(t, err)
}

func TestStartAdventure(t *testing.T) {
	w := testWorld(t)
	g := newTestGame(t, w)
	play(t, g, "search_docks", "search_boat")

	out := g.StartAdventure("Ada")
	s := g.Session()

	assert.Equal(t, "village_shore", s.CurrentScene)
	assert.Empty(t, s.Journal)
	assert.Empty(t, s.Inventory)
	assert.Empty(t, s.History)
	assert.Empty(t, s.NPCAttitudes)
	assert.Equal(t, 100, s.Health())
	assert.Equal(t, "Ada", s.PlayerName)
	assert.Equal(t, "Greetings Ada. I am Charlotte. Darkness moves at the edges of Ashborne. \n\n"+
		sceneText(t, w, "village_shore"), out)
}

func TestStartAdventure_NoName(t *testing.T) {
	g := newTestGame(t, testWorld(t))
	out := g.StartAdventure("")
	assert.True(t, strings.HasPrefix(out, "Greetings investigator."))
	assert.Empty(t, g.Session().PlayerName)
}

func TestPlayerAction_ExactMatch(t *testing.T) {
	w := testWorld(t)
	g := newTestGame(t, w)
	g.StartAdventure("")

	out := g.PlayerAction("enter_village")
	s := g.Session()

	assert.Equal(t, "main_lane", s.CurrentScene)
	require.Len(t, s.History, 1)
	assert.Equal(t, "village_shore", s.History[0].From)
	assert.Equal(t, "enter_village", s.History[0].Action)
	assert.Equal(t, "main_lane", s.History[0].To)
	assert.Equal(t, []string{"enter_village"}, s.ChoicesMade)
	assert.Equal(t, "Charlotte (soft, intense):\n\nYou chose 'enter_village'.\n\n"+sceneText(t, w, "main_lane"), out)
}

func TestPlayerAction_Unresolved(t *testing.T) {
	w := testWorld(t)
	g := newTestGame(t, w)
	g.StartAdventure("")

	out := g.PlayerAction("xyzzy")
	assert.Equal(t, narration.Clarification+"\n\n"+sceneText(t, w, "village_shore"), out)
	assert.Equal(t, "village_shore", g.Session().CurrentScene)
	assert.Empty(t, g.Session().History)
}

func TestPlayerAction_UseWithoutItem(t *testing.T) {
	w := testWorld(t)
	g := newTestGame(t, w)
	g.StartAdventure("")

	out := g.PlayerAction("use brass_key")
	assert.True(t, strings.HasPrefix(out, "You don't have 'brass_key' in your inventory.\n\n"))
	assert.Equal(t, "village_shore", g.Session().CurrentScene)
	assert.Empty(t, g.Session().Journal)
	assert.Empty(t, g.Session().History)
}

func TestPlayerAction_BrassKeyOnlyInBoatClue(t *testing.T) {
	w := testWorld(t)
	g := newTestGame(t, w)
	g.StartAdventure("")
	s := g.Session()

	play(t, g, "search_docks", "search_boat")
	assert.Equal(t, "boat_clue", s.CurrentScene)
	assert.Equal(t, []string{"wave_charm"}, s.Inventory)

	out := g.PlayerAction("use brass_key")
	assert.Contains(t, out, "You don't have 'brass_key'")

	play(t, g, "keep_key")
	assert.Equal(t, "docks", s.CurrentScene)
	assert.Equal(t, []string{"wave_charm", "brass_key"}, s.Inventory)
	journalBefore := len(s.Journal)

	out = g.PlayerAction("use brass_key")
	assert.Equal(t, "You use the brass_key. Nothing dramatic happens immediately.\n\n"+sceneText(t, w, "docks"), out)
	assert.Len(t, s.Journal, journalBefore)

	play(t, g, "search_boat")
	require.Equal(t, "boat_clue", s.CurrentScene)
	journalBefore = len(s.Journal)

	out = g.PlayerAction("USE Brass_Key")
	assert.Equal(t, "You use the brass key; a hidden compartment yields a folded letter. "+sceneText(t, w, "boat_clue"), out)
	assert.Equal(t, "boat_clue", s.CurrentScene)
	require.Len(t, s.Journal, journalBefore+1)
	assert.Equal(t, "You used the brass key; a hidden compartment revealed a folded letter.", s.Journal[journalBefore])
}

func TestPlayerAction_ColdLanternAnywhere(t *testing.T) {
	w := testWorld(t)
	g := newTestGame(t, w)
	g.StartAdventure("")
	s := g.Session()

	play(t, g, "search_docks", "follow_footprints", "take_lantern", "return_docks")
	require.Equal(t, "docks", s.CurrentScene)
	assert.Contains(t, s.Inventory, "cold_lantern")

	out := g.PlayerAction("use cold_lantern")
	assert.True(t, strings.HasPrefix(out, "You raise the cold lantern."))
	assert.Equal(t, "docks", s.CurrentScene)
	assert.Equal(t, "You wave the cold lantern; its hum deepens and a sigil glows briefly.", s.Journal[len(s.Journal)-1])
	assert.Contains(t, s.Inventory, "cold_lantern")
}

func TestPlayerAction_NPCReaction(t *testing.T) {
	g := newTestGame(t, testWorld(t))
	g.StartAdventure("")

	out := play(t, g, "enter_village", "talk_to_woman", "offer_help")
	assert.Contains(t, out, "Charlotte (soft, intense):\n\nElda says warmly:")
	assert.Contains(t, out, "\nYou chose 'offer_help'.")
	assert.Equal(t, map[string]string{"elda": "cooperative"}, g.Session().NPCAttitudes)

	out = play(t, g, "return_main", "talk_to_woman", "press_harder")
	assert.Contains(t, out, "Elda hisses: 'I don't trust strangers.'")
	assert.Equal(t, "suspicious", g.Session().NPCAttitudes["elda"])
}

func TestPlayerAction_CombatWin(t *testing.T) {
	w := *testWorld(t)
	w.Combat.PlayerHit = world.HitRoll{Min: 30, Max: 30}
	g := newTestGame(t, &w)
	g.StartAdventure("")

	out := play(t, g, "enter_village", "explore_backstreets", "follow_dog", "enter_cottage")
	s := g.Session()
	assert.Equal(t, "fight_win", s.CurrentScene)
	assert.Equal(t, 100, s.Health())
	assert.Equal(t, "cottage_combat", s.History[len(s.History)-1].To)
	assert.Equal(t, "Charlotte (tight voice):\n\nYou deal 30 damage to the threat.\nThe figure collapses.\n\n"+
		"You have bested the threat.\n\n"+sceneText(t, &w, "fight_win"), out)
}

func TestPlayerAction_CombatLose(t *testing.T) {
	w := *testWorld(t)
	w.Combat.PlayerHit = world.HitRoll{Min: 1, Max: 1}
	w.Combat.EnemyHit = world.HitRoll{Min: 500, Max: 500}
	g := newTestGame(t, &w)
	g.StartAdventure("")

	out := play(t, g, "enter_village", "explore_backstreets", "follow_dog", "enter_cottage")
	s := g.Session()
	assert.Equal(t, "dog_leads", s.CurrentScene)
	assert.Equal(t, 0, s.Health())
	assert.True(t, strings.HasPrefix(out, "Charlotte (strained whisper):\n\n"))
	assert.Contains(t, out, "Your HP: 0/100\n\nYou fall to the ground, darkness pressing close. Seek a remedy or restart.\n\n"+
		sceneText(t, &w, "dog_leads"))
}

func TestPlayerAction_CombatOngoing(t *testing.T) {
	w := *testWorld(t)
	w.Combat.PlayerHit = world.HitRoll{Min: 10, Max: 10}
	w.Combat.EnemyHit = world.HitRoll{Min: 7, Max: 7}
	g := newTestGame(t, &w)
	g.StartAdventure("")

	out := play(t, g, "enter_village", "explore_backstreets", "follow_dog", "enter_cottage")
	s := g.Session()
	assert.Equal(t, "cottage_combat", s.CurrentScene)
	assert.Equal(t, 93, s.Health())
	assert.Contains(t, out, "Charlotte (urgent):")
	assert.Contains(t, out, "The encounter is ongoing.\n\n"+sceneText(t, &w, "cottage_combat"))

	// Fighting from inside the encounter moves on without another round.
	play(t, g, "attack it")
	assert.Equal(t, "fight_win", s.CurrentScene)
	assert.Equal(t, 93, s.Health())

	// Using an item re-enters combat with a fresh enemy.
	play(t, g, "leave_locket", "follow_dog", "enter_cottage", "use_item")
	assert.Equal(t, "fight_using_item", s.CurrentScene)
	assert.Equal(t, 79, s.Health())
}

func TestGetScene_Idempotent(t *testing.T) {
	w := testWorld(t)
	g := newTestGame(t, w)
	g.StartAdventure("")
	play(t, g, "search_docks")

	first := g.GetScene()
	second := g.GetScene()
	assert.Equal(t, first, second)
	assert.Equal(t, sceneText(t, w, "docks"), first)
	assert.Len(t, g.Session().History, 1)
}

func TestUnknownScene_Fallback(t *testing.T) {
	g := newTestGame(t, testWorld(t))
	g.Session().CurrentScene = "nowhere"

	assert.Equal(t, narration.Fallback, g.GetScene())
	out := g.PlayerAction("enter_village")
	assert.Equal(t, narration.Clarification+"\n\n"+narration.Fallback, out)
	assert.Empty(t, g.Session().History)
}

func TestRestartAdventure(t *testing.T) {
	w := testWorld(t)
	g := newTestGame(t, w)
	g.StartAdventure("Ada")
	play(t, g, "search_docks", "search_boat", "keep_key", "follow_footprints", "take_lantern")
	oldID := g.Session().ID

	out := g.RestartAdventure()
	assert.Equal(t, "The world pulls taut and restarts. You stand again at Ashborne's shore.\n\n"+
		sceneText(t, w, "village_shore"), out)

	fresh := newTestGame(t, w)
	fresh.StartAdventure("")

	got, want := g.Session(), fresh.Session()
	assert.NotEqual(t, oldID, got.ID)
	assert.NotEqual(t, want.ID, got.ID)
	assert.Equal(t, want.CurrentScene, got.CurrentScene)
	assert.Equal(t, want.PlayerName, got.PlayerName)
	assert.Equal(t, want.Journal, got.Journal)
	assert.Equal(t, want.Inventory, got.Inventory)
	assert.Equal(t, want.History, got.History)
	assert.Equal(t, want.NPCAttitudes, got.NPCAttitudes)
	assert.Equal(t, want.ChoicesMade, got.ChoicesMade)
	assert.Equal(t, want.Health(), got.Health())
	assert.Equal(t, want.MaxHealth(), got.MaxHealth())
}

func TestShowJournal(t *testing.T) {
	g := newTestGame(t, testWorld(t))
	g.StartAdventure("Ada")
	play(t, g, "search_docks", "search_boat")

	out := g.ShowJournal()
	assert.Contains(t, out, "Player: Ada")
	assert.Contains(t, out, "- Searched boat: found a charm with a carved wave.")
	assert.Contains(t, out, "\nInventory:\n- wave_charm")
	assert.Contains(t, out, "village_shore -> docks via search_docks")
	assert.Contains(t, out, "docks -> boat_clue via search_boat")
	assert.Len(t, g.Session().History, 2)
}

func TestResume(t *testing.T) {
	w := testWorld(t)
	g := newTestGame(t, w)
	g.StartAdventure("")
	play(t, g, "search_docks")

	resumed, err := Resume(w, g.Session())
	require.NoError(t, err)
	assert.Equal(t, sceneText(t, w, "docks"), resumed.GetScene())
}
