package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ashborne/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 21, 5, 0, 0, time.UTC)

func TestNewSession(t *testing.T) {
	s, err := NewSession("village_shore", "Ada", 100, testNow)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, "Ada", s.PlayerName)
	assert.Equal(t, "village_shore", s.CurrentScene)
	assert.Equal(t, 100, s.Health())
	assert.Equal(t, 100, s.MaxHealth())
	assert.Empty(t, s.History)
	assert.Empty(t, s.Journal)
	assert.Empty(t, s.Inventory)
	assert.Empty(t, s.NPCAttitudes)
	assert.Equal(t, testNow, s.StartedAt)
	assert.Len(t, s.ShortID(), 8)
}

func TestNewSession_DefaultHealth(t *testing.T) {
	s, err := NewSession("village_shore", "", 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxHealth, s.MaxHealth())
}

func TestSession_Reset(t *testing.T) {
	s, err := NewSession("village_shore", "Ada", 100, testNow)
	require.NoError(t, err)
	oldID := s.ID

	s.CurrentScene = "docks"
	s.AddJournal("note")
	s.Inventory = append(s.Inventory, "brass_key")
	s.NPCAttitudes["elda"] = "cooperative"
	s.RecordTransition("village_shore", "search_docks", "docks", testNow)
	_, err = s.PC.TakeDamage(30)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	require.NoError(t, s.Reset("village_shore", "", 100, later))

	assert.NotEqual(t, oldID, s.ID)
	assert.Empty(t, s.PlayerName)
	assert.Equal(t, "village_shore", s.CurrentScene)
	assert.Empty(t, s.History)
	assert.Empty(t, s.Journal)
	assert.Empty(t, s.Inventory)
	assert.Empty(t, s.NPCAttitudes)
	assert.Empty(t, s.ChoicesMade)
	assert.Equal(t, 100, s.Health())
	assert.Equal(t, later, s.StartedAt)
}

func TestSession_HasItem(t *testing.T) {
	s := &Session{Inventory: []string{"brass_key", "Cold_Lantern"}}

	tests := []struct {
		item string
		want bool
	}{
		{"brass_key", true},
		{"BRASS_KEY", true},
		{"cold_lantern", true},
		{"rope", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.want, s.HasItem(tt.item))
		})
	}
}

func TestSession_ApplyEffects(t *testing.T) {
	s, err := NewSession("village_shore", "", 100, testNow)
	require.NoError(t, err)

	s.ApplyEffects(world.Effects{
		world.AddJournal{Text: "Found brass key in boat."},
		world.AddInventory{Item: "brass_key"},
		world.SetNPCAttitude{NPC: "elda", Attitude: "suspicious"},
		world.SetNPCAttitude{NPC: "elda", Attitude: "cooperative"},
	})

	assert.Equal(t, []string{"Found brass key in boat."}, s.Journal)
	assert.Equal(t, []string{"brass_key"}, s.Inventory)
	assert.Equal(t, map[string]string{"elda": "cooperative"}, s.NPCAttitudes)
}

func TestSession_ApplyEffects_DuplicatesAllowed(t *testing.T) {
	s := &Session{}
	effects := world.Effects{
		world.AddJournal{Text: "same"},
		world.AddInventory{Item: "brass_key"},
	}
	s.ApplyEffects(effects)
	s.ApplyEffects(effects)

	assert.Equal(t, []string{"same", "same"}, s.Journal)
	assert.Equal(t, []string{"brass_key", "brass_key"}, s.Inventory)
}

func TestSession_ApplyEffects_Empty(t *testing.T) {
	s := &Session{Journal: []string{"a"}}
	s.ApplyEffects(nil)
	assert.Equal(t, []string{"a"}, s.Journal)
	assert.Nil(t, s.NPCAttitudes)
}

func TestSession_RecentHistory(t *testing.T) {
	s := &Session{}
	assert.Nil(t, s.RecentHistory(6))

	for i := 0; i < 8; i++ {
		s.RecordTransition("a", "go", "b", testNow.Add(time.Duration(i)*time.Minute))
	}
	recent := s.RecentHistory(6)
	require.Len(t, recent, 6)
	assert.Equal(t, testNow.Add(2*time.Minute), recent[0].Time)
	assert.Equal(t, testNow.Add(7*time.Minute), recent[5].Time)
	assert.Len(t, s.ChoicesMade, 8)
	assert.Len(t, s.RecentHistory(20), 8)
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s, err := NewSession("docks", "Ada", 100, testNow)
	require.NoError(t, err)
	s.Inventory = append(s.Inventory, "brass_key")
	_, err = s.PC.TakeDamage(12)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored Session
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, s.ID, restored.ID)
	assert.Equal(t, "docks", restored.CurrentScene)
	assert.Equal(t, []string{"brass_key"}, restored.Inventory)
	assert.Equal(t, 88, restored.Health())
	assert.Equal(t, 100, restored.MaxHealth())
}
