package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ashborne/pkg/actor"
)

// DefaultMaxHealth is the investigator's health when nothing else is configured.
const DefaultMaxHealth = 100

// Session is the mutable state of one play-through.
// A Session is owned by exactly one caller at a time; it is not safe for concurrent use.
type Session struct {
	ID           uuid.UUID         `json:"id"`
	PlayerName   string            `json:"player_name,omitempty"`
	CurrentScene string            `json:"current_scene"`
	History      []Transition      `json:"history,omitempty"`
	Journal      []string          `json:"journal,omitempty"`
	Inventory    []string          `json:"inventory,omitempty"`
	NPCAttitudes map[string]string `json:"npc_attitudes,omitempty"`
	ChoicesMade  []string          `json:"choices_made,omitempty"`
	PC           *actor.PC         `json:"pc"`
	StartedAt    time.Time         `json:"started_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Transition records one followed choice.
type Transition struct {
	From   string    `json:"from"`
	Action string    `json:"action"`
	To     string    `json:"to"`
	Time   time.Time `json:"time"`
}

// NewSession creates a fresh session at entryScene with full health and empty collections.
func NewSession(entryScene, playerName string, maxHealth int, now time.Time) (*Session, error) {
	s := &Session{}
	if err := s.Reset(entryScene, playerName, maxHealth, now); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset returns the session to its starting state under a new identity.
func (s *Session) Reset(entryScene, playerName string, maxHealth int, now time.Time) error {
	if maxHealth <= 0 {
		maxHealth = DefaultMaxHealth
	}
	pc, err := actor.NewPC(playerName, maxHealth)
	if err != nil {
		return fmt.Errorf("failed to create investigator: %w", err)
	}
	*s = Session{
		ID:           uuid.New(),
		PlayerName:   playerName,
		CurrentScene: entryScene,
		History:      make([]Transition, 0),
		Journal:      make([]string, 0),
		Inventory:    make([]string, 0),
		NPCAttitudes: make(map[string]string),
		ChoicesMade:  make([]string, 0),
		PC:           pc,
		StartedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	return nil
}

// ShortID is the session ID as shown to players.
func (s *Session) ShortID() string {
	return s.ID.String()[:8]
}

// Health returns current health, or 0 when there is no investigator.
func (s *Session) Health() int {
	if s.PC == nil {
		return 0
	}
	return s.PC.HP()
}

// MaxHealth returns the investigator's maximum health.
func (s *Session) MaxHealth() int {
	if s.PC == nil {
		return 0
	}
	return s.PC.MaxHP()
}

// HasItem reports whether item is in the inventory, ignoring case.
func (s *Session) HasItem(item string) bool {
	for _, it := range s.Inventory {
		if strings.EqualFold(it, item) {
			return true
		}
	}
	return false
}

// AddJournal appends a journal line.
func (s *Session) AddJournal(line string) {
	s.Journal = append(s.Journal, line)
}

// RecordTransition appends a history entry for a followed choice.
func (s *Session) RecordTransition(from, action, to string, now time.Time) {
	s.History = append(s.History, Transition{
		From:   from,
		Action: action,
		To:     to,
		Time:   now.UTC(),
	})
	s.ChoicesMade = append(s.ChoicesMade, action)
}

// RecentHistory returns at most the last n transitions.
func (s *Session) RecentHistory(n int) []Transition {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
