// Package narration composes the text returned to the player.
package narration

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jwebster45206/ashborne/pkg/state"
	"github.com/jwebster45206/ashborne/pkg/world"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Prompt ends every narration.
const Prompt = "What do you do?"

// Fallback is narrated when the current scene is not in the world.
const Fallback = "You stand in empty dark. " + Prompt

// Clarification precedes the scene when input could not be resolved.
const Clarification = "I didn't quite catch that. Try a clear action like 'enter_village', 'search docks', or 'use brass_key'."

// RecentMoves is how many history entries the journal shows.
const RecentMoves = 6

// TimeFormat renders timestamps in the journal.
const TimeFormat = time.RFC3339

// Scene renders a scene's description and its choices in declaration order.
func Scene(s *world.Scene) string {
	if s == nil {
		return Fallback
	}
	var b strings.Builder
	b.WriteString(s.Description)
	b.WriteString("\n\nChoices:\n")
	for _, ch := range s.Choices {
		fmt.Fprintf(&b, "- %s (say: %s)\n", ch.Description, ch.ID)
	}
	b.WriteString("\n")
	b.WriteString(Prompt)
	return b.String()
}

// EnsurePrompt appends the prompt on its own line unless text already ends with it.
func EnsurePrompt(text string) string {
	if strings.HasSuffix(text, Prompt) {
		return text
	}
	return text + "\n" + Prompt
}

// Reaction is the line an NPC speaks after their attitude changes.
func Reaction(npc, attitude string) string {
	name := cases.Title(language.English).String(npc)
	switch attitude {
	case "cooperative":
		return name + " says warmly: 'Thank you. I will tell you what I know.'"
	case "suspicious":
		return name + " hisses: 'I don't trust strangers.'"
	default:
		return name + " mutters something unintelligible."
	}
}

// Reactions renders one reaction per attitude effect, in order.
func Reactions(effects world.Effects) []string {
	var lines []string
	for _, a := range effects.Attitudes() {
		lines = append(lines, Reaction(a.NPC, a.Attitude))
	}
	return lines
}

// Voice prefixes text with the narrator's name and tone, e.g. "Charlotte (urgent):".
func Voice(n world.Narrator, tone, text string) string {
	if n.Name == "" {
		return text
	}
	if tone == "" {
		return n.Name + ":\n\n" + text
	}
	return fmt.Sprintf("%s (%s):\n\n%s", n.Name, tone, text)
}

// Journal renders the session's record: identity, health, notes, inventory, attitudes and recent moves.
func Journal(s *state.Session) string {
	lines := []string{
		fmt.Sprintf("Session: %s | Started at: %s", s.ShortID(), s.StartedAt.UTC().Format(TimeFormat)),
	}
	if s.PlayerName != "" {
		lines = append(lines, "Player: "+s.PlayerName)
	}
	lines = append(lines, fmt.Sprintf("HP: %d/%d", s.Health(), s.MaxHealth()))

	if len(s.Journal) > 0 {
		lines = append(lines, "\nClues & Notes:")
		for _, j := range s.Journal {
			lines = append(lines, "- "+j)
		}
	} else {
		lines = append(lines, "\nClues & Notes: none yet.")
	}

	if len(s.Inventory) > 0 {
		lines = append(lines, "\nInventory:")
		for _, it := range s.Inventory {
			lines = append(lines, "- "+it)
		}
	} else {
		lines = append(lines, "\nInventory: empty.")
	}

	if len(s.NPCAttitudes) > 0 {
		lines = append(lines, "\nNPC Attitudes:")
		names := make([]string, 0, len(s.NPCAttitudes))
		for n := range s.NPCAttitudes {
			names = append(names, n)
		}
		slices.Sort(names)
		for _, n := range names {
			lines = append(lines, fmt.Sprintf("- %s: %s", n, s.NPCAttitudes[n]))
		}
	}

	if recent := s.RecentHistory(RecentMoves); len(recent) > 0 {
		lines = append(lines, "\nRecent moves:")
		for _, h := range recent {
			lines = append(lines, fmt.Sprintf("- %s | %s -> %s via %s",
				h.Time.UTC().Format(TimeFormat), h.From, h.To, h.Action))
		}
	}

	lines = append(lines, "\n"+Prompt)
	return strings.Join(lines, "\n")
}
