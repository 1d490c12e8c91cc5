package narration

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/ashborne/pkg/combat"
	"github.com/jwebster45206/ashborne/pkg/world"
)

// Greeting opens a new adventure.
func Greeting(n world.Narrator, player string, scene *world.Scene) string {
	if player == "" {
		player = n.DefaultPlayer
	}
	return EnsurePrompt(fmt.Sprintf("Greetings %s. %s \n\n%s", player, n.Greeting, Scene(scene)))
}

// Restarted opens an adventure begun again.
func Restarted(n world.Narrator, scene *world.Scene) string {
	return EnsurePrompt(n.RestartLine + "\n\n" + Scene(scene))
}

// Unresolved asks the player to rephrase.
func Unresolved(scene *world.Scene) string {
	return EnsurePrompt(Clarification + "\n\n" + Scene(scene))
}

// ItemMissing tells the player they do not carry item.
func ItemMissing(item string, scene *world.Scene) string {
	return EnsurePrompt(fmt.Sprintf("You don't have '%s' in your inventory.\n\n%s", item, Scene(scene)))
}

// ItemUsed narrates a scripted item use.
func ItemUsed(use *world.ItemUse, scene *world.Scene) string {
	return EnsurePrompt(use.Narration + " " + Scene(scene))
}

// ItemNoEffect narrates an owned item with no scripted use here.
func ItemNoEffect(item string, scene *world.Scene) string {
	return EnsurePrompt(fmt.Sprintf("You use the %s. Nothing dramatic happens immediately.\n\n%s", item, Scene(scene)))
}

// ChoiceTaken narrates an ordinary transition, led by any NPC reactions.
func ChoiceTaken(n world.Narrator, choice *world.Choice, dest *world.Scene) string {
	var b strings.Builder
	if reactions := Reactions(choice.Effects); len(reactions) > 0 {
		b.WriteString(strings.Join(reactions, " "))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "You chose '%s'.\n\n", choice.ID)
	b.WriteString(Scene(dest))
	return EnsurePrompt(Voice(n, n.Tones.Action, b.String()))
}

// CombatRound narrates a round. scene is where the player stands afterwards.
func CombatRound(n world.Narrator, out combat.Outcome, scene *world.Scene) string {
	var tone, verdict string
	switch out.Result {
	case combat.Win:
		tone, verdict = n.Tones.Victory, "You have bested the threat."
	case combat.Lose:
		tone, verdict = n.Tones.Defeat, "You fall to the ground, darkness pressing close. Seek a remedy or restart."
	default:
		tone, verdict = n.Tones.Ongoing, "The encounter is ongoing."
	}
	return EnsurePrompt(Voice(n, tone, out.Log()+"\n\n"+verdict+"\n\n"+Scene(scene)))
}
