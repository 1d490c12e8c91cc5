package state

import "github.com/jwebster45206/ashborne/pkg/world"

// ApplyEffects applies a choice's effects in order. Effects only ever add or overwrite.
func (s *Session) ApplyEffects(effects world.Effects) {
	for _, e := range effects {
		switch e := e.(type) {
		case world.AddJournal:
			s.Journal = append(s.Journal, e.Text)
		case world.AddInventory:
			s.Inventory = append(s.Inventory, e.Item)
		case world.SetNPCAttitude:
			if s.NPCAttitudes == nil {
				s.NPCAttitudes = make(map[string]string)
			}
			s.NPCAttitudes[e.NPC] = e.Attitude
		}
	}
}
