package npc

import (
	"sort"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

// ResolveOrder produces the speaking priority for one turn. The result is
// deterministic for a given character set and classification; whether a
// listed character actually speaks is decided separately by the Gate.
//
// Rules, first match wins:
//  1. Mediation intent with more than one explicit mention: mediator roles
//     first, then descending sociability.
//  2. Explicit mentions: mentioned characters by first-occurrence index, then
//     unmentioned characters with sociability or curiosity above 0.7 by
//     descending sociability.
//  3. Otherwise: everyone, by descending average of sociability and
//     curiosity. Ties keep the original list order.
func ResolveOrder(cls Classification, present []types.Character) []types.Character {
	if len(present) == 0 {
		return nil
	}

	if cls.IsMediation && len(cls.Mentions) > 1 {
		return mediationOrder(present)
	}
	if len(cls.Mentions) > 0 {
		return mentionOrder(cls, present)
	}

	ordered := append([]types.Character(nil), present...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return conversational(ordered[i]) > conversational(ordered[j])
	})
	return ordered
}

func mediationOrder(present []types.Character) []types.Character {
	ordered := append([]types.Character(nil), present...)
	sort.SliceStable(ordered, func(i, j int) bool {
		mi, mj := types.MediatorRoles[ordered[i].Role], types.MediatorRoles[ordered[j].Role]
		if mi != mj {
			return mi
		}
		return ordered[i].Traits.Sociability > ordered[j].Traits.Sociability
	})
	return ordered
}

func mentionOrder(cls Classification, present []types.Character) []types.Character {
	byID := make(map[string]types.Character, len(present))
	for _, character := range present {
		byID[character.ID] = character
	}

	ordered := make([]types.Character, 0, len(present))
	seen := make(map[string]bool, len(present))
	for _, mention := range cls.Mentions {
		character, ok := byID[mention.CharacterID]
		if !ok {
			continue
		}
		ordered = append(ordered, character)
		seen[character.ID] = true
	}

	var joiners []types.Character
	for _, character := range present {
		if seen[character.ID] {
			continue
		}
		if character.Traits.Sociability > 0.7 || character.Traits.Curiosity > 0.7 {
			joiners = append(joiners, character)
		}
	}
	sort.SliceStable(joiners, func(i, j int) bool {
		return joiners[i].Traits.Sociability > joiners[j].Traits.Sociability
	})

	return append(ordered, joiners...)
}

func conversational(c types.Character) float64 {
	return (c.Traits.Sociability + c.Traits.Curiosity) / 2
}
