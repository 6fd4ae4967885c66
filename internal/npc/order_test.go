package npc

import (
	"testing"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

func character(id, name string, role types.Role, sociability, curiosity float64) types.Character {
	return types.Character{
		ID:   id,
		Name: name,
		Role: role,
		Traits: types.BehavioralTraits{
			Sociability: sociability,
			Curiosity:   curiosity,
		},
	}
}

func orderIDs(ordered []types.Character) []string {
	ids := make([]string, 0, len(ordered))
	for _, c := range ordered {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestResolveOrderMediatorsFirst(t *testing.T) {
	aria := character("aria", "Aria", types.RoleScholar, 0.7, 0.5)
	thorgar := character("thorgar", "Thorgar", types.RoleWarrior, 0.6, 0.5)
	present := []types.Character{thorgar, aria}

	cls := Classify("Aria and Thorgar, please resolve this fight", present)
	if !cls.IsMediation || len(cls.Mentions) != 2 {
		t.Fatalf("expected mediation with two mentions, got %#v", cls)
	}

	ordered := ResolveOrder(cls, present)
	if ordered[0].ID != "aria" || ordered[1].ID != "thorgar" {
		t.Fatalf("expected mediator first, got %v", orderIDs(ordered))
	}
}

func TestResolveOrderMediationSortsPeersBySociability(t *testing.T) {
	mystic := character("m", "Sera", types.RoleMystic, 0.2, 0.2)
	merchant := character("t", "Oren", types.RoleMerchant, 0.9, 0.1)
	villager := character("v", "Pip", types.RoleVillager, 0.4, 0.1)
	present := []types.Character{villager, merchant, mystic}

	cls := Classification{
		IsMediation: true,
		Mentions:    []Mention{{CharacterID: "t", Index: 0}, {CharacterID: "v", Index: 5}},
	}

	ordered := ResolveOrder(cls, present)
	want := []string{"m", "t", "v"}
	got := orderIDs(ordered)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestResolveOrderMentionsByOccurrenceThenJoiners(t *testing.T) {
	aria := character("aria", "Aria", types.RoleScholar, 0.5, 0.2)
	thorgar := character("thorgar", "Thorgar", types.RoleWarrior, 0.3, 0.1)
	chatty := character("chatty", "Lyss", types.RoleVillager, 0.9, 0.2)
	quiet := character("quiet", "Dun", types.RoleGuard, 0.2, 0.2)
	present := []types.Character{quiet, chatty, thorgar, aria}

	cls := Classify("Thorgar, spar with Aria today", present)
	ordered := ResolveOrder(cls, present)

	want := []string{"thorgar", "aria", "chatty"}
	got := orderIDs(ordered)
	if len(got) != len(want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestResolveOrderDefaultSortsByConversationalAverage(t *testing.T) {
	low := character("low", "Dun", types.RoleGuard, 0.2, 0.2)
	mid := character("mid", "Oren", types.RoleMerchant, 0.5, 0.5)
	high := character("high", "Lyss", types.RoleVillager, 0.9, 0.7)
	present := []types.Character{low, high, mid}

	ordered := ResolveOrder(Classification{}, present)
	want := []string{"high", "mid", "low"}
	got := orderIDs(ordered)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestResolveOrderTiesKeepOriginalOrder(t *testing.T) {
	first := character("first", "Ana", types.RoleVillager, 0.6, 0.4)
	second := character("second", "Bel", types.RoleVillager, 0.4, 0.6)
	present := []types.Character{first, second}

	ordered := ResolveOrder(Classification{}, present)
	if ordered[0].ID != "first" || ordered[1].ID != "second" {
		t.Fatalf("expected stable order on tie, got %v", orderIDs(ordered))
	}
}

func TestResolveOrderEmptyPresent(t *testing.T) {
	if ordered := ResolveOrder(Classification{}, nil); ordered != nil {
		t.Fatalf("expected nil order, got %v", orderIDs(ordered))
	}
}
