package npc

import (
	"reflect"
	"testing"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

func TestClassifyQuestion(t *testing.T) {
	cls := Classify("What lies beyond the mountains?", nil)
	if !cls.IsQuestion {
		t.Fatalf("expected question flag, got %#v", cls)
	}
	if cls.Category() != CategoryQuestion {
		t.Fatalf("expected question category, got %s", cls.Category())
	}
}

func TestClassifyLeadingInterrogativeWithoutMark(t *testing.T) {
	cls := Classify("How do you sharpen a blade", nil)
	if !cls.IsQuestion {
		t.Fatalf("expected question flag for leading interrogative, got %#v", cls)
	}
}

func TestClassifySentimentMajority(t *testing.T) {
	cls := Classify("This is a wonderful, amazing day even if the road was bad", nil)
	if !cls.IsPositive || cls.IsNegative {
		t.Fatalf("expected positive sentiment, got %#v", cls)
	}

	cls = Classify("What a terrible, awful mess, though the good news helps", nil)
	if !cls.IsNegative || cls.IsPositive {
		t.Fatalf("expected negative sentiment, got %#v", cls)
	}
}

func TestClassifySentimentTieIsNeutral(t *testing.T) {
	cls := Classify("the good and the bad walk together", nil)
	if cls.IsPositive || cls.IsNegative {
		t.Fatalf("expected neutral on tie, got %#v", cls)
	}
}

func TestClassifyNoMatchesAllFalse(t *testing.T) {
	cls := Classify("the lanterns flicker over the square", nil)
	want := Classification{}
	if !reflect.DeepEqual(cls, want) {
		t.Fatalf("expected zero classification, got %#v", cls)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	present := []types.Character{
		{ID: "a", Name: "Aria", Role: types.RoleScholar},
		{ID: "b", Name: "Thorgar", Role: types.RoleWarrior},
	}
	message := "Aria, why do Thorgar and the guard argue about gold?"

	first := Classify(message, present)
	second := Classify(message, present)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical classifications, got %#v and %#v", first, second)
	}
}

func TestClassifyMentionsOrderedByOccurrence(t *testing.T) {
	present := []types.Character{
		{ID: "a", Name: "Aria", Role: types.RoleScholar},
		{ID: "b", Name: "Thorgar", Role: types.RoleWarrior},
	}
	cls := Classify("Thorgar, go and ask Aria about the ledger", present)

	if len(cls.Mentions) != 2 {
		t.Fatalf("expected 2 mentions, got %#v", cls.Mentions)
	}
	if cls.Mentions[0].CharacterID != "b" || cls.Mentions[1].CharacterID != "a" {
		t.Fatalf("expected occurrence order b,a, got %#v", cls.Mentions)
	}
	if cls.Mentions[0].Index >= cls.Mentions[1].Index {
		t.Fatalf("expected strictly increasing indexes, got %#v", cls.Mentions)
	}
}

func TestClassifyMentionByRole(t *testing.T) {
	present := []types.Character{{ID: "g", Name: "Berrin", Role: types.RoleGuard}}
	cls := Classify("Tell the guard to open the gate", present)
	if !cls.Mentioned("g") {
		t.Fatalf("expected role mention, got %#v", cls.Mentions)
	}
}

func TestClassifyTopicsAndDirectives(t *testing.T) {
	cls := Classify("Stop being rude and settle this battle over the market price", nil)
	if !cls.BehaviorChange {
		t.Fatalf("expected behavior-change flag, got %#v", cls)
	}
	if !cls.IsMediation {
		t.Fatalf("expected mediation flag, got %#v", cls)
	}
	if !cls.Topics.Combat || !cls.Topics.Trade {
		t.Fatalf("expected combat and trade topics, got %#v", cls.Topics)
	}
	if cls.Topics.Knowledge || cls.Topics.Travel {
		t.Fatalf("unexpected topics set, got %#v", cls.Topics)
	}
}

func TestClassifyGreeting(t *testing.T) {
	cls := Classify("Hello there, well met!", nil)
	if !cls.IsGreeting {
		t.Fatalf("expected greeting flag, got %#v", cls)
	}
}
