// Package npc implements the conversation turn policy: message
// classification, speaking-order resolution, response gating, template
// synthesis and mood feedback.
package npc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

// Topic tags recognized by the classifier.
type TopicFlags struct {
	Combat    bool `json:"combat"`
	Trade     bool `json:"trade"`
	Knowledge bool `json:"knowledge"`
	Travel    bool `json:"travel"`
}

// Mention records a present character whose name or role literally appears in
// the message, together with the first-occurrence index of the match.
type Mention struct {
	CharacterID string
	Index       int
}

// Classification is the derived view of one user message. It is ephemeral and
// a pure function of its inputs.
type Classification struct {
	IsQuestion      bool
	IsGreeting      bool
	IsPositive      bool
	IsNegative      bool
	IsPhilosophical bool
	IsMediation     bool
	BehaviorChange  bool
	Topics          TopicFlags
	// Mentions is ordered by first-occurrence index; ties keep the original
	// character order.
	Mentions []Mention
}

// Mentioned reports whether the character id appears in the mention list.
func (c Classification) Mentioned(id string) bool {
	for _, m := range c.Mentions {
		if m.CharacterID == id {
			return true
		}
	}
	return false
}

// Category collapses the flags into the template key used by the fallback
// synthesizer. Question wins over sentiment, sentiment over philosophy.
func (c Classification) Category() Category {
	switch {
	case c.IsQuestion:
		return CategoryQuestion
	case c.IsPositive:
		return CategoryPositive
	case c.IsNegative:
		return CategoryNegative
	case c.IsPhilosophical:
		return CategoryPhilosophical
	default:
		return CategoryNeutral
	}
}

// Category keys the role template tables.
type Category string

const (
	CategoryQuestion      Category = "question"
	CategoryPositive      Category = "positive"
	CategoryNegative      Category = "negative"
	CategoryPhilosophical Category = "philosophical"
	CategoryNeutral       Category = "neutral"
)

var questionPattern = regexp.MustCompile(`(?i)^\s*(who|what|when|where|why|how|which|do|does|did|is|are|can|could|would|will|should)\b`)

var greetingWords = []string{
	"hello", "hi ", "hey", "greetings", "good morning", "good evening",
	"good day", "welcome", "salutations", "well met",
}

var positiveWords = []string{
	"great", "good", "wonderful", "amazing", "happy", "love", "thank",
	"awesome", "excellent", "glad", "friend", "beautiful", "fantastic",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "sad", "angry", "horrible",
	"annoying", "stupid", "worst", "ugly", "miserable", "disgusting",
}

var philosophicalWords = []string{
	"meaning", "purpose", "existence", "destiny", "fate", "soul",
	"truth", "wisdom", "belief", "mortality", "why are we",
}

var mediationWords = []string{
	"resolve", "fight", "argue", "conflict", "dispute", "settle",
	"quarrel", "disagree", "make peace", "calm them",
}

var behaviorChangeWords = []string{
	"be more", "be less", "act like", "stop being", "calm down",
	"behave", "change your", "from now on",
}

var topicWords = map[string][]string{
	"combat":    {"fight", "battle", "sword", "weapon", "war", "attack", "defend", "enemy"},
	"trade":     {"trade", "buy", "sell", "gold", "coin", "price", "merchant", "deal", "market"},
	"knowledge": {"book", "learn", "study", "history", "magic", "scroll", "lore", "research"},
	"travel":    {"travel", "journey", "road", "map", "adventure", "explore", "quest", "distant"},
}

// Classify derives all turn-policy flags from a raw user message and the set
// of present characters. It never fails: an unmatched message yields an
// all-false result with neutral sentiment.
func Classify(message string, present []types.Character) Classification {
	lowered := strings.ToLower(message)

	cls := Classification{
		IsQuestion:      strings.Contains(message, "?") || questionPattern.MatchString(message),
		IsGreeting:      containsAny(lowered, greetingWords),
		IsPhilosophical: containsAny(lowered, philosophicalWords),
		IsMediation:     containsAny(lowered, mediationWords),
		BehaviorChange:  containsAny(lowered, behaviorChangeWords),
		Topics: TopicFlags{
			Combat:    containsAny(lowered, topicWords["combat"]),
			Trade:     containsAny(lowered, topicWords["trade"]),
			Knowledge: containsAny(lowered, topicWords["knowledge"]),
			Travel:    containsAny(lowered, topicWords["travel"]),
		},
	}

	// Sentiment is a plain hit count; ties resolve to neutral.
	positives := countHits(lowered, positiveWords)
	negatives := countHits(lowered, negativeWords)
	if positives > negatives {
		cls.IsPositive = true
	} else if negatives > positives {
		cls.IsNegative = true
	}

	for _, character := range present {
		idx := firstOccurrence(lowered, character)
		if idx < 0 {
			continue
		}
		cls.Mentions = append(cls.Mentions, Mention{CharacterID: character.ID, Index: idx})
	}
	sort.SliceStable(cls.Mentions, func(i, j int) bool {
		return cls.Mentions[i].Index < cls.Mentions[j].Index
	})

	return cls
}

// firstOccurrence returns the earliest index at which the character's name or
// role appears in the lowercased message, or -1 when absent.
func firstOccurrence(lowered string, character types.Character) int {
	idx := -1
	if name := strings.ToLower(character.Name); name != "" {
		idx = strings.Index(lowered, name)
	}
	if role := strings.ToLower(string(character.Role)); role != "" {
		if roleIdx := strings.Index(lowered, role); roleIdx >= 0 && (idx < 0 || roleIdx < idx) {
			idx = roleIdx
		}
	}
	return idx
}

func containsAny(lowered string, words []string) bool {
	for _, word := range words {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

func countHits(lowered string, words []string) int {
	hits := 0
	for _, word := range words {
		if strings.Contains(lowered, word) {
			hits++
		}
	}
	return hits
}
