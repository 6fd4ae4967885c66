// Package turn runs the conversation turn policy: classify the incoming
// message, resolve the speaking order, gate each character, synthesize replies
// and feed the mood loop.
package turn

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"google.golang.org/adk/model"

	"github.com/PKM100/mnemocyte-sub001/internal/models"
	"github.com/PKM100/mnemocyte-sub001/internal/npc"
	"github.com/PKM100/mnemocyte-sub001/internal/prompt"
	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

const (
	defaultBackendTimeout = 8 * time.Second
	defaultHistoryLimit   = 20
)

// CharacterRepo is the character access the engine needs.
type CharacterRepo interface {
	GetByID(ctx context.Context, id string) (*types.Character, error)
	UpdateMood(ctx context.Context, id string, mood float64) error
}

// ConversationRepo is the conversation access the engine needs.
type ConversationRepo interface {
	GetByID(ctx context.Context, id string) (*types.Conversation, error)
}

// MessageRepo is the message access the engine needs.
type MessageRepo interface {
	Append(ctx context.Context, message *types.Message) error
	Recent(ctx context.Context, conversationID string, limit int) ([]types.Message, error)
}

// Recaller surfaces memories relevant to the incoming message.
type Recaller interface {
	Relevant(ctx context.Context, characterID, query string) []string
}

// TurnEntry reports one character's outcome for a resolved turn, in speaking
// order. Characters that stayed silent appear with Spoke unset.
type TurnEntry struct {
	Character types.Character `json:"character"`
	Spoke     bool            `json:"spoke"`
	Text      string          `json:"text,omitempty"`
	MoodDelta float64         `json:"mood_delta,omitempty"`
}

// Config wires an Engine.
type Config struct {
	Characters    CharacterRepo
	Conversations ConversationRepo
	Messages      MessageRepo

	// Recaller and Backend are optional; without a backend every reply comes
	// from the template synthesizer.
	Recaller Recaller
	Backend  model.LLM

	Rand           npc.Rand
	BackendTimeout time.Duration
	HistoryLimit   int
	Logger         *slog.Logger
}

// Engine resolves chat turns against a conversation.
type Engine struct {
	characters    CharacterRepo
	conversations ConversationRepo
	messages      MessageRepo
	recaller      Recaller
	backend       model.LLM

	gate    *npc.Gate
	synth   *npc.Synthesizer
	builder *prompt.Builder

	backendTimeout time.Duration
	historyLimit   int
	logger         *slog.Logger
}

// NewEngine returns an Engine with defaults applied.
func NewEngine(cfg Config) *Engine {
	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = defaultBackendTimeout
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		characters:     cfg.Characters,
		conversations:  cfg.Conversations,
		messages:       cfg.Messages,
		recaller:       cfg.Recaller,
		backend:        cfg.Backend,
		gate:           npc.NewGate(cfg.Rand),
		synth:          npc.NewSynthesizer(cfg.Rand),
		builder:        prompt.NewBuilder(cfg.HistoryLimit),
		backendTimeout: cfg.BackendTimeout,
		historyLimit:   cfg.HistoryLimit,
		logger:         cfg.Logger,
	}
}

// ResolveTurn persists the user message, then walks the present characters in
// resolved order, gating and responding one at a time. Replies are persisted
// as they are produced, so characters later in the order see earlier replies
// in their history window.
func (e *Engine) ResolveTurn(ctx context.Context, conversationID, userMessage string) ([]TurnEntry, error) {
	conversation, err := e.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	present := e.presentCharacters(ctx, conversation)

	userMsg := &types.Message{
		ConversationID: conversation.ID,
		Content:        userMessage,
	}
	if err := e.messages.Append(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	if len(present) == 0 {
		return nil, nil
	}

	cls := npc.Classify(userMessage, present)

	if len(present) == 1 {
		entry := e.process(ctx, conversation.ID, present[0], cls, userMessage,
			e.gate.ShouldSpeakAlone(present[0], cls))
		return []TurnEntry{entry}, nil
	}

	ordered := npc.ResolveOrder(cls, present)
	inOrder := make(map[string]bool, len(ordered))
	for _, character := range ordered {
		inOrder[character.ID] = true
	}

	entries := make([]TurnEntry, 0, len(present))
	for _, character := range ordered {
		entries = append(entries, e.process(ctx, conversation.ID, character, cls, userMessage,
			e.gate.ShouldSpeak(character, cls, true)))
	}
	for _, character := range present {
		if inOrder[character.ID] {
			continue
		}
		entries = append(entries, e.process(ctx, conversation.ID, character, cls, userMessage,
			e.gate.ShouldSpeak(character, cls, false)))
	}
	return entries, nil
}

// presentCharacters loads the active participants. Missing or broken
// references are skipped so one stale id cannot take down a group chat.
func (e *Engine) presentCharacters(ctx context.Context, conversation *types.Conversation) []types.Character {
	present := make([]types.Character, 0, len(conversation.ParticipantIDs))
	for _, id := range conversation.ParticipantIDs {
		character, err := e.characters.GetByID(ctx, id)
		if err != nil {
			e.logger.Warn("skipping unresolvable participant",
				"conversation_id", conversation.ID, "character_id", id, "error", err)
			continue
		}
		if !character.IsActive {
			continue
		}
		present = append(present, *character)
	}
	return present
}

// process runs one character through respond, persist and mood update. Write
// failures after the reply is composed are logged and tolerated; the saved
// message and the mood value may drift apart.
func (e *Engine) process(ctx context.Context, conversationID string, character types.Character, cls npc.Classification, userMessage string, speaks bool) TurnEntry {
	entry := TurnEntry{Character: character}
	if !speaks {
		return entry
	}

	entry.Spoke = true
	entry.Text = e.respond(ctx, conversationID, character, cls, userMessage)
	entry.MoodDelta = npc.MoodDelta(character, cls)

	reply := &types.Message{
		ConversationID: conversationID,
		CharacterID:    character.ID,
		Content:        entry.Text,
	}
	if err := e.messages.Append(ctx, reply); err != nil {
		e.logger.Error("failed to persist reply",
			"conversation_id", conversationID, "character_id", character.ID, "error", err)
	}

	mood := npc.ApplyMood(character.CurrentMood, entry.MoodDelta)
	if err := e.characters.UpdateMood(ctx, character.ID, mood); err != nil {
		e.logger.Error("failed to persist mood",
			"character_id", character.ID, "error", err)
	}
	entry.Character.CurrentMood = mood

	return entry
}

// respond asks the backend first and falls back to the template synthesizer on
// any failure. Backend errors never reach the caller.
func (e *Engine) respond(ctx context.Context, conversationID string, character types.Character, cls npc.Classification, userMessage string) string {
	if e.backend != nil {
		text, err := e.generate(ctx, conversationID, character, userMessage)
		if err != nil {
			e.logger.Warn("backend generation failed, using template reply",
				"character_id", character.ID, "model", e.backend.Name(), "error", err)
		} else if text != "" {
			return text
		}
	}
	return e.synth.Compose(character, cls)
}

func (e *Engine) generate(ctx context.Context, conversationID string, character types.Character, userMessage string) (string, error) {
	// Re-read history so replies persisted earlier in this same turn are
	// part of this character's window.
	recent, err := e.messages.Recent(ctx, conversationID, e.historyLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	// The incoming message is already persisted, so it sits at the tail of
	// the window. It goes into the prompt as the user content, not as
	// history.
	if n := len(recent); n > 0 && recent[n-1].CharacterID == "" && recent[n-1].Content == userMessage {
		recent = recent[:n-1]
	}
	history := make([]prompt.Line, 0, len(recent))
	for _, message := range recent {
		history = append(history, prompt.Line{
			Speaker: e.speakerName(ctx, message.CharacterID),
			Content: message.Content,
		})
	}

	var memories []string
	if e.recaller != nil {
		memories = e.recaller.Relevant(ctx, character.ID, userMessage)
	}

	contents, err := e.builder.Build(prompt.BuildContext{
		Character:   &character,
		Memories:    memories,
		History:     history,
		UserMessage: userMessage,
	})
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.backendTimeout)
	defer cancel()

	seq := e.backend.GenerateContent(callCtx, &model.LLMRequest{Contents: contents}, false)
	return models.CollectResponse(seq)
}

func (e *Engine) speakerName(ctx context.Context, characterID string) string {
	if characterID == "" {
		return "User"
	}
	character, err := e.characters.GetByID(ctx, characterID)
	if err != nil {
		return "Unknown"
	}
	return character.Name
}
