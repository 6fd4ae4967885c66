package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

// ErrNotFound is returned by the in-memory store for missing records.
var ErrNotFound = errors.New("record not found")

// MemStore is a mutex-guarded in-memory implementation of the repositories,
// used by tests and by development runs without a DATABASE_URL. It mirrors
// the Store layout: typed views share one lock, so message sequence
// allocation is serialized.
type MemStore struct {
	mu            sync.RWMutex
	characters    map[string]types.Character
	conversations map[string]types.Conversation
	messages      map[string][]types.Message

	Characters    *MemCharacterRepo
	Conversations *MemConversationRepo
	Messages      *MemMessageRepo
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	s := &MemStore{
		characters:    make(map[string]types.Character),
		conversations: make(map[string]types.Conversation),
		messages:      make(map[string][]types.Message),
	}
	s.Characters = &MemCharacterRepo{s: s}
	s.Conversations = &MemConversationRepo{s: s}
	s.Messages = &MemMessageRepo{s: s}
	return s
}

// MemCharacterRepo is the in-memory character repository.
type MemCharacterRepo struct {
	s *MemStore
}

func (r *MemCharacterRepo) Create(_ context.Context, character *types.Character) error {
	if character == nil {
		return errors.New("character cannot be nil")
	}
	if character.ID == "" {
		character.ID = uuid.NewString()
	}
	character.IsActive = true
	character.CreatedAt = time.Now().UTC()
	character.UpdatedAt = character.CreatedAt

	r.s.mu.Lock()
	r.s.characters[character.ID] = *character
	r.s.mu.Unlock()
	return nil
}

func (r *MemCharacterRepo) GetByID(_ context.Context, id string) (*types.Character, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	character, ok := r.s.characters[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := character
	return &copied, nil
}

func (r *MemCharacterRepo) List(_ context.Context, includeInactive bool) ([]types.Character, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	results := make([]types.Character, 0, len(r.s.characters))
	for _, character := range r.s.characters {
		if !includeInactive && !character.IsActive {
			continue
		}
		results = append(results, character)
	}
	sortByCreation(results, func(c types.Character) (time.Time, string) { return c.CreatedAt, c.ID })
	return results, nil
}

func (r *MemCharacterRepo) Update(_ context.Context, character *types.Character) error {
	if character == nil || character.ID == "" {
		return errors.New("character id is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.characters[character.ID]
	if !ok {
		return ErrNotFound
	}
	character.CreatedAt = existing.CreatedAt
	character.UpdatedAt = time.Now().UTC()
	r.s.characters[character.ID] = *character
	return nil
}

func (r *MemCharacterRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	character, ok := r.s.characters[id]
	if !ok {
		return ErrNotFound
	}
	character.IsActive = false
	character.UpdatedAt = time.Now().UTC()
	r.s.characters[id] = character
	return nil
}

func (r *MemCharacterRepo) UpdateMood(_ context.Context, id string, mood float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	character, ok := r.s.characters[id]
	if !ok {
		return ErrNotFound
	}
	character.CurrentMood = mood
	character.UpdatedAt = time.Now().UTC()
	r.s.characters[id] = character
	return nil
}

// MemConversationRepo is the in-memory conversation repository.
type MemConversationRepo struct {
	s *MemStore
}

func (r *MemConversationRepo) CreateRoom(_ context.Context, title string, participantIDs []string) (*types.Conversation, error) {
	conversation := types.Conversation{
		ID:             uuid.NewString(),
		Title:          title,
		Kind:           types.ConversationRoom,
		ParticipantIDs: append([]string(nil), participantIDs...),
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	r.s.mu.Lock()
	r.s.conversations[conversation.ID] = conversation
	r.s.messages[conversation.ID] = make([]types.Message, 0, 16)
	r.s.mu.Unlock()
	copied := conversation
	return &copied, nil
}

func (r *MemConversationRepo) GetOrCreateDirect(_ context.Context, characterID string) (*types.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, conversation := range r.s.conversations {
		if conversation.Kind != types.ConversationDirect || !conversation.IsActive {
			continue
		}
		for _, id := range conversation.ParticipantIDs {
			if id == characterID {
				copied := conversation
				return &copied, nil
			}
		}
	}

	conversation := types.Conversation{
		ID:             uuid.NewString(),
		Kind:           types.ConversationDirect,
		ParticipantIDs: []string{characterID},
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	r.s.conversations[conversation.ID] = conversation
	r.s.messages[conversation.ID] = make([]types.Message, 0, 16)
	copied := conversation
	return &copied, nil
}

func (r *MemConversationRepo) GetByID(_ context.Context, id string) (*types.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	conversation, ok := r.s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := conversation
	return &copied, nil
}

func (r *MemConversationRepo) ListRooms(_ context.Context) ([]types.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	results := make([]types.Conversation, 0, len(r.s.conversations))
	for _, conversation := range r.s.conversations {
		if conversation.Kind == types.ConversationRoom && conversation.IsActive {
			results = append(results, conversation)
		}
	}
	sortByCreation(results, func(c types.Conversation) (time.Time, string) { return c.CreatedAt, c.ID })
	return results, nil
}

func (r *MemConversationRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	conversation, ok := r.s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	conversation.IsActive = false
	r.s.conversations[id] = conversation
	return nil
}

func (r *MemConversationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.conversations[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.conversations, id)
	delete(r.s.messages, id)
	return nil
}

// MemMessageRepo is the in-memory message repository.
type MemMessageRepo struct {
	s *MemStore
}

// Append allocates the next sequence number under the store lock.
func (r *MemMessageRepo) Append(_ context.Context, message *types.Message) error {
	if message == nil || message.ConversationID == "" {
		return errors.New("conversation id is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.conversations[message.ConversationID]; !ok {
		return ErrNotFound
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.Seq = len(r.s.messages[message.ConversationID]) + 1
	message.CreatedAt = time.Now().UTC()
	r.s.messages[message.ConversationID] = append(r.s.messages[message.ConversationID], *message)
	return nil
}

func (r *MemMessageRepo) Recent(_ context.Context, conversationID string, limit int) ([]types.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.messages[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	start := 0
	if limit > 0 && len(stored) > limit {
		start = len(stored) - limit
	}
	copied := make([]types.Message, len(stored)-start)
	copy(copied, stored[start:])
	return copied, nil
}

func sortByCreation[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti.Equal(tj) {
			return idi < idj
		}
		return ti.Before(tj)
	})
}
