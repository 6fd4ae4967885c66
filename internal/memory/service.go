package memory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

// Repo persists and searches character memories.
type Repo interface {
	Add(ctx context.Context, mem types.CharacterMemory) error
	SearchSimilar(ctx context.Context, characterID string, embedding []float32, topK int, threshold float64) ([]types.CharacterMemory, error)
}

// Service embeds new memories and recalls relevant ones for prompts.
type Service struct {
	embedder  Embedder
	memories  Repo
	topK      int
	threshold float64
}

// NewService returns a memory Service.
func NewService(embedder Embedder, memories Repo, topK int, threshold float64) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		embedder:  embedder,
		memories:  memories,
		topK:      topK,
		threshold: threshold,
	}
}

// Remember embeds and stores one memory snippet for a character.
func (s *Service) Remember(ctx context.Context, characterID, content string) error {
	if content == "" {
		return fmt.Errorf("memory content cannot be empty")
	}
	embedding, err := s.embedder.EmbedDocument(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to embed memory: %w", err)
	}
	mem := types.CharacterMemory{
		CharacterID: characterID,
		Content:     content,
		Embedding:   embedding,
	}
	if err := s.memories.Add(ctx, mem); err != nil {
		return fmt.Errorf("failed to store memory: %w", err)
	}
	return nil
}

// Relevant returns the memory snippets most similar to the query. Retrieval
// failures degrade to an empty result so a turn never fails on recall.
func (s *Service) Relevant(ctx context.Context, characterID, query string) []string {
	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		slog.Warn("failed to embed query, skipping memory recall", "error", err.Error())
		return nil
	}
	found, err := s.memories.SearchSimilar(ctx, characterID, embedding, s.topK, s.threshold)
	if err != nil {
		slog.Warn("failed to search memories", "character_id", characterID, "error", err.Error())
		return nil
	}
	snippets := make([]string, 0, len(found))
	for _, mem := range found {
		snippets = append(snippets, mem.Content)
	}
	return snippets
}
