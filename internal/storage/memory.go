package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

type memoryModel struct {
	ID          string `gorm:"primaryKey"`
	CharacterID string `gorm:"index"`
	Content     string
	// Embedding stores the vector representation for similarity search.
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time
}

func (memoryModel) TableName() string {
	return "character_memories"
}

// MemoryRepo accesses embedded character memories.
type MemoryRepo struct {
	db *gorm.DB
}

// NewMemoryRepo returns a MemoryRepo.
func NewMemoryRepo(db *gorm.DB) *MemoryRepo {
	return &MemoryRepo{db: db}
}

func (r *MemoryRepo) Add(ctx context.Context, mem types.CharacterMemory) error {
	var vector *pgvector.Vector
	if len(mem.Embedding) > 0 {
		v := pgvector.NewVector(mem.Embedding)
		vector = &v
	}
	record := memoryModel{
		ID:          mem.ID,
		CharacterID: mem.CharacterID,
		Content:     mem.Content,
		Embedding:   vector,
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}
	return nil
}

// SearchSimilar returns the character's memories ranked by cosine similarity
// against the query embedding, filtered by the given threshold.
func (r *MemoryRepo) SearchSimilar(ctx context.Context, characterID string, embedding []float32, topK int, threshold float64) ([]types.CharacterMemory, error) {
	if len(embedding) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, character_id, content, created_at
		FROM character_memories
		WHERE character_id = $1
		  AND embedding IS NOT NULL
		  AND 1 - (embedding <=> $2) > $3
		ORDER BY embedding <=> $2
		LIMIT $4`

	var results []types.CharacterMemory
	if err := r.db.WithContext(ctx).
		Raw(query, characterID, pgvector.NewVector(embedding), threshold, topK).
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to search similar memories: %w", err)
	}
	return results, nil
}
