package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

type characterModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Role        string
	Happiness   float64
	Sadness     float64
	Anger       float64
	Fear        float64
	Surprise    float64
	Disgust     float64
	Sociability float64
	Curiosity   float64
	Aggression  float64
	Loyalty     float64
	Humor       float64
	CurrentMood float64
	Memories    json.RawMessage `gorm:"type:jsonb"`
	Routines    json.RawMessage `gorm:"type:jsonb"`
	Actions     json.RawMessage `gorm:"type:jsonb"`
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (characterModel) TableName() string {
	return "characters"
}

// CharacterRepo accesses character data.
type CharacterRepo struct {
	db *gorm.DB
}

// NewCharacterRepo returns a CharacterRepo.
func NewCharacterRepo(db *gorm.DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

func (r *CharacterRepo) Create(ctx context.Context, character *types.Character) error {
	if character == nil {
		return fmt.Errorf("character cannot be nil")
	}
	if character.ID == "" {
		character.ID = uuid.NewString()
	}
	character.IsActive = true

	record, err := characterToModel(character)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to insert character: %w", err)
	}
	return nil
}

func (r *CharacterRepo) GetByID(ctx context.Context, id string) (*types.Character, error) {
	var record characterModel
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get character by id: %w", err)
	}
	return characterFromModel(record), nil
}

// List returns characters, active ones only unless includeInactive is set.
func (r *CharacterRepo) List(ctx context.Context, includeInactive bool) ([]types.Character, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var records []characterModel
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	results := make([]types.Character, 0, len(records))
	for _, record := range records {
		results = append(results, *characterFromModel(record))
	}
	return results, nil
}

func (r *CharacterRepo) Update(ctx context.Context, character *types.Character) error {
	if character == nil || character.ID == "" {
		return fmt.Errorf("character id is required")
	}
	record, err := characterToModel(character)
	if err != nil {
		return err
	}
	// Map updates so zeroed traits and a cleared activity flag still persist.
	updates := map[string]any{
		"name":         record.Name,
		"role":         record.Role,
		"happiness":    record.Happiness,
		"sadness":      record.Sadness,
		"anger":        record.Anger,
		"fear":         record.Fear,
		"surprise":     record.Surprise,
		"disgust":      record.Disgust,
		"sociability":  record.Sociability,
		"curiosity":    record.Curiosity,
		"aggression":   record.Aggression,
		"loyalty":      record.Loyalty,
		"humor":        record.Humor,
		"current_mood": record.CurrentMood,
		"memories":     record.Memories,
		"routines":     record.Routines,
		"actions":      record.Actions,
		"is_active":    record.IsActive,
	}
	if err := r.db.WithContext(ctx).
		Model(&characterModel{}).
		Where("id = ?", character.ID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a character by flipping its activity flag.
func (r *CharacterRepo) Deactivate(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Model(&characterModel{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate character: %w", err)
	}
	return nil
}

// UpdateMood persists the post-turn mood value.
func (r *CharacterRepo) UpdateMood(ctx context.Context, id string, mood float64) error {
	if err := r.db.WithContext(ctx).
		Model(&characterModel{}).
		Where("id = ?", id).
		Update("current_mood", mood).Error; err != nil {
		return fmt.Errorf("failed to update mood: %w", err)
	}
	return nil
}

func characterToModel(c *types.Character) (*characterModel, error) {
	memories, err := marshalJSON(c.Memories)
	if err != nil {
		return nil, fmt.Errorf("failed to encode memories: %w", err)
	}
	routines, err := marshalJSON(c.Routines)
	if err != nil {
		return nil, fmt.Errorf("failed to encode routines: %w", err)
	}
	actions, err := marshalJSON(c.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode actions: %w", err)
	}
	return &characterModel{
		ID:          c.ID,
		Name:        c.Name,
		Role:        string(c.Role),
		Happiness:   c.Emotions.Happiness,
		Sadness:     c.Emotions.Sadness,
		Anger:       c.Emotions.Anger,
		Fear:        c.Emotions.Fear,
		Surprise:    c.Emotions.Surprise,
		Disgust:     c.Emotions.Disgust,
		Sociability: c.Traits.Sociability,
		Curiosity:   c.Traits.Curiosity,
		Aggression:  c.Traits.Aggression,
		Loyalty:     c.Traits.Loyalty,
		Humor:       c.Traits.Humor,
		CurrentMood: c.CurrentMood,
		Memories:    memories,
		Routines:    routines,
		Actions:     actions,
		IsActive:    c.IsActive,
	}, nil
}

func characterFromModel(model characterModel) *types.Character {
	var memories, routines, actions []string
	_ = unmarshalJSON(model.Memories, &memories)
	_ = unmarshalJSON(model.Routines, &routines)
	_ = unmarshalJSON(model.Actions, &actions)
	return &types.Character{
		ID:   model.ID,
		Name: model.Name,
		Role: types.Role(model.Role),
		Emotions: types.EmotionalWeights{
			Happiness: model.Happiness,
			Sadness:   model.Sadness,
			Anger:     model.Anger,
			Fear:      model.Fear,
			Surprise:  model.Surprise,
			Disgust:   model.Disgust,
		},
		Traits: types.BehavioralTraits{
			Sociability: model.Sociability,
			Curiosity:   model.Curiosity,
			Aggression:  model.Aggression,
			Loyalty:     model.Loyalty,
			Humor:       model.Humor,
		},
		CurrentMood: model.CurrentMood,
		Memories:    memories,
		Routines:    routines,
		Actions:     actions,
		IsActive:    model.IsActive,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
