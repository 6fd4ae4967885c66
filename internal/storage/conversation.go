package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

type conversationModel struct {
	ID        string `gorm:"primaryKey"`
	Title     string
	Kind      string
	IsActive  bool
	CreatedAt time.Time
}

func (conversationModel) TableName() string {
	return "conversations"
}

type participantModel struct {
	ConversationID string `gorm:"primaryKey"`
	CharacterID    string `gorm:"primaryKey"`
}

func (participantModel) TableName() string {
	return "conversation_participants"
}

// ConversationRepo accesses conversation data.
type ConversationRepo struct {
	db *gorm.DB
}

// NewConversationRepo returns a ConversationRepo.
func NewConversationRepo(db *gorm.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// CreateRoom provisions a group conversation with the given participants.
func (r *ConversationRepo) CreateRoom(ctx context.Context, title string, participantIDs []string) (*types.Conversation, error) {
	conversation := &types.Conversation{
		ID:             uuid.NewString(),
		Title:          title,
		Kind:           types.ConversationRoom,
		ParticipantIDs: participantIDs,
		IsActive:       true,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := conversationModel{
			ID:       conversation.ID,
			Title:    title,
			Kind:     string(types.ConversationRoom),
			IsActive: true,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to insert conversation: %w", err)
		}
		for _, characterID := range participantIDs {
			participant := participantModel{
				ConversationID: conversation.ID,
				CharacterID:    characterID,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

// GetOrCreateDirect returns the character's active one-on-one conversation,
// creating it on first contact. A character holds at most one.
func (r *ConversationRepo) GetOrCreateDirect(ctx context.Context, characterID string) (*types.Conversation, error) {
	var record conversationModel
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants p ON p.conversation_id = conversations.id").
		Where("p.character_id = ?", characterID).
		Where("conversations.kind = ?", string(types.ConversationDirect)).
		Where("conversations.is_active = ?", true).
		First(&record).Error
	if err == nil {
		return r.GetByID(ctx, record.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query direct conversation: %w", err)
	}

	conversation := &types.Conversation{
		ID:             uuid.NewString(),
		Kind:           types.ConversationDirect,
		ParticipantIDs: []string{characterID},
		IsActive:       true,
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conversationModel{
			ID:       conversation.ID,
			Kind:     string(types.ConversationDirect),
			IsActive: true,
		}).Error; err != nil {
			return fmt.Errorf("failed to insert conversation: %w", err)
		}
		if err := tx.Create(&participantModel{
			ConversationID: conversation.ID,
			CharacterID:    characterID,
		}).Error; err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id string) (*types.Conversation, error) {
	var record conversationModel
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get conversation by id: %w", err)
	}

	var participants []participantModel
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", id).
		Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	ids := make([]string, 0, len(participants))
	for _, participant := range participants {
		ids = append(ids, participant.CharacterID)
	}

	return &types.Conversation{
		ID:             record.ID,
		Title:          record.Title,
		Kind:           types.ConversationKind(record.Kind),
		ParticipantIDs: ids,
		IsActive:       record.IsActive,
		CreatedAt:      record.CreatedAt,
	}, nil
}

// ListRooms returns active room conversations.
func (r *ConversationRepo) ListRooms(ctx context.Context) ([]types.Conversation, error) {
	var records []conversationModel
	if err := r.db.WithContext(ctx).
		Where("kind = ?", string(types.ConversationRoom)).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	results := make([]types.Conversation, 0, len(records))
	for _, record := range records {
		conversation, err := r.GetByID(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, *conversation)
	}
	return results, nil
}

// Deactivate soft-deletes a conversation.
func (r *ConversationRepo) Deactivate(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Model(&conversationModel{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate conversation: %w", err)
	}
	return nil
}

// Delete hard-deletes a conversation with its participants and messages.
func (r *ConversationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&messageModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&participantModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete participants: %w", err)
		}
		if err := tx.Delete(&conversationModel{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}
		return nil
	})
}
