package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

type messageModel struct {
	ID             string `gorm:"primaryKey"`
	ConversationID string `gorm:"index:idx_messages_conv_seq,unique"`
	CharacterID    string
	Seq            int `gorm:"index:idx_messages_conv_seq,unique"`
	Content        string
	CreatedAt      time.Time
}

func (messageModel) TableName() string {
	return "messages"
}

// MessageRepo accesses message data.
type MessageRepo struct {
	db *gorm.DB
}

// NewMessageRepo returns a MessageRepo.
func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Append stores a message, allocating the next sequence number under a row
// lock on the conversation so concurrent turns cannot mint duplicate or
// gapped numbers.
func (r *MessageRepo) Append(ctx context.Context, message *types.Message) error {
	if message == nil || message.ConversationID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conversation conversationModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&conversation, "id = ?", message.ConversationID).Error; err != nil {
			return fmt.Errorf("failed to lock conversation: %w", err)
		}

		var maxSeq int
		if err := tx.Model(&messageModel{}).
			Where("conversation_id = ?", message.ConversationID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return fmt.Errorf("failed to read sequence: %w", err)
		}
		message.Seq = maxSeq + 1

		record := messageModel{
			ID:             message.ID,
			ConversationID: message.ConversationID,
			CharacterID:    message.CharacterID,
			Seq:            message.Seq,
			Content:        message.Content,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		message.CreatedAt = record.CreatedAt
		return nil
	})
}

// Recent returns up to limit messages, oldest first.
func (r *MessageRepo) Recent(ctx context.Context, conversationID string, limit int) ([]types.Message, error) {
	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []messageModel
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	results := make([]types.Message, 0, len(records))
	for _, record := range records {
		results = append(results, messageFromModel(record))
	}

	// Oldest -> newest
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

func messageFromModel(model messageModel) types.Message {
	return types.Message{
		ID:             model.ID,
		ConversationID: model.ConversationID,
		CharacterID:    model.CharacterID,
		Seq:            model.Seq,
		Content:        model.Content,
		CreatedAt:      model.CreatedAt,
	}
}
