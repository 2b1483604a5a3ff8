package repository

import (
	"context"

	"lumina-chat/internal/domain"

	"github.com/google/uuid"
)

// ChatRepository persists full chat documents. Create also maintains the
// per-user chat index so a new chat is listable as soon as it is fetchable.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat, ref domain.ChatRef) error
	GetByID(ctx context.Context, id uuid.UUID, userID string) (domain.Chat, error)
	AppendTurns(ctx context.Context, id uuid.UUID, userID string, turns []domain.Turn) (domain.UpdateAck, error)
}

// ChatIndexRepository reads the per-user denormalized chat index.
type ChatIndexRepository interface {
	GetByUserID(ctx context.Context, userID string) (domain.UserChatIndex, error)
}
