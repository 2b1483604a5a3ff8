package services

import (
	"context"
	"time"

	"lumina-chat/internal/domain"
	"lumina-chat/internal/repository"
	lumina_errors "lumina-chat/pkg/errors"

	"github.com/google/uuid"
)

// TitleMaxLen bounds the index title derived from the first user message.
const TitleMaxLen = 40

type ChatService struct {
	chats repository.ChatRepository
	index repository.ChatIndexRepository
}

func NewChatService(chats repository.ChatRepository, index repository.ChatIndexRepository) *ChatService {
	return &ChatService{chats: chats, index: index}
}

type AppendInput struct {
	Question string
	Img      string
	Answer   string
}

// CreateChat opens a new chat whose history starts with a single user
// turn, and registers it in the owner's index under a title derived from
// the text. The title is fixed here and never updated afterwards.
func (s *ChatService) CreateChat(ctx context.Context, userID, text string) (uuid.UUID, error) {
	if userID == "" || text == "" {
		return uuid.Nil, lumina_errors.ErrInvalidInput
	}

	now := time.Now()
	chat := &domain.Chat{
		ID:     uuid.New(),
		UserID: userID,
		History: []domain.Turn{
			{Role: domain.RoleUser, Parts: []domain.Part{{Text: text}}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	ref := domain.ChatRef{
		ID:    chat.ID,
		Title: truncateTitle(text),
	}

	if err := s.chats.Create(ctx, chat, ref); err != nil {
		return uuid.Nil, err
	}
	return chat.ID, nil
}

// ListUserChats returns the user's chat refs in creation order.
func (s *ChatService) ListUserChats(ctx context.Context, userID string) ([]domain.ChatRef, error) {
	index, err := s.index.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return index.Chats, nil
}

// GetChat returns the full chat only when it is owned by the caller.
// A foreign or unknown id is indistinguishable from a missing one.
func (s *ChatService) GetChat(ctx context.Context, userID string, chatID uuid.UUID) (domain.Chat, error) {
	return s.chats.GetByID(ctx, chatID, userID)
}

// AppendTurns appends zero-or-one user turn followed by exactly one model
// turn to the chat's history, atomically and in that order. Appending to
// an unknown or foreign chat is a silent no-op reported by a zero ack.
func (s *ChatService) AppendTurns(ctx context.Context, userID string, chatID uuid.UUID, in AppendInput) (domain.UpdateAck, error) {
	if in.Answer == "" {
		return domain.UpdateAck{}, lumina_errors.ErrInvalidInput
	}

	var turns []domain.Turn
	if in.Question != "" {
		part := domain.Part{Text: in.Question, Img: in.Img}
		turns = append(turns, domain.Turn{Role: domain.RoleUser, Parts: []domain.Part{part}})
	}
	turns = append(turns, domain.Turn{Role: domain.RoleModel, Parts: []domain.Part{{Text: in.Answer}}})

	return s.chats.AppendTurns(ctx, chatID, userID, turns)
}

func truncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleMaxLen {
		return text
	}
	return string(runes[:TitleMaxLen])
}
