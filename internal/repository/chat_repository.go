package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lumina-chat/internal/domain"
	lumina_errors "lumina-chat/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &PostgresChatRepository{pool: pool}
}

// Create inserts the chat document and appends its ref to the owner's
// index in a single transaction, so every listed ref always resolves to
// an existing chat. The index row is created lazily on the first chat.
func (r *PostgresChatRepository) Create(ctx context.Context, chat *domain.Chat, ref domain.ChatRef) error {
	history, err := json.Marshal(chat.History)
	if err != nil {
		return err
	}
	refJSON, err := json.Marshal(ref)
	if err != nil {
		return err
	}

	return WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
            INSERT INTO chats (id, user_id, history, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5)
        `, chat.ID, chat.UserID, history, chat.CreatedAt, chat.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return lumina_errors.ErrAlreadyExists
			}
			return err
		}

		_, err := tx.Exec(ctx, `
            INSERT INTO user_chats (user_id, chats, created_at, updated_at)
            VALUES ($1, jsonb_build_array($2::jsonb), $3, $3)
            ON CONFLICT (user_id) DO UPDATE
            SET chats = user_chats.chats || excluded.chats,
                updated_at = excluded.updated_at
        `, chat.UserID, refJSON, time.Now())
		return err
	})
}

func (r *PostgresChatRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (domain.Chat, error) {
	var chat domain.Chat
	var history []byte

	err := r.pool.QueryRow(ctx, `
        SELECT id, user_id, history, created_at, updated_at
        FROM chats
        WHERE id = $1 AND user_id = $2
    `, id, userID).Scan(&chat.ID, &chat.UserID, &history, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Chat{}, lumina_errors.ErrNotFound
		}
		return domain.Chat{}, err
	}

	if err := json.Unmarshal(history, &chat.History); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

// AppendTurns pushes turns onto the chat's history in one atomic update,
// filtered by owner. A non-matching id or owner yields a zero ack, not
// an error.
func (r *PostgresChatRepository) AppendTurns(ctx context.Context, id uuid.UUID, userID string, turns []domain.Turn) (domain.UpdateAck, error) {
	payload, err := json.Marshal(turns)
	if err != nil {
		return domain.UpdateAck{}, err
	}

	tag, err := r.pool.Exec(ctx, `
        UPDATE chats
        SET history = history || $3::jsonb, updated_at = now()
        WHERE id = $1 AND user_id = $2
    `, id, userID, payload)
	if err != nil {
		return domain.UpdateAck{}, err
	}

	affected := tag.RowsAffected()
	return domain.UpdateAck{Matched: affected, Modified: affected}, nil
}
