package repository

import (
	"context"
	"encoding/json"
	"errors"

	"lumina-chat/internal/domain"
	lumina_errors "lumina-chat/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresChatIndexRepository struct {
	pool *pgxpool.Pool
}

func NewChatIndexRepository(pool *pgxpool.Pool) ChatIndexRepository {
	return &PostgresChatIndexRepository{pool: pool}
}

// GetByUserID returns the user's index document. A user with no chats has
// no index row at all; that surfaces as ErrNotFound, never an empty list.
func (r *PostgresChatIndexRepository) GetByUserID(ctx context.Context, userID string) (domain.UserChatIndex, error) {
	var index domain.UserChatIndex
	var chats []byte

	err := r.pool.QueryRow(ctx, `
        SELECT user_id, chats, created_at, updated_at
        FROM user_chats
        WHERE user_id = $1
    `, userID).Scan(&index.UserID, &chats, &index.CreatedAt, &index.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserChatIndex{}, lumina_errors.ErrNotFound
		}
		return domain.UserChatIndex{}, err
	}

	if err := json.Unmarshal(chats, &index.Chats); err != nil {
		return domain.UserChatIndex{}, err
	}
	return index, nil
}
