package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is a single content fragment inside a turn. Img carries an
// optional CDN reference for image parts.
type Part struct {
	Text string `json:"text"`
	Img  string `json:"img,omitempty"`
}

// Turn is one entry in a chat's history, authored by either the end
// user or the model. History is append-only; turns are never edited.
type Turn struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// Chat holds the full ordered conversation history of one session.
type Chat struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	History   []Turn    `json:"history"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChatRef is a lightweight pointer used for listing a user's chats
// without loading full histories.
type ChatRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// UserChatIndex is the per-user denormalized index, one document per
// user, refs kept in chat creation order.
type UserChatIndex struct {
	UserID    string    `json:"userId"`
	Chats     []ChatRef `json:"chats"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateAck reports how many documents an append matched and modified.
type UpdateAck struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}
