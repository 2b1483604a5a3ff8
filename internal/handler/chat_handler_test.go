package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lumina-chat/config"
	"lumina-chat/internal/domain"
	"lumina-chat/internal/handler"
	"lumina-chat/internal/server"
	"lumina-chat/internal/services"
	"lumina-chat/internal/storage"
	lumina_errors "lumina-chat/pkg/errors"

	"github.com/google/uuid"
)

// staticVerifier resolves fixed bearer tokens to opaque user ids.
type staticVerifier struct {
	tokens map[string]string
}

func (v *staticVerifier) Verify(ctx context.Context, credential string) (string, error) {
	if userID, ok := v.tokens[credential]; ok {
		return userID, nil
	}
	return "", lumina_errors.ErrUnauthorized
}

type memStore struct {
	chats map[uuid.UUID]*domain.Chat
	index map[string]*domain.UserChatIndex
}

func newMemStore() *memStore {
	return &memStore{
		chats: make(map[uuid.UUID]*domain.Chat),
		index: make(map[string]*domain.UserChatIndex),
	}
}

func (m *memStore) Create(ctx context.Context, chat *domain.Chat, ref domain.ChatRef) error {
	stored := *chat
	m.chats[chat.ID] = &stored
	idx, ok := m.index[chat.UserID]
	if !ok {
		idx = &domain.UserChatIndex{UserID: chat.UserID}
		m.index[chat.UserID] = idx
	}
	idx.Chats = append(idx.Chats, ref)
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID, userID string) (domain.Chat, error) {
	chat, ok := m.chats[id]
	if !ok || chat.UserID != userID {
		return domain.Chat{}, lumina_errors.ErrNotFound
	}
	return *chat, nil
}

func (m *memStore) AppendTurns(ctx context.Context, id uuid.UUID, userID string, turns []domain.Turn) (domain.UpdateAck, error) {
	chat, ok := m.chats[id]
	if !ok || chat.UserID != userID {
		return domain.UpdateAck{}, nil
	}
	chat.History = append(chat.History, turns...)
	return domain.UpdateAck{Matched: 1, Modified: 1}, nil
}

func (m *memStore) GetByUserID(ctx context.Context, userID string) (domain.UserChatIndex, error) {
	idx, ok := m.index[userID]
	if !ok {
		return domain.UserChatIndex{}, lumina_errors.ErrNotFound
	}
	return *idx, nil
}

func newTestServer(t *testing.T) (*server.Server, *memStore) {
	t.Helper()

	cfg := &config.Config{
		AppPort:   "0",
		AppMode:   server.TestMode,
		ClientURL: "http://client.test",
	}

	store := newMemStore()
	chatService := services.NewChatService(store, store)

	signer, err := storage.NewCDNSigner("test-private-key", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewCDNSigner: %v", err)
	}
	uploadService := services.NewUploadService(signer)

	verifier := &staticVerifier{tokens: map[string]string{
		"alice-token": "user-alice",
		"bob-token":   "user-bob",
	}}

	srv := server.New(cfg, nil)
	srv.SetupRoutes(&server.Handlers{
		Chat:   handler.NewChatHandler(chatService, nil),
		Upload: handler.NewUploadHandler(uploadService, nil),
	}, verifier, nil, nil)

	return srv, store
}

func doJSONRequest(t *testing.T, srv *server.Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, w.Code, w.Body.String())
	}
}

func decodeJSON(t *testing.T, data []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, data)
	}
}

func authAlice() map[string]string {
	return map[string]string{"Authorization": "Bearer alice-token"}
}

func createChat(t *testing.T, srv *server.Server, headers map[string]string, text string) string {
	t.Helper()

	w := doJSONRequest(t, srv, http.MethodPost, "/api/chats", map[string]string{"text": text}, headers)
	assertStatus(t, w, http.StatusCreated)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ChatID string `json:"chatId"`
		} `json:"data"`
	}
	decodeJSON(t, w.Body.Bytes(), &body)
	if !body.Success || body.Data.ChatID == "" {
		t.Fatalf("expected chat id in response, got %s", w.Body.String())
	}
	return body.Data.ChatID
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/chats"},
		{http.MethodGet, "/api/userchats"},
		{http.MethodGet, "/api/chats/" + uuid.NewString()},
		{http.MethodPut, "/api/chats/" + uuid.NewString()},
	}
	for _, p := range paths {
		w := doJSONRequest(t, srv, p.method, p.path, nil, nil)
		assertStatus(t, w, http.StatusUnauthorized)

		w = doJSONRequest(t, srv, p.method, p.path, nil, map[string]string{"Authorization": "Bearer forged"})
		assertStatus(t, w, http.StatusUnauthorized)
	}
}

func TestCreateAndFetchChat(t *testing.T) {
	srv, _ := newTestServer(t)

	chatID := createChat(t, srv, authAlice(), "Hello world")

	w := doJSONRequest(t, srv, http.MethodGet, "/api/chats/"+chatID, nil, authAlice())
	assertStatus(t, w, http.StatusOK)

	var body struct {
		Data domain.Chat `json:"data"`
	}
	decodeJSON(t, w.Body.Bytes(), &body)
	if body.Data.ID.String() != chatID {
		t.Fatalf("chat id mismatch: want %s got %s", chatID, body.Data.ID)
	}
	if len(body.Data.History) != 1 || body.Data.History[0].Parts[0].Text != "Hello world" {
		t.Fatalf("unexpected history: %+v", body.Data.History)
	}
}

func TestFetchChatOtherUser(t *testing.T) {
	srv, _ := newTestServer(t)

	chatID := createChat(t, srv, authAlice(), "private")

	w := doJSONRequest(t, srv, http.MethodGet, "/api/chats/"+chatID, nil,
		map[string]string{"Authorization": "Bearer bob-token"})
	assertStatus(t, w, http.StatusNotFound)
}

func TestFetchChatMalformedID(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSONRequest(t, srv, http.MethodGet, "/api/chats/not-a-uuid", nil, authAlice())
	assertStatus(t, w, http.StatusNotFound)
}

func TestListUserChats(t *testing.T) {
	srv, _ := newTestServer(t)

	// No index yet: not-found rather than an empty list.
	w := doJSONRequest(t, srv, http.MethodGet, "/api/userchats", nil, authAlice())
	assertStatus(t, w, http.StatusNotFound)

	first := createChat(t, srv, authAlice(), "first")
	second := createChat(t, srv, authAlice(), "second")

	w = doJSONRequest(t, srv, http.MethodGet, "/api/userchats", nil, authAlice())
	assertStatus(t, w, http.StatusOK)

	var body struct {
		Data []domain.ChatRef `json:"data"`
	}
	decodeJSON(t, w.Body.Bytes(), &body)
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(body.Data))
	}
	if body.Data[0].ID.String() != first || body.Data[1].ID.String() != second {
		t.Fatalf("refs out of creation order: %+v", body.Data)
	}
}

func TestAppendTurns(t *testing.T) {
	srv, store := newTestServer(t)

	chatID := createChat(t, srv, authAlice(), "start")

	w := doJSONRequest(t, srv, http.MethodPut, "/api/chats/"+chatID,
		map[string]string{"question": "Q", "answer": "A"}, authAlice())
	assertStatus(t, w, http.StatusOK)

	var body struct {
		Data domain.UpdateAck `json:"data"`
	}
	decodeJSON(t, w.Body.Bytes(), &body)
	if body.Data.Matched != 1 || body.Data.Modified != 1 {
		t.Fatalf("unexpected ack: %+v", body.Data)
	}

	id := uuid.MustParse(chatID)
	if got := len(store.chats[id].History); got != 3 {
		t.Fatalf("expected 3 turns after append, got %d", got)
	}
}

func TestAppendTurnsForeignChatIsNoop(t *testing.T) {
	srv, store := newTestServer(t)

	chatID := createChat(t, srv, authAlice(), "start")

	w := doJSONRequest(t, srv, http.MethodPut, "/api/chats/"+chatID,
		map[string]string{"answer": "A"},
		map[string]string{"Authorization": "Bearer bob-token"})
	assertStatus(t, w, http.StatusOK)

	var body struct {
		Data domain.UpdateAck `json:"data"`
	}
	decodeJSON(t, w.Body.Bytes(), &body)
	if body.Data.Matched != 0 || body.Data.Modified != 0 {
		t.Fatalf("expected zero ack, got %+v", body.Data)
	}

	id := uuid.MustParse(chatID)
	if got := len(store.chats[id].History); got != 1 {
		t.Fatalf("foreign append must not modify history, got %d turns", got)
	}
}

func TestAppendTurnsRequiresAnswer(t *testing.T) {
	srv, _ := newTestServer(t)

	chatID := createChat(t, srv, authAlice(), "start")

	w := doJSONRequest(t, srv, http.MethodPut, "/api/chats/"+chatID,
		map[string]string{"question": "Q"}, authAlice())
	assertStatus(t, w, http.StatusBadRequest)
}

func TestUploadCredentialsUnauthenticated(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSONRequest(t, srv, http.MethodGet, "/api/upload", nil, nil)
	assertStatus(t, w, http.StatusOK)

	var body struct {
		Data domain.UploadCredentials `json:"data"`
	}
	decodeJSON(t, w.Body.Bytes(), &body)
	if body.Data.Token == "" || body.Data.Signature == "" || body.Data.Expire == 0 {
		t.Fatalf("incomplete upload credentials: %+v", body.Data)
	}
}

func TestUnmatchedRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSONRequest(t, srv, http.MethodGet, "/api/unknown", nil, nil)
	assertStatus(t, w, http.StatusNotFound)
}

func TestCORSOnlyConfiguredOrigin(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSONRequest(t, srv, http.MethodGet, "/ping", nil,
		map[string]string{"Origin": "http://client.test"})
	assertStatus(t, w, http.StatusOK)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://client.test" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}

	w = doJSONRequest(t, srv, http.MethodGet, "/ping", nil,
		map[string]string{"Origin": "http://evil.test"})
	assertStatus(t, w, http.StatusOK)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin must get no CORS headers, got %q", got)
	}
}
