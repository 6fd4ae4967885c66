package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PKM100/mnemocyte-sub001/internal/storage"
	"github.com/PKM100/mnemocyte-sub001/internal/turn"
	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

type fixedRand struct {
	value float64
}

func (r fixedRand) Float64() float64 {
	return r.value
}

func newTestServer(t *testing.T) (*httptest.Server, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	engine := turn.NewEngine(turn.Config{
		Characters:    store.Characters,
		Conversations: store.Conversations,
		Messages:      store.Messages,
		Rand:          fixedRand{value: 0.0},
	})
	server := httptest.NewServer(NewRouter(store.Characters, store.Conversations, store.Messages, engine, nil))
	t.Cleanup(server.Close)
	return server, store
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func createCharacter(t *testing.T, baseURL, name string, role types.Role, sociability float64) types.Character {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/api/characters", types.Character{
		Name: name,
		Role: role,
		Traits: types.BehavioralTraits{
			Sociability: sociability,
			Curiosity:   0.5,
		},
		CurrentMood: 0.5,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	return decode[types.Character](t, resp)
}

func TestCharacterLifecycle(t *testing.T) {
	server, _ := newTestServer(t)

	created := createCharacter(t, server.URL, "Aria", types.RoleScholar, 0.7)
	if created.ID == "" || !created.IsActive {
		t.Fatalf("expected active character with id, got %#v", created)
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/api/characters/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	fetched := decode[types.Character](t, resp)
	if fetched.Name != "Aria" || fetched.Role != types.RoleScholar {
		t.Fatalf("unexpected character: %#v", fetched)
	}

	fetched.Name = "Aria the Wise"
	resp = doJSON(t, http.MethodPut, server.URL+"/api/characters/"+created.ID, fetched)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	updated := decode[types.Character](t, resp)
	if updated.Name != "Aria the Wise" {
		t.Fatalf("expected renamed character, got %#v", updated)
	}

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/characters/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, server.URL+"/api/characters", nil)
	active := decode[[]types.Character](t, resp)
	if len(active) != 0 {
		t.Fatalf("expected no active characters, got %#v", active)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/characters?include_inactive=true", nil)
	all := decode[[]types.Character](t, resp)
	if len(all) != 1 || all[0].IsActive {
		t.Fatalf("expected one inactive character, got %#v", all)
	}
}

func TestCreateCharacterValidation(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/characters", types.Character{Role: types.RoleScholar})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/characters", types.Character{Name: "X", Role: "dragon"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGetCharacterNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/characters/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoomChatTurn(t *testing.T) {
	server, _ := newTestServer(t)

	aria := createCharacter(t, server.URL, "Aria", types.RoleScholar, 0.7)
	bram := createCharacter(t, server.URL, "Bram", types.RoleWarrior, 0.5)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/rooms", map[string]any{
		"title":           "The Gilded Flagon",
		"participant_ids": []string{aria.ID, bram.ID},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	room := decode[types.Conversation](t, resp)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/rooms/"+room.ID+"/chat", map[string]string{
		"message": "Aria, tell me about the old library",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	result := decode[chatResponse](t, resp)

	if result.ConversationID != room.ID {
		t.Fatalf("expected conversation %s, got %s", room.ID, result.ConversationID)
	}
	if len(result.Turn) == 0 {
		t.Fatalf("expected turn entries, got %#v", result)
	}
	if result.Turn[0].Character.ID != aria.ID || !result.Turn[0].Spoke || result.Turn[0].Text == "" {
		t.Fatalf("expected mentioned character to answer first, got %#v", result.Turn[0])
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/conversations/"+room.ID+"/messages", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	messages := decode[[]types.Message](t, resp)
	if len(messages) < 2 {
		t.Fatalf("expected user message plus replies, got %#v", messages)
	}
	if messages[0].CharacterID != "" || messages[0].Seq != 1 {
		t.Fatalf("expected the user message first, got %#v", messages[0])
	}
	for i, message := range messages {
		if message.Seq != i+1 {
			t.Fatalf("expected gapless sequence, got %#v", messages)
		}
	}
}

func TestRoomChatValidation(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/rooms/nope/chat", map[string]string{"message": "hi"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown room, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	aria := createCharacter(t, server.URL, "Aria", types.RoleScholar, 0.7)
	room := decode[types.Conversation](t, doJSON(t, http.MethodPost, server.URL+"/api/rooms", map[string]any{
		"participant_ids": []string{aria.ID},
	}))

	resp = doJSON(t, http.MethodPost, server.URL+"/api/rooms/"+room.ID+"/chat", map[string]string{"message": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDirectChatCreatesConversation(t *testing.T) {
	server, _ := newTestServer(t)

	aria := createCharacter(t, server.URL, "Aria", types.RoleScholar, 0.9)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/chat", map[string]string{
		"character_id": aria.ID,
		"message":      "Aria, are the archives open?",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	first := decode[chatResponse](t, resp)
	if first.ConversationID == "" {
		t.Fatalf("expected a conversation id, got %#v", first)
	}
	if len(first.Turn) != 1 || !first.Turn[0].Spoke {
		t.Fatalf("expected the character to answer, got %#v", first.Turn)
	}

	// Second message reuses the same one-on-one conversation.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/chat", map[string]string{
		"character_id": aria.ID,
		"message":      "Aria, and the west wing?",
	})
	second := decode[chatResponse](t, resp)
	if second.ConversationID != first.ConversationID {
		t.Fatalf("expected conversation reuse, got %s and %s", first.ConversationID, second.ConversationID)
	}
}

func TestDirectChatUnknownCharacter(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/chat", map[string]string{
		"character_id": "nope",
		"message":      "hello",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

type fakeMemoryWriter struct {
	characterID string
	content     string
}

func (w *fakeMemoryWriter) Remember(ctx context.Context, characterID, content string) error {
	w.characterID = characterID
	w.content = content
	return nil
}

func TestAddMemory(t *testing.T) {
	store := storage.NewMemStore()
	engine := turn.NewEngine(turn.Config{
		Characters:    store.Characters,
		Conversations: store.Conversations,
		Messages:      store.Messages,
		Rand:          fixedRand{value: 0.0},
	})
	writer := &fakeMemoryWriter{}
	server := httptest.NewServer(NewRouter(store.Characters, store.Conversations, store.Messages, engine, writer))
	t.Cleanup(server.Close)

	aria := createCharacter(t, server.URL, "Aria", types.RoleScholar, 0.7)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/characters/"+aria.ID+"/memories", map[string]string{
		"content": "the traveler asked about the ruins",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	if writer.characterID != aria.ID || writer.content != "the traveler asked about the ruins" {
		t.Fatalf("expected memory stored, got %#v", writer)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/characters/"+aria.ID+"/memories", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAddMemoryUnavailableWithoutEmbedder(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/characters/any/memories", map[string]string{
		"content": "x",
	})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDeleteRoom(t *testing.T) {
	server, _ := newTestServer(t)

	aria := createCharacter(t, server.URL, "Aria", types.RoleScholar, 0.7)
	room := decode[types.Conversation](t, doJSON(t, http.MethodPost, server.URL+"/api/rooms", map[string]any{
		"participant_ids": []string{aria.ID},
	}))

	resp := doJSON(t, http.MethodDelete, server.URL+"/api/rooms/"+room.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	status := decode[map[string]string](t, resp)
	if status["status"] != "deactivated" {
		t.Fatalf("expected soft delete by default, got %#v", status)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/rooms", nil)
	rooms := decode[[]types.Conversation](t, resp)
	if len(rooms) != 0 {
		t.Fatalf("expected no active rooms after delete, got %#v", rooms)
	}
}

func TestDeleteRoomHard(t *testing.T) {
	server, store := newTestServer(t)

	aria := createCharacter(t, server.URL, "Aria", types.RoleScholar, 0.7)
	room := decode[types.Conversation](t, doJSON(t, http.MethodPost, server.URL+"/api/rooms", map[string]any{
		"participant_ids": []string{aria.ID},
	}))

	resp := doJSON(t, http.MethodDelete, server.URL+"/api/rooms/"+room.ID+"?hard=true", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	if _, err := store.Conversations.GetByID(context.Background(), room.ID); err != storage.ErrNotFound {
		t.Fatalf("expected room gone after hard delete, got %v", err)
	}
}
