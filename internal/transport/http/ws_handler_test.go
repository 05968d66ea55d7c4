package http

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizmaster/internal/domain"
	"quizmaster/internal/engine"
	"quizmaster/internal/infra/memory"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func testBank(n int) []domain.Question {
	questions := make([]domain.Question, n)
	for i := range questions {
		questions[i] = domain.Question{
			ID:           fmt.Sprintf("q%d", i),
			Text:         fmt.Sprintf("question %d", i),
			Options:      []string{"right", "wrong a", "wrong b", "wrong c"},
			CorrectIndex: 0,
			Category:     "Science",
			Difficulty:   domain.DifficultyEasy,
			Points:       1,
		}
	}
	return questions
}

func newTestServer(t *testing.T, bank []domain.Question) *httptest.Server {
	t.Helper()
	eng := engine.New(
		memory.NewSessionStore(),
		memory.NewBankRepository(memory.NewStaticBankLoader(bank), time.Minute),
		memory.NewStateStore(),
		engine.WithScheduler(engine.NewManualScheduler()),
		engine.WithRand(rand.New(rand.NewSource(1))),
	)
	handler := NewWSHandler(eng)
	server := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?userId=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readUntil scans the stream for the wanted message type, skipping
// everything in between.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) wsMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", msgType, err)
		}
		if msg.Type == msgType {
			return msg
		}
	}
}

func startPayload(count int) domain.QuizSettings {
	return domain.QuizSettings{
		Theme:         "light",
		SoundEnabled:  false,
		TimerMode:     domain.TimerNone,
		Difficulty:    domain.DifficultyMixed,
		Categories:    []string{"Science"},
		QuestionCount: count,
	}
}

func TestServeWSRejectsMissingUserID(t *testing.T) {
	server := newTestServer(t, testBank(2))
	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServeWSSendsInitialSnapshot(t *testing.T) {
	server := newTestServer(t, testBank(2))
	conn := dial(t, server, "u1")

	var settings domain.QuizSettings
	msg := readUntil(t, conn, "settings")
	if err := json.Unmarshal(msg.Payload, &settings); err != nil {
		t.Fatalf("settings payload: %v", err)
	}
	if settings.TimerMode != domain.TimerPerQuestion || settings.QuestionCount != 10 {
		t.Fatalf("expected default settings, got %+v", settings)
	}

	var stats domain.UserStats
	msg = readUntil(t, conn, "stats")
	if err := json.Unmarshal(msg.Payload, &stats); err != nil {
		t.Fatalf("stats payload: %v", err)
	}
	if stats.Level != 1 || len(stats.Achievements) == 0 {
		t.Fatalf("expected fresh stats, got %+v", stats)
	}

	var powerUps []domain.PowerUp
	msg = readUntil(t, conn, "powerups")
	if err := json.Unmarshal(msg.Payload, &powerUps); err != nil {
		t.Fatalf("powerups payload: %v", err)
	}
	if len(powerUps) != 3 {
		t.Fatalf("expected 3 power-ups, got %d", len(powerUps))
	}
}

func TestServeWSStartRejection(t *testing.T) {
	server := newTestServer(t, testBank(2))
	conn := dial(t, server, "u1")

	payload := startPayload(2)
	payload.Categories = nil
	send(t, conn, "start", payload)

	var errMsg struct {
		Message string `json:"message"`
	}
	msg := readUntil(t, conn, "error")
	if err := json.Unmarshal(msg.Payload, &errMsg); err != nil {
		t.Fatalf("error payload: %v", err)
	}
	if errMsg.Message != "select at least one category" {
		t.Fatalf("unexpected message %q", errMsg.Message)
	}
}

func TestServeWSQuizFlow(t *testing.T) {
	server := newTestServer(t, testBank(2))
	conn := dial(t, server, "u1")
	readUntil(t, conn, "powerups")

	send(t, conn, "start", startPayload(2))

	var state engine.SessionView
	msg := readUntil(t, conn, "state")
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatalf("state payload: %v", err)
	}
	if state.Total != 2 || state.Index != 0 || state.Selected != engine.NoAnswer {
		t.Fatalf("initial state: %+v", state)
	}
	if state.Question.CorrectIndex != engine.NoAnswer {
		t.Fatalf("correct index leaked before reveal: %+v", state.Question)
	}

	send(t, conn, "answer", map[string]int{"index": 0})
	send(t, conn, "reveal", nil)
	for {
		msg = readUntil(t, conn, "state")
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			t.Fatalf("state payload: %v", err)
		}
		if state.Revealed {
			break
		}
	}
	if state.Question.CorrectIndex != 0 {
		t.Fatalf("correct index missing after reveal: %+v", state.Question)
	}

	send(t, conn, "next", nil)
	send(t, conn, "answer", map[string]int{"index": 0})
	send(t, conn, "next", nil)

	var summary engine.Summary
	msg = readUntil(t, conn, "completed")
	if err := json.Unmarshal(msg.Payload, &summary); err != nil {
		t.Fatalf("summary payload: %v", err)
	}
	if summary.Outcome.Score != 2 || summary.Accuracy != 100 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Stats.TotalQuizzes != 1 {
		t.Fatalf("stats not folded: %+v", summary.Stats)
	}

	msg = readUntil(t, conn, "achievements")
	var unlocked []domain.Achievement
	if err := json.Unmarshal(msg.Payload, &unlocked); err != nil {
		t.Fatalf("achievements payload: %v", err)
	}
	if len(unlocked) == 0 {
		t.Fatalf("expected achievement notifications")
	}
}

func TestServeWSUpdateSettingsEcho(t *testing.T) {
	server := newTestServer(t, testBank(2))
	conn := dial(t, server, "u1")
	readUntil(t, conn, "powerups")

	updated := startPayload(5)
	updated.Theme = "dark"
	send(t, conn, "settings", updated)

	var settings domain.QuizSettings
	msg := readUntil(t, conn, "settings")
	if err := json.Unmarshal(msg.Payload, &settings); err != nil {
		t.Fatalf("settings payload: %v", err)
	}
	if settings.Theme != "dark" || settings.QuestionCount != 5 {
		t.Fatalf("settings not echoed: %+v", settings)
	}

	// A reconnect sees the persisted settings.
	conn2 := dial(t, server, "u1")
	msg = readUntil(t, conn2, "settings")
	if err := json.Unmarshal(msg.Payload, &settings); err != nil {
		t.Fatalf("settings payload: %v", err)
	}
	if settings.Theme != "dark" {
		t.Fatalf("settings not persisted: %+v", settings)
	}
}

func TestServeWSUnsupportedType(t *testing.T) {
	server := newTestServer(t, testBank(2))
	conn := dial(t, server, "u1")
	readUntil(t, conn, "powerups")

	send(t, conn, "bogus", nil)
	msg := readUntil(t, conn, "error")
	var errMsg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(msg.Payload, &errMsg); err != nil {
		t.Fatalf("error payload: %v", err)
	}
	if errMsg.Message != "unsupported message type" {
		t.Fatalf("unexpected message %q", errMsg.Message)
	}
}
