package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"quizmaster/internal/domain"
	"quizmaster/internal/engine"
)

// WSHandler wires the browser's event stream into the quiz engine. Each
// connection serves one user; quiz state flows back as JSON events.
type WSHandler struct {
	engine   *engine.Engine
	upgrader websocket.Upgrader
}

func NewWSHandler(eng *engine.Engine) *WSHandler {
	return &WSHandler{
		engine: eng,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Index int `json:"index"`
}

type jumpPayload struct {
	Index int `json:"index"`
}

type powerUpPayload struct {
	ID string `json:"id"`
}

type soundPayload struct {
	Kind domain.SoundKind `json:"kind"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var pumps sync.WaitGroup

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "settings", Payload: h.engine.Settings(ctx, userID)}
	send <- outboundMessage[any]{Type: "stats", Payload: h.engine.Stats(ctx, userID)}
	send <- outboundMessage[any]{Type: "powerups", Payload: h.engine.PowerUps()}

	// cancelSub tears down the active session subscription, if any.
	var cancelSub func()
	subscribe := func(session *engine.Session) {
		if cancelSub != nil {
			cancelSub()
		}
		events, cancel := session.Subscribe()
		cancelSub = cancel
		pumps.Add(1)
		go func() {
			defer pumps.Done()
			for {
				select {
				case event, ok := <-events:
					if !ok {
						return
					}
					select {
					case send <- translate(event):
					case <-closeSignals:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}()
	}

	sendErr := func(message string) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			settings := h.engine.Settings(ctx, userID)
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &settings); err != nil {
					sendErr("invalid settings payload")
					continue
				}
			}
			session, err := h.engine.Start(ctx, userID, settings)
			if err != nil {
				sendErr(startError(err))
				continue
			}
			subscribe(session)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendErr("invalid answer payload")
				continue
			}
			h.withSession(userID, sendErr, func(s *engine.Session) { s.SelectAnswer(payload.Index) })
		case "reveal":
			h.withSession(userID, sendErr, func(s *engine.Session) { s.Reveal() })
		case "next":
			h.withSession(userID, sendErr, func(s *engine.Session) { s.Advance() })
		case "previous":
			h.withSession(userID, sendErr, func(s *engine.Session) { s.Retreat() })
		case "jump":
			var payload jumpPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendErr("invalid jump payload")
				continue
			}
			h.withSession(userID, sendErr, func(s *engine.Session) { s.JumpTo(payload.Index) })
		case "pause":
			h.withSession(userID, sendErr, func(s *engine.Session) { s.Pause() })
		case "resume":
			h.withSession(userID, sendErr, func(s *engine.Session) { s.Resume() })
		case "powerup":
			var payload powerUpPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendErr("invalid powerup payload")
				continue
			}
			// Rejections are silent by design; the client disables
			// unaffordable or spent power-ups itself.
			h.engine.UsePowerUp(ctx, userID, payload.ID)
		case "settings":
			var settings domain.QuizSettings
			if err := json.Unmarshal(inbound.Payload, &settings); err != nil {
				sendErr("invalid settings payload")
				continue
			}
			h.engine.UpdateSettings(ctx, userID, settings)
			send <- outboundMessage[any]{Type: "settings", Payload: settings}
		case "abandon":
			h.engine.Abandon(userID)
			if cancelSub != nil {
				cancelSub()
				cancelSub = nil
			}
		default:
			sendErr("unsupported message type")
		}
	}

	if cancelSub != nil {
		cancelSub()
	}
	h.engine.Abandon(userID)
	close(closeSignals)
	pumps.Wait()
	close(send)
	<-writerDone
}

func (h *WSHandler) withSession(userID string, sendErr func(string), fn func(*engine.Session)) {
	session, err := h.engine.Session(userID)
	if err != nil {
		sendErr(err.Error())
		return
	}
	fn(session)
}

func translate(event engine.Event) outboundMessage[any] {
	switch event.Type {
	case engine.EventSound:
		return outboundMessage[any]{Type: "sound", Payload: soundPayload{Kind: event.Sound}}
	case engine.EventCompleted:
		return outboundMessage[any]{Type: "completed", Payload: event.Summary}
	case engine.EventAchievements:
		return outboundMessage[any]{Type: "achievements", Payload: event.Achievements}
	default:
		return outboundMessage[any]{Type: "state", Payload: event.State}
	}
}

// startError maps start rejections to user-visible "cannot start" messages.
func startError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoCategories):
		return "select at least one category"
	case errors.Is(err, domain.ErrNoQuestions):
		return "no questions match the selected filters"
	default:
		return err.Error()
	}
}
