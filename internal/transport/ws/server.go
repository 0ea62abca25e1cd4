package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"slowtown.ai/internal/protocol"
	"slowtown.ai/internal/sim/world"
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]string // resume token -> session id
	live     map[string]bool   // connected session ids
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	s := &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		sessions: map[string]string{},
		live:     map[string]bool{},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID, out := s.handshake(conn)
		if sessionID == "" {
			return
		}
		defer s.release(sessionID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				continue
			}
			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				continue
			}
			if act.ProtocolVersion != protocol.Version {
				rejectAct(out, act.ID, protocol.ErrProtoVersion, "unsupported protocol_version")
				continue
			}
			if !protocol.IsKnownAction(act.Action) {
				rejectAct(out, act.ID, protocol.ErrProtoBadRequest, "unknown action: "+act.Action)
				continue
			}
			select {
			case s.world.Inbox() <- world.ActionEnvelope{SessionID: sessionID, Act: act}:
			case <-ctx.Done():
			}
		}

		s.world.Leave() <- sessionID
	}
}

func (s *Server) handshake(conn *websocket.Conn) (sessionID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, websocket.ClosePolicyViolation, "expected HELLO")
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		closeWith(conn, websocket.CloseUnsupportedData, protocol.ErrProtoBadRequest)
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, websocket.ClosePolicyViolation, protocol.ErrProtoVersion)
		return "", nil
	}
	if hello.PlayerName == "" {
		hello.PlayerName = "player"
	}

	maxQ := hello.Capabilities.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	out = make(chan []byte, maxQ)

	resumeToken := ""
	if hello.Auth != nil {
		resumeToken = strings.TrimSpace(hello.Auth.Token)
	}
	sessionID, resumeToken = s.claim(resumeToken)

	respCh := make(chan world.JoinResponse, 1)
	s.world.Join() <- world.JoinRequest{
		SessionID:   sessionID,
		ResumeToken: resumeToken,
		Name:        hello.PlayerName,
		NoState:     hello.Capabilities.NoState,
		Out:         out,
		Resp:        respCh,
	}
	resp := <-respCh

	// Send welcome + catalogs immediately.
	if err := writeJSON(conn, resp.Welcome); err != nil {
		s.world.Leave() <- sessionID
		s.release(sessionID)
		return "", nil
	}
	for _, c := range resp.Catalogs {
		if err := writeJSON(conn, c); err != nil {
			s.world.Leave() <- sessionID
			s.release(sessionID)
			return "", nil
		}
	}
	if s.log != nil {
		s.log.Printf("session %s joined as %q", sessionID, hello.PlayerName)
	}
	return sessionID, out
}

// claim resolves a resume token to its session. Unknown tokens, or tokens
// whose session is still connected, get a fresh session.
func (s *Server) claim(token string) (sessionID, resumeToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.sessions[token]; ok && token != "" && !s.live[id] {
		s.live[id] = true
		return id, token
	}
	sessionID = "S" + uuid.NewString()
	resumeToken = uuid.NewString()
	s.sessions[resumeToken] = sessionID
	s.live[sessionID] = true
	return sessionID, resumeToken
}

func (s *Server) release(sessionID string) {
	s.mu.Lock()
	delete(s.live, sessionID)
	s.mu.Unlock()
}

func rejectAct(out chan []byte, actID, code, msg string) {
	if actID == "" {
		return
	}
	b, err := json.Marshal(protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          actID,
		Code:            code,
		Message:         msg,
	})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
