package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmhunt/backend/internal/engine"
	"github.com/farmhunt/backend/internal/hub"
	"github.com/farmhunt/backend/internal/match"
	"github.com/farmhunt/backend/internal/types"
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "player"
		}

		reply := make(chan *match.Match, 1)
		h.Inbox() <- hub.GetMatch{Code: code, Reply: reply}
		mt := <-reply
		if mt == nil {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// The connection identity. Every command this connection sends is
		// stamped with it server-side; clients cannot act as anyone else.
		clientID := engine.ClientID(uuid.NewString())

		if err := writeJSON(r.Context(), conn, types.ServerMessage{Type: "Welcome", ClientID: string(clientID)}); err != nil {
			return
		}

		out := make(chan match.Delivery, 16)
		mt.Inbox() <- match.Join{ClientID: clientID, Outbox: out}
		mt.Inbox() <- match.FromClient{Cmd: engine.Command{Type: engine.CmdJoin, Actor: clientID, Name: name}}
		defer func() {
			mt.Inbox() <- match.FromClient{Cmd: engine.Command{Type: engine.CmdLeave, Actor: clientID}}
			mt.Inbox() <- match.Leave{ClientID: clientID}
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			// A closed outbox means the match dropped or shut down this
			// client; closing the conn unblocks the reader below.
			defer conn.Close(websocket.StatusGoingAway, "outbox closed")
			for d := range out {
				msg := types.ServerMessage{Version: d.Version}
				if d.Snapshot != nil {
					msg.Type = "Snapshot"
					msg.Snapshot = d.Snapshot
				} else {
					msg.Type = "Events"
					msg.Events = d.Events
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				err := writeJSON(ctx, conn, msg)
				cancel()
				if err != nil {
					return
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}

			cmd, ok := toCommand(cm, clientID)
			if !ok {
				log.Debug("unknown client message", zap.String("type", cm.Type), zap.String("client", string(clientID)))
				_ = writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "unknown type"})
				continue
			}

			mt.Inbox() <- match.FromClient{Cmd: cmd}
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

// toCommand maps a wire message onto an engine command. The actor is always
// the connection identity; only the purchase path also carries the client's
// claimed id so the engine can reject spoofed buyers.
func toCommand(m types.ClientMessage, actor engine.ClientID) (engine.Command, bool) {
	cmd := engine.Command{
		Actor:     actor,
		Claimed:   engine.ClientID(m.ClientID),
		Target:    engine.ClientID(m.Target),
		Tag:       engine.InteractTag(m.Tag),
		ObjectID:  m.ObjectID,
		CardItem:  engine.CardItemID(m.CardItem),
		CardState: engine.CardState(m.CardState),
		Text:      m.Text,
		Pos:       engine.Vec2{X: m.X, Y: m.Y},
	}

	switch m.Type {
	case "StartGame":
		cmd.Type = engine.CmdStartGame
	case "Move":
		cmd.Type = engine.CmdMove
	case "Chat":
		cmd.Type = engine.CmdChat
	case "RequestKill":
		cmd.Type = engine.CmdRequestKill
	case "CommitKill":
		cmd.Type = engine.CmdCommitKill
	case "RequestInteract":
		cmd.Type = engine.CmdRequestInteract
	case "CommitInteract":
		cmd.Type = engine.CmdCommitInteract
	case "ReportCorpse":
		cmd.Type = engine.CmdReportCorpse
	case "Sabotage":
		cmd.Type = engine.CmdSabotage
	case "VentMove":
		cmd.Type = engine.CmdVentMove
	case "VentExit":
		cmd.Type = engine.CmdVentExit
	case "RequestDisplayCards":
		cmd.Type = engine.CmdRequestDisplayCards
	case "RequestPurchase":
		cmd.Type = engine.CmdRequestPurchase
	case "UpdateCardState":
		cmd.Type = engine.CmdUpdateCardState
	case "CastVote":
		cmd.Type = engine.CmdCastVote
	case "CloseTrial":
		cmd.Type = engine.CmdCloseTrial
	default:
		// Join/Leave are connection-driven and Tick is internal; a client
		// naming them lands here too.
		return engine.Command{}, false
	}
	return cmd, true
}
