// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"promptduel/internal/middleware"
	"promptduel/internal/room"
)

// session ties one live websocket to a guest identity and, once the client has
// created or joined a room, to that room's code. A session occupies at most one
// room at a time; roomCode is only touched from the session's own read loop.
type session struct {
	userID   uuid.UUID
	conn     *room.Conn
	roomCode string
}

// RoomWSHandler upgrades the connection, establishes the guest identity, and
// runs the read/write pumps. All game actions arrive as JSON messages on this
// single socket; the room they target is resolved per message.
func RoomWSHandler(logger *logrus.Logger, srv *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr

		// Identity must be settled before Accept: no Set-Cookie after the 101.
		guestID, err := EnsureGuest(w, r)
		if err != nil {
			logger.Warnf("guest identity failed for %s: %v", remoteAddr, err)
			http.Error(w, "could not establish guest identity", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"party"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "party" {
			c.Close(BadSubprotocolError, "client must speak the party subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		sess := &session{
			userID: guestID,
			conn: &room.Conn{
				PlayerID: guestID,
				Cancel:   cancel,
				OutChan:  make(chan map[string]interface{}, 16),
			},
		}

		middleware.LogWebSocketConnect(logger, remoteAddr, r.URL.Path)
		logger.Infof("Guest %v (%s) connected", guestID, remoteAddr)

		go writePump(ctx, c, sess.conn, logger)
		readErr := readPump(ctx, c, sess, srv, logger)

		// The socket is gone; whatever room the guest occupied must let go of them.
		srv.handleDisconnect(sess)
		cancel()
		middleware.LogWebSocketDisconnect(logger, remoteAddr, r.URL.Path, readErr)
	}
}

// readPump handles incoming messages until the connection closes. Each message
// is dispatched to the gateway, which serializes all work on a room behind that
// room's lock.
func readPump(ctx context.Context, c *websocket.Conn, sess *session, srv *GameServer, logger *logrus.Logger) error {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			logger.Warnf("read error for guest %v: %v (CloseStatus: %d)", sess.userID, err, closeStatus)
			return err
		}

		if typ != websocket.MessageText {
			logger.Warnf("received non-text message type %d from guest %v. Ignoring.", typ, sess.userID)
			continue
		}

		var packet map[string]interface{}
		if err := json.Unmarshal(msg, &packet); err != nil {
			logger.Warnf("invalid json from guest %v: %v", sess.userID, err)
			sess.conn.WriteError("bad_payload")
			continue
		}

		srv.handleMessage(ctx, sess, packet)
	}
}

// writePump drains the session's outbound channel onto the socket and pings
// periodically to keep intermediaries from dropping the connection.
func writePump(ctx context.Context, c *websocket.Conn, conn *room.Conn, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-conn.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("failed to marshal outgoing msg for guest %v: %v", conn.PlayerID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("write error for guest %v: %v", conn.PlayerID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
