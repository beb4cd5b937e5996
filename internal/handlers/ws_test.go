// internal/handlers/ws_test.go
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptduel/internal/auth"
)

func wsSend(t *testing.T, ctx context.Context, c *websocket.Conn, msg map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, c.Write(ctx, websocket.MessageText, data))
}

func wsRecv(t *testing.T, ctx context.Context, c *websocket.Conn) map[string]interface{} {
	t.Helper()
	typ, data, err := c.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageText, typ)
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// TestWebSocketSessionEndToEnd exercises the real upgrade path: subprotocol
// negotiation, guest identity, the pumps, and teardown of an emptied room.
func TestWebSocketSessionEndToEnd(t *testing.T) {
	auth.Init()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	srv := NewGameServer(logger, nil)

	ts := httptest.NewServer(RoomWSHandler(logger, srv))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{"party"},
	})
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "test done")
	assert.Equal(t, "party", c.Subprotocol())

	wsSend(t, ctx, c, map[string]interface{}{"type": "create-room", "displayName": "Alice"})
	ev := wsRecv(t, ctx, c)
	require.Equal(t, "room-created", ev["type"])
	code, _ := ev["roomCode"].(string)
	require.Len(t, code, 6)

	roomObj, ok := ev["room"].(map[string]interface{})
	require.True(t, ok)
	players, ok := roomObj["players"].([]interface{})
	require.True(t, ok)
	require.Len(t, players, 1)
	player := players[0].(map[string]interface{})
	assert.Equal(t, "Alice", player["username"])
	assert.Equal(t, player["id"], roomObj["hostId"])
	assert.Equal(t, false, roomObj["gameStarted"])
	assert.Nil(t, roomObj["currentRound"])

	// Snapshot fetches are idempotent: two get-rooms with no mutation between
	// them return identical payloads.
	wsSend(t, ctx, c, map[string]interface{}{"type": "get-room", "roomCode": code})
	first := wsRecv(t, ctx, c)
	require.Equal(t, "room-state", first["type"])
	wsSend(t, ctx, c, map[string]interface{}{"type": "get-room", "roomCode": code})
	second := wsRecv(t, ctx, c)
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, a, b)

	// Closing the socket must tear the now-empty room down.
	c.Close(websocket.StatusNormalClosure, "leaving")
	require.Eventually(t, func() bool {
		return srv.Registry.Len() == 0
	}, 2*time.Second, 10*time.Millisecond, "empty room should be deleted after disconnect")
}
