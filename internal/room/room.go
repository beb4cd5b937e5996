// internal/room/room.go
package room

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Player is one participant in a room. The ID is the guest identity bound to the
// player's live connection; Name is client-supplied and not uniqueness-checked.
type Player struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"username"`
	Cards   []int     `json:"cards"`
	IsReady bool      `json:"isReady"`
}

// Conn is a player's outbound channel into the room. The gateway owns the
// websocket itself; the room only ever pushes onto OutChan.
type Conn struct {
	PlayerID uuid.UUID
	Cancel   func()
	OutChan  chan map[string]interface{}
}

// Write pushes msg onto the connection's OutChan without blocking. Messages are
// dropped if the channel is full or closed; the next full-snapshot broadcast
// resyncs the client, so a drop is never fatal.
func (c *Conn) Write(msg map[string]interface{}) {
	select {
	case c.OutChan <- msg:
	default:
		msgType, _ := msg["type"].(string)
		log.Printf("room: OutChan for player %s closed or full, dropped %q", c.PlayerID, msgType)
	}
}

// WriteError sends a single-recipient error notice with a machine-readable reason.
func (c *Conn) WriteError(reason string) {
	c.Write(map[string]interface{}{
		"type":   "error",
		"reason": reason,
	})
}

// Room is one game session. Players is ordered: the slice order defines the turn
// rotation for rounds. Mu guards all fields; every caller performing a
// read-validate-mutate-broadcast sequence must hold it for the whole sequence.
// There is intentionally no lock shared between rooms.
type Room struct {
	Code        string
	Players     []*Player
	HostID      uuid.UUID
	GameStarted bool
	Round       *Round

	Connections map[uuid.UUID]*Conn

	// closed is set when the last player is removed. A goroutine that resolved
	// the room before teardown and is waiting on Mu must not be able to join it
	// back to life after the registry has let go of it.
	closed bool

	Mu sync.Mutex
}

// MinPlayers is the smallest party a game can start with.
const MinPlayers = 3

// newRoom builds a room containing only its host.
func newRoom(code string, hostID uuid.UUID, hostName string, conn *Conn) *Room {
	r := &Room{
		Code:        code,
		Players:     []*Player{{ID: hostID, Name: hostName, Cards: []int{}}},
		HostID:      hostID,
		Connections: make(map[uuid.UUID]*Conn),
	}
	if conn != nil {
		r.Connections[hostID] = conn
	}
	return r
}

// AddPlayer appends a player to the rotation. Assumes the room lock is held.
func (r *Room) AddPlayer(id uuid.UUID, name string, conn *Conn) error {
	if r.closed {
		return ErrNotFound
	}
	if r.GameStarted {
		return ErrAlreadyStarted
	}
	r.Players = append(r.Players, &Player{ID: id, Name: name, Cards: []int{}})
	if conn != nil {
		r.Connections[id] = conn
	}
	return nil
}

// RemovePlayer drops a player from the rotation, preserving the relative order of
// everyone else. If the host left and the room is non-empty, the player now at
// index 0 becomes host. Removing the last player closes the room for good.
// Returns whether the player was present. Assumes the room lock is held; the
// caller is responsible for deleting an emptied room from the registry before
// releasing the lock.
func (r *Room) RemovePlayer(id uuid.UUID) bool {
	idx := r.playerIndex(id)
	if idx < 0 {
		return false
	}
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	delete(r.Connections, id)
	if len(r.Players) == 0 {
		r.closed = true
	} else if r.HostID == id {
		r.HostID = r.Players[0].ID
	}
	return true
}

// Empty reports whether no players remain. Assumes the room lock is held.
func (r *Room) Empty() bool {
	return len(r.Players) == 0
}

// Closed reports whether the room has been torn down. Assumes the room lock is held.
func (r *Room) Closed() bool {
	return r.closed
}

// playerIndex returns the rotation position of id, or -1.
func (r *Room) playerIndex(id uuid.UUID) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// playerAt returns the player at a rotation index, or nil when the index no
// longer resolves (a role holder may have left mid-round).
func (r *Room) playerAt(idx int) *Player {
	if idx < 0 || idx >= len(r.Players) {
		return nil
	}
	return r.Players[idx]
}

// Member reports whether id is currently in the room. Assumes the room lock is held.
func (r *Room) Member(id uuid.UUID) bool {
	return r.playerIndex(id) >= 0
}

// BroadcastAll pushes msg to every connected member. Sends are non-blocking, so
// holding the room lock across a broadcast is safe. Assumes the room lock is held.
func (r *Room) BroadcastAll(msg map[string]interface{}) {
	for _, conn := range r.Connections {
		conn.Write(msg)
	}
}

// Snapshot is the full authoritative room state sent to clients after every
// mutation. Field order is fixed here so an unchanged room marshals identically
// on every fetch.
type Snapshot struct {
	Code         string    `json:"code"`
	Players      []Player  `json:"players"`
	HostID       uuid.UUID `json:"hostId"`
	GameStarted  bool      `json:"gameStarted"`
	CurrentRound *Round    `json:"currentRound"`
}

// Snapshot deep-copies the room state so the result can outlive the lock.
// Assumes the room lock is held.
func (r *Room) Snapshot() *Snapshot {
	players := make([]Player, len(r.Players))
	for i, p := range r.Players {
		players[i] = *p
		players[i].Cards = append([]int(nil), p.Cards...)
	}
	snap := &Snapshot{
		Code:        r.Code,
		Players:     players,
		HostID:      r.HostID,
		GameStarted: r.GameStarted,
	}
	if r.Round != nil {
		round := *r.Round
		snap.CurrentRound = &round
	}
	return snap
}
