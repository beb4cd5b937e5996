// internal/room/registry.go
package room

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// Registry owns every active room for the lifetime of the process. It is an
// explicitly constructed instance handed to the gateway; there is no ambient
// global table. The registry mutex guards only the map itself; per-room state
// is guarded by each room's own lock, so rooms stay independent of each other.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create generates an unused room code and registers a new room with the caller
// as sole player and host. Collisions are unlikely at 36^6 codes, but the loop
// checks rather than hopes.
func (reg *Registry) Create(hostID uuid.UUID, hostName string, conn *Conn) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	code := generateCode()
	for {
		if _, taken := reg.rooms[code]; !taken {
			break
		}
		code = generateCode()
	}
	r := newRoom(code, hostID, hostName, conn)
	reg.rooms[code] = r
	return r
}

// Get looks up a room by code. Client-supplied codes are case-insensitive;
// they are folded to the canonical upper-case form here.
func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[strings.ToUpper(code)]
	return r, ok
}

// Delete removes a room from the registry. Called when the last player leaves.
func (reg *Registry) Delete(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, strings.ToUpper(code))
}

// Rooms returns a snapshot slice of all active rooms, so callers can iterate
// (e.g. the disconnect scan) without holding the registry lock.
func (reg *Registry) Rooms() []*Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// Len reports the number of active rooms.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

func generateCode() string {
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}
