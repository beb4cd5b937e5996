// internal/handlers/server.go
package handlers

import (
	"github.com/sirupsen/logrus"

	"promptduel/internal/journal"
	"promptduel/internal/room"
)

// GameServer wires the gateway to the room registry and the optional action
// journal. The registry is owned here for the process lifetime; nothing else
// holds a long-lived reference to it.
type GameServer struct {
	Registry *room.Registry
	Journal  *journal.Journal
	Logger   *logrus.Logger
}

// NewGameServer constructs a GameServer with a fresh registry.
func NewGameServer(logger *logrus.Logger, j *journal.Journal) *GameServer {
	return &GameServer{
		Registry: room.NewRegistry(),
		Journal:  j,
		Logger:   logger,
	}
}
