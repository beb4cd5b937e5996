// internal/handlers/http.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// roomInfo is the public listing shape for one active room. Hands, prompts and
// round internals stay off this surface.
type roomInfo struct {
	Code        string `json:"code"`
	PlayerCount int    `json:"playerCount"`
	GameStarted bool   `json:"gameStarted"`
}

// ListRoomsHandler returns a JSON array describing every active room.
func ListRoomsHandler(srv *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		infos := []roomInfo{}
		for _, rm := range srv.Registry.Rooms() {
			rm.Mu.Lock()
			if rm.Closed() {
				// Torn down after this listing resolved it; never show an empty room.
				rm.Mu.Unlock()
				continue
			}
			infos = append(infos, roomInfo{
				Code:        rm.Code,
				PlayerCount: len(rm.Players),
				GameStarted: rm.GameStarted,
			})
			rm.Mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(infos); err != nil {
			srv.Logger.Warnf("failed to encode room list: %v", err)
		}
	}
}

// HealthzHandler is a trivial liveness probe.
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
