// internal/handlers/gateway.go
package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"promptduel/internal/journal"
	"promptduel/internal/room"
)

// handleMessage interprets the "type" field of an inbound packet and applies
// the corresponding room mutation. Room-creation cannot fail; join/start/get
// surface error notices to the caller; mid-round actions on a missing room or
// rejected transition are silent no-ops (logged at debug). The client never
// crashes the room, it just gets no broadcast for the attempt.
func (srv *GameServer) handleMessage(ctx context.Context, sess *session, packet map[string]interface{}) {
	action, _ := packet["type"].(string)

	switch action {
	case "create-room":
		srv.handleCreateRoom(ctx, sess, packet)
	case "join-room":
		srv.handleJoinRoom(ctx, sess, packet)
	case "get-room":
		srv.handleGetRoom(sess, packet)
	case "start-game":
		srv.handleStartGame(ctx, sess, packet)
	case "submit-prompt":
		srv.handleSubmitPrompt(ctx, sess, packet)
	case "select-player":
		srv.handleSelectPlayer(ctx, sess, packet)
	case "play-card":
		srv.handlePlayCard(ctx, sess, packet)
	case "choose-reveal":
		srv.handleChooseReveal(ctx, sess, packet)
	case "next-round":
		srv.handleNextRound(ctx, sess, packet)
	default:
		srv.Logger.Warnf("unknown action %q from guest %v", action, sess.userID)
		sess.conn.WriteError("unknown_action")
	}
}

func (srv *GameServer) handleCreateRoom(ctx context.Context, sess *session, packet map[string]interface{}) {
	if sess.roomCode != "" {
		sess.conn.WriteError("in_room")
		return
	}
	name, _ := packet["displayName"].(string)

	r := srv.Registry.Create(sess.userID, name, sess.conn)
	sess.roomCode = r.Code

	r.Mu.Lock()
	snap := r.Snapshot()
	r.Mu.Unlock()

	sess.conn.Write(map[string]interface{}{
		"type":     "room-created",
		"roomCode": r.Code,
		"room":     snap,
	})
	srv.Logger.Infof("room %s created by guest %v (%s)", r.Code, sess.userID, name)
	srv.journalAction(ctx, r.Code, sess.userID, "create-room")
}

func (srv *GameServer) handleJoinRoom(ctx context.Context, sess *session, packet map[string]interface{}) {
	if sess.roomCode != "" {
		sess.conn.WriteError("in_room")
		return
	}
	code, _ := packet["roomCode"].(string)
	name, _ := packet["displayName"].(string)

	r, ok := srv.Registry.Get(code)
	if !ok {
		sess.conn.WriteError(room.ErrNotFound.Error())
		return
	}

	r.Mu.Lock()
	if err := r.AddPlayer(sess.userID, name, sess.conn); err != nil {
		r.Mu.Unlock()
		sess.conn.WriteError(err.Error())
		return
	}
	sess.roomCode = r.Code
	srv.broadcast(r, "player-joined", nil)
	r.Mu.Unlock()

	srv.Logger.Infof("guest %v (%s) joined room %s", sess.userID, name, r.Code)
	srv.journalAction(ctx, r.Code, sess.userID, "join-room")
}

func (srv *GameServer) handleGetRoom(sess *session, packet map[string]interface{}) {
	code, _ := packet["roomCode"].(string)

	r, ok := srv.Registry.Get(code)
	if !ok {
		sess.conn.WriteError(room.ErrNotFound.Error())
		return
	}

	r.Mu.Lock()
	snap := r.Snapshot()
	r.Mu.Unlock()

	sess.conn.Write(map[string]interface{}{
		"type": "room-state",
		"room": snap,
	})
}

func (srv *GameServer) handleStartGame(ctx context.Context, sess *session, packet map[string]interface{}) {
	code, _ := packet["roomCode"].(string)

	r, ok := srv.Registry.Get(code)
	if !ok {
		sess.conn.WriteError(room.ErrNotFound.Error())
		return
	}

	r.Mu.Lock()
	if err := r.Start(sess.userID); err != nil {
		r.Mu.Unlock()
		sess.conn.WriteError(err.Error())
		return
	}
	srv.broadcast(r, "game-started", nil)
	r.Mu.Unlock()

	srv.Logger.Infof("game started in room %s", r.Code)
	srv.journalAction(ctx, r.Code, sess.userID, "start-game")
}

func (srv *GameServer) handleSubmitPrompt(ctx context.Context, sess *session, packet map[string]interface{}) {
	code, _ := packet["roomCode"].(string)
	prompt, _ := packet["prompt"].(string)

	r, ok := srv.Registry.Get(code)
	if !ok {
		return
	}

	r.Mu.Lock()
	if err := r.SubmitPrompt(sess.userID, prompt); err != nil {
		r.Mu.Unlock()
		srv.Logger.Debugf("room %s: submit-prompt rejected for %v: %v", r.Code, sess.userID, err)
		return
	}
	srv.broadcast(r, "prompt-submitted", nil)
	r.Mu.Unlock()

	srv.journalAction(ctx, r.Code, sess.userID, "submit-prompt")
}

func (srv *GameServer) handleSelectPlayer(ctx context.Context, sess *session, packet map[string]interface{}) {
	code, _ := packet["roomCode"].(string)
	targetStr, _ := packet["playerId"].(string)
	targetID, err := uuid.Parse(targetStr)
	if err != nil {
		srv.Logger.Debugf("select-player with unparseable playerId %q from %v", targetStr, sess.userID)
		return
	}

	r, ok := srv.Registry.Get(code)
	if !ok {
		return
	}

	r.Mu.Lock()
	if err := r.SelectPlayer(sess.userID, targetID); err != nil {
		r.Mu.Unlock()
		srv.Logger.Debugf("room %s: select-player rejected for %v: %v", r.Code, sess.userID, err)
		return
	}
	srv.broadcast(r, "player-selected", nil)
	r.Mu.Unlock()

	srv.journalAction(ctx, r.Code, sess.userID, "select-player")
}

func (srv *GameServer) handlePlayCard(ctx context.Context, sess *session, packet map[string]interface{}) {
	code, _ := packet["roomCode"].(string)
	idxFloat, ok := packet["cardIndex"].(float64)
	if !ok {
		srv.Logger.Debugf("play-card without numeric cardIndex from %v", sess.userID)
		return
	}
	cardIndex := int(idxFloat)

	r, found := srv.Registry.Get(code)
	if !found {
		return
	}

	r.Mu.Lock()
	bothPlayed, writerWins, err := r.PlayCard(sess.userID, cardIndex)
	if err != nil {
		r.Mu.Unlock()
		srv.Logger.Debugf("room %s: play-card rejected for %v: %v", r.Code, sess.userID, err)
		return
	}
	if bothPlayed {
		srv.broadcast(r, "cards-played", map[string]interface{}{"writerWins": writerWins})
	} else {
		srv.broadcast(r, "card-played", nil)
	}
	r.Mu.Unlock()

	srv.journalAction(ctx, r.Code, sess.userID, "play-card")
}

func (srv *GameServer) handleChooseReveal(ctx context.Context, sess *session, packet map[string]interface{}) {
	code, _ := packet["roomCode"].(string)
	reveal, _ := packet["reveal"].(bool)

	r, ok := srv.Registry.Get(code)
	if !ok {
		return
	}

	r.Mu.Lock()
	if err := r.ChooseReveal(sess.userID, reveal); err != nil {
		r.Mu.Unlock()
		srv.Logger.Debugf("room %s: choose-reveal rejected for %v: %v", r.Code, sess.userID, err)
		return
	}
	srv.broadcast(r, "reveal-chosen", nil)
	r.Mu.Unlock()

	srv.journalAction(ctx, r.Code, sess.userID, "choose-reveal")
}

func (srv *GameServer) handleNextRound(ctx context.Context, sess *session, packet map[string]interface{}) {
	code, _ := packet["roomCode"].(string)

	r, ok := srv.Registry.Get(code)
	if !ok {
		return
	}

	r.Mu.Lock()
	if err := r.AdvanceRound(); err != nil {
		r.Mu.Unlock()
		srv.Logger.Debugf("room %s: next-round rejected for %v: %v", r.Code, sess.userID, err)
		return
	}
	srv.broadcast(r, "round-started", nil)
	r.Mu.Unlock()

	srv.journalAction(ctx, r.Code, sess.userID, "next-round")
}

// handleDisconnect removes the departing guest from whichever room they occupy.
// An emptied room is deleted from the registry; otherwise host succession has
// already happened inside RemovePlayer and the survivors get the update. The
// scan covers every room rather than trusting sess.roomCode, as a backstop
// against the session record and room membership ever drifting apart.
func (srv *GameServer) handleDisconnect(sess *session) {
	for _, r := range srv.Registry.Rooms() {
		r.Mu.Lock()
		if !r.RemovePlayer(sess.userID) {
			r.Mu.Unlock()
			continue
		}
		if r.Empty() {
			// Deregister before releasing the lock: a join racing this teardown
			// must never resolve the room after its last player is gone. Registry
			// methods never take a room lock, so the ordering cannot deadlock.
			srv.Registry.Delete(r.Code)
			r.Mu.Unlock()
			srv.Logger.Infof("room %s deleted after last player left", r.Code)
		} else {
			srv.broadcast(r, "player-left", nil)
			r.Mu.Unlock()
			srv.Logger.Infof("guest %v left room %s", sess.userID, r.Code)
		}
		srv.journalAction(context.Background(), r.Code, sess.userID, "disconnect")
	}
	sess.roomCode = ""
}

// broadcast sends the full room snapshot to every member under the given event
// name, merging any extra fields into the envelope. Assumes r.Mu is held; the
// underlying sends are non-blocking.
func (srv *GameServer) broadcast(r *room.Room, event string, extra map[string]interface{}) {
	msg := map[string]interface{}{
		"type": event,
		"room": r.Snapshot(),
	}
	for k, v := range extra {
		msg[k] = v
	}
	r.BroadcastAll(msg)
}

// journalAction feeds the optional Redis action journal. Failures are logged
// and swallowed; the journal must never stall or fail a game action.
func (srv *GameServer) journalAction(ctx context.Context, code string, actor uuid.UUID, action string) {
	if srv.Journal == nil {
		return
	}
	rec := journal.ActionRecord{
		RoomCode:  code,
		ActorID:   actor,
		Action:    action,
		Timestamp: time.Now().Unix(),
	}
	if err := srv.Journal.Publish(ctx, rec); err != nil {
		srv.Logger.Warnf("journal publish failed for room %s: %v", code, err)
	}
}
