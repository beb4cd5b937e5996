// internal/room/errors.go
package room

import "errors"

// Typed rejections returned by room and round transitions. Every (phase, action)
// pair resolves to either a mutation or one of these; nothing is implicitly ignored
// at this layer. The gateway decides which rejections surface to the client and
// which degrade to silent no-ops.
var (
	ErrNotFound         = errors.New("room_not_found")
	ErrAlreadyStarted   = errors.New("game_already_started")
	ErrNotStarted       = errors.New("game_not_started")
	ErrNotHost          = errors.New("not_host")
	ErrNotEnoughPlayers = errors.New("not_enough_players")
	ErrNotAuthorized    = errors.New("not_authorized")
	ErrWrongPhase       = errors.New("wrong_phase")
	ErrUnknownPlayer    = errors.New("unknown_player")
	ErrInvalidCardIndex = errors.New("invalid_card_index")
	ErrAlreadyPlayed    = errors.New("card_already_played")
)
